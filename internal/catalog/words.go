package catalog

import "github.com/ad/go-telegram-wordwizard/internal/models"

var defaultWords = []models.Word{
	{ID: "animal-1", Text: "cat", Category: models.CategoryAnimals, Difficulty: models.DifficultyEasy, Hint: "A small furry pet that meows"},
	{ID: "animal-2", Text: "dog", Category: models.CategoryAnimals, Difficulty: models.DifficultyEasy, Hint: "A pet that barks"},
	{ID: "animal-3", Text: "cow", Category: models.CategoryAnimals, Difficulty: models.DifficultyEasy, Hint: "Gives us milk"},
	{ID: "animal-4", Text: "tiger", Category: models.CategoryAnimals, Difficulty: models.DifficultyMedium, Hint: "A big cat with stripes"},
	{ID: "animal-5", Text: "zebra", Category: models.CategoryAnimals, Difficulty: models.DifficultyMedium, Hint: "Has black and white stripes"},
	{ID: "animal-6", Text: "elephant", Category: models.CategoryAnimals, Difficulty: models.DifficultyHard, Hint: "The largest land animal with a trunk"},
	{ID: "animal-7", Text: "giraffe", Category: models.CategoryAnimals, Difficulty: models.DifficultyHard, Hint: "Has a very long neck"},

	{ID: "car-1", Text: "car", Category: models.CategoryCars, Difficulty: models.DifficultyEasy, Hint: "A vehicle with four wheels"},
	{ID: "car-2", Text: "bus", Category: models.CategoryCars, Difficulty: models.DifficultyEasy, Hint: "A large vehicle that carries many people"},
	{ID: "car-3", Text: "truck", Category: models.CategoryCars, Difficulty: models.DifficultyMedium, Hint: "A large vehicle used to carry goods"},
	{ID: "car-4", Text: "jeep", Category: models.CategoryCars, Difficulty: models.DifficultyMedium, Hint: "An off-road vehicle"},
	{ID: "car-5", Text: "ambulance", Category: models.CategoryCars, Difficulty: models.DifficultyHard, Hint: "A vehicle that takes sick people to the hospital"},
	{ID: "car-6", Text: "motorcycle", Category: models.CategoryCars, Difficulty: models.DifficultyHard, Hint: "A two-wheeled vehicle"},
}
