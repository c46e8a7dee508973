package models

type Category string

const (
	CategoryAnimals Category = "animals"
	CategoryCars    Category = "cars"
)

var Categories = []Category{CategoryAnimals, CategoryCars}

func (c Category) IsValid() bool {
	switch c {
	case CategoryAnimals, CategoryCars:
		return true
	default:
		return false
	}
}

func (c Category) Title() string {
	switch c {
	case CategoryAnimals:
		return "Animals"
	case CategoryCars:
		return "Cars"
	default:
		return string(c)
	}
}

type Difficulty int

const (
	// DifficultyAny asks the engine to pick tiers adaptively from the player's level.
	DifficultyAny    Difficulty = 0
	DifficultyEasy   Difficulty = 1
	DifficultyMedium Difficulty = 2
	DifficultyHard   Difficulty = 3
)

var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

func (d Difficulty) IsValid() bool {
	return d >= DifficultyEasy && d <= DifficultyHard
}

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	default:
		return "any"
	}
}

func ParseDifficulty(s string) (Difficulty, bool) {
	switch s {
	case "1", "easy":
		return DifficultyEasy, true
	case "2", "medium":
		return DifficultyMedium, true
	case "3", "hard":
		return DifficultyHard, true
	default:
		return DifficultyAny, false
	}
}
