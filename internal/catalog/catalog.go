// Package catalog holds the read-only list of words the game can ask for.
package catalog

import (
	"errors"
	"fmt"

	"github.com/ad/go-telegram-wordwizard/internal/models"
)

var (
	ErrDuplicateWord = errors.New("duplicate word id")
	ErrInvalidWord   = errors.New("invalid word")
)

// Catalog is immutable after construction; lookups hand out copies.
type Catalog struct {
	words []models.Word
	byID  map[string]int
}

func New(words []models.Word) (*Catalog, error) {
	c := &Catalog{
		words: make([]models.Word, 0, len(words)),
		byID:  make(map[string]int, len(words)),
	}
	for _, w := range words {
		if err := ValidateWord(w); err != nil {
			return nil, err
		}
		if _, exists := c.byID[w.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateWord, w.ID)
		}
		c.byID[w.ID] = len(c.words)
		c.words = append(c.words, w)
	}
	return c, nil
}

// Default returns the built-in word list.
func Default() *Catalog {
	c, err := New(defaultWords)
	if err != nil {
		panic(fmt.Sprintf("built-in catalog is invalid: %v", err))
	}
	return c
}

func ValidateWord(w models.Word) error {
	if w.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidWord)
	}
	if !w.Category.IsValid() {
		return fmt.Errorf("%w: %s has unknown category %q", ErrInvalidWord, w.ID, w.Category)
	}
	if !w.Difficulty.IsValid() {
		return fmt.Errorf("%w: %s has difficulty %d outside 1..3", ErrInvalidWord, w.ID, w.Difficulty)
	}
	if w.Text == "" {
		return fmt.Errorf("%w: %s has empty text", ErrInvalidWord, w.ID)
	}
	for _, r := range w.Text {
		if r < 'a' || r > 'z' {
			return fmt.Errorf("%w: %s text %q must be lowercase ascii letters", ErrInvalidWord, w.ID, w.Text)
		}
	}
	return nil
}

func (c *Catalog) All() []models.Word {
	return append([]models.Word(nil), c.words...)
}

func (c *Catalog) Len() int {
	return len(c.words)
}

func (c *Catalog) ByCategory(category models.Category) []models.Word {
	var result []models.Word
	for _, w := range c.words {
		if w.Category == category {
			result = append(result, w)
		}
	}
	return result
}

func (c *Catalog) ByDifficulty(difficulty models.Difficulty) []models.Word {
	var result []models.Word
	for _, w := range c.words {
		if w.Difficulty == difficulty {
			result = append(result, w)
		}
	}
	return result
}

func (c *Catalog) ByID(id string) (models.Word, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return models.Word{}, false
	}
	return c.words[idx], true
}

// Categories lists the categories that have at least one word, in catalog order.
func (c *Catalog) Categories() []models.Category {
	seen := make(map[models.Category]bool)
	var result []models.Category
	for _, w := range c.words {
		if !seen[w.Category] {
			seen[w.Category] = true
			result = append(result, w.Category)
		}
	}
	return result
}
