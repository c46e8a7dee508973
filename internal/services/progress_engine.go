package services

import (
	"math/rand/v2"
	"strings"
	"time"

	"github.com/ad/go-telegram-wordwizard/internal/catalog"
	"github.com/ad/go-telegram-wordwizard/internal/models"
)

// RandomSource picks an index in [0, n). *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// ProgressEngine selects words and folds answers into progress records.
// It performs no I/O; persisting the returned records is the caller's job.
type ProgressEngine struct {
	catalog *catalog.Catalog
	rnd     RandomSource
	now     func() time.Time
}

func NewProgressEngine(c *catalog.Catalog) *ProgressEngine {
	return &ProgressEngine{
		catalog: c,
		rnd:     globalRand{},
		now:     time.Now,
	}
}

func NewProgressEngineWithSource(c *catalog.Catalog, rnd RandomSource, now func() time.Time) *ProgressEngine {
	e := NewProgressEngine(c)
	if rnd != nil {
		e.rnd = rnd
	}
	if now != nil {
		e.now = now
	}
	return e
}

func (e *ProgressEngine) Catalog() *catalog.Catalog {
	return e.catalog
}

func NewProgress(userID int64) *models.GameProgress {
	return &models.GameProgress{
		UserID:         userID,
		CompletedWords: []string{},
		Accuracy:       map[string]float64{},
		Level:          models.MinLevel,
		Badges:         []models.Badge{},
	}
}

// Candidates returns the pool SelectNextWord draws from. With DifficultyAny the
// pool holds every tier up to the player's level.
func (e *ProgressEngine) Candidates(category models.Category, progress *models.GameProgress, difficulty models.Difficulty) []models.Word {
	var pool []models.Word
	for _, w := range e.catalog.ByCategory(category) {
		if difficulty != models.DifficultyAny {
			if w.Difficulty != difficulty {
				continue
			}
		} else if int(w.Difficulty) > progress.Level {
			continue
		}
		pool = append(pool, w)
	}
	return pool
}

// SelectNextWord prefers words the player has not completed and falls back to
// the whole pool once those run out. ok is false when the pool is empty.
func (e *ProgressEngine) SelectNextWord(category models.Category, progress *models.GameProgress, difficulty models.Difficulty) (models.Word, bool) {
	pool := e.Candidates(category, progress, difficulty)

	var uncompleted []models.Word
	for _, w := range pool {
		if !progress.HasCompleted(w.ID) {
			uncompleted = append(uncompleted, w)
		}
	}

	if len(uncompleted) > 0 {
		return uncompleted[e.rnd.IntN(len(uncompleted))], true
	}
	if len(pool) > 0 {
		return pool[e.rnd.IntN(len(pool))], true
	}
	return models.Word{}, false
}

// UpdateProgress returns a new record with the answer applied. The input is
// left untouched.
func (e *ProgressEngine) UpdateProgress(progress *models.GameProgress, wordID string, isCorrect bool) *models.GameProgress {
	next := progress.Clone()
	if next.Accuracy == nil {
		next.Accuracy = make(map[string]float64)
	}

	if isCorrect && !next.HasCompleted(wordID) {
		next.CompletedWords = append(next.CompletedWords, wordID)
	}

	score := 0.0
	if isCorrect {
		score = 100
	}
	// A stored 0 counts as no prior entry, so a miss followed by a hit scores 100.
	if prev := next.Accuracy[wordID]; prev == 0 {
		next.Accuracy[wordID] = score
	} else {
		// Attempts are approximated by completion count; wrong answers on
		// uncompleted words never raise it.
		attempts := float64(next.CompletionCount(wordID) + 1)
		next.Accuracy[wordID] = (prev*(attempts-1) + score) / attempts
	}

	next = Reconcile(next)
	next.LastPlayed = e.now()
	return next
}

// Reconcile recomputes level and badges from the completed set. Existing badges
// are kept even if the set somehow shrank.
func Reconcile(progress *models.GameProgress) *models.GameProgress {
	next := progress.Clone()

	seen := make(map[string]bool, len(next.CompletedWords))
	completed := next.CompletedWords[:0]
	for _, id := range next.CompletedWords {
		if seen[id] {
			continue
		}
		seen[id] = true
		completed = append(completed, id)
	}
	next.CompletedWords = completed

	next.Level = models.LevelFor(len(next.CompletedWords))

	badges := make([]models.Badge, 0, len(next.Badges)+len(models.BadgeThresholds))
	have := make(map[models.Badge]bool)
	for _, b := range next.Badges {
		if !have[b] {
			have[b] = true
			badges = append(badges, b)
		}
	}
	for _, b := range models.BadgesFor(len(next.CompletedWords)) {
		if !have[b] {
			have[b] = true
			badges = append(badges, b)
		}
	}
	next.Badges = badges

	return next
}

// NeedsReconcile reports whether level, badges or the completed set drifted.
func NeedsReconcile(progress *models.GameProgress) bool {
	fixed := Reconcile(progress)
	if fixed.Level != progress.Level ||
		len(fixed.Badges) != len(progress.Badges) ||
		len(fixed.CompletedWords) != len(progress.CompletedWords) {
		return true
	}
	return false
}

// NewBadges lists badges present in after but not in before.
func NewBadges(before, after *models.GameProgress) []models.Badge {
	var earned []models.Badge
	for _, b := range after.Badges {
		if !before.HasBadge(b) {
			earned = append(earned, b)
		}
	}
	return earned
}

func NormalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}

func (e *ProgressEngine) CheckAnswer(word models.Word, answer string) bool {
	return NormalizeAnswer(answer) == strings.ToLower(word.Text)
}
