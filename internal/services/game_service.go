package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/ad/go-telegram-wordwizard/internal/db"
	"github.com/ad/go-telegram-wordwizard/internal/models"
)

var ErrUnknownWord = errors.New("word is not in the catalog")

// ProgressStore persists one progress record per user. Save must reject a
// record whose Revision no longer matches the stored one with
// db.ErrProgressConflict.
type ProgressStore interface {
	Load(userID int64) (*models.GameProgress, error)
	Save(progress *models.GameProgress) error
}

type AttemptLog interface {
	Create(userID int64, wordID, answer string, isCorrect bool) (int64, error)
}

type AnswerOutcome struct {
	Word          models.Word
	Correct       bool
	Progress      *models.GameProgress
	NewBadges     []models.Badge
	PreviousLevel int
}

func (o *AnswerOutcome) LeveledUp() bool {
	return o.Progress.Level > o.PreviousLevel
}

type GameService struct {
	engine      *ProgressEngine
	store       ProgressStore
	attempts    AttemptLog
	maxConflict int
}

func NewGameService(engine *ProgressEngine, store ProgressStore, attempts AttemptLog) *GameService {
	return &GameService{
		engine:      engine,
		store:       store,
		attempts:    attempts,
		maxConflict: 3,
	}
}

func (s *GameService) Engine() *ProgressEngine {
	return s.engine
}

// LoadOrCreate returns the stored record or a fresh unsaved one.
func (s *GameService) LoadOrCreate(userID int64) (*models.GameProgress, error) {
	progress, err := s.store.Load(userID)
	if isNotFound(err) {
		return NewProgress(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load progress for user %d: %w", userID, err)
	}
	return progress, nil
}

func (s *GameService) NextWord(userID int64, category models.Category, difficulty models.Difficulty) (models.Word, bool, error) {
	progress, err := s.LoadOrCreate(userID)
	if err != nil {
		return models.Word{}, false, err
	}
	word, ok := s.engine.SelectNextWord(category, progress, difficulty)
	return word, ok, nil
}

// SubmitAnswer checks answer against the word, logs the attempt and stores the
// updated progress. Lost updates are retried against a fresh copy.
func (s *GameService) SubmitAnswer(userID int64, wordID, answer string) (*AnswerOutcome, error) {
	word, ok := s.engine.Catalog().ByID(wordID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownWord, wordID)
	}
	correct := s.engine.CheckAnswer(word, answer)

	if s.attempts != nil {
		if _, err := s.attempts.Create(userID, wordID, NormalizeAnswer(answer), correct); err != nil {
			log.Printf("[GAME] Failed to log attempt for user %d word %s: %v", userID, wordID, err)
		}
	}

	var lastErr error
	for attempt := 0; attempt < s.maxConflict; attempt++ {
		before, err := s.LoadOrCreate(userID)
		if err != nil {
			return nil, err
		}

		after := s.engine.UpdateProgress(before, wordID, correct)
		err = s.store.Save(after)
		if errors.Is(err, db.ErrProgressConflict) {
			lastErr = err
			log.Printf("[GAME] Progress conflict for user %d, retrying (%d/%d)", userID, attempt+1, s.maxConflict)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("save progress for user %d: %w", userID, err)
		}

		return &AnswerOutcome{
			Word:          word,
			Correct:       correct,
			Progress:      after,
			NewBadges:     NewBadges(before, after),
			PreviousLevel: before.Level,
		}, nil
	}
	return nil, fmt.Errorf("save progress for user %d: %w", userID, lastErr)
}

// Hint returns the hint of wordID, empty when the word has none.
func (s *GameService) Hint(wordID string) (string, bool) {
	word, ok := s.engine.Catalog().ByID(wordID)
	if !ok {
		return "", false
	}
	return word.Hint, true
}

func isNotFound(err error) bool {
	return errors.Is(err, db.ErrProgressNotFound)
}

type ProgressLister interface {
	ProgressStore
	GetAll() ([]*models.GameProgress, error)
}

type RepairResult struct {
	Checked int
	Fixed   int
	Failed  int
}

// RepairAll reconciles every stored record whose level, badges or completed
// set drifted.
func RepairAll(store ProgressLister) (*RepairResult, error) {
	all, err := store.GetAll()
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}

	result := &RepairResult{}
	for _, progress := range all {
		result.Checked++
		if !NeedsReconcile(progress) {
			continue
		}
		fixed := Reconcile(progress)
		if err := store.Save(fixed); err != nil {
			log.Printf("[REPAIR] Failed to save progress for user %d: %v", progress.UserID, err)
			result.Failed++
			continue
		}
		log.Printf("[REPAIR] User %d: level %d -> %d, badges %v -> %v",
			progress.UserID, progress.Level, fixed.Level, progress.Badges, fixed.Badges)
		result.Fixed++
	}
	return result, nil
}
