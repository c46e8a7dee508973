package services

import (
	"context"
	"errors"
	"sync"

	"github.com/ad/go-telegram-wordwizard/internal/db"
	"github.com/ad/go-telegram-wordwizard/internal/models"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

type fakeBot struct {
	mu        sync.Mutex
	failUntil int
	calls     int
	nextID    int
	sent      []*bot.SendMessageParams
	deleted   []int
}

func (f *fakeBot) SendMessage(_ context.Context, params *bot.SendMessageParams) (*tgmodels.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failUntil {
		return nil, errors.New("network error")
	}
	f.nextID++
	f.sent = append(f.sent, params)
	return &tgmodels.Message{ID: f.nextID}, nil
}

func (f *fakeBot) DeleteMessage(_ context.Context, params *bot.DeleteMessageParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, params.MessageID)
	return true, nil
}

func (f *fakeBot) messagesTo(chatID int64) []*bot.SendMessageParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*bot.SendMessageParams
	for _, p := range f.sent {
		if id, ok := p.ChatID.(int64); ok && id == chatID {
			out = append(out, p)
		}
	}
	return out
}

type fakeStates struct {
	states map[int64]*models.ChatState
}

func newFakeStates() *fakeStates {
	return &fakeStates{states: make(map[int64]*models.ChatState)}
}

func (f *fakeStates) Get(userID int64) (*models.ChatState, error) {
	if state, ok := f.states[userID]; ok {
		return state, nil
	}
	return &models.ChatState{UserID: userID}, nil
}

func (f *fakeStates) UpdateTaskMessageID(userID int64, messageID int) error {
	state, _ := f.Get(userID)
	state.LastTaskMessageID = messageID
	f.states[userID] = state
	return nil
}

// memStore is an in-memory ProgressStore with the same revision check as the
// SQL repository. conflicts makes the next N saves fail.
type memStore struct {
	mu        sync.Mutex
	records   map[int64]*models.GameProgress
	conflicts int
	saves     int
}

func newMemStore() *memStore {
	return &memStore{records: make(map[int64]*models.GameProgress)}
}

func (s *memStore) Load(userID int64) (*models.GameProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.records[userID]
	if !ok {
		return nil, db.ErrProgressNotFound
	}
	return p.Clone(), nil
}

func (s *memStore) Save(p *models.GameProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conflicts > 0 {
		s.conflicts--
		if stored, ok := s.records[p.UserID]; ok {
			stored.Revision++
		}
		return db.ErrProgressConflict
	}
	stored, ok := s.records[p.UserID]
	switch {
	case !ok && p.Revision != 0, ok && stored.Revision != p.Revision:
		return db.ErrProgressConflict
	}
	p.Revision++
	s.records[p.UserID] = p.Clone()
	s.saves++
	return nil
}

func (s *memStore) GetAll() ([]*models.GameProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []*models.GameProgress
	for _, p := range s.records {
		all = append(all, p.Clone())
	}
	return all, nil
}

type fakeAttempts struct {
	mu      sync.Mutex
	entries []models.WordAttempt
}

func (f *fakeAttempts) Create(userID int64, wordID, answer string, isCorrect bool) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, models.WordAttempt{
		ID: int64(len(f.entries) + 1), UserID: userID, WordID: wordID, Answer: answer, IsCorrect: isCorrect,
	})
	return int64(len(f.entries)), nil
}

func (f *fakeAttempts) TotalStats(userID int64) (models.AttemptStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var s models.AttemptStats
	for _, e := range f.entries {
		if e.UserID != userID {
			continue
		}
		s.Attempts++
		if e.IsCorrect {
			s.Correct++
		}
	}
	return s, nil
}

func (f *fakeAttempts) StatsByWord(userID int64) (map[string]models.AttemptStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := make(map[string]models.AttemptStats)
	for _, e := range f.entries {
		if e.UserID != userID {
			continue
		}
		s := stats[e.WordID]
		s.Attempts++
		if e.IsCorrect {
			s.Correct++
		}
		stats[e.WordID] = s
	}
	return stats, nil
}

func (f *fakeAttempts) Recent(userID int64, limit int) ([]models.WordAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var recent []models.WordAttempt
	for i := len(f.entries) - 1; i >= 0 && len(recent) < limit; i-- {
		if f.entries[i].UserID == userID {
			recent = append(recent, f.entries[i])
		}
	}
	return recent, nil
}
