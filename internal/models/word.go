package models

import "time"

type Word struct {
	ID         string
	Text       string
	Category   Category
	Difficulty Difficulty
	Hint       string
}

func (w *Word) HasHint() bool {
	return w.Hint != ""
}

// WordAttempt is one answer typed by a player, right or wrong.
type WordAttempt struct {
	ID          int64
	UserID      int64
	WordID      string
	Answer      string
	IsCorrect   bool
	AttemptedAt time.Time
}

type AttemptStats struct {
	Attempts int
	Correct  int
}

func (s AttemptStats) Accuracy() int {
	if s.Attempts == 0 {
		return 0
	}
	return (s.Correct * 100) / s.Attempts
}
