package models

import "time"

type ChatState struct {
	UserID            int64
	State             string
	CurrentWordID     string
	CurrentCategory   Category
	CurrentDifficulty Difficulty
	LastTaskMessageID int
	LastRemindedAt    *time.Time
}

func (s *ChatState) HasPendingWord() bool {
	return s.CurrentWordID != ""
}
