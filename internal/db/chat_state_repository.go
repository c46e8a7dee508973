package db

import (
	"database/sql"
	"time"

	"github.com/ad/go-telegram-wordwizard/internal/models"
)

type ChatStateRepository struct {
	queue *DBQueue
}

func NewChatStateRepository(queue *DBQueue) *ChatStateRepository {
	return &ChatStateRepository{queue: queue}
}

func (r *ChatStateRepository) Save(state *models.ChatState) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`
			INSERT INTO user_chat_state (user_id, state, current_word_id, current_category, current_difficulty, last_task_message_id)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(user_id) DO UPDATE SET
				state = excluded.state,
				current_word_id = excluded.current_word_id,
				current_category = excluded.current_category,
				current_difficulty = excluded.current_difficulty,
				last_task_message_id = excluded.last_task_message_id
		`, state.UserID, state.State, state.CurrentWordID, string(state.CurrentCategory), int(state.CurrentDifficulty), state.LastTaskMessageID)
		return nil, err
	})
	return err
}

// Get returns an empty state for users that never played.
func (r *ChatStateRepository) Get(userID int64) (*models.ChatState, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		row := db.QueryRow(`
			SELECT user_id, state, current_word_id, current_category, current_difficulty, last_task_message_id, last_reminded_at
			FROM user_chat_state WHERE user_id = ?
		`, userID)

		var state models.ChatState
		var category string
		var difficulty int
		var taskMsgID sql.NullInt64
		var remindedAt sql.NullTime
		err := row.Scan(&state.UserID, &state.State, &state.CurrentWordID, &category, &difficulty, &taskMsgID, &remindedAt)
		if err == sql.ErrNoRows {
			return &models.ChatState{UserID: userID}, nil
		}
		if err != nil {
			return nil, err
		}
		state.CurrentCategory = models.Category(category)
		state.CurrentDifficulty = models.Difficulty(difficulty)
		state.LastTaskMessageID = int(taskMsgID.Int64)
		if remindedAt.Valid {
			t := remindedAt.Time
			state.LastRemindedAt = &t
		}
		return &state, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.ChatState), nil
}

func (r *ChatStateRepository) ClearCurrentWord(userID int64) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`UPDATE user_chat_state SET current_word_id = '' WHERE user_id = ?`, userID)
		return nil, err
	})
	return err
}

func (r *ChatStateRepository) UpdateTaskMessageID(userID int64, messageID int) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`
			INSERT INTO user_chat_state (user_id, last_task_message_id)
			VALUES (?, ?)
			ON CONFLICT(user_id) DO UPDATE SET last_task_message_id = excluded.last_task_message_id
		`, userID, messageID)
		return nil, err
	})
	return err
}

func (r *ChatStateRepository) SetRemindedAt(userID int64, at time.Time) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`
			INSERT INTO user_chat_state (user_id, last_reminded_at)
			VALUES (?, ?)
			ON CONFLICT(user_id) DO UPDATE SET last_reminded_at = excluded.last_reminded_at
		`, userID, at)
		return nil, err
	})
	return err
}
