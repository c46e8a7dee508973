package db

import (
	"database/sql"

	"github.com/ad/go-telegram-wordwizard/internal/models"
)

// AttemptRepository keeps the raw answer log. Progress accuracy is derived
// separately; this table holds the real attempt counts.
type AttemptRepository struct {
	queue *DBQueue
}

func NewAttemptRepository(queue *DBQueue) *AttemptRepository {
	return &AttemptRepository{queue: queue}
}

func (r *AttemptRepository) Create(userID int64, wordID, answer string, isCorrect bool) (int64, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		res, err := db.Exec(`
			INSERT INTO word_attempts (user_id, word_id, answer, is_correct)
			VALUES (?, ?, ?, ?)
		`, userID, wordID, answer, isCorrect)
		if err != nil {
			return nil, err
		}
		return res.LastInsertId()
	})
	if err != nil {
		return 0, err
	}
	return result.(int64), nil
}

func (r *AttemptRepository) StatsByWord(userID int64) (map[string]models.AttemptStats, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		rows, err := db.Query(`
			SELECT word_id, COUNT(*), COALESCE(SUM(CASE WHEN is_correct THEN 1 ELSE 0 END), 0)
			FROM word_attempts WHERE user_id = ?
			GROUP BY word_id
		`, userID)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		stats := make(map[string]models.AttemptStats)
		for rows.Next() {
			var wordID string
			var s models.AttemptStats
			if err := rows.Scan(&wordID, &s.Attempts, &s.Correct); err != nil {
				return nil, err
			}
			stats[wordID] = s
		}
		return stats, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return result.(map[string]models.AttemptStats), nil
}

func (r *AttemptRepository) TotalStats(userID int64) (models.AttemptStats, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		var s models.AttemptStats
		err := db.QueryRow(`
			SELECT COUNT(*), COALESCE(SUM(CASE WHEN is_correct THEN 1 ELSE 0 END), 0)
			FROM word_attempts WHERE user_id = ?
		`, userID).Scan(&s.Attempts, &s.Correct)
		return s, err
	})
	if err != nil {
		return models.AttemptStats{}, err
	}
	return result.(models.AttemptStats), nil
}

// Recent returns the newest attempts first.
func (r *AttemptRepository) Recent(userID int64, limit int) ([]models.WordAttempt, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		rows, err := db.Query(`
			SELECT id, user_id, word_id, answer, is_correct, created_at
			FROM word_attempts WHERE user_id = ?
			ORDER BY id DESC LIMIT ?
		`, userID, limit)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var attempts []models.WordAttempt
		for rows.Next() {
			var a models.WordAttempt
			var answer sql.NullString
			var createdAt sql.NullTime
			if err := rows.Scan(&a.ID, &a.UserID, &a.WordID, &answer, &a.IsCorrect, &createdAt); err != nil {
				return nil, err
			}
			a.Answer = answer.String
			a.AttemptedAt = createdAt.Time
			attempts = append(attempts, a)
		}
		return attempts, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.WordAttempt), nil
}
