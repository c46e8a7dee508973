package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ad/go-telegram-wordwizard/internal/models"
)

var (
	ErrProgressNotFound = errors.New("progress not found")
	// ErrProgressConflict means the stored revision moved since the record was loaded.
	ErrProgressConflict = errors.New("progress was modified concurrently")
)

type ProgressRepository struct {
	queue *DBQueue
}

func NewProgressRepository(queue *DBQueue) *ProgressRepository {
	return &ProgressRepository{queue: queue}
}

func (r *ProgressRepository) Load(userID int64) (*models.GameProgress, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		row := db.QueryRow(`
			SELECT user_id, completed_words, accuracy, level, badges, last_played, revision
			FROM game_progress WHERE user_id = ?
		`, userID)
		progress, err := scanProgress(row)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProgressNotFound
		}
		return progress, err
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.GameProgress), nil
}

// Save writes progress only if nobody saved since it was loaded. A record with
// Revision 0 is new and must not exist yet. On success Revision is advanced.
func (r *ProgressRepository) Save(progress *models.GameProgress) error {
	completed, accuracy, badges, err := encodeProgress(progress)
	if err != nil {
		return err
	}

	_, err = r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		var res sql.Result
		var err error
		if progress.Revision == 0 {
			res, err = db.Exec(`
				INSERT INTO game_progress (user_id, completed_words, accuracy, level, badges, last_played, revision)
				VALUES (?, ?, ?, ?, ?, ?, 1)
				ON CONFLICT(user_id) DO NOTHING
			`, progress.UserID, completed, accuracy, progress.Level, badges, progress.LastPlayed)
		} else {
			res, err = db.Exec(`
				UPDATE game_progress SET
					completed_words = ?, accuracy = ?, level = ?, badges = ?, last_played = ?,
					revision = revision + 1
				WHERE user_id = ? AND revision = ?
			`, completed, accuracy, progress.Level, badges, progress.LastPlayed, progress.UserID, progress.Revision)
		}
		if err != nil {
			return nil, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			return nil, ErrProgressConflict
		}
		return nil, nil
	})
	if err != nil {
		return err
	}
	progress.Revision++
	return nil
}

func (r *ProgressRepository) GetAll() ([]*models.GameProgress, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		rows, err := db.Query(`
			SELECT user_id, completed_words, accuracy, level, badges, last_played, revision
			FROM game_progress ORDER BY user_id
		`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var progresses []*models.GameProgress
		for rows.Next() {
			progress, err := scanProgress(rows)
			if err != nil {
				return nil, err
			}
			progresses = append(progresses, progress)
		}
		return progresses, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return result.([]*models.GameProgress), nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProgress(row rowScanner) (*models.GameProgress, error) {
	var progress models.GameProgress
	var completed, accuracy, badges string
	var lastPlayed sql.NullTime
	err := row.Scan(&progress.UserID, &completed, &accuracy, &progress.Level, &badges, &lastPlayed, &progress.Revision)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(completed), &progress.CompletedWords); err != nil {
		return nil, fmt.Errorf("decode completed words for user %d: %w", progress.UserID, err)
	}
	if err := json.Unmarshal([]byte(accuracy), &progress.Accuracy); err != nil {
		return nil, fmt.Errorf("decode accuracy for user %d: %w", progress.UserID, err)
	}
	if err := json.Unmarshal([]byte(badges), &progress.Badges); err != nil {
		return nil, fmt.Errorf("decode badges for user %d: %w", progress.UserID, err)
	}
	if progress.CompletedWords == nil {
		progress.CompletedWords = []string{}
	}
	if progress.Accuracy == nil {
		progress.Accuracy = map[string]float64{}
	}
	if progress.Badges == nil {
		progress.Badges = []models.Badge{}
	}
	if lastPlayed.Valid {
		progress.LastPlayed = lastPlayed.Time
	}
	return &progress, nil
}

func encodeProgress(progress *models.GameProgress) (string, string, string, error) {
	completed := progress.CompletedWords
	if completed == nil {
		completed = []string{}
	}
	accuracy := progress.Accuracy
	if accuracy == nil {
		accuracy = map[string]float64{}
	}
	badges := progress.Badges
	if badges == nil {
		badges = []models.Badge{}
	}

	completedJSON, err := json.Marshal(completed)
	if err != nil {
		return "", "", "", err
	}
	accuracyJSON, err := json.Marshal(accuracy)
	if err != nil {
		return "", "", "", err
	}
	badgesJSON, err := json.Marshal(badges)
	if err != nil {
		return "", "", "", err
	}
	return string(completedJSON), string(accuracyJSON), string(badgesJSON), nil
}
