package db

import (
	"database/sql"

	"github.com/ad/go-telegram-wordwizard/internal/models"
)

type SubscriptionRepository struct {
	queue *DBQueue
}

func NewSubscriptionRepository(queue *DBQueue) *SubscriptionRepository {
	return &SubscriptionRepository{queue: queue}
}

func (r *SubscriptionRepository) Create(sub *models.Subscription) error {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		res, err := db.Exec(`
			INSERT INTO subscriptions (user_id, plan, amount, currency, transaction_id)
			VALUES (?, ?, ?, ?, ?)
		`, sub.UserID, string(sub.Plan), sub.Amount, sub.Currency, sub.TransactionID)
		if err != nil {
			return nil, err
		}
		return res.LastInsertId()
	})
	if err != nil {
		return err
	}
	sub.ID = result.(int64)
	return nil
}

func (r *SubscriptionRepository) GetByUserID(userID int64) ([]*models.Subscription, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		rows, err := db.Query(`
			SELECT id, user_id, plan, amount, currency, transaction_id, created_at
			FROM subscriptions WHERE user_id = ? ORDER BY id DESC
		`, userID)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var subs []*models.Subscription
		for rows.Next() {
			var s models.Subscription
			var plan string
			var createdAt sql.NullTime
			if err := rows.Scan(&s.ID, &s.UserID, &plan, &s.Amount, &s.Currency, &s.TransactionID, &createdAt); err != nil {
				return nil, err
			}
			s.Plan = models.Plan(plan)
			s.CreatedAt = createdAt.Time
			subs = append(subs, &s)
		}
		return subs, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return result.([]*models.Subscription), nil
}
