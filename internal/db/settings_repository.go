package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/ad/go-telegram-wordwizard/internal/models"
)

const paymentConfigKey = "payment_config"

type SettingsRepository struct {
	queue *DBQueue
}

func NewSettingsRepository(queue *DBQueue) *SettingsRepository {
	return &SettingsRepository{queue: queue}
}

func (r *SettingsRepository) Get(key string) (string, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		var value string
		err := db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
		return value, err
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (r *SettingsRepository) Set(key, value string) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`
			INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, key, value)
		return nil, err
	})
	return err
}

func (r *SettingsRepository) Delete(key string) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`DELETE FROM settings WHERE key = ?`, key)
		return nil, err
	})
	return err
}

func (r *SettingsRepository) GetAll() (*models.Settings, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		rows, err := db.Query(`SELECT key, value FROM settings`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		settings := &models.Settings{}
		for rows.Next() {
			var key, value string
			if err := rows.Scan(&key, &value); err != nil {
				return nil, err
			}
			switch key {
			case "welcome_message":
				settings.WelcomeMessage = value
			case "correct_answer_message":
				settings.CorrectAnswerMessage = value
			case "wrong_answer_message":
				settings.WrongAnswerMessage = value
			case "reminder_message":
				settings.ReminderMessage = value
			case "exhausted_message":
				settings.ExhaustedMessage = value
			}
		}
		return settings, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.Settings), nil
}

// GetPaymentConfig falls back to the mock gateway when nothing is stored or
// the stored value cannot be parsed.
func (r *SettingsRepository) GetPaymentConfig() (*models.PaymentConfig, error) {
	value, err := r.Get(paymentConfigKey)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultPaymentConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	config, err := models.ParsePaymentConfig(value)
	if err != nil {
		log.Printf("[SETTINGS] Stored payment config is invalid, using default: %v", err)
		return models.DefaultPaymentConfig(), nil
	}
	return config, nil
}

func (r *SettingsRepository) SetPaymentConfig(config *models.PaymentConfig) error {
	if err := config.Gateway.Validate(); err != nil {
		return err
	}
	value, err := config.ToJSON()
	if err != nil {
		return fmt.Errorf("encode payment config: %w", err)
	}
	return r.Set(paymentConfigKey, value)
}

func (r *SettingsRepository) ResetPaymentConfig() error {
	return r.Delete(paymentConfigKey)
}
