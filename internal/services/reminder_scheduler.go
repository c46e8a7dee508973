package services

import (
	"context"
	"log"
	"time"

	"github.com/ad/go-telegram-wordwizard/internal/models"
	"github.com/go-co-op/gocron"
)

type ReminderNotifier interface {
	SendReminder(ctx context.Context, userID int64) error
}

type ReminderStates interface {
	Get(userID int64) (*models.ChatState, error)
	SetRemindedAt(userID int64, at time.Time) error
}

type ReminderUsers interface {
	GetByID(id int64) (*models.User, error)
}

type ReminderConfig struct {
	After     time.Duration
	StartHour int
	EndHour   int
}

// ReminderScheduler nudges children who stopped playing, at most once per
// idle period.
type ReminderScheduler struct {
	scheduler *gocron.Scheduler
	config    ReminderConfig
	progress  ProgressLister
	states    ReminderStates
	users     ReminderUsers
	notifier  ReminderNotifier
	now       func() time.Time
}

func NewReminderScheduler(config ReminderConfig, progress ProgressLister, states ReminderStates, users ReminderUsers, notifier ReminderNotifier) *ReminderScheduler {
	return &ReminderScheduler{
		scheduler: gocron.NewScheduler(time.Local),
		config:    config,
		progress:  progress,
		states:    states,
		users:     users,
		notifier:  notifier,
		now:       time.Now,
	}
}

func (s *ReminderScheduler) Start() error {
	_, err := s.scheduler.Every(1).Hour().Do(func() {
		if _, err := s.RunOnce(context.Background()); err != nil {
			log.Printf("[REMINDER] Run failed: %v", err)
		}
	})
	if err != nil {
		return err
	}
	s.scheduler.StartAsync()
	return nil
}

func (s *ReminderScheduler) Stop() {
	s.scheduler.Stop()
}

// InNotificationWindow reports whether hour lies in [start, end].
func InNotificationWindow(hour, start, end int) bool {
	return hour >= start && hour <= end
}

// DueForReminder is true when the player has been idle for at least after and
// has not been reminded since they last played.
func DueForReminder(progress *models.GameProgress, lastReminded *time.Time, now time.Time, after time.Duration) bool {
	if progress.LastPlayed.IsZero() || now.Sub(progress.LastPlayed) < after {
		return false
	}
	return lastReminded == nil || lastReminded.Before(progress.LastPlayed)
}

// RunOnce sends every due reminder and returns how many were sent.
func (s *ReminderScheduler) RunOnce(ctx context.Context) (int, error) {
	now := s.now()
	if !InNotificationWindow(now.Hour(), s.config.StartHour, s.config.EndHour) {
		log.Printf("[REMINDER] Current hour %d is outside notification hours (%d-%d), skipping", now.Hour(), s.config.StartHour, s.config.EndHour)
		return 0, nil
	}

	all, err := s.progress.GetAll()
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, progress := range all {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}

		user, err := s.users.GetByID(progress.UserID)
		if err != nil {
			log.Printf("[REMINDER] Skipping user %d: %v", progress.UserID, err)
			continue
		}
		if user.IsParent {
			continue
		}

		state, err := s.states.Get(progress.UserID)
		if err != nil {
			log.Printf("[REMINDER] Failed to load state for user %d: %v", progress.UserID, err)
			continue
		}
		if !DueForReminder(progress, state.LastRemindedAt, now, s.config.After) {
			continue
		}

		if err := s.notifier.SendReminder(ctx, progress.UserID); err != nil {
			log.Printf("[REMINDER] Failed to remind user %d: %v", progress.UserID, err)
			continue
		}
		if err := s.states.SetRemindedAt(progress.UserID, now); err != nil {
			log.Printf("[REMINDER] Failed to record reminder for user %d: %v", progress.UserID, err)
		}
		sent++
	}
	return sent, nil
}

type SettingsSource interface {
	GetAll() (*models.Settings, error)
}

// MessageReminder sends the configured reminder text with the category keyboard.
type MessageReminder struct {
	messages *MessageManager
	settings SettingsSource
}

func NewMessageReminder(messages *MessageManager, settings SettingsSource) *MessageReminder {
	return &MessageReminder{messages: messages, settings: settings}
}

func (r *MessageReminder) SendReminder(ctx context.Context, userID int64) error {
	settings, err := r.settings.GetAll()
	if err != nil {
		return err
	}
	return r.messages.SendWithKeyboard(ctx, userID, settings.ReminderMessage, CategoryKeyboard())
}
