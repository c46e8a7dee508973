package db

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/ad/go-telegram-wordwizard/internal/models"
)

func TestUserRepositoryRolesAndChildren(t *testing.T) {
	queue := setupTestDB(t)
	users := NewUserRepository(queue)

	for _, u := range []*models.User{
		{ID: 1, FirstName: "Pat", IsParent: true},
		{ID: 10, FirstName: "Kid", Username: "kid"},
		{ID: 11, FirstName: "Other"},
	} {
		if err := users.CreateOrUpdate(u); err != nil {
			t.Fatal(err)
		}
	}

	if err := users.LinkChild(1, 10); err != nil {
		t.Fatalf("LinkChild failed: %v", err)
	}
	if err := users.LinkChild(1, 999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound for unknown child, got %v", err)
	}

	children, err := users.GetChildren(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(children) != 1 || children[0].ID != 10 || !children[0].HasParent(1) {
		t.Fatalf("unexpected children: %+v", children)
	}

	// Profile refresh keeps role and link.
	if err := users.CreateOrUpdate(&models.User{ID: 10, FirstName: "Kiddo"}); err != nil {
		t.Fatal(err)
	}
	kid, err := users.GetByID(10)
	if err != nil {
		t.Fatal(err)
	}
	if kid.FirstName != "Kiddo" || kid.ParentID != 1 {
		t.Errorf("unexpected child after refresh: %+v", kid)
	}

	parent, err := users.GetByID(1)
	if err != nil {
		t.Fatal(err)
	}
	if !parent.IsParent {
		t.Error("expected parent role")
	}
	if err := users.SetParentRole(1, false); err != nil {
		t.Fatal(err)
	}
	parent, _ = users.GetByID(1)
	if parent.IsParent {
		t.Error("expected parent role to be cleared")
	}

	if _, err := users.GetByID(404); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAttemptRepositoryStats(t *testing.T) {
	attempts := NewAttemptRepository(setupTestDB(t))

	log := []struct {
		word    string
		answer  string
		correct bool
	}{
		{"animal-1", "cta", false},
		{"animal-1", "cat", true},
		{"car-2", "bsu", false},
		{"car-2", "bus", true},
		{"car-2", "bus", true},
	}
	for _, a := range log {
		if _, err := attempts.Create(5, a.word, a.answer, a.correct); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := attempts.Create(6, "animal-1", "cat", true); err != nil {
		t.Fatal(err)
	}

	stats, err := attempts.StatsByWord(5)
	if err != nil {
		t.Fatal(err)
	}
	if stats["animal-1"] != (models.AttemptStats{Attempts: 2, Correct: 1}) {
		t.Errorf("animal-1 stats: %+v", stats["animal-1"])
	}
	if stats["car-2"] != (models.AttemptStats{Attempts: 3, Correct: 2}) {
		t.Errorf("car-2 stats: %+v", stats["car-2"])
	}

	total, err := attempts.TotalStats(5)
	if err != nil {
		t.Fatal(err)
	}
	if total.Attempts != 5 || total.Correct != 3 || total.Accuracy() != 60 {
		t.Errorf("unexpected totals: %+v", total)
	}

	empty, err := attempts.TotalStats(77)
	if err != nil {
		t.Fatal(err)
	}
	if empty.Attempts != 0 || empty.Accuracy() != 0 {
		t.Errorf("expected empty totals, got %+v", empty)
	}

	recent, err := attempts.Recent(5, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 || recent[0].WordID != "car-2" || !recent[0].IsCorrect {
		t.Errorf("unexpected recent attempts: %+v", recent)
	}
}

func TestSettingsRepository(t *testing.T) {
	settings := NewSettingsRepository(setupTestDB(t))

	all, err := settings.GetAll()
	if err != nil {
		t.Fatal(err)
	}
	if all.WelcomeMessage == "" || all.ReminderMessage == "" || all.ExhaustedMessage == "" {
		t.Errorf("expected defaults, got %+v", all)
	}

	if err := settings.Set("welcome_message", "hi"); err != nil {
		t.Fatal(err)
	}
	value, err := settings.Get("welcome_message")
	if err != nil || value != "hi" {
		t.Errorf("expected updated welcome message, got %q (%v)", value, err)
	}

	if _, err := settings.Get("missing"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestSettingsPaymentConfig(t *testing.T) {
	settings := NewSettingsRepository(setupTestDB(t))

	config, err := settings.GetPaymentConfig()
	if err != nil {
		t.Fatal(err)
	}
	if config.Gateway.Type() != models.GatewayTypeMock {
		t.Errorf("expected mock default, got %s", config.Gateway.Type())
	}

	config.Gateway = models.StripeGateway{APIKey: "pk", SecretKey: "sk"}
	config.Environment = models.EnvironmentProduction
	if err := settings.SetPaymentConfig(config); err != nil {
		t.Fatal(err)
	}
	stored, err := settings.GetPaymentConfig()
	if err != nil {
		t.Fatal(err)
	}
	if stored.Gateway != (models.StripeGateway{APIKey: "pk", SecretKey: "sk"}) {
		t.Errorf("unexpected gateway: %+v", stored.Gateway)
	}
	if stored.Environment != models.EnvironmentProduction {
		t.Errorf("unexpected environment: %s", stored.Environment)
	}

	bad := models.DefaultPaymentConfig()
	bad.Gateway = models.PayPalGateway{ClientID: "id"}
	if err := settings.SetPaymentConfig(bad); !errors.Is(err, models.ErrGatewayMisconfigured) {
		t.Errorf("expected ErrGatewayMisconfigured, got %v", err)
	}

	if err := settings.Set(paymentConfigKey, "{not json"); err != nil {
		t.Fatal(err)
	}
	fallback, err := settings.GetPaymentConfig()
	if err != nil || fallback.Gateway.Type() != models.GatewayTypeMock {
		t.Errorf("expected fallback to mock, got %+v (%v)", fallback, err)
	}

	if err := settings.ResetPaymentConfig(); err != nil {
		t.Fatal(err)
	}
	reset, _ := settings.GetPaymentConfig()
	if reset.Gateway.Type() != models.GatewayTypeMock {
		t.Errorf("expected mock after reset, got %s", reset.Gateway.Type())
	}
}

func TestChatStateRepository(t *testing.T) {
	states := NewChatStateRepository(setupTestDB(t))

	empty, err := states.Get(9)
	if err != nil {
		t.Fatal(err)
	}
	if empty.UserID != 9 || empty.HasPendingWord() || empty.LastRemindedAt != nil {
		t.Errorf("expected empty state, got %+v", empty)
	}

	state := &models.ChatState{
		UserID:            9,
		State:             "awaiting_spelling",
		CurrentWordID:     "animal-3",
		CurrentCategory:   models.CategoryAnimals,
		CurrentDifficulty: models.DifficultyMedium,
		LastTaskMessageID: 100,
	}
	if err := states.Save(state); err != nil {
		t.Fatal(err)
	}
	remindedAt := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	if err := states.SetRemindedAt(9, remindedAt); err != nil {
		t.Fatal(err)
	}

	got, err := states.Get(9)
	if err != nil {
		t.Fatal(err)
	}
	if got.CurrentWordID != "animal-3" || got.CurrentCategory != models.CategoryAnimals || got.CurrentDifficulty != models.DifficultyMedium {
		t.Errorf("unexpected state: %+v", got)
	}
	if got.LastRemindedAt == nil || !got.LastRemindedAt.Equal(remindedAt) {
		t.Errorf("unexpected reminded at: %v", got.LastRemindedAt)
	}

	if err := states.ClearCurrentWord(9); err != nil {
		t.Fatal(err)
	}
	got, _ = states.Get(9)
	if got.HasPendingWord() {
		t.Error("expected current word to be cleared")
	}
	if got.State != "awaiting_spelling" {
		t.Errorf("clearing the word must keep the state, got %q", got.State)
	}
}

func TestSubscriptionRepository(t *testing.T) {
	subs := NewSubscriptionRepository(setupTestDB(t))

	sub := &models.Subscription{UserID: 1, Plan: models.PlanFamily, Amount: 9.99, Currency: "USD", TransactionID: "tx_1"}
	if err := subs.Create(sub); err != nil {
		t.Fatal(err)
	}
	if sub.ID == 0 {
		t.Error("expected id to be assigned")
	}

	dup := *sub
	if err := subs.Create(&dup); err == nil {
		t.Error("expected duplicate transaction id to fail")
	}

	list, err := subs.GetByUserID(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Plan != models.PlanFamily || list[0].Amount != 9.99 {
		t.Errorf("unexpected subscriptions: %+v", list)
	}
}
