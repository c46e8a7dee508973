package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ad/go-telegram-wordwizard/internal/catalog"
	"github.com/ad/go-telegram-wordwizard/internal/config"
	"github.com/ad/go-telegram-wordwizard/internal/db"
	"github.com/ad/go-telegram-wordwizard/internal/handlers"
	"github.com/ad/go-telegram-wordwizard/internal/services"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	_ "github.com/joho/godotenv/autoload"
	_ "modernc.org/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	words, err := loadCatalog(cfg)
	if err != nil {
		log.Fatalf("Failed to load words: %v", err)
	}

	sqlDB, err := sql.Open("sqlite", cfg.DBPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer sqlDB.Close()

	if err := db.InitSchema(sqlDB); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	dbQueue := db.NewDBQueue(sqlDB)
	defer dbQueue.Close()

	userRepo := db.NewUserRepository(dbQueue)
	progressRepo := db.NewProgressRepository(dbQueue)
	attemptRepo := db.NewAttemptRepository(dbQueue)
	settingsRepo := db.NewSettingsRepository(dbQueue)
	chatStateRepo := db.NewChatStateRepository(dbQueue)
	subscriptionRepo := db.NewSubscriptionRepository(dbQueue)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	b, err := bot.New(cfg.BotToken, bot.WithHTTPClient(15*time.Second, httpClient))
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	var botInfo *tgmodels.User
	for i := 0; i < 3; i++ {
		log.Printf("Attempting to connect to Telegram API (attempt %d/3)...", i+1)
		getMeCtx, getMeCancel := context.WithTimeout(ctx, 10*time.Second)
		botInfo, err = b.GetMe(getMeCtx)
		getMeCancel()
		if err == nil {
			break
		}
		log.Printf("Failed to get bot info (attempt %d/3): %v", i+1, err)
		if i < 2 {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		log.Fatalf("Failed to get bot info after 3 attempts: %v", err)
	}

	errorManager := services.NewErrorManager(b, cfg.AdminID)
	msgManager := services.NewMessageManager(b, chatStateRepo, errorManager)
	engine := services.NewProgressEngine(words)
	game := services.NewGameService(engine, progressRepo, attemptRepo)
	dashboards := services.NewDashboardService(words, progressRepo, attemptRepo, userRepo)
	payments := services.NewPaymentService(settingsRepo, subscriptionRepo, cfg.PaymentMockDelay)

	handler := handlers.NewBotHandler(
		b,
		cfg.AdminID,
		cfg.ParentIDs,
		errorManager,
		msgManager,
		game,
		dashboards,
		payments,
		userRepo,
		settingsRepo,
		chatStateRepo,
	)

	b.RegisterHandlerMatchFunc(func(update *tgmodels.Update) bool {
		return true
	}, handler.HandleUpdate, logMiddleware)

	reminders := services.NewReminderScheduler(
		services.ReminderConfig{
			After:     cfg.ReminderAfter,
			StartHour: cfg.NotificationStartHour,
			EndHour:   cfg.NotificationEndHour,
		},
		progressRepo,
		chatStateRepo,
		userRepo,
		services.NewMessageReminder(msgManager, settingsRepo),
	)
	if err := reminders.Start(); err != nil {
		log.Fatalf("Failed to start reminder scheduler: %v", err)
	}
	defer reminders.Stop()

	log.Printf("Bot @%s started. Admin ID: %d, DB: %s, words: %d", botInfo.Username, cfg.AdminID, cfg.DBPath, words.Len())

	b.Start(ctx)
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.WordsFile == "" {
		return catalog.Default(), nil
	}

	importCfg := catalog.DefaultImportConfig(cfg.WordsFile)
	importCfg.SheetName = cfg.WordsSheet
	words, result, err := catalog.LoadFile(importCfg)
	if result != nil {
		log.Printf("[CATALOG] %s: processed %d, loaded %d, skipped %d", cfg.WordsFile, result.TotalProcessed, result.Loaded, result.Skipped)
		for _, e := range result.Errors {
			log.Printf("[CATALOG] %s", e)
		}
	}
	if err != nil {
		return nil, err
	}
	return words, nil
}

func formatUser(u tgmodels.User) string {
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	if u.Username != "" {
		name += " @" + u.Username
	}
	return fmt.Sprintf("%s [%d]", name, u.ID)
}

func logMiddleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *tgmodels.Update) {
		if update.Message != nil && update.Message.From != nil {
			log.Printf("[MSG] from=%s text=%q", formatUser(*update.Message.From), update.Message.Text)
		}
		if update.CallbackQuery != nil {
			log.Printf("[CALLBACK] from=%s data=%q", formatUser(update.CallbackQuery.From), update.CallbackQuery.Data)
		}
		next(ctx, b, update)
	}
}
