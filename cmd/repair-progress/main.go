package main

import (
	"database/sql"
	"log"

	_ "github.com/joho/godotenv/autoload"
	_ "modernc.org/sqlite"

	"github.com/ad/go-telegram-wordwizard/internal/config"
	"github.com/ad/go-telegram-wordwizard/internal/db"
	"github.com/ad/go-telegram-wordwizard/internal/services"
)

func main() {
	cfg, err := config.LoadStorage()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	database, err := sql.Open("sqlite", cfg.DBPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	if err := db.InitSchema(database); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	queue := db.NewDBQueue(database)
	defer queue.Close()

	log.Println("Reconciling progress records...")
	result, err := services.RepairAll(db.NewProgressRepository(queue))
	if err != nil {
		log.Fatalf("Failed to repair progress: %v", err)
	}

	log.Printf("Checked %d records, fixed %d, failed %d", result.Checked, result.Fixed, result.Failed)
}
