package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY,
    first_name TEXT,
    last_name TEXT,
    username TEXT,
    is_parent BOOLEAN DEFAULT FALSE,
    parent_id INTEGER DEFAULT 0,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS game_progress (
    user_id INTEGER PRIMARY KEY REFERENCES users(id),
    completed_words TEXT NOT NULL DEFAULT '[]',
    accuracy TEXT NOT NULL DEFAULT '{}',
    level INTEGER NOT NULL DEFAULT 1,
    badges TEXT NOT NULL DEFAULT '[]',
    last_played DATETIME,
    revision INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS word_attempts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL REFERENCES users(id),
    word_id TEXT NOT NULL,
    answer TEXT,
    is_correct BOOLEAN NOT NULL DEFAULT FALSE,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_word_attempts_user ON word_attempts(user_id, word_id);

CREATE TABLE IF NOT EXISTS user_chat_state (
    user_id INTEGER PRIMARY KEY REFERENCES users(id),
    state TEXT NOT NULL DEFAULT '',
    current_word_id TEXT NOT NULL DEFAULT '',
    current_category TEXT NOT NULL DEFAULT '',
    current_difficulty INTEGER NOT NULL DEFAULT 0,
    last_task_message_id INTEGER DEFAULT 0,
    last_reminded_at DATETIME
);

CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS subscriptions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL REFERENCES users(id),
    plan TEXT NOT NULL,
    amount REAL NOT NULL,
    currency TEXT NOT NULL,
    transaction_id TEXT NOT NULL UNIQUE,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

const defaultSettings = `
INSERT OR IGNORE INTO settings (key, value) VALUES
    ('welcome_message', 'Welcome to Word Wizard! Pick a category and spell the word from the hint.'),
    ('correct_answer_message', '✅ Correct!'),
    ('wrong_answer_message', '❌ Not quite, try again'),
    ('reminder_message', '🪄 Word Wizard misses you! Come back and spell a few words.'),
    ('exhausted_message', 'No words here yet. Try another category or difficulty.');
`

// Each statement may fail on databases that already have the column.
var migrations = []string{
	`ALTER TABLE users ADD COLUMN parent_id INTEGER DEFAULT 0`,
	`ALTER TABLE user_chat_state ADD COLUMN last_reminded_at DATETIME`,
}

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return err
	}

	_, err = db.Exec(defaultSettings)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		db.Exec(m)
	}

	return nil
}
