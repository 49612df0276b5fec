package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection to the database. The driver is selected by
// the DB_TYPE environment variable: "sqlite" (default) stores data under
// ./data, "postgres" connects to DATABASE_URL.
func Connect() error {
	dbType := os.Getenv("DB_TYPE")
	if dbType == "" {
		dbType = "sqlite"
	}

	switch dbType {
	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return fmt.Errorf("DATABASE_URL is not set")
		}
		db, err := sqlx.Connect("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %v", err)
		}
		DB = db
	default:
		dataDir := "data"
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %v", err)
		}

		dbPath := filepath.Join(dataDir, "studypilot.db")
		db, err := sqlx.Connect("sqlite3", dbPath)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %v", err)
		}

		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return fmt.Errorf("failed to enable foreign keys: %v", err)
		}

		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)

		DB = db
	}

	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// IsSQLite reports whether the active connection uses the sqlite driver
func IsSQLite() bool {
	return DB != nil && DB.DriverName() == "sqlite3"
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	// Create topics table (read-only catalog, populated by the importer)
	_, err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS topics (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			subtopics TEXT DEFAULT '',
			difficulty TEXT DEFAULT 'Beginner',
			exam_weight REAL DEFAULT 1.0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create topics table: %v", err)
	}

	// Create quizzes table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS quizzes (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			difficulty TEXT DEFAULT 'Beginner',
			duration_minutes INTEGER DEFAULT 15,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create quizzes table: %v", err)
	}

	// Create quiz_questions table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS quiz_questions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			quiz_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			text TEXT NOT NULL,
			options TEXT NOT NULL,
			correct_key TEXT NOT NULL,
			explanation TEXT DEFAULT '',
			topic_id TEXT NOT NULL,
			FOREIGN KEY (quiz_id) REFERENCES quizzes(id),
			FOREIGN KEY (topic_id) REFERENCES topics(id),
			UNIQUE(quiz_id, position)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create quiz_questions table: %v", err)
	}

	// Create mastery_records table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS mastery_records (
			topic_id TEXT PRIMARY KEY,
			confidence INTEGER DEFAULT 50,
			cycle_stage INTEGER DEFAULT 0,
			review_count INTEGER DEFAULT 0,
			last_reviewed_at TIMESTAMP,
			next_review_at TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (topic_id) REFERENCES topics(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create mastery_records table: %v", err)
	}

	// Create quiz_attempts table (completed attempts only)
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS quiz_attempts (
			id TEXT PRIMARY KEY,
			quiz_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			total_questions INTEGER NOT NULL,
			answers TEXT DEFAULT '{}',
			started_at TIMESTAMP NOT NULL,
			completed_at TIMESTAMP NOT NULL,
			FOREIGN KEY (quiz_id) REFERENCES quizzes(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create quiz_attempts table: %v", err)
	}

	// Create notification_events table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS notification_events (
			id TEXT PRIMARY KEY,
			category TEXT NOT NULL,
			title TEXT NOT NULL,
			message TEXT NOT NULL,
			is_read BOOLEAN DEFAULT false,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create notification_events table: %v", err)
	}

	// Create notification_deliveries table (per-channel delivery bookkeeping)
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS notification_deliveries (
			event_id TEXT NOT NULL,
			channel TEXT NOT NULL,
			delivered BOOLEAN DEFAULT false,
			attempts INTEGER DEFAULT 0,
			last_error TEXT DEFAULT '',
			PRIMARY KEY (event_id, channel),
			FOREIGN KEY (event_id) REFERENCES notification_events(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create notification_deliveries table: %v", err)
	}

	return nil
}
