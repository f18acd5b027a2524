package db

import (
	"context"
	"database/sql"
	"fmt"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE,
		created_at DATE DEFAULT CURRENT_DATE
	)`,
	`CREATE TABLE IF NOT EXISTS questions (
		id SERIAL PRIMARY KEY,
		category_id INTEGER NOT NULL,
		question TEXT NOT NULL,
		created_at DATE DEFAULT CURRENT_DATE,
		FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS answers (
		id SERIAL PRIMARY KEY,
		question_id INTEGER NOT NULL,
		answer TEXT NOT NULL,
		is_correct BOOLEAN NOT NULL DEFAULT FALSE,
		FOREIGN KEY (question_id) REFERENCES questions(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_questions_category_id ON questions(category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_answers_question_id ON answers(question_id)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name VARCHAR(255) NOT NULL UNIQUE,
		created_at DATE DEFAULT CURRENT_DATE
	)`,
	`CREATE TABLE IF NOT EXISTS questions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		category_id INTEGER NOT NULL,
		question TEXT NOT NULL,
		created_at DATE DEFAULT CURRENT_DATE,
		FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS answers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		question_id INTEGER NOT NULL,
		answer TEXT NOT NULL,
		is_correct BOOLEAN NOT NULL DEFAULT FALSE,
		FOREIGN KEY (question_id) REFERENCES questions(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_questions_category_id ON questions(category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_answers_question_id ON answers(question_id)`,
}

var dropStatements = []string{
	`DROP TABLE IF EXISTS answers`,
	`DROP TABLE IF EXISTS questions`,
	`DROP TABLE IF EXISTS categories`,
}

// InitSchema creates the quiz tables if they do not exist yet.
func InitSchema(ctx context.Context, db *sql.DB, driver string) error {
	statements := postgresSchema
	if driver == DriverSQLite {
		statements = sqliteSchema
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("error initializing database schema: %w", err)
		}
	}
	return nil
}

// DropSchema removes the quiz tables and everything in them.
func DropSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range dropStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("error dropping database schema: %w", err)
		}
	}
	return nil
}
