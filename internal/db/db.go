package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Connect initializes the database connection and runs migrations.
func Connect(ctx context.Context, dsn string, maxOpenConns int, logger *zap.Logger) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations applied")

	return db, nil
}

// Foreign keys carry no ON DELETE CASCADE; dependents are
// removed explicitly by the cascade repository, children first.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
        id SERIAL PRIMARY KEY,
        username TEXT NOT NULL UNIQUE,
        email TEXT NOT NULL UNIQUE,
        hashed_password TEXT NOT NULL
    );`,
	`CREATE TABLE IF NOT EXISTS user_media (
        id SERIAL PRIMARY KEY,
        user_id INT NOT NULL REFERENCES users(id),
        bangumi_id INT,
        title TEXT NOT NULL,
        media_type INT NOT NULL DEFAULT 0,
        image TEXT NOT NULL DEFAULT '',
        summary TEXT NOT NULL DEFAULT ''
    );`,
	`CREATE INDEX IF NOT EXISTS idx_user_media_user ON user_media(user_id);`,
	`CREATE TABLE IF NOT EXISTS reviews (
        id SERIAL PRIMARY KEY,
        text TEXT NOT NULL,
        rating DOUBLE PRECISION NOT NULL,
        user_id INT NOT NULL REFERENCES users(id),
        media_id INT NOT NULL REFERENCES user_media(id),
        created_at TIMESTAMPTZ DEFAULT NOW()
    );`,
	`CREATE TABLE IF NOT EXISTS groups (
        id SERIAL PRIMARY KEY,
        name TEXT NOT NULL,
        description TEXT NOT NULL DEFAULT '',
        owner_id INT NOT NULL REFERENCES users(id),
        created_at TIMESTAMPTZ DEFAULT NOW()
    );`,
	`CREATE TABLE IF NOT EXISTS group_members (
        group_id INT NOT NULL REFERENCES groups(id),
        user_id INT NOT NULL REFERENCES users(id),
        PRIMARY KEY(group_id, user_id)
    );`,
	`CREATE INDEX IF NOT EXISTS idx_group_members_user ON group_members(user_id);`,
	`CREATE TABLE IF NOT EXISTS group_media (
        id SERIAL PRIMARY KEY,
        group_id INT NOT NULL REFERENCES groups(id),
        added_by_id INT NOT NULL REFERENCES users(id),
        bangumi_id INT,
        title TEXT NOT NULL,
        media_type INT NOT NULL DEFAULT 0,
        image TEXT NOT NULL DEFAULT '',
        summary TEXT NOT NULL DEFAULT ''
    );`,
	`CREATE INDEX IF NOT EXISTS idx_group_media_group ON group_media(group_id);`,
	`CREATE TABLE IF NOT EXISTS group_reviews (
        id SERIAL PRIMARY KEY,
        text TEXT NOT NULL,
        rating DOUBLE PRECISION NOT NULL,
        user_id INT NOT NULL REFERENCES users(id),
        media_id INT NOT NULL REFERENCES group_media(id),
        username TEXT NOT NULL,
        created_at TIMESTAMPTZ DEFAULT NOW()
    );`,
	`CREATE INDEX IF NOT EXISTS idx_group_reviews_media ON group_reviews(media_id);`,
	`CREATE TABLE IF NOT EXISTS discussions (
        id SERIAL PRIMARY KEY,
        title TEXT NOT NULL,
        content TEXT NOT NULL,
        user_id INT NOT NULL REFERENCES users(id),
        group_id INT NOT NULL REFERENCES groups(id),
        media_id INT NOT NULL REFERENCES group_media(id),
        username TEXT NOT NULL,
        created_at TIMESTAMPTZ DEFAULT NOW()
    );`,
	`CREATE INDEX IF NOT EXISTS idx_discussions_media ON discussions(media_id);`,
	`CREATE TABLE IF NOT EXISTS comments (
        id SERIAL PRIMARY KEY,
        content TEXT NOT NULL,
        user_id INT NOT NULL REFERENCES users(id),
        discussion_id INT NOT NULL REFERENCES discussions(id),
        username TEXT NOT NULL,
        created_at TIMESTAMPTZ DEFAULT NOW()
    );`,
	`CREATE INDEX IF NOT EXISTS idx_comments_discussion ON comments(discussion_id);`,
}

func runMigrations(ctx context.Context, db *sqlx.DB) error {
	for _, m := range migrations {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return err
		}
	}
	return nil
}
