package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/accountd/internal/dbx"
	"github.com/dmitrijs2005/accountd/internal/server/migrations"
	"github.com/dmitrijs2005/accountd/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/accountd/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
)

// PostgresRepositoryManager keeps users in Postgres. Sessions live in
// Postgres too unless a redis client is supplied, in which case the session
// store is served from Redis instead.
type PostgresRepositoryManager struct {
	redisClient *redis.Client
}

func NewPostgresRepositoryManager(redisClient *redis.Client) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{redisClient: redisClient}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Sessions(db dbx.DBTX) sessions.Repository {
	if m.redisClient != nil {
		return sessions.NewRedisRepository(m.redisClient)
	}
	return sessions.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return err
	}

	return nil
}
