package db

import (
	"context"
	"fmt"

	"github.com/kperminova/gig-service/internal/router/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// InitDb инициализирует подключение к базе данных и возвращает пул соединений.
func InitDb(cfg config.Config) (*pgxpool.Pool, error) {
	if cfg.PostgresUser == "" || cfg.PostgresPass == "" || cfg.PostgresHost == "" || cfg.PostgresPort == "" || cfg.PostgresDB == "" {
		return nil, fmt.Errorf("one or more database connection environment variables are missing")
	}

	dbPool, err := pgxpool.New(context.Background(), cfg.PostgresConn)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	return dbPool, nil
}
