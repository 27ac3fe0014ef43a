package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kperminova/gig-service/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// GigRepository - интерфейс для работы с гигами.
type GigRepository interface {
	CreateGig(ctx context.Context, gigReq models.GigRequest) (*models.Gig, error)
	GetGigs(ctx context.Context, limit, offset int, search string, statuses []string) ([]models.Gig, error)
	GetUserGigs(ctx context.Context, limit, offset int, ownerId string) ([]models.Gig, error)
	GetGigById(ctx context.Context, gigId string) (*models.Gig, error)
}

// PostgresGigRepository - реализация GigRepository для базы данных.
type PostgresGigRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresGigRepository создаёт новый экземпляр PostgresGigRepository.
func NewPostgresGigRepository(db *pgxpool.Pool) *PostgresGigRepository {
	return &PostgresGigRepository{DB: db}
}

// CreateGig создает новый гиг со статусом open.
func (r *PostgresGigRepository) CreateGig(ctx context.Context, gigReq models.GigRequest) (*models.Gig, error) {
	newGig := models.Gig{
		ID:          uuid.New().String(),
		Title:       gigReq.Title,
		Description: gigReq.Description,
		Budget:      gigReq.Budget,
		OwnerID:     gigReq.OwnerID,
		Status:      models.OpenGig,
		CreatedAt:   time.Now().UTC(),
	}
	_, err := r.DB.Exec(ctx, `
       INSERT INTO gig (id, title, description, budget, owner_id, status, created_at)
       VALUES ($1, $2, $3, $4, $5, $6, $7)
   `,
		newGig.ID,
		newGig.Title,
		newGig.Description,
		newGig.Budget,
		newGig.OwnerID,
		newGig.Status,
		newGig.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert gig: %w", err)
	}
	return &newGig, nil
}

// GetGigs возвращает список гигов с фильтрацией по статусу и поиском по названию.
func (r *PostgresGigRepository) GetGigs(ctx context.Context, limit, offset int, search string, statuses []string) ([]models.Gig, error) {
	query := `SELECT id, title, description, budget, owner_id, status, created_at FROM gig`
	var filters []string
	var args []interface{}
	argIndex := 1

	if len(statuses) > 0 {
		filters = append(filters, fmt.Sprintf("status = ANY($%d)", argIndex))
		args = append(args, pq.Array(statuses))
		argIndex++
	}

	if search != "" {
		filters = append(filters, fmt.Sprintf("title ILIKE $%d", argIndex))
		args = append(args, "%"+search+"%")
		argIndex++
	}

	if len(filters) > 0 {
		query += " WHERE " + strings.Join(filters, " AND ")
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var gigs []models.Gig
	for rows.Next() {
		var gig models.Gig
		if err := rows.Scan(
			&gig.ID,
			&gig.Title,
			&gig.Description,
			&gig.Budget,
			&gig.OwnerID,
			&gig.Status,
			&gig.CreatedAt); err != nil {
			return nil, err
		}
		gigs = append(gigs, gig)
	}
	return gigs, nil
}

// GetUserGigs возвращает список гигов пользователя.
func (r *PostgresGigRepository) GetUserGigs(ctx context.Context, limit, offset int, ownerId string) ([]models.Gig, error) {
	query := `SELECT id, title, description, budget, owner_id, status, created_at
              FROM gig WHERE owner_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.DB.Query(ctx, query, ownerId, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var gigs []models.Gig
	for rows.Next() {
		var g models.Gig
		if err := rows.Scan(
			&g.ID,
			&g.Title,
			&g.Description,
			&g.Budget,
			&g.OwnerID,
			&g.Status,
			&g.CreatedAt); err != nil {
			return nil, err
		}
		gigs = append(gigs, g)
	}
	return gigs, nil
}

// GetGigById получает гиг по ID.
func (r *PostgresGigRepository) GetGigById(ctx context.Context, gigId string) (*models.Gig, error) {
	var gig models.Gig
	query := `SELECT id, title, description, budget, owner_id, status, created_at
	          FROM gig WHERE id = $1`
	err := r.DB.QueryRow(ctx, query, gigId).Scan(
		&gig.ID,
		&gig.Title,
		&gig.Description,
		&gig.Budget,
		&gig.OwnerID,
		&gig.Status,
		&gig.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &gig, nil
}
