package repository

import (
	"context"
	"errors"
	"net/http"

	"github.com/kperminova/gig-service/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HireRepository - интерфейс для транзакции найма.
type HireRepository interface {
	Hire(ctx context.Context, bidId, callerId string) (*models.Bid, *models.Gig, error)
}

// PostgresHireRepository - реализация HireRepository для базы данных.
type PostgresHireRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresHireRepository создает новый экземпляр PostgresHireRepository.
func NewPostgresHireRepository(db *pgxpool.Pool) *PostgresHireRepository {
	return &PostgresHireRepository{DB: db}
}

// Hire выполняет одну попытку транзакции найма: гиг переходит open -> assigned,
// выбранное предложение pending -> hired, остальные pending -> rejected.
// Всё в одной serializable-транзакции; гонку двух одновременных наймов
// дополнительно закрывает условный UPDATE по status = open, проигравший
// получает Conflict. При любой ошибке транзакция откатывается целиком.
func (r *PostgresHireRepository) Hire(ctx context.Context, bidId, callerId string) (*models.Bid, *models.Gig, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx) // no-op после успешного Commit

	var bid models.Bid
	err = tx.QueryRow(ctx, `
		SELECT id, gig_id, freelancer_id, message, price, status, created_at
		FROM bid WHERE id = $1`, bidId).Scan(
		&bid.ID,
		&bid.GigID,
		&bid.FreelancerID,
		&bid.Message,
		&bid.Price,
		&bid.Status,
		&bid.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, models.NewErrorResponse(http.StatusNotFound, "bid not found")
	}
	if err != nil {
		return nil, nil, err
	}

	var gig models.Gig
	err = tx.QueryRow(ctx, `
		SELECT id, title, description, budget, owner_id, status, created_at
		FROM gig WHERE id = $1`, bid.GigID).Scan(
		&gig.ID,
		&gig.Title,
		&gig.Description,
		&gig.Budget,
		&gig.OwnerID,
		&gig.Status,
		&gig.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, models.NewErrorResponse(http.StatusNotFound, "gig not found")
	}
	if err != nil {
		return nil, nil, err
	}

	if gig.OwnerID != callerId {
		return nil, nil, models.NewErrorResponse(http.StatusForbidden, "only the gig owner can hire")
	}
	if gig.Status != models.OpenGig {
		return nil, nil, models.NewErrorResponse(http.StatusConflict, "gig already assigned")
	}
	if bid.Status != models.PendingBid {
		return nil, nil, models.NewErrorResponse(http.StatusConflict, "bid is not pending")
	}

	// Compare-and-swap по статусу гига: при конкурентном найме проигравшая
	// транзакция не найдёт строку со статусом open.
	tag, err := tx.Exec(ctx, `UPDATE gig SET status = $1 WHERE id = $2 AND status = $3`,
		models.AssignedGig, gig.ID, models.OpenGig)
	if err != nil {
		return nil, nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, nil, models.NewErrorResponse(http.StatusConflict, "gig already assigned")
	}

	_, err = tx.Exec(ctx, `UPDATE bid SET status = $1 WHERE id = $2`,
		models.HiredBid, bid.ID)
	if err != nil {
		return nil, nil, err
	}

	_, err = tx.Exec(ctx, `UPDATE bid SET status = $1 WHERE gig_id = $2 AND id <> $3 AND status = $4`,
		models.RejectedBid, gig.ID, bid.ID, models.PendingBid)
	if err != nil {
		return nil, nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	hiredBid := bid
	hiredBid.Status = models.HiredBid
	assignedGig := gig
	assignedGig.Status = models.AssignedGig
	return &hiredBid, &assignedGig, nil
}

// IsSerializationFailure сообщает, провалилась ли транзакция из-за конфликта
// сериализации или дедлока (SQLSTATE 40001 / 40P01) - такие попытки можно
// повторить с чистого листа.
func IsSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}
