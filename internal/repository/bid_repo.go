package repository

import (
	"context"
	"net/http"
	"time"

	"github.com/kperminova/gig-service/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BidRepository - интерфейс для работы с предложениями.
type BidRepository interface {
	CreateBid(ctx context.Context, bidReq models.BidRequest) (*models.Bid, error)
	GetGigBids(ctx context.Context, gigId string, limit, offset int) ([]models.Bid, error)
	GetUserBids(ctx context.Context, limit, offset int, freelancerId string) ([]models.Bid, error)
	GetBidById(ctx context.Context, bidId string) (*models.Bid, error)
}

// PostgresBidRepository - реализация BidRepository для базы данных.
type PostgresBidRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresBidRepository создает новый экземпляр PostgresBidRepository.
func NewPostgresBidRepository(db *pgxpool.Pool) *PostgresBidRepository {
	return &PostgresBidRepository{DB: db}
}

// CreateBid создает новое предложение со статусом pending.
// Вставка выполняется только пока гиг открыт: условие в подзапросе закрывает
// гонку между проверкой статуса и вставкой.
func (r *PostgresBidRepository) CreateBid(ctx context.Context, bidReq models.BidRequest) (*models.Bid, error) {
	newBid := models.Bid{
		ID:           uuid.New().String(),
		GigID:        bidReq.GigID,
		FreelancerID: bidReq.FreelancerID,
		Message:      bidReq.Message,
		Price:        bidReq.Price,
		Status:       models.PendingBid,
		CreatedAt:    time.Now().UTC(),
	}
	insertQuery := `
		INSERT INTO bid (id, gig_id, freelancer_id, message, price, status, created_at)
		SELECT $1, $2, $3, $4, $5, $6, $7
		WHERE EXISTS (SELECT 1 FROM gig WHERE id = $2 AND status = $8)`
	tag, err := r.DB.Exec(
		ctx,
		insertQuery,
		newBid.ID,
		newBid.GigID,
		newBid.FreelancerID,
		newBid.Message,
		newBid.Price,
		newBid.Status,
		newBid.CreatedAt,
		models.OpenGig)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, models.NewErrorResponse(http.StatusConflict, "gig is no longer open for bids")
	}
	return &newBid, nil
}

// GetGigBids возвращает список предложений по гигу.
func (r *PostgresBidRepository) GetGigBids(ctx context.Context, gigId string, limit, offset int) ([]models.Bid, error) {
	query := `
		SELECT id, gig_id, freelancer_id, message, price, status, created_at
		FROM bid
		WHERE gig_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.DB.Query(ctx, query, gigId, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bids []models.Bid
	for rows.Next() {
		var bid models.Bid
		if err := rows.Scan(&bid.ID, &bid.GigID, &bid.FreelancerID, &bid.Message, &bid.Price, &bid.Status, &bid.CreatedAt); err != nil {
			return nil, err
		}
		bids = append(bids, bid)
	}
	return bids, nil
}

// GetUserBids возвращает список предложений пользователя.
func (r *PostgresBidRepository) GetUserBids(ctx context.Context, limit, offset int, freelancerId string) ([]models.Bid, error) {
	query := `
		SELECT id, gig_id, freelancer_id, message, price, status, created_at
		FROM bid
		WHERE freelancer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.DB.Query(ctx, query, freelancerId, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var userBids []models.Bid
	for rows.Next() {
		var bid models.Bid
		if err := rows.Scan(
			&bid.ID,
			&bid.GigID,
			&bid.FreelancerID,
			&bid.Message,
			&bid.Price,
			&bid.Status,
			&bid.CreatedAt); err != nil {
			return nil, err
		}
		userBids = append(userBids, bid)
	}
	return userBids, nil
}

// GetBidById получает предложение по ID.
func (r *PostgresBidRepository) GetBidById(ctx context.Context, bidId string) (*models.Bid, error) {
	var bid models.Bid
	query := `SELECT id, gig_id, freelancer_id, message, price, status, created_at
	          FROM bid WHERE id = $1`
	err := r.DB.QueryRow(ctx, query, bidId).Scan(
		&bid.ID,
		&bid.GigID,
		&bid.FreelancerID,
		&bid.Message,
		&bid.Price,
		&bid.Status,
		&bid.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &bid, nil
}
