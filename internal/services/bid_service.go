package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/kperminova/gig-service/internal/models"
	"github.com/kperminova/gig-service/internal/repository"
	"github.com/kperminova/gig-service/internal/utils"

	"github.com/jackc/pgx/v5"
)

type BidService struct {
	Repo repository.BidRepository
	Gigs repository.GigRepository
}

// NewBidService создает новый экземпляр BidService.
func NewBidService(repo repository.BidRepository, gigs repository.GigRepository) *BidService {
	return &BidService{Repo: repo, Gigs: gigs}
}

// CreateBid создает новое предложение по открытому гигу.
// Владелец гига не может оставить предложение на собственный гиг.
func (s *BidService) CreateBid(ctx context.Context, bidReq models.BidRequest) (*models.Bid, error) {
	if bidReq.GigID == "" || bidReq.Message == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required fields")
	}
	if bidReq.Price <= 0 {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "price must be positive")
	}

	gig, err := s.Gigs.GetGigById(ctx, bidReq.GigID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NewErrorResponse(http.StatusNotFound, "gig not found")
	}
	if err != nil {
		return nil, err
	}

	if gig.OwnerID == bidReq.FreelancerID {
		return nil, models.NewErrorResponse(http.StatusForbidden, "you cannot bid on your own gig")
	}
	if gig.Status != models.OpenGig {
		return nil, models.NewErrorResponse(http.StatusConflict, "gig is no longer open for bids")
	}

	return s.Repo.CreateBid(ctx, bidReq)
}

// GetGigBids получает список предложений по гигу. Доступно только владельцу.
func (s *BidService) GetGigBids(ctx context.Context, gigId, callerId, limitStr, offsetStr string) ([]models.Bid, error) {
	limit, offset, err := utils.ParseLimitOffset(limitStr, offsetStr)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusBadRequest, err.Error())
	}

	gig, err := s.Gigs.GetGigById(ctx, gigId)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NewErrorResponse(http.StatusNotFound, "gig not found")
	}
	if err != nil {
		return nil, err
	}
	if gig.OwnerID != callerId {
		return nil, models.NewErrorResponse(http.StatusForbidden, "you are not authorized to view bids for this gig")
	}

	return s.Repo.GetGigBids(ctx, gigId, limit, offset)
}

// GetUserBids получает список предложений пользователя.
func (s *BidService) GetUserBids(ctx context.Context, limitStr, offsetStr, freelancerId string) ([]models.Bid, error) {
	limit, offset, err := utils.ParseLimitOffset(limitStr, offsetStr)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusBadRequest, err.Error())
	}
	return s.Repo.GetUserBids(ctx, limit, offset, freelancerId)
}
