package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/kperminova/gig-service/internal/models"
	"github.com/kperminova/gig-service/internal/repository"
	"github.com/kperminova/gig-service/internal/utils"

	"github.com/jackc/pgx/v5"
)

type GigService struct {
	Repo repository.GigRepository
}

// NewGigService создаёт новый экземпляр GigService.
func NewGigService(repo repository.GigRepository) *GigService {
	return &GigService{Repo: repo}
}

// CreateGig создает новый гиг.
func (s *GigService) CreateGig(ctx context.Context, gigReq models.GigRequest) (*models.Gig, error) {
	if gigReq.Title == "" || gigReq.Description == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required fields")
	}
	if gigReq.Budget <= 0 {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "budget must be positive")
	}
	return s.Repo.CreateGig(ctx, gigReq)
}

// FetchGigs получает список гигов.
func (s *GigService) FetchGigs(ctx context.Context, limitStr, offsetStr, search string, statuses []string) ([]models.Gig, error) {
	allowedStatuses := map[models.GigStatus]bool{
		models.OpenGig:     true,
		models.AssignedGig: true,
	}
	for _, status := range statuses {
		if !allowedStatuses[models.GigStatus(status)] {
			return nil, models.NewErrorResponse(http.StatusBadRequest, fmt.Sprintf("unsupported status: %s", status))
		}
	}

	limit, offset, err := utils.ParseLimitOffset(limitStr, offsetStr)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusBadRequest, err.Error())
	}
	return s.Repo.GetGigs(ctx, limit, offset, search, statuses)
}

// GetUserGigs получает список гигов пользователя.
func (s *GigService) GetUserGigs(ctx context.Context, limitStr, offsetStr, ownerId string) ([]models.Gig, error) {
	limit, offset, err := utils.ParseLimitOffset(limitStr, offsetStr)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusBadRequest, err.Error())
	}
	return s.Repo.GetUserGigs(ctx, limit, offset, ownerId)
}

// GetGigById получает гиг по ID.
func (s *GigService) GetGigById(ctx context.Context, gigId string) (*models.Gig, error) {
	gig, err := s.Repo.GetGigById(ctx, gigId)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NewErrorResponse(http.StatusNotFound, "gig not found")
	}
	if err != nil {
		return nil, err
	}
	return gig, nil
}
