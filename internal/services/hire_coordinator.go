package services

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/kperminova/gig-service/internal/metrics"
	"github.com/kperminova/gig-service/internal/models"
	"github.com/kperminova/gig-service/internal/notification"
	"github.com/kperminova/gig-service/internal/repository"
)

// hireRetryLimit - число попыток транзакции найма при конфликтах сериализации.
const hireRetryLimit = 3

// HireCoordinator выполняет найм исполнителя: ограниченный повтор
// транзакции при конфликтах сериализации и публикация уведомления
// нанятому исполнителю строго после коммита.
type HireCoordinator struct {
	Repo   repository.HireRepository
	Hub    notification.Publisher
	Logger *log.Logger
}

// NewHireCoordinator создает новый экземпляр HireCoordinator.
func NewHireCoordinator(repo repository.HireRepository, hub notification.Publisher, logger *log.Logger) *HireCoordinator {
	return &HireCoordinator{Repo: repo, Hub: hub, Logger: logger}
}

// Hire нанимает исполнителя по предложению bidId от имени callerId.
// Возвращает нанятое предложение либо ошибку; проигравший гонку найма
// получает Conflict, как если бы гиг уже был закрыт раньше.
func (s *HireCoordinator) Hire(ctx context.Context, bidId, callerId string) (*models.Bid, error) {
	var lastErr error
	for attempt := 1; attempt <= hireRetryLimit; attempt++ {
		bid, gig, err := s.Repo.Hire(ctx, bidId, callerId)
		if err == nil {
			metrics.HiresTotal.WithLabelValues("success").Inc()
			s.notifyHired(bid, gig)
			return bid, nil
		}
		if !repository.IsSerializationFailure(err) {
			if errorResponse, ok := err.(*models.ErrorResponse); ok {
				if errorResponse.StatusCode == http.StatusConflict {
					metrics.HiresTotal.WithLabelValues("conflict").Inc()
				}
				return nil, err
			}
			metrics.HiresTotal.WithLabelValues("error").Inc()
			return nil, err
		}
		lastErr = err
		s.Logger.Printf("hire of bid %s: serialization failure on attempt %d, retrying", bidId, attempt)
	}

	s.Logger.Printf("hire of bid %s: retries exhausted: %v", bidId, lastErr)
	metrics.HiresTotal.WithLabelValues("conflict").Inc()
	return nil, models.NewErrorResponse(http.StatusConflict, "gig already assigned")
}

// notifyHired публикует уведомление в канал нанятого исполнителя.
// Доставка best-effort: отсутствие подписчиков или сбой публикации
// не влияет на уже закоммиченную транзакцию.
func (s *HireCoordinator) notifyHired(bid *models.Bid, gig *models.Gig) {
	event := notification.Event{
		Message: fmt.Sprintf("You have been hired for %s", gig.Title),
		GigID:   gig.ID,
	}
	s.Hub.Publish(bid.FreelancerID, event)
	metrics.NotificationsPublished.Inc()
}
