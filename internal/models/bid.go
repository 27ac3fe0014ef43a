package models

import "time"

type BidStatus string // Статус предложения

const (
	PendingBid  BidStatus = "pending"  // Предложение ждёт решения владельца
	HiredBid    BidStatus = "hired"    // Исполнитель нанят
	RejectedBid BidStatus = "rejected" // Предложение отклонено
)

// Bid представляет модель предложения по гигу.
type Bid struct {
	ID           string    `json:"id"`
	GigID        string    `json:"gigId"`
	FreelancerID string    `json:"freelancerId"`
	Message      string    `json:"message"`
	Price        float64   `json:"price"`
	Status       BidStatus `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// BidRequest представляет структуру запроса для создания предложения.
type BidRequest struct {
	GigID        string  `json:"gigId"`
	Message      string  `json:"message"`
	Price        float64 `json:"price"`
	FreelancerID string  `json:"-"`
}
