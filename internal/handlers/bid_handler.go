package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/kperminova/gig-service/internal/identity"
	"github.com/kperminova/gig-service/internal/models"
	"github.com/kperminova/gig-service/internal/services"
	"github.com/kperminova/gig-service/internal/utils"
)

// BidHandler - структура для обработки HTTP-запросов по предложениям.
type BidHandler struct {
	Service     *services.BidService
	Coordinator *services.HireCoordinator
	Identity    identity.Provider
	Logger      *log.Logger
	Timeout     time.Duration
}

// NewBidHandler создает новый экземпляр BidHandler.
func NewBidHandler(service *services.BidService, coordinator *services.HireCoordinator, provider identity.Provider, logger *log.Logger, timeout time.Duration) *BidHandler {
	return &BidHandler{
		Service:     service,
		Coordinator: coordinator,
		Identity:    provider,
		Logger:      logger,
		Timeout:     timeout,
	}
}

// CreateBid обрабатывает запросы для создания предложения.
func (h *BidHandler) CreateBid(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	callerId, err := h.Identity.Identify(r)
	if err != nil {
		h.sendError(w, err, "unauthorized")
		return
	}

	var bidReq models.BidRequest
	if err := json.NewDecoder(r.Body).Decode(&bidReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	bidReq.FreelancerID = callerId

	newBid, err := h.Service.CreateBid(ctx, bidReq)
	if err != nil {
		h.sendError(w, err, "failed to create bid")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err = json.NewEncoder(w).Encode(newBid); err != nil {
		h.Logger.Println(err)
	}
}

// GetUserBids обрабатывает запросы для получения списка предложений пользователя.
func (h *BidHandler) GetUserBids(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	callerId, err := h.Identity.Identify(r)
	if err != nil {
		h.sendError(w, err, "unauthorized")
		return
	}

	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")

	userBids, err := h.Service.GetUserBids(ctx, limitStr, offsetStr, callerId)
	if err != nil {
		h.sendError(w, err, "failed to retrieve bids")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(userBids); err != nil {
		h.Logger.Println(err)
	}
}

// GetGigBids обрабатывает запросы для получения списка предложений по гигу.
func (h *BidHandler) GetGigBids(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	callerId, err := h.Identity.Identify(r)
	if err != nil {
		h.sendError(w, err, "unauthorized")
		return
	}

	gigId := r.PathValue("gigId")
	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")

	bids, err := h.Service.GetGigBids(ctx, gigId, callerId, limitStr, offsetStr)
	if err != nil {
		h.sendError(w, err, "failed to retrieve bids for gig")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(bids); err != nil {
		h.Logger.Println(err)
	}
}

// HireBid обрабатывает запросы на найм исполнителя по предложению.
func (h *BidHandler) HireBid(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	callerId, err := h.Identity.Identify(r)
	if err != nil {
		h.sendError(w, err, "unauthorized")
		return
	}

	bidId := r.PathValue("bidId")

	hiredBid, err := h.Coordinator.Hire(ctx, bidId, callerId)
	if err != nil {
		h.sendError(w, err, "failed to hire freelancer")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(hiredBid); err != nil {
		h.Logger.Println(err)
	}
}

func (h *BidHandler) sendError(w http.ResponseWriter, err error, fallback string) {
	h.Logger.Println(err)
	if errorResponse, ok := err.(*models.ErrorResponse); ok {
		utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
		return
	}
	utils.SendErrorResponse(w, http.StatusInternalServerError, fallback)
}
