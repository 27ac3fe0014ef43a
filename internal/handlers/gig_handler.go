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

// GigHandler - структура для обработки HTTP-запросов по гигам.
type GigHandler struct {
	Service  *services.GigService
	Identity identity.Provider
	Logger   *log.Logger
	Timeout  time.Duration
}

// NewGigHandler создает новый экземпляр GigHandler.
func NewGigHandler(service *services.GigService, provider identity.Provider, logger *log.Logger, timeout time.Duration) *GigHandler {
	return &GigHandler{
		Service:  service,
		Identity: provider,
		Logger:   logger,
		Timeout:  timeout,
	}
}

// CreateGig обрабатывает запросы для создания гига.
func (h *GigHandler) CreateGig(w http.ResponseWriter, r *http.Request) {
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

	var gigReq models.GigRequest
	if err := json.NewDecoder(r.Body).Decode(&gigReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	gigReq.OwnerID = callerId

	newGig, err := h.Service.CreateGig(ctx, gigReq)
	if err != nil {
		h.sendError(w, err, "failed to create gig")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err = json.NewEncoder(w).Encode(newGig); err != nil {
		h.Logger.Println(err)
	}
}

// GetGigs обрабатывает запросы для получения списка гигов с поиском.
func (h *GigHandler) GetGigs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")
	search := r.URL.Query().Get("search")
	statuses := r.URL.Query()["status"]

	gigs, err := h.Service.FetchGigs(ctx, limitStr, offsetStr, search, statuses)
	if err != nil {
		h.sendError(w, err, "failed to retrieve gigs")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(gigs); err != nil {
		h.Logger.Println(err)
	}
}

// GetUserGigs обрабатывает запросы для получения списка гигов пользователя.
func (h *GigHandler) GetUserGigs(w http.ResponseWriter, r *http.Request) {
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

	gigs, err := h.Service.GetUserGigs(ctx, limitStr, offsetStr, callerId)
	if err != nil {
		h.sendError(w, err, "failed to retrieve gigs")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(gigs); err != nil {
		h.Logger.Println(err)
	}
}

// GetGigById обрабатывает запросы для получения гига по ID.
func (h *GigHandler) GetGigById(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	gigId := r.PathValue("gigId")

	gig, err := h.Service.GetGigById(ctx, gigId)
	if err != nil {
		h.sendError(w, err, "failed to retrieve gig")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(gig); err != nil {
		h.Logger.Println(err)
	}
}

func (h *GigHandler) sendError(w http.ResponseWriter, err error, fallback string) {
	h.Logger.Println(err)
	if errorResponse, ok := err.(*models.ErrorResponse); ok {
		utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
		return
	}
	utils.SendErrorResponse(w, http.StatusInternalServerError, fallback)
}
