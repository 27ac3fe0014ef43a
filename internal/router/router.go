package router

import (
	"net/http"

	"github.com/kperminova/gig-service/internal/handlers"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func InitRoutes(gigHandler *handlers.GigHandler, bidHandler *handlers.BidHandler, eventsHandler *handlers.EventsHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/ping", handlers.PingHandler)

	mux.HandleFunc("/api/gigs", gigHandler.GetGigs)
	mux.HandleFunc("POST /api/gigs/new", gigHandler.CreateGig)
	mux.HandleFunc("GET /api/gigs/my", gigHandler.GetUserGigs)
	mux.HandleFunc("GET /api/gigs/{gigId}", gigHandler.GetGigById)
	mux.HandleFunc("GET /api/gigs/{gigId}/bids", bidHandler.GetGigBids)

	mux.HandleFunc("/api/bids/new", bidHandler.CreateBid)
	mux.HandleFunc("/api/bids/my", bidHandler.GetUserBids)
	mux.HandleFunc("POST /api/bids/{bidId}/hire", bidHandler.HireBid)

	mux.HandleFunc("/api/events", eventsHandler.Subscribe)

	mux.Handle("/metrics", promhttp.Handler())

	return mux
}
