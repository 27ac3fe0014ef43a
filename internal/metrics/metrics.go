package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HiresTotal считает исходы операций найма (success, conflict, error).
var HiresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "gig_hires_total",
	Help: "Total hire operations by outcome.",
}, []string{"outcome"})

// NotificationsPublished считает опубликованные уведомления о найме.
var NotificationsPublished = promauto.NewCounter(prometheus.CounterOpts{
	Name: "gig_notifications_published_total",
	Help: "Total hire notifications published to user channels.",
})
