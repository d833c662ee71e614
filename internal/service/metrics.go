package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	campaignsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "santa_campaigns_created_total",
		Help: "Number of campaigns created.",
	})
	campaignsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "santa_campaigns_started_total",
		Help: "Number of campaigns that drew assignments.",
	})
	campaignsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "santa_campaigns_deleted_total",
		Help: "Number of campaigns deleted by their organizer.",
	})
	notificationsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "santa_notifications_sent_total",
		Help: "Assignment and relay DMs delivered to the gateway.",
	})
	notificationsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "santa_notifications_failed_total",
		Help: "Assignment and relay DMs that could not be delivered.",
	})
)
