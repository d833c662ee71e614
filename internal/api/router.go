package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/titilda/supersanta/internal/auth"
	"github.com/titilda/supersanta/internal/middleware"
)

// NewRouter wires all routes with their middleware. The gateway-facing
// /v1 endpoints require a valid gateway JWT; /healthz and /metrics stay
// open for probes and scrapers.
func NewRouter(handler *Handler, jwtManager *auth.JWTManager) http.Handler {
	v1 := http.NewServeMux()
	v1.HandleFunc("POST /v1/campaigns", handler.CreateCampaign)
	v1.HandleFunc("DELETE /v1/campaigns/{group}", handler.DeleteCampaign)
	v1.HandleFunc("POST /v1/campaigns/{group}/join", handler.Join)
	v1.HandleFunc("POST /v1/campaigns/{group}/leave", handler.Leave)
	v1.HandleFunc("POST /v1/campaigns/{group}/start", handler.Start)
	v1.HandleFunc("GET /v1/campaigns/{group}/members", handler.Members)
	v1.HandleFunc("GET /v1/campaigns/{group}/export", handler.Export)
	v1.HandleFunc("POST /v1/messages", handler.SendMessage)

	root := http.NewServeMux()
	root.Handle("/v1/", middleware.RequireAuth(jwtManager, v1))
	root.HandleFunc("GET /healthz", handler.Healthz)
	root.Handle("GET /metrics", promhttp.Handler())

	return middleware.Logging(middleware.Metrics(root))
}
