package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

type healthHandler struct {
	responder   Responder
	startupTime time.Time
}

func newHealthHandler(startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()
	return healthHandler{
		responder:   NewResponder(logger),
		startupTime: startupTime,
	}
}

type healthResponse struct {
	Status      string    `json:"status"`
	StartupTime time.Time `json:"startupTime"`
	Uptime      string    `json:"uptime"`
}

func (h healthHandler) getHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, healthResponse{
			Status:      "ok",
			StartupTime: h.startupTime,
			Uptime:      time.Since(h.startupTime).Round(time.Second).String(),
		})
	}
}
