package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/easy-books/easy-books-server/internal/api/rest/respond"
	"github.com/easy-books/easy-books-server/internal/logger"
)

const healthTimeout = 2 * time.Second

// Pinger checks that a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// System serves the index and health endpoints.
type System struct {
	db     Pinger
	logger *logger.Logger
}

// NewSystem creates a new System handler.
func NewSystem(db Pinger, logger *logger.Logger) *System {
	return &System{db: db, logger: logger}
}

type messageResponse struct {
	Message string `json:"message"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Index confirms the application is up.
func (h *System) Index(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, messageResponse{Message: "App initialized."})
}

// Health reports whether the database answers a ping.
func (h *System) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("System handler: database ping failed",
			"error", err.Error())
		respond.JSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Database: "down"})
		return
	}

	respond.JSON(w, http.StatusOK, healthResponse{Status: "ok", Database: "up"})
}
