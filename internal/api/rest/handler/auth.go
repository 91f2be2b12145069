package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/easy-books/easy-books-server/internal/api/rest/respond"
	"github.com/easy-books/easy-books-server/internal/apierrors"
	"github.com/easy-books/easy-books-server/internal/logger"
	"github.com/easy-books/easy-books-server/internal/model"
	"github.com/easy-books/easy-books-server/internal/service"
)

// AuthService defines user registration and login operations.
type AuthService interface {
	Register(ctx context.Context, username, password string) (uuid.UUID, error)
	Login(ctx context.Context, username, password string) (model.Session, error)
}

// Auth handles HTTP endpoints for authentication.
type Auth struct {
	authService AuthService
	validate    *validator.Validate
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, validate *validator.Validate, logger *logger.Logger) *Auth {
	return &Auth{
		authService: authService,
		validate:    validate,
		logger:      logger,
	}
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=128"`
}

type registerResponse struct {
	UserID uuid.UUID `json:"user_id"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    uuid.UUID `json:"user_id"`
}

// Register creates a user account.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeCredentials(w, r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.logger.Debug("Auth handler: processing registration request",
		"username", req.Username)

	userID, err := h.authService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.logger.Info("Auth handler: registration completed",
		"user_id", userID)

	respond.JSON(w, http.StatusCreated, registerResponse{UserID: userID})
}

// Login exchanges credentials for a bearer token.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeCredentials(w, r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	session, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	respond.JSON(w, http.StatusOK, loginResponse{
		Token:     session.Token,
		TokenType: "Bearer",
		ExpiresAt: session.ExpiresAt.UTC(),
		UserID:    session.UserID,
	})
}

func (h *Auth) decodeCredentials(w http.ResponseWriter, r *http.Request) (credentialsRequest, error) {
	var req credentialsRequest
	if err := respond.DecodeJSON(w, r, &req); err != nil {
		return credentialsRequest{}, err
	}
	if err := h.validate.Struct(req); err != nil {
		return credentialsRequest{}, apierrors.NewErrInvalidInput(service.ValidationMessage(err))
	}
	return req, nil
}
