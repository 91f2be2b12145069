package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/easy-books/easy-books-server/internal/apierrors"
	"github.com/easy-books/easy-books-server/internal/logger"
	"github.com/easy-books/easy-books-server/internal/model"
)

const maxUsernameLength = 64

// AuthPolicy holds the configurable parts of credential handling.
type AuthPolicy struct {
	MinPasswordLength int
	// CheckUserOnValidate makes Validate confirm the token's user still exists.
	CheckUserOnValidate bool
}

type Auth struct {
	userStore    model.UserStore
	hasher       model.PasswordHasher
	tokenManager model.TokenManager
	throttle     model.LoginThrottle
	policy       AuthPolicy
	logger       *logger.Logger
}

// NewAuth creates the auth service. throttle may be nil to disable failed-login limiting.
func NewAuth(
	userStore model.UserStore,
	hasher model.PasswordHasher,
	tokenManager model.TokenManager,
	throttle model.LoginThrottle,
	policy AuthPolicy,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		hasher:       hasher,
		tokenManager: tokenManager,
		throttle:     throttle,
		policy:       policy,
		logger:       logger,
	}
}

// NormalizeUsername trims surrounding whitespace and case-folds the name.
func NormalizeUsername(username string) string {
	return cases.Fold().String(strings.TrimSpace(username))
}

func (a *Auth) Register(ctx context.Context, username, password string) (uuid.UUID, error) {
	username = NormalizeUsername(username)

	a.logger.Debug("Auth service: starting user registration",
		"username", username)

	if username == "" || utf8.RuneCountInString(username) > maxUsernameLength {
		return uuid.Nil, apierrors.NewErrInvalidInput(
			fmt.Sprintf("username must be between 1 and %d characters", maxUsernameLength))
	}

	if err := a.checkPassword(password); err != nil {
		return uuid.Nil, err
	}

	_, err := a.userStore.GetByUsername(ctx, username)
	if err == nil {
		a.logger.Info("Auth service: username already taken",
			"username", username)
		return uuid.Nil, apierrors.NewErrUsernameTaken(username)
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by username",
			"username", username,
			"error", err.Error())
		return uuid.Nil, storageError("failed to get user by username", err)
	}

	hash, err := a.hasher.Hash(password)
	if err != nil {
		a.logger.Error("Auth service: failed to hash password",
			"username", username,
			"error", err.Error())
		return uuid.Nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user, err := a.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, model.ErrConflict) {
		a.logger.Info("Auth service: username taken by concurrent registration",
			"username", username)
		return uuid.Nil, apierrors.NewErrUsernameTaken(username)
	}
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"username", username,
			"error", err.Error())
		return uuid.Nil, storageError("failed to create user", err)
	}

	a.logger.Info("Auth service: user registered",
		"username", username,
		"user_id", user.ID)

	return user.ID, nil
}

// Login verifies credentials and issues an access token. Unknown usernames and
// wrong passwords produce the same error after comparable work.
func (a *Auth) Login(ctx context.Context, username, password string) (model.Session, error) {
	username = NormalizeUsername(username)

	a.logger.Debug("Auth service: starting user login",
		"username", username)

	if !a.allowLogin(ctx, username) {
		return model.Session{}, apierrors.NewErrTooManyAttempts()
	}

	user, err := a.userStore.GetByUsername(ctx, username)
	if errors.Is(err, model.ErrNotFound) {
		a.hasher.VerifyDummy(password)
		a.logger.Debug("Auth service: login for unknown username",
			"username", username)
		a.recordFailure(ctx, username)
		return model.Session{}, apierrors.NewErrInvalidCredentials()
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get user by username",
			"username", username,
			"error", err.Error())
		return model.Session{}, storageError("failed to get user by username", err)
	}

	ok, err := a.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		a.logger.Error("Auth service: stored password hash is unreadable",
			"user_id", user.ID,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		a.logger.Debug("Auth service: wrong password",
			"user_id", user.ID)
		a.recordFailure(ctx, username)
		return model.Session{}, apierrors.NewErrInvalidCredentials()
	}

	token, err := a.tokenManager.GenerateAccessToken(user.ID)
	if err != nil {
		a.logger.Error("Auth service: failed to generate access token",
			"user_id", user.ID,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	a.resetFailures(ctx, username)

	a.logger.Info("Auth service: user logged in",
		"user_id", user.ID)

	return model.Session{
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
		UserID:    user.ID,
	}, nil
}

// Validate resolves a bearer token to its user ID. Every failure is reported
// to the caller as an invalid token; the reason is only logged.
func (a *Auth) Validate(ctx context.Context, token string) (uuid.UUID, error) {
	userID, err := a.tokenManager.ParseAccessToken(token)
	if err != nil {
		a.logger.Debug("Auth service: token rejected",
			"reason", tokenRejectReason(err))
		return uuid.Nil, apierrors.NewErrInvalidAuthorizationToken()
	}

	if !a.policy.CheckUserOnValidate {
		return userID, nil
	}

	_, err = a.userStore.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		a.logger.Info("Auth service: token for missing user",
			"user_id", userID)
		return uuid.Nil, apierrors.NewErrInvalidAuthorizationToken()
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get user by id",
			"user_id", userID,
			"error", err.Error())
		return uuid.Nil, storageError("failed to get user by id", err)
	}

	return userID, nil
}

func (a *Auth) checkPassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < a.policy.MinPasswordLength || len(password) > apierrors.MaxPasswordLength {
		return apierrors.NewErrWeakPassword(a.policy.MinPasswordLength)
	}
	return nil
}

// The throttle fails open: a Redis outage must not lock every user out.
func (a *Auth) allowLogin(ctx context.Context, username string) bool {
	if a.throttle == nil {
		return true
	}

	ok, err := a.throttle.Allow(ctx, username)
	if err != nil {
		a.logger.Warn("Auth service: login throttle unavailable",
			"error", err.Error())
		return true
	}
	if !ok {
		a.logger.Info("Auth service: login throttled",
			"username", username)
	}
	return ok
}

func (a *Auth) recordFailure(ctx context.Context, username string) {
	if a.throttle == nil {
		return
	}
	if err := a.throttle.RecordFailure(ctx, username); err != nil {
		a.logger.Warn("Auth service: failed to record login failure",
			"error", err.Error())
	}
}

func (a *Auth) resetFailures(ctx context.Context, username string) {
	if a.throttle == nil {
		return
	}
	if err := a.throttle.Reset(ctx, username); err != nil {
		a.logger.Warn("Auth service: failed to reset login failures",
			"error", err.Error())
	}
}

func tokenRejectReason(err error) string {
	switch {
	case errors.Is(err, model.ErrTokenExpired):
		return "expired"
	case errors.Is(err, model.ErrTokenBadSignature):
		return "bad_signature"
	default:
		return "malformed"
	}
}

// storageError converts storage outages to a retryable API error and wraps anything else.
func storageError(msg string, err error) error {
	if errors.Is(err, model.ErrStorageUnavailable) {
		return apierrors.NewErrStorageUnavailable(fmt.Errorf("%s: %w", msg, err))
	}
	return fmt.Errorf("%s: %w", msg, err)
}
