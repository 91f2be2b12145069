package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/easy-books/easy-books-server/internal/model"
)

const (
	typeAccess = "access"
	defaultTTL = 12 * time.Hour
)

var errUnknownKey = errors.New("unknown signing key")

// Claims represents JWT claims with token type and user ID.
type Claims struct {
	jwt.RegisteredClaims
	UserID    uuid.UUID `json:"user_id"`
	TokenType string    `json:"typ"`
}

// Options configures the signing key ring and token lifetime.
type Options struct {
	// KeyID names Secret in the kid header of issued tokens.
	KeyID  string
	Secret string
	// RetiredKeys are accepted for validation only. Removing a key
	// invalidates every token it signed.
	RetiredKeys map[string]string
	TTL         time.Duration
	Issuer      string
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	keyID  string
	keys   map[string][]byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

var _ model.TokenManager = (*JWT)(nil)

// NewJWT creates a new JWT token manager.
func NewJWT(opts Options) *JWT {
	keys := make(map[string][]byte, len(opts.RetiredKeys)+1)
	for kid, secret := range opts.RetiredKeys {
		keys[kid] = []byte(secret)
	}
	keys[opts.KeyID] = []byte(opts.Secret)

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &JWT{
		keyID:  opts.KeyID,
		keys:   keys,
		ttl:    ttl,
		issuer: opts.Issuer,
		now:    time.Now,
	}
}

// GenerateAccessToken creates an access token signed with the current key.
func (j *JWT) GenerateAccessToken(userID uuid.UUID) (model.AccessToken, error) {
	now := j.now()
	expiresAt := now.Add(j.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:    userID,
		TokenType: typeAccess,
	})
	token.Header["kid"] = j.keyID

	tokenString, err := token.SignedString(j.keys[j.keyID])
	if err != nil {
		return model.AccessToken{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	return model.AccessToken{
		Token:     tokenString,
		ExpiresAt: expiresAt.Truncate(time.Second),
	}, nil
}

// ParseAccessToken validates the token and extracts the user ID. Errors wrap
// model.ErrTokenExpired, model.ErrTokenBadSignature or model.ErrTokenMalformed.
func (j *JWT) ParseAccessToken(tokenString string) (uuid.UUID, error) {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	}
	if j.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(j.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, j.keyFunc, parserOpts...)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse access token: %w", classify(err))
	}
	if !token.Valid {
		return uuid.Nil, fmt.Errorf("access token is invalid: %w", model.ErrTokenMalformed)
	}
	if claims.TokenType != typeAccess {
		return uuid.Nil, fmt.Errorf("token type mismatch %q: %w", claims.TokenType, model.ErrTokenMalformed)
	}
	if claims.UserID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("token has no subject: %w", model.ErrTokenMalformed)
	}

	return claims.UserID, nil
}

func (j *JWT) keyFunc(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
	}

	kid, _ := t.Header["kid"].(string)
	key, ok := j.keys[kid]
	if !ok {
		return nil, fmt.Errorf("%w %q", errUnknownKey, kid)
	}

	return key, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", model.ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, errUnknownKey):
		return fmt.Errorf("%w: %v", model.ErrTokenBadSignature, err)
	default:
		return fmt.Errorf("%w: %v", model.ErrTokenMalformed, err)
	}
}
