// Package password hashes passwords with argon2id in PHC string format.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/easy-books/easy-books-server/internal/model"
)

var (
	ErrInvalidHash         = errors.New("password hash is not in the expected format")
	ErrIncompatibleVersion = errors.New("incompatible argon2 version")
)

const (
	saltLength = 16
	keyLength  = 32

	defaultTime   = 1
	defaultMemKiB = 64 * 1024
	defaultPar    = 4
)

var _ model.PasswordHasher = (*Argon2)(nil)

// Params are the argon2id cost parameters used for new hashes.
type Params struct {
	Time   uint32
	MemKiB uint32
	Par    uint8
}

// Argon2 hashes passwords with argon2id and a random per-password salt.
type Argon2 struct {
	params Params
	dummy  string
}

// NewArgon2 creates a hasher. Zero parameters fall back to time=1, memory=64MiB, threads=4.
func NewArgon2(params Params) (*Argon2, error) {
	if params.Time == 0 {
		params.Time = defaultTime
	}
	if params.MemKiB == 0 {
		params.MemKiB = defaultMemKiB
	}
	if params.Par == 0 {
		params.Par = defaultPar
	}

	h := &Argon2{params: params}

	dummy, err := h.Hash(rand.Text())
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}
	h.dummy = dummy

	return h, nil
}

// Hash returns the PHC encoding of password.
func (h *Argon2) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.params.Time, h.params.MemKiB, h.params.Par, keyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.MemKiB, h.params.Time, h.params.Par,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether password matches encoded. Parameters are read from
// the encoding, so hashes made with older settings keep working.
func (h *Argon2) Verify(password, encoded string) (bool, error) {
	params, salt, key, err := decode(encoded)
	if err != nil {
		return false, err
	}

	other := argon2.IDKey([]byte(password), salt, params.Time, params.MemKiB, params.Par, uint32(len(key)))

	return subtle.ConstantTimeCompare(key, other) == 1, nil
}

func (h *Argon2) VerifyDummy(password string) {
	_, _ = h.Verify(password, h.dummy)
}

func decode(encoded string) (Params, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return Params{}, nil, nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return Params{}, nil, nil, ErrInvalidHash
	}
	if version != argon2.Version {
		return Params{}, nil, nil, ErrIncompatibleVersion
	}

	var p Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.MemKiB, &p.Time, &p.Par); err != nil {
		return Params{}, nil, nil, ErrInvalidHash
	}
	if p.Time == 0 || p.MemKiB == 0 || p.Par == 0 {
		return Params{}, nil, nil, ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return Params{}, nil, nil, ErrInvalidHash
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return Params{}, nil, nil, ErrInvalidHash
	}

	return p, salt, key, nil
}
