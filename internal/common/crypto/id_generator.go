package crypto

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/google/uuid"

	"github.com/brand-registry/backend/internal/common/constants"
)

type IDGenerator interface {
	NewID() (string, error)
}

type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

type TokenGenerator interface {
	NewToken() (string, error)
}

// URLSafeTokenGenerator returns RefreshTokenSize random bytes encoded as
// unpadded URL-safe base64.
type URLSafeTokenGenerator struct{}

func NewURLSafeTokenGenerator() *URLSafeTokenGenerator {
	return &URLSafeTokenGenerator{}
}

func (g *URLSafeTokenGenerator) NewToken() (string, error) {
	b := make([]byte, constants.RefreshTokenSize)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
