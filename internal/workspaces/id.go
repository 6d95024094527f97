package workspaces

import (
	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	tokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	tokenLength   = 32
)

// IDProvider issues record identifiers.
type IDProvider interface {
	NewID() (string, error)
}

// TokenGenerator issues opaque invitation tokens.
type TokenGenerator interface {
	NewToken() (string, error)
}

type uuidProvider struct{}

// NewUUIDProvider constructs an IDProvider that issues UUIDv7 identifiers.
func NewUUIDProvider() IDProvider {
	return &uuidProvider{}
}

func (p *uuidProvider) NewID() (string, error) {
	value, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return value.String(), nil
}

type nanoidTokens struct{}

// NewNanoidTokenGenerator issues 32 character lowercase alphanumeric tokens.
func NewNanoidTokenGenerator() TokenGenerator {
	return nanoidTokens{}
}

func (nanoidTokens) NewToken() (string, error) {
	return gonanoid.Generate(tokenAlphabet, tokenLength)
}
