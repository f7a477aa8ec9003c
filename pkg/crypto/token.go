package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/blake2b"
)

var (
	ErrEmptySecret = errors.New("token hasher secret cannot be empty")
)

const (
	DefaultTokenLength = 32 // 256 bits
)

type TokenPair struct {
	Token string // value returned to client
	Hash  string // value in storage
}

func generateToken(byteLength int) (string, error) {
	if byteLength <= 0 {
		byteLength = DefaultTokenLength
	}

	bytes := make([]byte, byteLength)

	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// TokenHasher turns session tokens into storage keys with keyed BLAKE2b-256.
type TokenHasher struct {
	key [32]byte
}

func NewTokenHasher(secret string) (*TokenHasher, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	// blake2b keys are capped at 64 bytes; derive a fixed-size key instead
	return &TokenHasher{key: blake2b.Sum256([]byte(secret))}, nil
}

// Generate returns a fresh random token and its storage hash
func (h *TokenHasher) Generate() (*TokenPair, error) {
	token, err := generateToken(DefaultTokenLength)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		Token: token,
		Hash:  h.Hash(token),
	}, nil
}

func (h *TokenHasher) Hash(token string) string {
	mac, err := blake2b.New256(h.key[:])
	if err != nil {
		// only reachable with a key longer than 64 bytes
		panic(err)
	}
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}
