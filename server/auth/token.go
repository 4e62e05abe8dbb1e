// Package auth contains code to ensure users are authorized to use the server after they have logged in.
package auth

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type (
	// Tokenizer creates and reads signed tokens for users.
	Tokenizer struct {
		method jwt.SigningMethod
		key    []byte
		TokenizerConfig
	}

	// TokenizerConfig contains fields which describe a Tokenizer.
	TokenizerConfig struct {
		// KeyReader is used to generate token keys.
		KeyReader io.Reader
		// TimeFunc is a function which should supply the current time since the unix epoch.
		// Used to set the length of time the token is valid.
		TimeFunc func() int64
		// ValidSec is the length of time the token is valid from the issuing time, in seconds.
		ValidSec int64
	}

	// userClaims are the contents of a token.  The username is stored in the Subject ("sub") field.
	userClaims struct {
		Points int `json:"points"`
		jwt.RegisteredClaims
	}
)

const keyLength = 64

// ErrExpiredToken is returned when reading a token that is not valid at the current time.
var ErrExpiredToken = errors.New("token expired or not valid yet")

// NewTokenizer creates a Tokenizer that uses the random number generator to generate its key.
func (cfg TokenizerConfig) NewTokenizer() (*Tokenizer, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("creating tokenizer: validation: %w", err)
	}
	key := make([]byte, keyLength)
	if _, err := io.ReadFull(cfg.KeyReader, key); err != nil {
		return nil, fmt.Errorf("generating tokenizer key: %w", err)
	}
	t := Tokenizer{
		method:          jwt.SigningMethodHS256,
		key:             key,
		TokenizerConfig: cfg,
	}
	return &t, nil
}

// validate ensures the configuration has no errors.
func (cfg TokenizerConfig) validate() error {
	switch {
	case cfg.KeyReader == nil:
		return fmt.Errorf("key reader required")
	case cfg.TimeFunc == nil:
		return fmt.Errorf("time func required")
	case cfg.ValidSec <= 0:
		return fmt.Errorf("positive valid seconds required")
	}
	return nil
}

// Create converts a user to a token string.
func (t Tokenizer) Create(username string, points int) (string, error) {
	now := t.TimeFunc()
	claims := userClaims{
		Points: points,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			NotBefore: jwt.NewNumericDate(time.Unix(now, 0)),
			ExpiresAt: jwt.NewNumericDate(time.Unix(now+t.ValidSec, 0)),
		},
	}
	token := jwt.NewWithClaims(t.method, claims)
	return token.SignedString(t.key)
}

// ReadUsername extracts the username from the token string.
// The token must have been signed by the tokenizer and must not be expired.
func (t Tokenizer) ReadUsername(tokenString string) (string, error) {
	var claims userClaims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{t.method.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if _, err := parser.ParseWithClaims(tokenString, &claims, t.keyFunc); err != nil {
		return "", fmt.Errorf("parsing token: %w", err)
	}
	now := time.Unix(t.TimeFunc(), 0)
	if !claims.VerifyExpiresAt(now, true) || !claims.VerifyNotBefore(now, true) {
		return "", ErrExpiredToken
	}
	return claims.Subject, nil
}

// keyFunc returns the key to verify tokens with.
func (t Tokenizer) keyFunc(token *jwt.Token) (interface{}, error) {
	return t.key, nil
}
