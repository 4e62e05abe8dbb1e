package auth

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v4"
)

func testTokenizer(t *testing.T, now *int64) *Tokenizer {
	t.Helper()
	cfg := TokenizerConfig{
		KeyReader: bytes.NewReader(bytes.Repeat([]byte{7}, keyLength)),
		TimeFunc:  func() int64 { return *now },
		ValidSec:  60,
	}
	tokenizer, err := cfg.NewTokenizer()
	if err != nil {
		t.Fatalf("creating tokenizer: %v", err)
	}
	return tokenizer
}

func TestNewTokenizer(t *testing.T) {
	timeFunc := func() int64 { return 0 }
	newTokenizerTests := []struct {
		name   string
		cfg    TokenizerConfig
		wantOk bool
	}{
		{
			name: "no key reader",
			cfg: TokenizerConfig{
				TimeFunc: timeFunc,
				ValidSec: 1,
			},
		},
		{
			name: "no time func",
			cfg: TokenizerConfig{
				KeyReader: strings.NewReader(strings.Repeat("k", keyLength)),
				ValidSec:  1,
			},
		},
		{
			name: "no valid seconds",
			cfg: TokenizerConfig{
				KeyReader: strings.NewReader(strings.Repeat("k", keyLength)),
				TimeFunc:  timeFunc,
			},
		},
		{
			name: "short key",
			cfg: TokenizerConfig{
				KeyReader: strings.NewReader("k"),
				TimeFunc:  timeFunc,
				ValidSec:  1,
			},
		},
		{
			name: "ok",
			cfg: TokenizerConfig{
				KeyReader: strings.NewReader(strings.Repeat("k", keyLength)),
				TimeFunc:  timeFunc,
				ValidSec:  1,
			},
			wantOk: true,
		},
	}
	for _, test := range newTokenizerTests {
		t.Run(test.name, func(t *testing.T) {
			got, err := test.cfg.NewTokenizer()
			switch {
			case !test.wantOk:
				if err == nil {
					t.Errorf("wanted error")
				}
			case err != nil:
				t.Errorf("unwanted error: %v", err)
			case len(got.key) != keyLength:
				t.Errorf("wanted %v byte key, got %v", keyLength, len(got.key))
			}
		})
	}
}

func TestCreateReadUsername(t *testing.T) {
	now := int64(1000)
	tokenizer := testTokenizer(t, &now)
	token, err := tokenizer.Create("selene", 18)
	if err != nil {
		t.Fatalf("creating token: %v", err)
	}
	readTests := []struct {
		name    string
		now     int64
		wantErr error
	}{
		{name: "issued", now: 1000},
		{name: "almost expired", now: 1059},
		{name: "expired", now: 1061, wantErr: ErrExpiredToken},
		{name: "not valid yet", now: 999, wantErr: ErrExpiredToken},
	}
	for _, test := range readTests {
		t.Run(test.name, func(t *testing.T) {
			now = test.now
			got, err := tokenizer.ReadUsername(token)
			switch {
			case test.wantErr != nil:
				if !errors.Is(err, test.wantErr) {
					t.Errorf("wanted %v, got %v", test.wantErr, err)
				}
			case err != nil:
				t.Errorf("unwanted error: %v", err)
			case got != "selene":
				t.Errorf("wanted selene, got %v", got)
			}
		})
	}
}

func TestReadUsernameBadTokens(t *testing.T) {
	now := int64(1000)
	tokenizer := testTokenizer(t, &now)
	otherKey := TokenizerConfig{
		KeyReader: bytes.NewReader(bytes.Repeat([]byte{8}, keyLength)),
		TimeFunc:  func() int64 { return now },
		ValidSec:  60,
	}
	other, err := otherKey.NewTokenizer()
	if err != nil {
		t.Fatalf("creating other tokenizer: %v", err)
	}
	otherToken, err := other.Create("selene", 0)
	if err != nil {
		t.Fatalf("creating other token: %v", err)
	}
	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, userClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "selene"},
	})
	hs512Token, err := hs512.SignedString(tokenizer.key)
	if err != nil {
		t.Fatalf("creating HS512 token: %v", err)
	}
	badTokens := map[string]string{
		"empty":          "",
		"garbage":        "not.a.token",
		"other key":      otherToken,
		"signing method": hs512Token,
	}
	for name, token := range badTokens {
		if _, err := tokenizer.ReadUsername(token); err == nil {
			t.Errorf("%v: wanted error reading bad token", name)
		}
	}
}
