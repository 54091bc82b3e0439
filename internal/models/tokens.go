package models

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/oauth2"
)

// Session is the access and refresh token pair owned by the token store.
type Session struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	// ExpiresAt is the expiry of the access token, zero when unknown
	ExpiresAt time.Time
}

// Empty reports whether the session holds no credentials at all.
func (s Session) Empty() bool {
	return s.AccessToken == "" && s.RefreshToken == ""
}

func (s Session) Expired() bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().UTC().After(s.ExpiresAt)
}

// ExpiresSoon checks if the access token expires within the given margin.
func (s Session) ExpiresSoon(margin time.Duration) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().UTC().Add(margin).After(s.ExpiresAt)
}

// Refreshed returns a new session with the values from a refresh response.
// The refresh token is only replaced when the server rotated it.
func (s Session) Refreshed(res RefreshResponse) Session {
	output := s
	output.AccessToken = res.AccessToken
	if res.RefreshToken != "" {
		output.RefreshToken = res.RefreshToken
	}
	if res.TokenType != "" {
		output.TokenType = res.TokenType
	}
	output.ExpiresAt = tokenExpiry(res.AccessToken, res.ExpiresIn)
	return output
}

// Token converts the session to an oauth2 token.
func (s Session) Token() *oauth2.Token {
	tokenType := s.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return &oauth2.Token{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    tokenType,
		Expiry:       s.ExpiresAt,
	}
}

// Encrypt encrypts both token values if an encryptor is set
func (s Session) Encrypt(enc Encryptor) (Session, error) {
	if enc == nil {
		return s, nil
	}
	return s.transform(enc.Encrypt)
}

// Decrypt decrypts both token values if an encryptor is set
func (s Session) Decrypt(enc Encryptor) (Session, error) {
	if enc == nil {
		return s, nil
	}
	return s.transform(enc.Decrypt)
}

func (s Session) transform(fn func(string) (string, error)) (Session, error) {
	output := s
	var err error
	if s.AccessToken != "" {
		output.AccessToken, err = fn(s.AccessToken)
		if err != nil {
			return Session{}, err
		}
	}
	if s.RefreshToken != "" {
		output.RefreshToken, err = fn(s.RefreshToken)
		if err != nil {
			return Session{}, err
		}
	}
	return output, nil
}

// String immplements the Stringer interface for printing the session in logs
func (s Session) String() string {
	return fmt.Sprintf(
		"Session<AccessToken: %s, RefreshToken: %s, TokenType: %s, ExpiresAt: %s>",
		redact(s.AccessToken),
		redact(s.RefreshToken),
		s.TokenType,
		s.ExpiresAt,
	)
}

func redact(value string) string {
	if value == "" {
		return "none"
	}
	return "redacted"
}

// tokenExpiry prefers the expires_in value from the server and falls back on the exp claim
// when the access token is a JWT.
func tokenExpiry(accessToken string, expiresIn int64) time.Time {
	if expiresIn > 0 {
		return time.Now().UTC().Add(time.Duration(expiresIn) * time.Second)
	}
	return AccessTokenExpiry(accessToken)
}

// AccessTokenExpiry reads the exp claim of a JWT without verifying it. The server remains the
// source of truth, this is only used to refresh ahead of time.
func AccessTokenExpiry(accessToken string) time.Time {
	if accessToken == "" {
		return time.Time{}
	}
	claims := jwt.RegisteredClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(accessToken, &claims)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time.UTC()
}
