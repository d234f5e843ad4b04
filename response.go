package auth

import "time"

// ISO8601Millis is the layout used for expiresIn, UTC with millisecond precision
const ISO8601Millis = "2006-01-02T15:04:05.000Z"

// TokenResponse is the success body of POST /auth
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn string `json:"expiresIn"`
}

// NewTokenResponse projects a TokenResult onto the response body
func NewTokenResponse(result *TokenResult) TokenResponse {
	if result == nil {
		return TokenResponse{}
	}
	return TokenResponse{
		Token:     result.Token,
		ExpiresIn: FormatExpiry(result.ExpiresAt),
	}
}

// FormatExpiry renders t as an ISO-8601 UTC timestamp
func FormatExpiry(t time.Time) string {
	return t.UTC().Format(ISO8601Millis)
}
