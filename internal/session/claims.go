package session

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"showdown-client/internal/domain"
)

// decodeUser extracts the display identity from the token's claims payload.
// The signature is deliberately not verified: the server already proved the
// token by issuing it over the authenticated login leg, and the client only
// uses these fields for display.
func decodeUser(token string) (domain.User, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return domain.User{}, fmt.Errorf("decoding token claims: %w", err)
	}

	user := domain.User{}
	if username, ok := claims["username"].(string); ok {
		user.Username = username
	}
	// JSON numbers decode as float64.
	if id, ok := claims["userId"].(float64); ok {
		user.ID = int64(id)
	}
	if user.ID == 0 && user.Username == "" {
		return domain.User{}, fmt.Errorf("token carries no identity claims")
	}
	return user, nil
}
