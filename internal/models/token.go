package models

import "time"

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresIn   int       `json:"expiresIn"`
	IssuedAt    time.Time `json:"issuedAt"`
	User        *User     `json:"user"`
}
