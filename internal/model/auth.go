package model

import "github.com/golang-jwt/jwt/v5"

// PlayerClaims are the JWT claims carried by a player session token.
type PlayerClaims struct {
	PlayerID string `json:"playerId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// CredentialsRequest is the body of signup and login requests.
type CredentialsRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// SessionResponse is returned on successful signup or login: the player
// reference, a session token, and the current round so the client can
// render immediately.
type SessionResponse struct {
	User  UserRef       `json:"user"`
	Token string        `json:"token"`
	Game  *RoundSummary `json:"game"`
}
