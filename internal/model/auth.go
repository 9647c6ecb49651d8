package model

import "github.com/golang-jwt/jwt/v5"

// AdminClaims are the JWT claims for an admin (outline library) token
type AdminClaims struct {
	AdminID string `json:"adminId"`
	jwt.RegisteredClaims
}

// SessionClaims are the JWT claims for a session-scoped client token
type SessionClaims struct {
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

// LoginRequest is the admin login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the admin login response
type LoginResponse struct {
	Token   string `json:"token"`
	AdminID string `json:"adminId"`
}
