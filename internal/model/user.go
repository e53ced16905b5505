package model

import "github.com/golang-jwt/jwt/v5"

// Caller はトークンから復元した呼び出し元
type Caller struct {
	Subject string   `json:"subject"`
	Scopes  []string `json:"scopes,omitempty"`
}

// JWTClaims はJWTトークンのクレーム
type JWTClaims struct {
	Scopes []string `json:"scopes,omitempty"`
	jwt.RegisteredClaims
}
