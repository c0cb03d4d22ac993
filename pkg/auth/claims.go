package auth

import "github.com/golang-jwt/jwt/v5"

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	Subject string
	JTI     string
}

// AccessTokenClaims represents the typed JWT issued to API clients. The subject
// identifies the caller and is attached to request logs.
type AccessTokenClaims struct {
	jwt.RegisteredClaims
}
