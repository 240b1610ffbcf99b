package domain

import "time"

// Token is the server-side record of an issued bearer token. Only the SHA-256
// digest of the plaintext is retained; the plaintext is shown once at issuance.
type Token struct {
	ID         string
	UserID     string
	Digest     string
	CreatedAt  time.Time
	LastUsedAt time.Time
}

// TokenType is the scheme clients must use in the Authorization header.
const TokenType = "Bearer"
