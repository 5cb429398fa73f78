package types

// Session holds the identity claims decoded from the bearer token.
// It is immutable once decoded; a new token produces a new Session.
type Session struct {
	UserID   string `json:"user_id"`
	Role     string `json:"role"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// AuthToken represents the token bundle returned by login/register
type AuthToken struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
}

// UserProfile represents the operator's account record
type UserProfile struct {
	UserID         string `json:"user_id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	AadharVerified bool   `json:"aadhar_verified"`
	CreatedAt      string `json:"created_at,omitempty"`
}
