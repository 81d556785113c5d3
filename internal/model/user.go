package model

import "time"

// User is the identity record a session carries. It is replaced as a whole
// on login and refresh and never mutated in place.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Account is the server-side user record of the mock API.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func (a Account) Identity() User {
	return User{ID: a.ID, Name: a.Name, Email: a.Email, Role: a.Role}
}

type AuthClaims struct {
	UserID  string `json:"sub"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Type    string `json:"typ"`
	TokenID string `json:"jti"`
}

// AuthResponse is the payload of a successful login or refresh.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	User        *User  `json:"user"`
}

// IssuedTokens is what the auth service hands to the handler: the public
// response plus the refresh token that only travels in a cookie.
type IssuedTokens struct {
	AuthResponse
	RefreshToken     string
	RefreshExpiresAt time.Time
}
