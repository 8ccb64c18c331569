package dto

type SessionRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenInfo struct {
	Data      string `json:"data"`
	ExpiresIn int64  `json:"expiresIn"`
}

// SessionResponse is the login payload. expiresIn is the token's expiry as a Unix timestamp.
type SessionResponse struct {
	ID       uint      `json:"_id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
	Email    string    `json:"email"`
	MyAdmin  string    `json:"myadmin"`
	Agencies []uint    `json:"agencies"`
	Token    TokenInfo `json:"token"`
}
