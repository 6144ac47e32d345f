package dto

// LoginRequest defines the PIN login payload.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	PIN      string `json:"pin" binding:"required,min=4"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userID"`
	Name   string `json:"name"`
}
