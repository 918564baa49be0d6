package dto

import "time"

// UserResponse salida de GET /api/user.
type UserResponse struct {
	ID         string    `json:"id"`
	ExternalID string    `json:"externalId"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
