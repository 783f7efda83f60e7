package tenants

import "time"

// Tenant is one optical practice using the recommendation service.
type Tenant struct {
	ID           string    `json:"id"`
	PracticeName string    `json:"practiceName"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
