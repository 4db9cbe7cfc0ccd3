package domain

import (
	"strings"
	"time"
)

// Property is owned by the property-management side; this core only reads
// it to categorize facts.
type Property struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index;not null"`
	Name      string    `json:"name" gorm:"not null"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullAddress joins the normalized components for matching and display
func (p *Property) FullAddress() string {
	parts := make([]string, 0, 4)
	for _, part := range []string{p.Street, p.City, p.State, p.Country} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}
