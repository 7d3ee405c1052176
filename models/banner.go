package models

import "time"

// Banner is a promotional image for the storefront. Active carries no column
// default; the store sets it so an explicit false is persisted as false.
type Banner struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:200;not null"`
	Image     string    `json:"image" gorm:"size:255;not null"`
	Active    bool      `json:"active" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}
