package models

import "time"

type Product struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ProductID  string    `json:"product_id" gorm:"size:50;not null;uniqueIndex"`
	Name       string    `json:"name" gorm:"size:300;not null;index:idx_products_category_name,priority:2"`
	CategoryID uint      `json:"category" gorm:"not null;index:idx_products_category_name,priority:1"`
	Category   Category  `json:"-" gorm:"foreignKey:CategoryID"`
	Size       *string   `json:"size" gorm:"size:100"`
	Image1     string    `json:"image1" gorm:"size:255;not null"`
	Image2     *string   `json:"image2" gorm:"size:255"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
	UpdatedAt  time.Time `json:"updated_at"`
}
