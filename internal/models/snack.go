package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultSnackImage is served for snacks without an uploaded picture.
const DefaultSnackImage = "/static/images/default.jpg"

type Snack struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"not null;size:120;index" validate:"required,min=1,max=120"`
	Price       float64 `json:"price" gorm:"not null" validate:"required,gt=0"`
	Quantity    int     `json:"quantity" gorm:"not null;default:0" validate:"min=0"`
	ImageURL    string  `json:"image_url" gorm:"size:500"`
	IsAvailable bool    `json:"is_available" gorm:"not null;default:false;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// RecomputeAvailability re-derives the availability flag from stock.
// Invariant: IsAvailable == (Quantity > 0) after every mutation.
func (s *Snack) RecomputeAvailability() {
	s.IsAvailable = s.Quantity > 0
}

// InStock reports whether amount units can be taken from current stock.
func (s *Snack) InStock(amount int) bool {
	return amount > 0 && amount <= s.Quantity
}

func (Snack) TableName() string {
	return "snacks"
}
