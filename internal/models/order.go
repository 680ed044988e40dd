package models

import (
	"time"

	"gorm.io/datatypes"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusCompleted OrderStatus = "Completed"
)

type Order struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	SnackID    uint        `json:"snack_id" gorm:"not null;index"`
	UserID     uint        `json:"user_id" gorm:"not null;index"`
	BuyerName  string      `json:"buyer_name" gorm:"not null;size:100"`
	Room       string      `json:"room_number" gorm:"column:room_number;size:10"`
	Quantity   int         `json:"quantity" gorm:"not null" validate:"required,gt=0"`
	UnitPrice  float64     `json:"unit_price" gorm:"not null"`
	TotalPrice float64     `json:"total_price" gorm:"not null"`
	Status     OrderStatus `json:"status" gorm:"not null;default:Pending;index"`

	// Snack fields captured at placement so the order still renders after
	// the snack is edited or removed.
	SnackSnapshot datatypes.JSON `json:"snack_snapshot,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Snack *Snack `json:"snack,omitempty" gorm:"foreignKey:SnackID"`
	User  *User  `json:"-" gorm:"foreignKey:UserID"`
}

// SnackSnapshotData is the JSON shape stored in Order.SnackSnapshot.
type SnackSnapshotData struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"image_url"`
}

// IsCompleted reports whether the order reached its terminal state.
// Pending -> Completed is the only transition; Completed is final.
func (o *Order) IsCompleted() bool {
	return o.Status == OrderStatusCompleted
}

func (Order) TableName() string {
	return "orders"
}
