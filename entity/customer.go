package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is the profile of an account with role "customer".
type Customer struct {
	ID           uuid.UUID           `json:"-" bson:"-" gorm:"type:uuid;primaryKey"`
	Profile      `bson:",inline"`
	CustomerID   string              `json:"customer_id" bson:"customer_id" gorm:"type:text;uniqueIndex;not null"`
	OrderHistory []OrderHistoryEntry `json:"order_history" bson:"order_history" gorm:"type:text;serializer:json"`
	CreatedAt    time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at" bson:"updated_at"`
}

func (c *Customer) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.Normalize()
	return nil
}

// Normalize fills defaults for stores that do not run gorm hooks.
func (c *Customer) Normalize() {
	if c.OrderHistory == nil {
		c.OrderHistory = []OrderHistoryEntry{}
	}
}
