package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DriverStatus is the dispatch availability of a driver.
type DriverStatus string

const (
	DriverAvailable DriverStatus = "available"
	DriverBusy      DriverStatus = "busy"
	DriverOffline   DriverStatus = "offline"
)

// Driver stores driver-specific data collected at registration and afterwards.
type Driver struct {
	ID              uuid.UUID    `json:"-" bson:"-" gorm:"type:uuid;primaryKey"`
	Profile         `bson:",inline"`
	DriverID        string       `json:"driver_id" bson:"driver_id" gorm:"type:text;uniqueIndex;not null"`
	LicenseNumber   string       `json:"license_number" bson:"license_number" gorm:"type:text;not null"`
	VehicleInfo     string       `json:"vehicle_info,omitempty" bson:"vehicle_info,omitempty" gorm:"type:text"`
	Status          DriverStatus `json:"status" bson:"status" gorm:"type:text;index;default:'available'"`
	AssignedOrders  []string     `json:"assigned_orders" bson:"assigned_orders" gorm:"type:text;serializer:json"`
	CompletedOrders []string     `json:"completed_orders" bson:"completed_orders" gorm:"type:text;serializer:json"`
	CreatedAt       time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at" bson:"updated_at"`
}

func (d *Driver) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.Normalize()
	return nil
}

// Normalize fills defaults for stores that do not run gorm hooks.
func (d *Driver) Normalize() {
	if d.Status == "" {
		d.Status = DriverAvailable
	}
	if d.AssignedOrders == nil {
		d.AssignedOrders = []string{}
	}
	if d.CompletedOrders == nil {
		d.CompletedOrders = []string{}
	}
}
