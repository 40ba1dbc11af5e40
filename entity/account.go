package entity

// Role distinguishes the two kinds of accounts the service manages.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleDriver   Role = "driver"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleDriver
}

// Location is an address resolved to district coordinates at signup.
type Location struct {
	Address   string  `json:"address" bson:"address" gorm:"type:text;not null"`
	Latitude  float64 `json:"latitude" bson:"latitude" gorm:"type:double precision;not null"`
	Longitude float64 `json:"longitude" bson:"longitude" gorm:"type:double precision;not null"`
}

// Profile holds the fields shared by customers and drivers.
// FirebaseUID is the identity reference issued by the identity provider.
type Profile struct {
	FirebaseUID     string   `json:"firebase_uid" bson:"firebase_uid" gorm:"type:text;uniqueIndex;not null"`
	Name            string   `json:"name" bson:"name" gorm:"type:text;not null"`
	Email           string   `json:"email" bson:"email" gorm:"type:text;uniqueIndex;not null"`
	Role            Role     `json:"role" bson:"role" gorm:"type:text;index;not null"`
	Phone           string   `json:"phone" bson:"phone" gorm:"type:text;not null"`
	CurrentLocation Location `json:"current_location" bson:"current_location" gorm:"embedded;embeddedPrefix:location_"`
}

// Account is a stored profile of either variant. Exactly one of Customer and
// Driver is set, matching Role.
type Account struct {
	Role     Role
	Customer *Customer
	Driver   *Driver
}

// CustomerAccount wraps c.
func CustomerAccount(c *Customer) *Account {
	return &Account{Role: RoleCustomer, Customer: c}
}

// DriverAccount wraps d.
func DriverAccount(d *Driver) *Account {
	return &Account{Role: RoleDriver, Driver: d}
}

// Base returns the shared part of the account.
func (a *Account) Base() *Profile {
	switch {
	case a.Customer != nil:
		return &a.Customer.Profile
	case a.Driver != nil:
		return &a.Driver.Profile
	}
	return nil
}

// ProfileID returns the role-prefixed generated identifier.
func (a *Account) ProfileID() string {
	switch {
	case a.Customer != nil:
		return a.Customer.CustomerID
	case a.Driver != nil:
		return a.Driver.DriverID
	}
	return ""
}

// Document returns the concrete variant for serialization.
func (a *Account) Document() any {
	if a.Customer != nil {
		return a.Customer
	}
	return a.Driver
}
