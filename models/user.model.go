package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name                string    `gorm:"default:''" json:"name"`
	Email               string    `gorm:"unique;not null" json:"email"`
	Mobile              string    `gorm:"default:''" json:"mobile"`
	Role                string    `gorm:"default:'USER'" json:"role"` // USER, ADMIN
	Password            string    `gorm:"not null" json:"-"`
	IsEmailVerified     bool      `gorm:"default:false" json:"isEmailVerified"`
	ProcessorCustomerID string    `gorm:"type:varchar(100);index" json:"processorCustomerId"`
	LastLogin           time.Time `gorm:"default:NULL" json:"lastLogin"`
	IsDeleted           bool      `gorm:"default:false" json:"isDeleted"`
}

// UserProfile holds the profile of record, keyed by user id
type UserProfile struct {
	gorm.Model
	UserID    uint   `gorm:"not null;uniqueIndex" json:"userId"`
	FirstName string `gorm:"not null" json:"firstName"`
	LastName  string `gorm:"not null" json:"lastName"`
	Email     string `gorm:"not null" json:"email"`
	Phone     string `gorm:"default:''" json:"phone"`
	Address   string `gorm:"default:''" json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	PinCode   string `json:"pinCode"`
	Language  string `gorm:"type:varchar(10);default:'en'" json:"language"`
	IsDeleted bool   `gorm:"default:false" json:"isDeleted"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
