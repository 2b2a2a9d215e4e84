// Package model defines the Go structs mapped to database tables.
package model

import "time"

// User is the identity anchor. A row is created on the first successful
// OTP verification for an email address.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name      string    `gorm:"type:varchar(255)" json:"name"`
	Image     string    `gorm:"type:varchar(512)" json:"image"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName specifies the database table for this model.
func (User) TableName() string {
	return "users"
}
