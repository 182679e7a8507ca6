package models

import "time"

type Participant struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	PhoneNumber string    `gorm:"size:32;uniqueIndex;not null" json:"phoneNumber"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Group       string    `gorm:"size:100" json:"group"`
	Points      int       `gorm:"not null;default:0" json:"points"`
	Task        string    `gorm:"size:255" json:"task"`
	CreatedAt   time.Time `json:"createdAt"`
}
