package models

import "time"

// AdminSession is one live admin login. The row is the source of truth:
// a token without a row is invalid no matter what it carries.
type AdminSession struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"size:512;uniqueIndex;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
