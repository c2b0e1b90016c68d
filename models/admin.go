package models

import "time"

type Admin struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"type:varchar(120);not null;uniqueIndex"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is what a verified credential resolves to.
type Identity struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func (a Admin) Identity() Identity {
	return Identity{ID: a.ID, Username: a.Username}
}
