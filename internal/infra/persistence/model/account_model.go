package model

import "time"

// AccountModel mirrors the 'users' table. The email address is the primary key;
// there is no surrogate identifier. is_active carries a NOT NULL DEFAULT TRUE
// constraint so the flag is always defined.
type AccountModel struct {
	Email        string `gorm:"type:varchar(255);primaryKey"`
	Name         string `gorm:"type:varchar(100);not null"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	IsActive     bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "users"
}
