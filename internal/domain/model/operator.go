package model

import "time"

type Role string

const (
	RoleCashier    Role = "CASHIER"
	RoleSupervisor Role = "SUPERVISOR"
)

// POSを操作する担当者（レジ係）。PINはbcryptハッシュで保存。
type Operator struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Code         string     `gorm:"type:varchar(32);uniqueIndex;not null" json:"code"`
	Name         string     `gorm:"type:varchar(255);not null" json:"name"`
	PINHash      string     `gorm:"column:pin_hash;not null" json:"-"`
	Role         Role       `gorm:"type:varchar(20);not null;default:'CASHIER'" json:"role"`
	TokenVersion int        `gorm:"not null;default:0" json:"token_version"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
