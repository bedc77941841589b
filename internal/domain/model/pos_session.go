package model

import "time"

// pos_sessions の1行。Session をJSONで丸ごと保存する。
type PosSession struct {
	TerminalID string    `gorm:"type:varchar(64);primaryKey" json:"terminal_id"`
	OperatorID int64     `gorm:"not null;index" json:"operator_id"`
	Revision   uint64    `gorm:"not null" json:"revision"`
	Snapshot   string    `gorm:"type:text;not null" json:"snapshot"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
