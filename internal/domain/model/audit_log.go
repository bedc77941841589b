package model

import "time"

// 伝票の一時停止・再開・会計など、端末で行った操作。
type AuditAction string

const (
	//伝票を一時停止した
	AuditActionPauseDocument AuditAction = "PAUSE_DOCUMENT"
	//一時停止中の伝票を再開した
	AuditActionResumeDocument AuditAction = "RESUME_DOCUMENT"
	//会計して伝票を保存した
	AuditActionCheckout AuditAction = "CHECKOUT"
	//レジ締め
	AuditActionCashup AuditAction = "CASHUP"
)

// 監査ログ。
// 「誰が」「どの端末で」「何を」「どう変えたか」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作した担当者のID
	OperatorID int64 `gorm:"not null;index" json:"operator_id"`

	//端末ID
	TerminalID string `gorm:"type:varchar(64);not null;index" json:"terminal_id"`

	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	//伝票コード（再開時など。無ければ空）
	DocumentCode string `gorm:"type:varchar(64);index" json:"document_code"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before_json"`

	//JSON文字列で保存する。
	AfterJSON string `gorm:"type:text" json:"after_json"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
