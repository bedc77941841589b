package validator

import (
	"regexp"
	"strings"
)

var (
	// 担当者コード（英数字・-・_、20文字まで）
	operatorCodeRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,20}$`)

	// PINは4〜8桁の数字
	pinRe = regexp.MustCompile(`^[0-9]{4,8}$`)

	// 端末ID
	terminalIDRe = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,40}$`)
)

// 担当者コードの形式
func IsOperatorCode(code string) bool {
	return operatorCodeRe.MatchString(strings.TrimSpace(code))
}

// PINの形式（前後の空白も不可）
func IsPIN(pin string) bool {
	return pinRe.MatchString(pin)
}

// 端末IDの形式
func IsTerminalID(id string) bool {
	return terminalIDRe.MatchString(strings.TrimSpace(id))
}
