package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"pos/internal/domain/model"
	"pos/internal/repository"
	"pos/internal/validator"
)

// handlerからusecaseに渡す入力
type LoginInput struct {
	Code       string
	PIN        string
	TerminalID string
}

// token 形（JwtAccessToken相当）
type JwtAccessToken struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenVersion int    `json:"token_version"`
}

// handlerがJSONにして返す
type LoginOutput struct {
	Operator   model.Operator `json:"operator"`
	TerminalID string         `json:"terminal_id"`
	Token      JwtAccessToken `json:"token"`
}

// コードまたはPINが違う
var ErrInvalidCredentials = errors.New("invalid credentials")

// 停止済み担当者
var ErrOperatorInactive = errors.New("operator is inactive")

// 入力不足
var ErrInvalidInput = errors.New("invalid input")

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(op model.Operator, terminalID string, now time.Time) (token string, expiresAt time.Time, err error)
}

// 入力PINと保存したハッシュを比べる約束
type PINVerifier interface {
	Verify(plain string, hashed string) bool
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

type LoginUsecase struct {
	operators repository.OperatorRepository
	verifier  PINVerifier
	issuer    AccessTokenIssuer
	clock     Clock
}

func NewLoginUsecase(
	operators repository.OperatorRepository,
	verifier PINVerifier,
	issuer AccessTokenIssuer,
	clock Clock,
) *LoginUsecase {
	return &LoginUsecase{
		operators: operators,
		verifier:  verifier,
		issuer:    issuer,
		clock:     clock,
	}
}

// ログイン処理を実行する
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (LoginOutput, error) {
	var out LoginOutput

	code := strings.TrimSpace(in.Code)
	terminalID := strings.TrimSpace(in.TerminalID)
	if !validator.IsOperatorCode(code) || in.PIN == "" || !validator.IsTerminalID(terminalID) {
		return out, ErrInvalidInput
	}

	//コードで担当者取得
	op, err := u.operators.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return out, ErrInvalidCredentials
		}
		return out, err
	}

	//停止中はログイン不可
	if !op.IsActive {
		return out, ErrOperatorInactive
	}

	//PIN照合
	if ok := u.verifier.Verify(in.PIN, op.PINHash); !ok {
		return out, ErrInvalidCredentials
	}

	//AccessToken発行
	now := u.clock.Now()
	accessToken, accessExp, err := u.issuer.Issue(*op, terminalID, now)
	if err != nil {
		return out, err
	}

	//最終ログイン時刻更新
	op.LastLoginAt = &now
	if err := u.operators.Update(ctx, op); err != nil {
		return out, err
	}

	//出力（PINハッシュは返さない）
	safe := *op
	safe.PINHash = ""

	out.Operator = safe
	out.TerminalID = terminalID
	out.Token = JwtAccessToken{
		AccessToken:  accessToken,
		ExpiresIn:    int(accessExp.Sub(now).Seconds()),
		TokenVersion: op.TokenVersion,
	}
	return out, nil
}
