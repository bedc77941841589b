package middleware

import (
	"net/http"

	"pos/internal/repository"

	"github.com/labstack/echo/v4"
)

// JWTのtvとDBのtoken_versionが一致し、担当者が有効か確認。
func OperatorActiveGuard(operators repository.OperatorRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//AuthJWTが入れたoperator_idを取得する
			operatorID, ok := c.Get(CtxOperatorIDKey).(int64)
			if !ok || operatorID <= 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//AuthJWTが入れたtoken_version(tv)を取得する
			tv, ok := c.Get(CtxTokenVersionKey).(int)
			if !ok || tv < 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//DBから最新の担当者を取得する
			op, err := operators.FindByID(c.Request().Context(), operatorID)
			if err != nil || op == nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//停止中 or token_version 不一致は強制ログアウト扱い（401）
			if !op.IsActive || op.TokenVersion != tv {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			return next(c)
		}
	}
}

//contextに入っているroleがSUPERVISORかどうかを確認します。

func SupervisorGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxRoleKey).(string)
			if !ok || role == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//CASHIERは拒否、SUPERVISORだけ許可
			if role != "SUPERVISOR" {
				return c.JSON(http.StatusForbidden, errorJSON("supervisor only"))
			}

			return next(c)
		}
	}
}
