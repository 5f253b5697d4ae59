package middlewares

import (
	"strings"

	t_token "aora_backend/pkg/token"

	"github.com/gofiber/fiber/v2"
)

const (
	// QueryToken token in query name
	QueryToken = "auth"

	// CookieToken token in cookie name
	CookieToken = "auth_token"

	// TokenRaw raw token string, set c.locals name
	TokenRaw = "Token"
	// TokenAccountID get account from token, set c.locals name
	TokenAccountID = "AccountID"
	// TokenSessionID get session from token, set c.locals name
	TokenSessionID = "SessionID"
)

// JWTMiddleware validates JWT in the Authorization header
func JWTMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get token from Authorization header
		tokenStr := c.Get(fiber.HeaderAuthorization)
		tokenStr = strings.TrimPrefix(tokenStr, "Bearer ")

		// 如果 header 中沒有 token，則嘗試從查詢參數獲取
		if tokenStr == "" {
			tokenStr = c.Query(QueryToken)
		}

		// 如果查詢參數中沒有 token，則嘗試從 Cookie 中獲取
		if tokenStr == "" {
			tokenStr = c.Cookies(CookieToken)
		}

		// 如果仍然沒有 token，則返回未授權錯誤
		if tokenStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing token",
			})
		}

		// Parse and validate token
		claims, err := t_token.ParseJWT(tokenStr)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		// Extract claims and pass them to the context
		c.Locals(TokenRaw, tokenStr)
		c.Locals(TokenAccountID, claims.AccountID)
		c.Locals(TokenSessionID, claims.SessionID)

		return c.Next()
	}
}
