package middleware

import (
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/knayak08/AlumniBridge/internal/apperr"
	"github.com/knayak08/AlumniBridge/internal/services"
	"github.com/knayak08/AlumniBridge/internal/utils"
)

// AuthMiddleware validates the bearer token and the server-side session
// behind it, then stores the authenticated identity in request locals. The
// identity is never taken from the request body.
func AuthMiddleware(c *fiber.Ctx) error {
	tokenString := c.Get("Authorization")
	if tokenString == "" {
		return utils.Fail(c, apperr.Unauthorized("Missing token"))
	}

	tokenString = strings.TrimPrefix(tokenString, "Bearer ")
	if tokenString == "" {
		return utils.Fail(c, apperr.Unauthorized("Invalid token format"))
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return utils.Fail(c, apperr.Unauthorized("Invalid token"))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return utils.Fail(c, apperr.Unauthorized("Invalid token claims"))
	}

	userID, userExists := claims["user_id"].(string)
	role, roleExists := claims["role"].(string)
	tokenID, tokenIDExists := claims["jti"].(string)
	if !userExists || !roleExists || !tokenIDExists {
		return utils.Fail(c, apperr.Unauthorized("Invalid token payload"))
	}

	// A structurally valid token is still rejected once its session is gone
	// (logout or server-side expiry).
	if _, err := services.GetSession(tokenID); err != nil {
		return utils.Fail(c, err)
	}

	c.Locals("user_id", userID)
	c.Locals("role", role)
	c.Locals("token_id", tokenID)

	return c.Next()
}
