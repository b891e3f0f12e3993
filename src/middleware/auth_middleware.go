package middleware

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/socialite-app/backend/src/lib"
)

// ProtectRoute checks for a valid JWT token and attaches the resolved
// acting user id to the request context.
func ProtectRoute(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized - No token provided",
			})
		}

		// Expected format: "Bearer <token>"
		var token string
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			token = authHeader[7:]
		} else {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized - Invalid token format",
			})
		}

		decoded, err := lib.VerifyJWT(token, jwtSecret)
		if err != nil || decoded == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized - Invalid token",
			})
		}

		userID, ok := decoded["userId"].(string)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized - Invalid token",
			})
		}

		objectID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid user ID",
			})
		}

		c.Locals("userID", objectID)

		return c.Next()
	}
}
