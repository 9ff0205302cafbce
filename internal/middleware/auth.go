package middleware

import (
	"context"
	"strconv"
	"strings"

	"tavern/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

var (
	cfg *config.Config
	rdb *redis.Client
)

// InitMiddleware initializes authentication middleware with the given config
// and Redis client. The Redis client is used for the token revocation list
// and may be nil in tests.
func InitMiddleware(c *config.Config, r *redis.Client) {
	cfg = c
	rdb = r
}

// parseToken validates the signature and registered claims of a bearer token
// and returns the authenticated user ID.
func parseToken(tokenString string) (uint, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	}, jwt.WithIssuer("tavern-api"), jwt.WithAudience("tavern-client"))

	if err != nil || !token.Valid {
		return 0, "", fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	subStr, ok := claims["sub"].(string)
	if !ok {
		return 0, "", fiber.NewError(fiber.StatusUnauthorized, "Invalid token subject")
	}

	userIDVal, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil {
		return 0, "", fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID in token")
	}

	jti, _ := claims["jti"].(string)
	return uint(userIDVal), jti, nil
}

// isRevoked reports whether the token ID is on the logout revocation list.
// Without Redis there is no revocation list and the token stands.
func isRevoked(ctx context.Context, jti string) bool {
	if rdb == nil || jti == "" {
		return false
	}
	exists, err := rdb.Exists(ctx, "jwt:revoked:"+jti).Result()
	if err != nil {
		Logger.WarnContext(ctx, "revocation list check failed", "error", err)
		return false
	}
	return exists > 0
}

// AuthRequired is a middleware that enforces authentication for protected routes.
func AuthRequired(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authorization header required",
		})
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid authorization header format",
		})
	}

	userID, jti, err := parseToken(parts[1])
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired token",
		})
	}

	if isRevoked(c.UserContext(), jti) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Token has been revoked",
		})
	}

	c.Locals("userID", userID)
	c.Locals("jti", jti)

	return c.Next()
}

// OptionalAuth resolves the user ID when a valid bearer token is present but
// never rejects the request. Feed reads use it to attach the viewer's votes.
func OptionalAuth(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Next()
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return c.Next()
	}

	userID, jti, err := parseToken(parts[1])
	if err != nil || isRevoked(c.UserContext(), jti) {
		return c.Next()
	}

	c.Locals("userID", userID)
	return c.Next()
}

// WebSocketAuthRequired validates a one-time connection ticket from the query
// string, falling back to a bearer token for non-browser clients. Browsers
// cannot set headers on WebSocket upgrades, so tickets keep tokens out of URLs
// that end up in access logs.
func WebSocketAuthRequired(c *fiber.Ctx) error {
	if ticket := c.Query("ticket"); ticket != "" && rdb != nil {
		uidStr, err := rdb.GetDel(context.Background(), "ws:ticket:"+ticket).Result()
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired ticket",
			})
		}
		userIDVal, err := strconv.ParseUint(uidStr, 10, 32)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid ticket payload",
			})
		}
		c.Locals("userID", uint(userIDVal))
		return c.Next()
	}

	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Ticket or token required",
		})
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid authorization header format",
		})
	}

	userID, jti, err := parseToken(parts[1])
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired token",
		})
	}
	if isRevoked(c.UserContext(), jti) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Token has been revoked",
		})
	}

	c.Locals("userID", userID)
	return c.Next()
}
