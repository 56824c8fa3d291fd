// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/breezeline/interiors-api/app/dto"
	"github.com/breezeline/interiors-api/app/services"
)

// AuthMiddleware validates the admin session cookie on protected endpoints
type AuthMiddleware struct {
	sessionService services.SessionService
	cookieName     string
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(sessionService services.SessionService, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		sessionService: sessionService,
		cookieName:     cookieName,
	}
}

// Authenticate resolves the session cookie against the server-side store.
// There is no token parsing here; the cookie value is opaque and either maps
// to a live session or it does not.
func (m *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		token := c.Cookies(m.cookieName)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "Authentication required",
				Error: dto.ErrorDetail{
					Code: "MISSING_SESSION",
				},
			})
		}

		session, err := m.sessionService.ValidateSession(c.Context(), token)
		if err != nil {
			var errorCode string
			var message string

			if errors.Is(err, services.ErrSessionExpired) {
				errorCode = "SESSION_EXPIRED"
				message = "Session has expired"
			} else if errors.Is(err, services.ErrSessionNotFound) {
				errorCode = "SESSION_INVALID"
				message = "Invalid session"
			} else {
				errorCode = "SESSION_VALIDATION_FAILED"
				message = "Session validation failed"
			}

			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: message,
				Error: dto.ErrorDetail{
					Code: errorCode,
				},
			})
		}

		// Store admin information in context for downstream handlers
		c.Locals("admin_id", session.AdminID)
		c.Locals("admin_username", session.Username)
		c.Locals("session_token", session.Token)

		// Store RequestID for audit logging
		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals("request_id", requestID)
		}

		return c.Next()
	}
}
