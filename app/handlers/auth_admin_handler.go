package handlers

import (
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/breezeline/interiors-api/app/dto"
	businessflow "github.com/breezeline/interiors-api/business_flow"
	"github.com/breezeline/interiors-api/config"
)

// AdminAuthHandlerInterface defines the contract for admin auth handlers
type AdminAuthHandlerInterface interface {
	Login(c fiber.Ctx) error
	Logout(c fiber.Ctx) error
	Check(c fiber.Ctx) error
}

// AdminAuthHandler implements AdminAuthHandlerInterface
type AdminAuthHandler struct {
	flow       businessflow.AdminAuthFlow
	sessionCfg config.SessionConfig
	validator  *validator.Validate
}

func NewAdminAuthHandler(flow businessflow.AdminAuthFlow, sessionCfg config.SessionConfig) AdminAuthHandlerInterface {
	return &AdminAuthHandler{
		flow:       flow,
		sessionCfg: sessionCfg,
		validator:  validator.New(),
	}
}

// Login authenticates an admin and sets the session cookie
// @Summary Admin login
// @Description Authenticate with username/password and receive a session cookie
// @Tags Admin Authentication
// @Accept json
// @Produce json
// @Param request body dto.AdminLoginRequest true "Admin credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AdminLoginResponse} "Login successful"
// @Failure 400 {object} dto.APIResponse "Invalid request"
// @Failure 401 {object} dto.APIResponse "Invalid credentials"
// @Failure 403 {object} dto.APIResponse "Admin inactive"
// @Router /api/auth/login [post]
func (h *AdminAuthHandler) Login(c fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	resp, session, err := h.flow.Login(createRequestContext(c, "/api/auth/login"), &req, metadata)
	if err != nil {
		if businessflow.IsAdminInactive(err) {
			return ErrorResponse(c, fiber.StatusForbidden, "Admin account is inactive", "ADMIN_INACTIVE", nil)
		}
		if businessflow.IsIncorrectPassword(err) || businessflow.IsAdminNotFound(err) {
			return ErrorResponse(c, fiber.StatusUnauthorized, "Invalid username or password", "INVALID_CREDENTIALS", nil)
		}
		log.Println("Admin login failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Login failed", "LOGIN_FAILED", nil)
	}

	c.Cookie(h.sessionCookie(session.Token, session.ExpiresAt))
	return SuccessResponse(c, fiber.StatusOK, "Login successful", resp)
}

// Logout destroys the session and clears the cookie. Always succeeds, even
// for a missing or already-dead session.
// @Summary Admin logout
// @Tags Admin Authentication
// @Produce json
// @Success 200 {object} dto.APIResponse "Logout successful"
// @Router /api/auth/logout [post]
func (h *AdminAuthHandler) Logout(c fiber.Ctx) error {
	token := c.Cookies(h.sessionCfg.CookieName)
	if err := h.flow.Logout(createRequestContext(c, "/api/auth/logout"), token); err != nil {
		log.Println("Admin logout failed", err)
	}

	c.Cookie(h.sessionCookie("", time.Unix(0, 0)))
	return SuccessResponse(c, fiber.StatusOK, "Logout successful", nil)
}

// Check reports whether the caller holds a live session, 200 either way
// @Summary Admin auth check
// @Tags Admin Authentication
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.AuthCheckResponse} "Auth state"
// @Router /api/auth/check [get]
func (h *AdminAuthHandler) Check(c fiber.Ctx) error {
	token := c.Cookies(h.sessionCfg.CookieName)
	resp := h.flow.Check(createRequestContext(c, "/api/auth/check"), token)
	return SuccessResponse(c, fiber.StatusOK, "Auth state", resp)
}

func (h *AdminAuthHandler) sessionCookie(value string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     h.sessionCfg.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		Secure:   h.sessionCfg.CookieSecure,
		HTTPOnly: h.sessionCfg.CookieHTTPOnly,
		SameSite: h.sessionCfg.CookieSameSite,
	}
}
