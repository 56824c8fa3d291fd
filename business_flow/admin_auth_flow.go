// Package businessflow contains the core business logic and use cases for authentication workflows
package businessflow

import (
	"context"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/breezeline/interiors-api/app/dto"
	"github.com/breezeline/interiors-api/app/services"
	"github.com/breezeline/interiors-api/config"
	"github.com/breezeline/interiors-api/models"
	"github.com/breezeline/interiors-api/repository"
	"github.com/breezeline/interiors-api/utils"
)

// AdminAuthFlow represents the admin authentication flow used by handlers
type AdminAuthFlow interface {
	Login(ctx context.Context, req *dto.AdminLoginRequest, metadata *ClientMetadata) (*dto.AdminLoginResponse, *services.AdminSession, error)
	Logout(ctx context.Context, token string) error
	Check(ctx context.Context, token string) *dto.AuthCheckResponse
	EnsureBootstrapAdmin(ctx context.Context, username, password string, bcryptCost int) error
}

// AdminAuthFlowImpl verifies admin credentials and manages their sessions
type AdminAuthFlowImpl struct {
	adminRepo      repository.AdminRepository
	sessionService services.SessionService
}

func NewAdminAuthFlow(adminRepo repository.AdminRepository, sessionService services.SessionService) AdminAuthFlow {
	return &AdminAuthFlowImpl{
		adminRepo:      adminRepo,
		sessionService: sessionService,
	}
}

// Login looks up the admin by exact username and compares the password with
// bcrypt. Unknown username and wrong password return the same error so the
// response does not reveal which one failed.
func (af *AdminAuthFlowImpl) Login(ctx context.Context, req *dto.AdminLoginRequest, metadata *ClientMetadata) (*dto.AdminLoginResponse, *services.AdminSession, error) {
	if req == nil || len(req.Username) == 0 || len(req.Password) == 0 {
		return nil, nil, NewBusinessError("ADMIN_LOGIN_VALIDATION_FAILED", "Username and password are required", ErrIncorrectPassword)
	}

	admin, err := af.adminRepo.ByUsername(ctx, req.Username)
	if err != nil {
		return nil, nil, NewBusinessError("ADMIN_LOOKUP_FAILED", "Failed to lookup admin", err)
	}
	if admin == nil {
		// burn a bcrypt comparison so username probing cannot be timed
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$12$000000000000000000000uGyUvPeJQwtN3FkKssFEFgmkC9Z0mdXW"), []byte(req.Password))
		return nil, nil, NewBusinessError("ADMIN_INVALID_CREDENTIALS", "Invalid username or password", ErrIncorrectPassword)
	}
	if !utils.IsTrue(admin.IsActive) {
		return nil, nil, NewBusinessError("ADMIN_INACTIVE", "Admin account is inactive", ErrAdminInactive)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, NewBusinessError("ADMIN_INVALID_CREDENTIALS", "Invalid username or password", ErrIncorrectPassword)
	}

	session, err := af.sessionService.CreateSession(ctx, admin.ID, admin.Username)
	if err != nil {
		return nil, nil, NewBusinessError("SESSION_CREATION_FAILED", "Failed to create session", err)
	}

	now := utils.UTCNow()
	if err := af.adminRepo.TouchLastLogin(ctx, admin.ID, now); err != nil {
		log.Printf("failed to update last login for admin %d: %v", admin.ID, err)
	}

	resp := &dto.AdminLoginResponse{
		Username:  admin.Username,
		ExpiresIn: int(af.sessionService.TTL().Seconds()),
	}
	if admin.LastLoginAt != nil {
		resp.LastLoginAt = admin.LastLoginAt.UTC().Format(time.RFC3339)
	}
	return resp, session, nil
}

// Logout destroys the server-side session. Destroying a session that does not
// exist is not an error; logout is idempotent.
func (af *AdminAuthFlowImpl) Logout(ctx context.Context, token string) error {
	if err := af.sessionService.DestroySession(ctx, token); err != nil {
		return NewBusinessError("SESSION_DESTROY_FAILED", "Failed to destroy session", err)
	}
	return nil
}

// Check reports whether the token maps to a live session. It never errors;
// any failure reads as unauthenticated.
func (af *AdminAuthFlowImpl) Check(ctx context.Context, token string) *dto.AuthCheckResponse {
	session, err := af.sessionService.ValidateSession(ctx, token)
	if err != nil {
		return &dto.AuthCheckResponse{Authenticated: false}
	}
	return &dto.AuthCheckResponse{
		Authenticated: true,
		Username:      session.Username,
	}
}

// EnsureBootstrapAdmin seeds the configured admin account when it does not
// exist yet. An existing account is left untouched, including its password.
func (af *AdminAuthFlowImpl) EnsureBootstrapAdmin(ctx context.Context, username, password string, bcryptCost int) error {
	if len(password) < config.MinAdminPasswordLength {
		return NewBusinessErrorf("ADMIN_SEED_FAILED", "Bootstrap admin password must be at least %d characters", ErrWeakBootstrapPassword, config.MinAdminPasswordLength)
	}

	existing, err := af.adminRepo.ByUsername(ctx, username)
	if err != nil {
		return NewBusinessError("ADMIN_LOOKUP_FAILED", "Failed to lookup admin", err)
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return NewBusinessError("ADMIN_SEED_FAILED", "Failed to hash bootstrap password", err)
	}

	admin := &models.Admin{
		Username:     username,
		PasswordHash: string(hash),
		IsActive:     utils.ToPtr(true),
		CreatedAt:    utils.UTCNow(),
		UpdatedAt:    utils.UTCNow(),
	}
	if err := af.adminRepo.Save(ctx, admin); err != nil {
		return NewBusinessError("ADMIN_SEED_FAILED", "Failed to create bootstrap admin", err)
	}
	log.Printf("bootstrap admin %q created", username)
	return nil
}
