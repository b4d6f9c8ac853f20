package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/M7HZ/bright-clinic/database"
	"github.com/M7HZ/bright-clinic/models"
	"github.com/M7HZ/bright-clinic/repositories"
	"github.com/M7HZ/bright-clinic/session"
	"github.com/M7HZ/bright-clinic/utils"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
)

// SignupRequest carries the signup form. Role defaults to patient; staff
// signups set doctor or clerk_admin, and doctor signups additionally
// fill the licensing fields.
type SignupRequest struct {
	Email       string         `json:"email"`
	Password    string         `json:"password"`
	FullName    string         `json:"full_name"`
	Phone       string         `json:"phone"`
	Address     string         `json:"address"`
	DateOfBirth string         `json:"date_of_birth"`
	Role        models.AppRole `json:"role"`

	Specialization    string `json:"specialization"`
	LicenseNumber     string `json:"license_number"`
	YearsOfExperience int    `json:"years_of_experience"`
}

// AuthResult is returned on a successful sign-in or refresh.
type AuthResult struct {
	User         session.Identity `json:"user"`
	Role         models.AppRole   `json:"role"`
	AccessToken  string           `json:"accessToken"`
	RefreshToken string           `json:"refreshToken,omitempty"`
	ExpiresAt    time.Time        `json:"expiresAt"`
}

type AuthService interface {
	SignUp(ctx context.Context, req SignupRequest) (*session.Identity, error)
	SignIn(ctx context.Context, email, password string, staffSurface bool) (*AuthResult, error)
	RefreshAccessToken(refreshToken string) (*AuthResult, error)
	ResolveRole(ctx context.Context, identityID string) (models.AppRole, error)
	SendResetCode(ctx context.Context, email, redirectURL string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}

type authService struct {
	userRepo repositories.UserRepository
	roleCB   *gobreaker.CircuitBreaker
}

func NewAuthService(userRepo repositories.UserRepository, roleCB *gobreaker.CircuitBreaker) AuthService {
	return &authService{userRepo: userRepo, roleCB: roleCB}
}

// SignUp validates the form, then creates the credential, profile, role
// row and (for doctors) the doctor record in one transaction. A redis
// lock keyed by email guards against duplicate concurrent registrations.
func (s *authService) SignUp(ctx context.Context, req SignupRequest) (*session.Identity, error) {
	if req.Role == "" {
		req.Role = models.RolePatient
	}
	if !req.Role.Valid() {
		return nil, &ValidationError{Err: fmt.Errorf("unknown role %q", req.Role)}
	}
	if err := utils.ValidateSignup(req.Email, req.FullName, req.Password); err != nil {
		return nil, &ValidationError{Err: err}
	}

	lockKey := fmt.Sprintf("signup_lock:%s", req.Email)
	lockValue := uuid.New().String()
	locked, err := database.NewLock(ctx, lockKey, lockValue, time.Minute)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return nil, errors.New("failed to acquire lock")
	}
	defer func() {
		if err := database.ReleaseLock(ctx, lockKey, lockValue); err != nil {
			log.Printf("Failed to release lock: %v", err)
		}
	}()

	if exists, err := s.userRepo.EmailExists(ctx, req.Email); err != nil || exists {
		return nil, errors.New("email already registered")
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userID := uuid.New().String()
	cred := &models.Credential{
		ID:       userID,
		Email:    req.Email,
		Password: hashedPassword,
	}
	profile := &models.Profile{
		ID:          uuid.New().String(),
		UserID:      userID,
		FullName:    req.FullName,
		Phone:       req.Phone,
		Address:     req.Address,
		DateOfBirth: req.DateOfBirth,
	}
	role := &models.UserRole{
		ID:     uuid.New().String(),
		UserID: userID,
		Role:   req.Role,
	}

	var doctor *models.Doctor
	if req.Role == models.RoleDoctor {
		doctor = &models.Doctor{
			ID:                uuid.New().String(),
			UserID:            userID,
			Specialization:    req.Specialization,
			LicenseNumber:     req.LicenseNumber,
			YearsOfExperience: req.YearsOfExperience,
			Available:         true,
		}
	}

	if err := s.userRepo.CreateIdentity(ctx, cred, profile, role, doctor); err != nil {
		return nil, err
	}

	return &session.Identity{ID: userID, Email: req.Email}, nil
}

// SignIn authenticates credentials for one login surface. Staff accounts
// cannot sign in through the patient surface and vice versa; both cases
// report plain auth failure, not which surface the account belongs to.
func (s *authService) SignIn(ctx context.Context, email, password string, staffSurface bool) (*AuthResult, error) {
	cred, err := s.userRepo.GetCredentialByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	if cred == nil || !utils.CheckPassword(cred.Password, password) {
		return nil, ErrAuthFailure
	}

	role, err := s.ResolveRole(ctx, cred.ID)
	if err != nil {
		if errors.Is(err, session.ErrRoleNotFound) {
			log.Printf("Integrity concern: identity %s has no role row", cred.ID)
			return nil, ErrRoleMissing
		}
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	if role.IsStaff() != staffSurface {
		return nil, ErrAuthFailure
	}

	accessToken, refreshToken, err := utils.GenerateTokens(cred.ID, cred.Email, role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &AuthResult{
		User:         session.Identity{ID: cred.ID, Email: cred.Email, EmailVerified: cred.EmailVerified},
		Role:         role,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(utils.AccessTokenExpiry),
	}, nil
}

// RefreshAccessToken re-issues an access token from a valid refresh
// token. Stateless: the claims carry everything needed.
func (s *authService) RefreshAccessToken(refreshToken string) (*AuthResult, error) {
	claims, err := utils.ValidateToken(refreshToken)
	if err != nil {
		return nil, ErrNotAuthenticated
	}

	accessToken, err := utils.GenerateAccessToken(claims.UserID, claims.Email, claims.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &AuthResult{
		User:        session.Identity{ID: claims.UserID, Email: claims.Email},
		Role:        claims.Role,
		AccessToken: accessToken,
		ExpiresAt:   time.Now().Add(utils.AccessTokenExpiry),
	}, nil
}

// ResolveRole fetches the single role row for an identity, behind a
// circuit breaker so a struggling database cannot hang every session
// establishment. Satisfies session.RoleResolver.
func (s *authService) ResolveRole(ctx context.Context, identityID string) (models.AppRole, error) {
	result, err := s.roleCB.Execute(func() (interface{}, error) {
		return s.userRepo.GetRoleByUserID(ctx, identityID)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNoRole) {
			return "", session.ErrRoleNotFound
		}
		return "", err
	}
	return result.(models.AppRole), nil
}

func (s *authService) SendResetCode(ctx context.Context, email, redirectURL string) error {
	cred, err := s.userRepo.GetCredentialByEmail(ctx, email)
	if err != nil {
		return err
	}
	if cred == nil {
		return errors.New("user not found")
	}

	code := utils.GenerateResetCode()
	if err := utils.SetResetCode(ctx, email, code); err != nil {
		return fmt.Errorf("failed to set reset code: %w", err)
	}
	return utils.SendResetCodeEmail(email, code, redirectURL)
}

func (s *authService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if err := utils.ValidatePasswordReset(code, newPassword); err != nil {
		return &ValidationError{Err: err}
	}

	stored, err := s.userRepo.GetCredentialByEmail(ctx, email)
	if err != nil {
		return err
	}
	if stored == nil {
		return errors.New("user not found")
	}

	expected, err := utils.GetResetCode(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to load reset code: %w", err)
	}
	if expected == nil || *expected != code {
		return &ValidationError{Err: errors.New("invalid or expired reset code")}
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, email, hashed); err != nil {
		return err
	}
	return utils.DeleteResetCode(ctx, email)
}
