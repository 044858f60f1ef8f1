package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/stephen4599/Civic-resolve/internal/events"
	"github.com/stephen4599/Civic-resolve/internal/models"
	"github.com/stephen4599/Civic-resolve/internal/repositories"
	"github.com/stephen4599/Civic-resolve/internal/validator"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

type authService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	captcha   CaptchaService
	logger    *slog.Logger
	validator *validator.Validator

	jwtSecret  []byte
	jwtTTL     time.Duration
	httpClient *http.Client
}

func NewAuthService(repo repositories.Repository, publisher events.EventPublisher, captcha CaptchaService, logger *slog.Logger, v *validator.Validator, jwtSecret string, jwtTTL time.Duration) AuthService {
	return &authService{
		repo:       repo,
		publisher:  publisher,
		captcha:    captcha,
		logger:     logger,
		validator:  v,
		jwtSecret:  []byte(jwtSecret),
		jwtTTL:     jwtTTL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// ===== SIGNUP =====

func (s *authService) Signup(ctx context.Context, req *SignupRequest) (*models.UserProfileResponse, error) {
	s.logger.Info("Processing signup", "username", req.Username)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	ok, err := s.captcha.Validate(ctx, req.CaptchaID, req.CaptchaAnswer)
	if err != nil {
		return nil, fmt.Errorf("captcha check failed: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCaptcha
	}

	role := models.RoleCitizen
	if req.Role != nil {
		role = *req.Role
	}

	if taken, err := s.repo.User().ExistsByUsername(ctx, req.Username); err != nil {
		return nil, fmt.Errorf("username check failed: %w", err)
	} else if taken {
		return nil, ErrUsernameTaken
	}

	if taken, err := s.repo.User().ExistsByEmail(ctx, req.Email); err != nil {
		return nil, fmt.Errorf("email check failed: %w", err)
	} else if taken {
		return nil, ErrEmailTaken
	}

	// At most one admin account may exist system-wide.
	if role == models.RoleAdmin {
		if exists, err := s.repo.User().ExistsByRole(ctx, models.RoleAdmin); err != nil {
			return nil, fmt.Errorf("admin check failed: %w", err)
		} else if exists {
			return nil, ErrAdminExists
		}
	}

	user := &models.Users{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		Role:        role,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		Enabled:     role != models.RoleContractor,
	}
	if err := user.HashPassword(); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Contractor signups create the login and the pending profile together;
	// the account stays disabled until an admin approves it.
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.User().Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		if role == models.RoleContractor {
			contractor := &models.Contractor{
				UserID:         user.ID,
				AssignedArea:   req.AssignedArea,
				Specialization: req.Specialization,
				FullName:       req.FullName,
				PhoneNumber:    req.PhoneNumber,
				Address:        req.Address,
			}
			if err := txRepo.Contractor().Create(ctx, contractor); err != nil {
				return fmt.Errorf("failed to create contractor profile: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishWelcome(ctx, user)

	s.logger.Info("User registered", "user_id", user.ID, "role", user.Role)
	return profileOf(user), nil
}

// ===== SIGNIN =====

func (s *authService) Signin(ctx context.Context, req *LoginRequest) (*models.JwtResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByUsername(ctx, req.Username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !user.ComparePassword(req.Password) {
		return nil, ErrInvalidCredentials
	}

	if !user.Enabled {
		return nil, ErrAccountDisabled
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("User signed in", "user_id", user.ID, "role", user.Role)

	return &models.JwtResponse{
		Token:    token,
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}, nil
}

// ===== GOOGLE SIGN-IN =====

type googleUserInfo struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// GoogleLogin verifies an OAuth access token against Google's userinfo
// endpoint and signs the matching account in, auto-provisioning an enabled
// citizen account on first contact.
func (s *authService) GoogleLogin(ctx context.Context, accessToken string) (*models.JwtResponse, error) {
	info, err := s.fetchGoogleUserInfo(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByEmail(ctx, info.Email)
	if err != nil {
		if !repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to load user: %w", err)
		}
		user, err = s.provisionGoogleUser(ctx, info)
		if err != nil {
			return nil, err
		}
	}

	if !user.Enabled {
		return nil, ErrAccountDisabled
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &models.JwtResponse{
		Token:    token,
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}, nil
}

func (s *authService) fetchGoogleUserInfo(ctx context.Context, accessToken string) (*googleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidCredentials
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo: %w", err)
	}
	if info.Email == "" || !info.EmailVerified {
		return nil, ErrInvalidCredentials
	}

	return &info, nil
}

func (s *authService) provisionGoogleUser(ctx context.Context, info *googleUserInfo) (*models.Users, error) {
	username := strings.SplitN(info.Email, "@", 2)[0]
	if len(username) > 20 {
		username = username[:20]
	}
	if taken, err := s.repo.User().ExistsByUsername(ctx, username); err == nil && taken {
		suffix := uuid.New().String()[:8]
		if len(username) > 11 {
			username = username[:11]
		}
		username = username + "-" + suffix
	}

	user := &models.Users{
		Username: username,
		Email:    info.Email,
		Password: uuid.New().String(),
		Role:     models.RoleCitizen,
		FullName: info.Name,
		Enabled:  true,
	}
	if err := user.HashPassword(); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.User().Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to provision user: %w", err)
	}

	s.publishWelcome(ctx, user)

	s.logger.Info("Provisioned account from Google sign-in", "user_id", user.ID)
	return user, nil
}

// ===== HELPERS =====

func (s *authService) issueToken(user *models.Users) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":     user.Username,
		"user_id": user.ID,
		"role":    string(user.Role),
		"iat":     now.Unix(),
		"exp":     now.Add(s.jwtTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *authService) publishWelcome(ctx context.Context, user *models.Users) {
	event := &events.NotificationEvent{
		Type:       events.EventWelcome,
		Recipient:  user.Email,
		Username:   user.Username,
		OccurredAt: time.Now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish welcome event", "user_id", user.ID, "error", err)
	}
}

func profileOf(user *models.Users) *models.UserProfileResponse {
	return &models.UserProfileResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FullName:    user.FullName,
		PhoneNumber: user.PhoneNumber,
		Address:     user.Address,
		Role:        user.Role,
	}
}
