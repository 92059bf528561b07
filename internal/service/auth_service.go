package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/nischalsh/todo-service/internal/domain"
	"github.com/nischalsh/todo-service/internal/dto"
	"github.com/nischalsh/todo-service/internal/repository"
	"github.com/nischalsh/todo-service/internal/utils"
	"go.uber.org/zap"
)

// authService implements AuthService interface
type authService struct {
	userRepo   repository.UserRepository
	jwtManager *utils.JWTManager
	avatars    AvatarStorage
	google     GoogleExchanger
	logger     *zap.Logger
	bcryptCost int
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	jwtManager *utils.JWTManager,
	avatars AvatarStorage,
	google GoogleExchanger,
	logger *zap.Logger,
	bcryptCost int,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		avatars:    avatars,
		google:     google,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

// Register registers a new user with a mandatory avatar image
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest, avatar *AvatarUpload) (*domain.User, error) {
	if utils.AnyBlank(req.Username, req.Fullname, req.Email, req.Password) {
		return nil, fmt.Errorf("all the fields are required: %w", ErrInvalidInput)
	}

	username := utils.SanitizeUsername(req.Username)
	email := utils.SanitizeEmail(req.Email)

	if !utils.ValidateEmail(email) {
		return nil, fmt.Errorf("invalid email format: %w", ErrInvalidInput)
	}

	exists, err := s.userRepo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("user with this username or email already exists: %w", repository.ErrDuplicateEmail)
	}

	if avatar == nil {
		return nil, fmt.Errorf("profile image is required: %w", ErrInvalidInput)
	}

	// Upload before touching the database; registration without a stored
	// avatar is a hard failure, not a soft default.
	avatarURL, objectKey, err := s.avatars.Upload(ctx, avatar.Filename, avatar.ContentType, avatar.Reader, avatar.Size)
	if err != nil {
		return nil, fmt.Errorf("avatar upload failed: %w", ErrDependencyFailure)
	}

	passwordHash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:        username,
		Fullname:        req.Fullname,
		Email:           email,
		PasswordHash:    &passwordHash,
		AvatarURL:       avatarURL,
		AvatarObjectKey: objectKey,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if delErr := s.avatars.Delete(ctx, objectKey); delErr != nil {
			s.logger.Warn("failed to delete orphaned avatar", zap.String("object_key", objectKey), zap.Error(delErr))
		}
		return nil, err
	}

	sanitized := user.Sanitized()
	return &sanitized, nil
}

// Login authenticates a user and issues a fresh token pair
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, utils.SanitizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("user does not exist: %w", ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.HasPassword() || !utils.CheckPasswordHash(req.Password, *user.PasswordHash) {
		return nil, fmt.Errorf("invalid user credentials: %w", ErrInvalidCredentials)
	}

	return s.issueSession(ctx, user)
}

// Logout clears the stored refresh token. Logging out twice is harmless.
func (s *authService) Logout(ctx context.Context, userID string) error {
	if err := s.userRepo.SetRefreshTokenHash(ctx, userID, nil); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

// Refresh rotates a refresh token into a fresh pair. Presenting a token
// that no longer matches the stored one signals reuse of a rotated token
// and fails with ErrTokenReused.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("invalid refresh token: %w", ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.RefreshTokenHash == nil || *user.RefreshTokenHash != hashToken(refreshToken) {
		return nil, ErrTokenReused
	}

	result, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	return &result.Tokens, nil
}

// GoogleLogin exchanges an authorization code, finds or creates the local
// account keyed by email, and issues a session exactly as Login does.
func (s *authService) GoogleLogin(ctx context.Context, code string) (*LoginResult, error) {
	if utils.AnyBlank(code) {
		return nil, fmt.Errorf("authorization code not provided: %w", ErrInvalidInput)
	}

	profile, err := s.google.ExchangeCode(ctx, code)
	if err != nil {
		s.logger.Error("google auth failed", zap.Error(err))
		return nil, fmt.Errorf("failed during google authentication: %w", ErrDependencyFailure)
	}

	email := utils.SanitizeEmail(profile.Email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to get user: %w", err)
		}

		user = &domain.User{
			Username:  utils.UsernameFromEmail(email),
			Fullname:  profile.Name,
			Email:     email,
			AvatarURL: profile.Picture,
			GoogleID:  &profile.Sub,
		}

		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
	}

	return s.issueSession(ctx, user)
}

// ChangePassword verifies the old password before persisting a new hash.
// Only the password column is written, so an otherwise stale profile never
// blocks the change.
func (s *authService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if !user.HasPassword() || !utils.CheckPasswordHash(req.OldPassword, *user.PasswordHash) {
		return fmt.Errorf("old password is incorrect: %w", ErrInvalidCredentials)
	}

	newHash, err := utils.HashPassword(req.NewPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepo.UpdatePassword(ctx, userID, newHash)
}

// UpdateAccount updates fullname and email and returns the sanitized user
func (s *authService) UpdateAccount(ctx context.Context, userID string, req *dto.UpdateAccountRequest) (*domain.User, error) {
	if utils.AnyBlank(req.Fullname, req.Email) {
		return nil, fmt.Errorf("fullname and email are required: %w", ErrInvalidInput)
	}

	user, err := s.userRepo.UpdateProfile(ctx, userID, req.Fullname, utils.SanitizeEmail(req.Email))
	if err != nil {
		return nil, err
	}

	sanitized := user.Sanitized()
	return &sanitized, nil
}

// UpdateAvatar uploads the replacement image first and deletes the previous
// one only after the upload succeeded, so a failed upload never leaves the
// user without an avatar.
func (s *authService) UpdateAvatar(ctx context.Context, userID string, avatar *AvatarUpload) (*domain.User, error) {
	if avatar == nil {
		return nil, fmt.Errorf("avatar image is required: %w", ErrInvalidInput)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	avatarURL, objectKey, err := s.avatars.Upload(ctx, avatar.Filename, avatar.ContentType, avatar.Reader, avatar.Size)
	if err != nil {
		return nil, fmt.Errorf("avatar upload failed: %w", ErrDependencyFailure)
	}

	if user.AvatarObjectKey != "" {
		if err := s.avatars.Delete(ctx, user.AvatarObjectKey); err != nil {
			s.logger.Warn("failed to delete previous avatar", zap.String("object_key", user.AvatarObjectKey), zap.Error(err))
		}
	}

	if err := s.userRepo.UpdateAvatar(ctx, userID, avatarURL, objectKey); err != nil {
		return nil, err
	}

	user.AvatarURL = avatarURL
	user.AvatarObjectKey = objectKey

	sanitized := user.Sanitized()
	return &sanitized, nil
}

// DeleteAccount removes the user record. The avatar delete is best effort;
// the account is removed either way.
func (s *authService) DeleteAccount(ctx context.Context, userID string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.AvatarObjectKey != "" {
		if err := s.avatars.Delete(ctx, user.AvatarObjectKey); err != nil {
			s.logger.Warn("failed to delete avatar during account deletion",
				zap.String("user_id", userID), zap.Error(err))
		}
	}

	return s.userRepo.Delete(ctx, userID)
}

// ValidateAccess verifies an access token and loads the sanitized user it
// references
func (s *authService) ValidateAccess(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.jwtManager.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("invalid access token: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("invalid access token: %w", ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	sanitized := user.Sanitized()
	return &sanitized, nil
}

// issueSession generates a token pair and persists the refresh token hash,
// overwriting whatever was stored before. One live refresh token per user.
func (s *authService) issueSession(ctx context.Context, user *domain.User) (*LoginResult, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	tokenHash := hashToken(refreshToken)
	if err := s.userRepo.SetRefreshTokenHash(ctx, user.ID, &tokenHash); err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	sanitized := user.Sanitized()
	return &LoginResult{
		User: &sanitized,
		Tokens: domain.TokenPair{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		},
	}, nil
}

// hashToken hashes a token using SHA256
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
