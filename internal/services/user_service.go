package services

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"gorm.io/gorm"

	apperrors "mintleaf/internal/errors"
	"mintleaf/internal/models"
	"mintleaf/internal/password"
	"mintleaf/internal/token"
)

// userService handles account management: registration, login, email
// verification, and password lifecycle.
type userService struct {
	db       *gorm.DB
	tokens   *token.Service
	notifier Notifier
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB, tokens *token.Service, notifier Notifier) UserServicer {
	return &userService{db: db, tokens: tokens, notifier: notifier}
}

// Register creates a new unverified, active user and queues the
// verification email. The token is never returned to the caller.
func (s *userService) Register(firstName, lastName, email, pw string) (*models.User, error) {
	if email == "" || pw == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}

	if ok, reason := password.CheckStrength(pw); !ok {
		return nil, apperrors.WithMessage(apperrors.ErrWeakPassword, reason)
	}

	email = strings.ToLower(email)

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	hashed, err := password.Hash(pw)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		FirstName:  titleCase(firstName),
		LastName:   titleCase(lastName),
		Email:      email,
		Password:   hashed,
		IsActive:   true,
		IsVerified: false,
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	verificationToken, err := s.tokens.Issue(user.Email, token.PurposeEmailVerification)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	s.notifier.EnqueueVerification(user.Email, user.FirstName, verificationToken)

	return user, nil
}

// Login authenticates a user and returns a fresh session token. Unknown
// emails and wrong passwords produce the same error.
func (s *userService) Login(email, pw string) (*models.User, string, error) {
	var user models.User
	if err := s.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperrors.ErrInvalidCredentials
		}
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if !password.Verify(pw, user.Password) {
		return nil, "", apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", apperrors.ErrAccountDeactivated
	}
	if !user.IsVerified {
		return nil, "", apperrors.ErrEmailNotVerified
	}

	sessionToken, err := s.tokens.Issue(user.Email, token.PurposeSession)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"last_login_at": now,
		"session_token": sessionToken,
	}
	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	user.LastLoginAt = &now

	return &user, sessionToken, nil
}

// VerifyEmail marks the token's subject as verified. Re-verifying an
// already-verified account is a no-op, reported via verifiedNow=false.
func (s *userService) VerifyEmail(tokenString string) (bool, error) {
	email, err := s.tokens.Verify(tokenString, token.PurposeEmailVerification)
	if err != nil {
		return false, apperrors.WithMessage(apperrors.ErrInvalidToken, "Invalid or expired verification token")
	}

	user, err := s.GetUserByEmail(email)
	if err != nil {
		return false, err
	}

	if user.IsVerified {
		return false, nil
	}

	if err := s.db.Model(user).Update("is_verified", true).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return true, nil
}

// ResendVerification re-issues the verification email. An unknown email
// reports sent=false with no error so the handler can answer with the
// same generic acknowledgment; an already-verified account is an error.
func (s *userService) ResendVerification(email string) (bool, error) {
	var user models.User
	if err := s.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if user.IsVerified {
		return false, apperrors.ErrAlreadyVerified
	}

	verificationToken, err := s.tokens.Issue(user.Email, token.PurposeEmailVerification)
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	s.notifier.EnqueueVerification(user.Email, user.FirstName, verificationToken)

	return true, nil
}

// ForgotPassword queues a reset email when the account exists and is
// active. It never reports whether the email is registered.
func (s *userService) ForgotPassword(email string) error {
	var user models.User
	if err := s.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if !user.IsActive {
		return nil
	}

	resetToken, err := s.tokens.Issue(user.Email, token.PurposePasswordReset)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	s.notifier.EnqueuePasswordReset(user.Email, user.FirstName, resetToken)

	return nil
}

// ResetPassword overwrites the password hash of the token's subject.
// Reset tokens are not tracked for consumption and stay valid until
// their natural expiry.
func (s *userService) ResetPassword(tokenString, newPassword string) error {
	email, err := s.tokens.Verify(tokenString, token.PurposePasswordReset)
	if err != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidToken, "Invalid or expired password reset token")
	}

	user, err := s.GetUserByEmail(email)
	if err != nil {
		return err
	}
	if !user.IsActive {
		return apperrors.ErrAccountDeactivated
	}

	if ok, reason := password.CheckStrength(newPassword); !ok {
		return apperrors.WithMessage(apperrors.ErrWeakPassword, reason)
	}

	hashed, err := password.Hash(newPassword)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(user).Update("password", hashed).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ChangePassword replaces an authenticated user's password after checking
// the current one.
func (s *userService) ChangePassword(userID, currentPassword, newPassword string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if !password.Verify(currentPassword, user.Password) {
		return apperrors.ErrWrongCurrentPassword
	}
	if password.Verify(newPassword, user.Password) {
		return apperrors.ErrSamePassword
	}
	if ok, reason := password.CheckStrength(newPassword); !ok {
		return apperrors.WithMessage(apperrors.ErrWeakPassword, reason)
	}

	hashed, err := password.Hash(newPassword)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(user).Update("password", hashed).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email, regardless of active state.
// Callers that require an active account check the flag themselves.
func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// titleCase uppercases the first letter of each space-separated word,
// lowercasing the rest, and trims surrounding whitespace.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
