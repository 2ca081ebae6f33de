package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "mintleaf/internal/errors"
	"mintleaf/internal/models"
	"mintleaf/internal/services"
	"mintleaf/internal/validator"
)

// --- mock services ---

type mockUserService struct {
	registerFn           func(firstName, lastName, email, password string) (*models.User, error)
	loginFn              func(email, password string) (*models.User, string, error)
	verifyEmailFn        func(tokenString string) (bool, error)
	resendVerificationFn func(email string) (bool, error)
	forgotPasswordFn     func(email string) error
	resetPasswordFn      func(tokenString, newPassword string) error
	changePasswordFn     func(userID, currentPassword, newPassword string) error
	getUserByIDFn        func(id string) (*models.User, error)
	getUserByEmailFn     func(email string) (*models.User, error)
}

var _ services.UserServicer = (*mockUserService)(nil)

func (m *mockUserService) Register(firstName, lastName, email, password string) (*models.User, error) {
	if m.registerFn != nil {
		return m.registerFn(firstName, lastName, email, password)
	}
	return &models.User{Email: email}, nil
}

func (m *mockUserService) Login(email, password string) (*models.User, string, error) {
	if m.loginFn != nil {
		return m.loginFn(email, password)
	}
	return &models.User{Email: email}, "token", nil
}

func (m *mockUserService) VerifyEmail(tokenString string) (bool, error) {
	if m.verifyEmailFn != nil {
		return m.verifyEmailFn(tokenString)
	}
	return true, nil
}

func (m *mockUserService) ResendVerification(email string) (bool, error) {
	if m.resendVerificationFn != nil {
		return m.resendVerificationFn(email)
	}
	return true, nil
}

func (m *mockUserService) ForgotPassword(email string) error {
	if m.forgotPasswordFn != nil {
		return m.forgotPasswordFn(email)
	}
	return nil
}

func (m *mockUserService) ResetPassword(tokenString, newPassword string) error {
	if m.resetPasswordFn != nil {
		return m.resetPasswordFn(tokenString, newPassword)
	}
	return nil
}

func (m *mockUserService) ChangePassword(userID, currentPassword, newPassword string) error {
	if m.changePasswordFn != nil {
		return m.changePasswordFn(userID, currentPassword, newPassword)
	}
	return nil
}

func (m *mockUserService) GetUserByID(id string) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{Base: models.Base{ID: id}}, nil
}

func (m *mockUserService) GetUserByEmail(email string) (*models.User, error) {
	if m.getUserByEmailFn != nil {
		return m.getUserByEmailFn(email)
	}
	return &models.User{Email: email}, nil
}

// --- test helpers ---

const testUserID = "0190e4a2-0000-7000-8000-000000000001"

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/auth/register", handler.Register)
	r.POST("/auth/login", handler.Login)
	r.POST("/auth/verify-email", handler.VerifyEmail)
	r.POST("/auth/resend-verification", handler.ResendVerification)
	r.POST("/auth/logout", handler.Logout)
	r.POST("/auth/forgot-password", handler.ForgotPassword)
	r.POST("/auth/reset-password", handler.ResetPassword)
	r.GET("/auth/me", injectUserID(testUserID), handler.GetMe)
	r.POST("/auth/change-password", injectUserID(testUserID), handler.ChangePassword)
	return r
}

// --- tests ---

func TestAuthHandler_Register(t *testing.T) {
	t.Run("returns 200 and acknowledgment on success", func(t *testing.T) {
		userSvc := &mockUserService{
			registerFn: func(firstName, lastName, email, _ string) (*models.User, error) {
				return &models.User{FirstName: firstName, LastName: lastName, Email: "alice@test.com"}, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/register",
			`{"first_name":"Alice","last_name":"Smith","email":"alice@test.com","password":"Password1","confirm_password":"Password1"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["email"] != "alice@test.com" {
			t.Errorf("expected email in response, got %v", result["email"])
		}
		if !strings.Contains(result["message"].(string), "verify") {
			t.Errorf("expected verification hint in message, got %v", result["message"])
		}
	})

	t.Run("returns 400 on password mismatch", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}))

		rec := doRequest(r, "POST", "/auth/register",
			`{"first_name":"Alice","last_name":"Smith","email":"alice@test.com","password":"Password1","confirm_password":"Different1"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on invalid name characters", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}))

		rec := doRequest(r, "POST", "/auth/register",
			`{"first_name":"Alice123","last_name":"Smith","email":"alice@test.com","password":"Password1","confirm_password":"Password1"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on duplicate email", func(t *testing.T) {
		userSvc := &mockUserService{
			registerFn: func(_, _, _, _ string) (*models.User, error) {
				return nil, apperrors.ErrDuplicateEmail
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/register",
			`{"first_name":"Alice","last_name":"Smith","email":"alice@test.com","password":"Password1","confirm_password":"Password1"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_EMAIL")
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns token and user on success", func(t *testing.T) {
		now := time.Now()
		userSvc := &mockUserService{
			loginFn: func(email, _ string) (*models.User, string, error) {
				return &models.User{
					Base:        models.Base{ID: testUserID},
					FirstName:   "Alice",
					LastName:    "Smith",
					Email:       email,
					IsActive:    true,
					IsVerified:  true,
					LastLoginAt: &now,
				}, "session-token", nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/login", `{"email":"alice@test.com","password":"Password1"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["access_token"] != "session-token" {
			t.Errorf("expected access_token, got %v", result["access_token"])
		}
		if result["token_type"] != "bearer" {
			t.Errorf("expected bearer token type, got %v", result["token_type"])
		}
		user := result["user"].(map[string]interface{})
		if user["full_name"] != "Alice Smith" {
			t.Errorf("expected full name, got %v", user["full_name"])
		}
	})

	t.Run("returns 401 on bad credentials", func(t *testing.T) {
		userSvc := &mockUserService{
			loginFn: func(_, _ string) (*models.User, string, error) {
				return nil, "", apperrors.ErrInvalidCredentials
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/login", `{"email":"alice@test.com","password":"wrong"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_CREDENTIALS")
	})

	t.Run("returns 400 on unverified email", func(t *testing.T) {
		userSvc := &mockUserService{
			loginFn: func(_, _ string) (*models.User, string, error) {
				return nil, "", apperrors.ErrEmailNotVerified
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/login", `{"email":"alice@test.com","password":"Password1"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "EMAIL_NOT_VERIFIED")
	})
}

func TestAuthHandler_VerifyEmail(t *testing.T) {
	t.Run("first verification", func(t *testing.T) {
		userSvc := &mockUserService{
			verifyEmailFn: func(_ string) (bool, error) { return true, nil },
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/verify-email", `{"token":"tok"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if !strings.Contains(result["message"].(string), "verified successfully") {
			t.Errorf("unexpected message %v", result["message"])
		}
	})

	t.Run("already verified", func(t *testing.T) {
		userSvc := &mockUserService{
			verifyEmailFn: func(_ string) (bool, error) { return false, nil },
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/verify-email", `{"token":"tok"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["message"] != "Email address is already verified" {
			t.Errorf("unexpected message %v", result["message"])
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		userSvc := &mockUserService{
			verifyEmailFn: func(_ string) (bool, error) {
				return false, apperrors.WithMessage(apperrors.ErrInvalidToken, "Invalid or expired verification token")
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/verify-email", `{"token":"bad"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_TOKEN")
	})
}

func TestAuthHandler_ResendVerification(t *testing.T) {
	t.Run("sends for unverified account", func(t *testing.T) {
		userSvc := &mockUserService{
			resendVerificationFn: func(_ string) (bool, error) { return true, nil },
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/resend-verification", `{"email":"alice@test.com"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["message"] != "Verification email sent successfully!" {
			t.Errorf("unexpected message %v", result["message"])
		}
	})

	t.Run("generic message for unknown email", func(t *testing.T) {
		userSvc := &mockUserService{
			resendVerificationFn: func(_ string) (bool, error) { return false, nil },
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/resend-verification", `{"email":"nobody@test.com"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if !strings.Contains(result["message"].(string), "If the email address is registered") {
			t.Errorf("unexpected message %v", result["message"])
		}
	})

	t.Run("already verified is an error", func(t *testing.T) {
		userSvc := &mockUserService{
			resendVerificationFn: func(_ string) (bool, error) { return false, apperrors.ErrAlreadyVerified },
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/resend-verification", `{"email":"alice@test.com"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ALREADY_VERIFIED")
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	r := setupAuthRouter(NewAuthHandler(&mockUserService{}))

	rec := doRequest(r, "POST", "/auth/logout", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	result := parseJSON(t, rec)
	if result["message"] != "Successfully logged out" {
		t.Errorf("unexpected message %v", result["message"])
	}
}

func TestAuthHandler_ForgotPassword(t *testing.T) {
	t.Run("always generic acknowledgment", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}))

		rec := doRequest(r, "POST", "/auth/forgot-password", `{"email":"anyone@test.com"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if !strings.Contains(result["message"].(string), "If the email address is registered") {
			t.Errorf("unexpected message %v", result["message"])
		}
	})

	t.Run("returns 400 on invalid email", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}))

		rec := doRequest(r, "POST", "/auth/forgot-password", `{"email":"not-an-email"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestAuthHandler_ResetPassword(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}))

		rec := doRequest(r, "POST", "/auth/reset-password",
			`{"token":"tok","new_password":"NewPassword1","confirm_password":"NewPassword1"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 400 on confirm mismatch", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}))

		rec := doRequest(r, "POST", "/auth/reset-password",
			`{"token":"tok","new_password":"NewPassword1","confirm_password":"Other1"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on invalid token", func(t *testing.T) {
		userSvc := &mockUserService{
			resetPasswordFn: func(_, _ string) error {
				return apperrors.WithMessage(apperrors.ErrInvalidToken, "Invalid or expired password reset token")
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/reset-password",
			`{"token":"bad","new_password":"NewPassword1","confirm_password":"NewPassword1"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_TOKEN")
	})
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		var gotUserID string
		userSvc := &mockUserService{
			changePasswordFn: func(userID, _, _ string) error {
				gotUserID = userID
				return nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/change-password",
			`{"current_password":"Password1","new_password":"NewPassword1","confirm_password":"NewPassword1"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotUserID != testUserID {
			t.Errorf("expected authenticated user ID, got %s", gotUserID)
		}
	})

	t.Run("returns 400 on wrong current password", func(t *testing.T) {
		userSvc := &mockUserService{
			changePasswordFn: func(_, _, _ string) error {
				return apperrors.ErrWrongCurrentPassword
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/change-password",
			`{"current_password":"wrong","new_password":"NewPassword1","confirm_password":"NewPassword1"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_CREDENTIALS")
	})
}

func TestAuthHandler_GetMe(t *testing.T) {
	userSvc := &mockUserService{
		getUserByIDFn: func(id string) (*models.User, error) {
			return &models.User{
				Base:      models.Base{ID: id},
				FirstName: "Alice",
				LastName:  "Smith",
				Email:     "alice@test.com",
				IsActive:  true,
			}, nil
		},
	}
	r := setupAuthRouter(NewAuthHandler(userSvc))

	rec := doRequest(r, "GET", "/auth/me", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	result := parseJSON(t, rec)
	if result["id"] != testUserID {
		t.Errorf("expected user ID %s, got %v", testUserID, result["id"])
	}
	if result["email"] != "alice@test.com" {
		t.Errorf("unexpected email %v", result["email"])
	}
}
