package services

import (
	"testing"
	"time"

	"mintleaf/internal/password"
	"mintleaf/internal/testutil"
	"mintleaf/internal/token"

	"gorm.io/gorm"
)

// stubNotifier records queued emails without sending anything.
type stubNotifier struct {
	verifications []string
	resets        []string
	lastToken     string
}

func (n *stubNotifier) EnqueueVerification(email, firstName, tok string) {
	n.verifications = append(n.verifications, email)
	n.lastToken = tok
}

func (n *stubNotifier) EnqueuePasswordReset(email, firstName, tok string) {
	n.resets = append(n.resets, email)
	n.lastToken = tok
}

func newTestTokens() *token.Service {
	return token.NewService(token.Config{
		Secret:        "test-secret",
		SessionTTL:    15 * time.Minute,
		EmailTokenTTL: 24 * time.Hour,
	})
}

func newTestUserService(db *gorm.DB) (UserServicer, *stubNotifier) {
	notifier := &stubNotifier{}
	return NewUserService(db, newTestTokens(), notifier), notifier
}

func TestRegister(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, notifier := newTestUserService(db)

		user, err := svc.Register("alice", "SMITH", "Alice@Test.com", "Password1")
		testutil.AssertNoError(t, err)

		if user.Email != "alice@test.com" {
			t.Errorf("expected lowercased email, got %s", user.Email)
		}
		if user.FirstName != "Alice" || user.LastName != "Smith" {
			t.Errorf("expected title-cased names, got %s %s", user.FirstName, user.LastName)
		}
		if user.IsVerified {
			t.Error("new users must start unverified")
		}
		if !user.IsActive {
			t.Error("new users must start active")
		}
		if user.Password == "Password1" {
			t.Error("password must be stored hashed")
		}
		if len(notifier.verifications) != 1 || notifier.verifications[0] != "alice@test.com" {
			t.Errorf("expected one verification email to alice@test.com, got %v", notifier.verifications)
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestUserService(db)

		_, err := svc.Register("Alice", "Smith", "dup@test.com", "Password1")
		testutil.AssertNoError(t, err)

		_, err = svc.Register("Bob", "Jones", "DUP@test.com", "Password1")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("weak_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, notifier := newTestUserService(db)

		_, err := svc.Register("Alice", "Smith", "weak@test.com", "password")
		testutil.AssertAppError(t, err, "WEAK_PASSWORD")

		if len(notifier.verifications) != 0 {
			t.Error("no email should be queued for a failed registration")
		}
	})
}

func TestLogin(t *testing.T) {
	setup := func(t *testing.T, db *gorm.DB, svc UserServicer) string {
		t.Helper()
		user, err := svc.Register("Alice", "Smith", "login@test.com", "Password1")
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, db.Model(user).Update("is_verified", true).Error)
		return user.Email
	}

	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestUserService(db)
		email := setup(t, db, svc)

		user, sessionToken, err := svc.Login(email, "Password1")
		testutil.AssertNoError(t, err)

		if sessionToken == "" {
			t.Error("expected a session token")
		}
		if user.LastLoginAt == nil {
			t.Error("expected last login timestamp to be set")
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestUserService(db)
		email := setup(t, db, svc)

		_, _, err := svc.Login(email, "WrongPassword1")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestUserService(db)

		// Same error as a wrong password: no account enumeration.
		_, _, err := svc.Login("nobody@test.com", "Password1")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unverified", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestUserService(db)

		_, err := svc.Register("Alice", "Smith", "unverified@test.com", "Password1")
		testutil.AssertNoError(t, err)

		_, _, err = svc.Login("unverified@test.com", "Password1")
		testutil.AssertAppError(t, err, "EMAIL_NOT_VERIFIED")
	})

	t.Run("deactivated", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestUserService(db)
		email := setup(t, db, svc)

		user, err := svc.GetUserByEmail(email)
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, db.Model(user).Update("is_active", false).Error)

		_, _, err = svc.Login(email, "Password1")
		testutil.AssertAppError(t, err, "ACCOUNT_DEACTIVATED")
	})
}

func TestVerifyEmail(t *testing.T) {
	t.Run("valid_token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, notifier := newTestUserService(db)

		_, err := svc.Register("Alice", "Smith", "verify@test.com", "Password1")
		testutil.AssertNoError(t, err)

		verifiedNow, err := svc.VerifyEmail(notifier.lastToken)
		testutil.AssertNoError(t, err)
		if !verifiedNow {
			t.Error("expected first verification to report verifiedNow")
		}

		user, err := svc.GetUserByEmail("verify@test.com")
		testutil.AssertNoError(t, err)
		if !user.IsVerified {
			t.Error("expected user to be verified")
		}
	})

	t.Run("already_verified_is_noop", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, notifier := newTestUserService(db)

		_, err := svc.Register("Alice", "Smith", "twice@test.com", "Password1")
		testutil.AssertNoError(t, err)

		_, err = svc.VerifyEmail(notifier.lastToken)
		testutil.AssertNoError(t, err)

		verifiedNow, err := svc.VerifyEmail(notifier.lastToken)
		testutil.AssertNoError(t, err)
		if verifiedNow {
			t.Error("re-verification must not report verifiedNow")
		}
	})

	t.Run("invalid_token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestUserService(db)

		_, err := svc.VerifyEmail("garbage")
		testutil.AssertAppError(t, err, "INVALID_TOKEN")
	})

	t.Run("session_token_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		tokens := newTestTokens()
		svc := NewUserService(db, tokens, &stubNotifier{})

		sessionToken, err := tokens.Issue("verify@test.com", token.PurposeSession)
		testutil.AssertNoError(t, err)

		_, err = svc.VerifyEmail(sessionToken)
		testutil.AssertAppError(t, err, "INVALID_TOKEN")
	})
}

func TestResendVerification(t *testing.T) {
	t.Run("unverified_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, notifier := newTestUserService(db)

		_, err := svc.Register("Alice", "Smith", "resend@test.com", "Password1")
		testutil.AssertNoError(t, err)

		sent, err := svc.ResendVerification("resend@test.com")
		testutil.AssertNoError(t, err)
		if !sent {
			t.Error("expected a resend for an unverified account")
		}
		if len(notifier.verifications) != 2 {
			t.Errorf("expected 2 verification emails, got %d", len(notifier.verifications))
		}
	})

	t.Run("unknown_email_silent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, notifier := newTestUserService(db)

		sent, err := svc.ResendVerification("nobody@test.com")
		testutil.AssertNoError(t, err)
		if sent {
			t.Error("unknown email must not report sent")
		}
		if len(notifier.verifications) != 0 {
			t.Error("no email should be queued for unknown address")
		}
	})

	t.Run("already_verified", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestUserService(db)

		user := testutil.CreateTestUser(t, db)
		_, err := svc.ResendVerification(user.Email)
		testutil.AssertAppError(t, err, "ALREADY_VERIFIED")
	})
}

func TestForgotPassword(t *testing.T) {
	t.Run("active_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, notifier := newTestUserService(db)

		user := testutil.CreateTestUser(t, db)
		testutil.AssertNoError(t, svc.ForgotPassword(user.Email))

		if len(notifier.resets) != 1 {
			t.Errorf("expected 1 reset email, got %d", len(notifier.resets))
		}
	})

	t.Run("unknown_email_silent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, notifier := newTestUserService(db)

		testutil.AssertNoError(t, svc.ForgotPassword("nobody@test.com"))
		if len(notifier.resets) != 0 {
			t.Error("no email should be queued for unknown address")
		}
	})

	t.Run("deactivated_account_silent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, notifier := newTestUserService(db)

		user := testutil.CreateTestUser(t, db)
		testutil.AssertNoError(t, db.Model(user).Update("is_active", false).Error)

		testutil.AssertNoError(t, svc.ForgotPassword(user.Email))
		if len(notifier.resets) != 0 {
			t.Error("no email should be queued for a deactivated account")
		}
	})
}

func TestResetPassword(t *testing.T) {
	t.Run("valid_token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, notifier := newTestUserService(db)

		user := testutil.CreateTestUser(t, db)
		testutil.AssertNoError(t, svc.ForgotPassword(user.Email))

		testutil.AssertNoError(t, svc.ResetPassword(notifier.lastToken, "NewPassword1"))

		updated, err := svc.GetUserByEmail(user.Email)
		testutil.AssertNoError(t, err)
		if !password.Verify("NewPassword1", updated.Password) {
			t.Error("expected new password to verify")
		}
	})

	t.Run("token_reusable_until_expiry", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, notifier := newTestUserService(db)

		user := testutil.CreateTestUser(t, db)
		testutil.AssertNoError(t, svc.ForgotPassword(user.Email))
		resetToken := notifier.lastToken

		testutil.AssertNoError(t, svc.ResetPassword(resetToken, "NewPassword1"))
		testutil.AssertNoError(t, svc.ResetPassword(resetToken, "NewPassword2"))
	})

	t.Run("invalid_token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestUserService(db)

		err := svc.ResetPassword("garbage", "NewPassword1")
		testutil.AssertAppError(t, err, "INVALID_TOKEN")
	})

	t.Run("weak_new_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, notifier := newTestUserService(db)

		user := testutil.CreateTestUser(t, db)
		testutil.AssertNoError(t, svc.ForgotPassword(user.Email))

		err := svc.ResetPassword(notifier.lastToken, "weak")
		testutil.AssertAppError(t, err, "WEAK_PASSWORD")
	})
}

func TestChangePassword(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestUserService(db)

		user := testutil.CreateTestUser(t, db)
		testutil.AssertNoError(t, svc.ChangePassword(user.ID, "password123", "NewPassword1"))

		updated, err := svc.GetUserByID(user.ID)
		testutil.AssertNoError(t, err)
		if !password.Verify("NewPassword1", updated.Password) {
			t.Error("expected new password to verify")
		}
	})

	t.Run("wrong_current_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestUserService(db)

		user := testutil.CreateTestUser(t, db)
		err := svc.ChangePassword(user.ID, "wrong", "NewPassword1")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("same_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestUserService(db)

		user := testutil.CreateTestUser(t, db)
		err := svc.ChangePassword(user.ID, "password123", "password123")
		testutil.AssertAppError(t, err, "SAME_PASSWORD")
	})
}
