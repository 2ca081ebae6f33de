package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"mintleaf/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates an active, verified user with a hashed password
// and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email. The fixture
// password is "password123".
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		FirstName:  "Test",
		LastName:   "User",
		Email:      email,
		Password:   string(hash),
		IsActive:   true,
		IsVerified: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates an active budget category with a $100 budget.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string) *models.BudgetCategory {
	t.Helper()
	return CreateTestCategoryWithBudget(t, db, userID, 100.00)
}

// CreateTestCategoryWithBudget creates an active budget category with the
// given budget amount.
func CreateTestCategoryWithBudget(t *testing.T, db *gorm.DB, userID string, budget float64) *models.BudgetCategory {
	t.Helper()

	category := &models.BudgetCategory{
		UserID:       userID,
		Name:         fmt.Sprintf("Test Category %d", nextID()),
		BudgetAmount: budget,
		Color:        "#FF5733",
		IsActive:     true,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestExpense creates an expense dated today.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID, categoryID string, amount float64) *models.Expense {
	t.Helper()
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return CreateTestExpenseOn(t, db, userID, categoryID, amount, today)
}

// CreateTestExpenseOn creates an expense with an explicit date.
func CreateTestExpenseOn(t *testing.T, db *gorm.DB, userID, categoryID string, amount float64, date time.Time) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:      userID,
		CategoryID:  categoryID,
		Description: fmt.Sprintf("Test Expense %d", nextID()),
		Amount:      amount,
		ExpenseDate: date,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}
