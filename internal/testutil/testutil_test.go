package testutil_test

import (
	"testing"

	"mintleaf/internal/errors"
	"mintleaf/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "budget_categories", "expenses"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == "" {
		t.Fatal("user should have a non-empty ID")
	}
	if !user.IsVerified {
		t.Error("fixture user should be verified")
	}

	category := testutil.CreateTestCategoryWithBudget(t, db, user.ID, 250)
	if category.BudgetAmount != 250 {
		t.Errorf("expected budget 250, got %f", category.BudgetAmount)
	}
	if category.UserID != user.ID {
		t.Errorf("expected category owner %s, got %s", user.ID, category.UserID)
	}

	expense := testutil.CreateTestExpense(t, db, user.ID, category.ID, 42.50)
	if expense.Amount != 42.50 {
		t.Errorf("expected amount 42.50, got %f", expense.Amount)
	}
	if expense.CategoryID != category.ID {
		t.Errorf("expected expense category %s, got %s", category.ID, expense.CategoryID)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrCategoryNotFound, "custom message")
	testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
