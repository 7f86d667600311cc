package services

import (
	"testing"

	"fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	t.Run("creates user with default categories", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		service := NewUserService(db)

		user, err := service.CreateUser("alice@example.com", "secret123", "Alice", "Smith")
		testutil.AssertNoError(t, err)
		if user.ID == 0 {
			t.Fatal("expected user ID to be set")
		}
		if user.Password == "secret123" {
			t.Error("password should be stored hashed")
		}

		var categories []models.Category
		if err := db.Where("user_id = ?", user.ID).Order("id ASC").Find(&categories).Error; err != nil {
			t.Fatalf("failed to load categories: %v", err)
		}
		if len(categories) != len(models.DefaultCategories) {
			t.Fatalf("expected %d default categories, got %d", len(models.DefaultCategories), len(categories))
		}
		for i, want := range models.DefaultCategories {
			if categories[i].Name != want {
				t.Errorf("category %d: expected %q, got %q", i, want, categories[i].Name)
			}
		}
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		service := NewUserService(db)

		_, err := service.CreateUser("bob@example.com", "secret123", "Bob", "")
		testutil.AssertNoError(t, err)

		_, err = service.CreateUser("bob@example.com", "othersecret", "Bobby", "")
		testutil.AssertAppError(t, err, errors.ErrDuplicateEmail)
	})
}

func TestVerifyPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	service := NewUserService(db)

	user, err := service.CreateUser("carol@example.com", "correct-horse", "Carol", "")
	testutil.AssertNoError(t, err)

	if !service.VerifyPassword(user, "correct-horse") {
		t.Error("expected correct password to verify")
	}
	if service.VerifyPassword(user, "wrong-horse") {
		t.Error("expected wrong password to fail verification")
	}
}

func TestGetUserByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	service := NewUserService(db)
	user := testutil.CreateTestUser(t, db)

	t.Run("found", func(t *testing.T) {
		got, err := service.GetUserByEmail(user.Email)
		testutil.AssertNoError(t, err)
		if got.ID != user.ID {
			t.Errorf("expected user %d, got %d", user.ID, got.ID)
		}
	})

	t.Run("not found", func(t *testing.T) {
		_, err := service.GetUserByEmail("nobody@example.com")
		testutil.AssertAppError(t, err, errors.ErrUserNotFound)
	})
}

func TestRefreshTokenHash(t *testing.T) {
	db := testutil.SetupTestDB(t)
	service := NewUserService(db)
	user := testutil.CreateTestUser(t, db)

	err := service.StoreRefreshTokenHash(user.ID, "abc123hash")
	testutil.AssertNoError(t, err)

	hash, err := service.GetRefreshTokenHash(user.ID)
	testutil.AssertNoError(t, err)
	if hash != "abc123hash" {
		t.Errorf("expected stored hash, got %q", hash)
	}

	updated, err := service.GetUserByID(user.ID)
	testutil.AssertNoError(t, err)
	if updated.LastLoginAt == nil {
		t.Error("expected last_login_at to be stamped")
	}
}
