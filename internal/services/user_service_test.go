package services

import (
	"testing"

	"stashly/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("Alex@Example.com", "password123", "Alex", "Doe")
		testutil.AssertNoError(t, err)

		if user.Email != "alex@example.com" {
			t.Errorf("expected lowercased email, got %s", user.Email)
		}
		if user.Password == "password123" {
			t.Error("expected hashed password")
		}
	})

	t.Run("duplicate_email_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("dup@example.com", "password123", "", "")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("DUP@example.com", "different456", "", "")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("missing_fields_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("", "password123", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestVerifyPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	user, err := svc.CreateUser("verify@example.com", "correct-horse", "", "")
	testutil.AssertNoError(t, err)

	if !svc.VerifyPassword(user, "correct-horse") {
		t.Error("expected matching password to verify")
	}
	if svc.VerifyPassword(user, "wrong-battery") {
		t.Error("expected mismatched password to fail")
	}
}

func TestGetUserByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	created, err := svc.CreateUser("lookup@example.com", "password123", "", "")
	testutil.AssertNoError(t, err)

	found, err := svc.GetUserByEmail("Lookup@Example.com")
	testutil.AssertNoError(t, err)
	if found.ID != created.ID {
		t.Errorf("expected user %s, got %s", created.ID, found.ID)
	}

	_, err = svc.GetUserByEmail("missing@example.com")
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}
