package services

import (
	"context"
	"errors"
	"testing"

	"foodflow/db"
)

// Integration test (requires DB). Skips when db.Pool is nil or -short.
func TestDeleteUserRemovesApplications_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping delete-user integration test in short mode")
	}
	if db.Pool == nil {
		t.Skip("skipping delete-user integration test: no DB pool")
	}
	ctx := context.Background()
	const testEmail = "delete-test@foodflow.test"

	u, err := CreateUser(ctx, "Delete Tester", testEmail, "", "pa55word")
	if errors.Is(err, ErrEmailTaken) {
		u, err = GetUserByEmail(ctx, testEmail)
	}
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}

	// An application row references the user; deletion must still work.
	if _, err := CreateApplication(ctx, u.ID, "Test Kitchen", "Lagos", ""); err != nil && !errors.Is(err, ErrApplicationExists) {
		t.Fatalf("CreateApplication: %v", err)
	}

	if err := DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("DeleteUser with an application on file: %v", err)
	}
	if _, err := GetUserByID(ctx, u.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("user lookup after delete: err = %v, want ErrUserNotFound", err)
	}
	apps, err := ListApplicationsByUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("ListApplicationsByUser: %v", err)
	}
	if len(apps) != 0 {
		t.Errorf("applications left behind after delete: %d", len(apps))
	}
}
