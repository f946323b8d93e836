package services

import (
	"testing"

	"foodflow/models"
)

func TestIssueAndParseToken(t *testing.T) {
	u := &models.User{ID: "u-123", Role: models.UserRoleCustomer}
	tok, err := IssueToken("test-secret", u)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	claims, err := ParseToken("test-secret", tok)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != "u-123" {
		t.Errorf("user id = %q, want u-123", claims.UserID)
	}
	if claims.Role != models.UserRoleCustomer {
		t.Errorf("role = %q, want %q", claims.Role, models.UserRoleCustomer)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	u := &models.User{ID: "u-123", Role: models.UserRoleAdmin}
	tok, err := IssueToken("secret-a", u)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := ParseToken("secret-b", tok); err == nil {
		t.Error("expected error for token signed with a different secret")
	}
}

func TestParseTokenGarbage(t *testing.T) {
	if _, err := ParseToken("secret", "not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}
}
