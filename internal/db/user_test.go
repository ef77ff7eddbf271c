package db

import (
	"errors"
	"testing"
)

func TestEnsureAdminAndVerify(t *testing.T) {
	gdb := openTestDB(t)

	if err := EnsureAdmin(gdb, "admin", "s3cret"); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	if err := EnsureAdmin(gdb, "admin", "other"); err != nil {
		t.Fatalf("second ensure should be a no-op: %v", err)
	}

	var count int64
	gdb.Model(&AdminUser{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected one admin, got %d", count)
	}

	if _, err := VerifyAdmin(gdb, "admin", "s3cret"); err != nil {
		t.Fatalf("expected valid credentials: %v", err)
	}
	if _, err := VerifyAdmin(gdb, "admin", "other"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
}

func TestEnsureAdminSkipsBlankCredentials(t *testing.T) {
	gdb := openTestDB(t)

	for _, creds := range [][2]string{{"", "s3cret"}, {"admin", "   "}, {" ", ""}} {
		if err := EnsureAdmin(gdb, creds[0], creds[1]); err != nil {
			t.Fatalf("EnsureAdmin(%q, %q): %v", creds[0], creds[1], err)
		}
	}

	var count int64
	gdb.Model(&AdminUser{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no admin to be created, got %d", count)
	}
	if err := EnsureAdmin(nil, "", ""); err != nil {
		t.Fatalf("blank credentials should not touch the database: %v", err)
	}
	if err := EnsureAdmin(nil, "admin", "s3cret"); err == nil {
		t.Fatalf("expected error without database")
	}
}

func TestAdminCredentialsTrimmedConsistently(t *testing.T) {
	gdb := openTestDB(t)

	if err := EnsureAdmin(gdb, "  admin ", " s3cret\n"); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}

	var stored AdminUser
	if err := gdb.First(&stored).Error; err != nil {
		t.Fatalf("load admin: %v", err)
	}
	if stored.Username != "admin" {
		t.Fatalf("expected trimmed username, got %q", stored.Username)
	}
	if stored.Password == "s3cret" {
		t.Fatalf("password stored in plain text")
	}

	user, err := VerifyAdmin(gdb, " admin", "s3cret ")
	if err != nil {
		t.Fatalf("expected trimmed credentials to verify: %v", err)
	}
	if user.ID != stored.ID {
		t.Fatalf("expected admin %d, got %d", stored.ID, user.ID)
	}
}

func TestVerifyAdminRejectsUnknownAndBlank(t *testing.T) {
	gdb := openTestDB(t)
	if err := EnsureAdmin(gdb, "admin", "s3cret"); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}

	cases := []struct{ username, password string }{
		{"nobody", "s3cret"},
		{"admin", ""},
		{"", "s3cret"},
	}
	for _, tc := range cases {
		if _, err := VerifyAdmin(gdb, tc.username, tc.password); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("VerifyAdmin(%q, %q): expected ErrInvalidCredentials, got %v", tc.username, tc.password, err)
		}
	}
}

func TestEnsureAdminKeepsExistingPassword(t *testing.T) {
	gdb := openTestDB(t)
	if err := gdb.Create(&AdminUser{Username: "admin", Password: "hash-from-other-instance"}).Error; err != nil {
		t.Fatalf("pre-insert admin: %v", err)
	}
	if err := EnsureAdmin(gdb, "admin", "s3cret"); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}

	var stored AdminUser
	if err := gdb.First(&stored).Error; err != nil {
		t.Fatalf("load admin: %v", err)
	}
	if stored.Password != "hash-from-other-instance" {
		t.Fatalf("existing admin password must not be replaced")
	}
}
