package models

import (
	"errors"
	"testing"
)

func TestSetAndCheckPassword(t *testing.T) {
	user := &User{Username: "alice"}

	if err := user.SetPassword("cat"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	if user.PasswordHash == "" {
		t.Fatal("SetPassword left an empty hash")
	}
	if user.PasswordHash == "cat" {
		t.Fatal("plaintext was stored instead of a hash")
	}

	if !user.CheckPassword("cat") {
		t.Error("CheckPassword rejected the correct password")
	}
	if user.CheckPassword("dog") {
		t.Error("CheckPassword accepted a wrong password")
	}
}

func TestPasswordSaltsAreRandom(t *testing.T) {
	a := &User{}
	b := &User{}
	if err := a.SetPassword("cat"); err != nil {
		t.Fatal(err)
	}
	if err := b.SetPassword("cat"); err != nil {
		t.Fatal(err)
	}
	if a.PasswordHash == b.PasswordHash {
		t.Error("two users with the same password share a hash")
	}
}

func TestPasswordIsWriteOnly(t *testing.T) {
	user := &User{}
	if err := user.SetPassword("cat"); err != nil {
		t.Fatal(err)
	}
	if _, err := user.Password(); !errors.Is(err, ErrPasswordWriteOnly) {
		t.Errorf("Password() error = %v, want ErrPasswordWriteOnly", err)
	}
}

func TestSetPasswordEmpty(t *testing.T) {
	user := &User{}
	if err := user.SetPassword(""); !errors.Is(err, ErrPasswordEmpty) {
		t.Errorf("SetPassword(\"\") error = %v, want ErrPasswordEmpty", err)
	}
}

func TestCheckPasswordWithoutHash(t *testing.T) {
	user := &User{}
	if user.CheckPassword("anything") {
		t.Error("CheckPassword succeeded with no stored hash")
	}
}

func TestUserCheckAccess(t *testing.T) {
	role := &Role{Name: RoleNameUser}
	for _, p := range SeedPermissions[RoleNameUser] {
		role.AddPermission(p)
	}

	tests := []struct {
		name     string
		user     *User
		perm     Permission
		expected bool
	}{
		{
			name:     "user role can write",
			user:     &User{Role: role},
			perm:     PermissionWrite,
			expected: true,
		},
		{
			name:     "user role is not admin",
			user:     &User{Role: role},
			perm:     PermissionAdmin,
			expected: false,
		},
		{
			name:     "no role means no access",
			user:     &User{},
			perm:     PermissionFollow,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.CheckAccess(tt.perm); got != tt.expected {
				t.Errorf("CheckAccess(%d) = %v, want %v", tt.perm, got, tt.expected)
			}
		})
	}
}

func TestIsAdministrator(t *testing.T) {
	admin := &Role{Name: RoleNameAdministrator}
	for _, p := range SeedPermissions[RoleNameAdministrator] {
		admin.AddPermission(p)
	}

	user := &User{Role: admin}
	if !user.IsAdministrator() {
		t.Error("administrator role not recognized")
	}

	plain := &Role{Name: RoleNameUser}
	for _, p := range SeedPermissions[RoleNameUser] {
		plain.AddPermission(p)
	}
	if (&User{Role: plain}).IsAdministrator() {
		t.Error("plain user recognized as administrator")
	}
}

func TestAnonymousPrincipal(t *testing.T) {
	var p Principal = Anonymous{}

	for _, perm := range []Permission{PermissionFollow, PermissionComment, PermissionWrite, PermissionAdmin} {
		if p.CheckAccess(perm) {
			t.Errorf("anonymous caller granted permission %d", perm)
		}
	}
	if p.IsAdministrator() {
		t.Error("anonymous caller is administrator")
	}
}
