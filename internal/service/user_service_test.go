package service

import (
	"context"
	"errors"
	"testing"

	"github.com/quizapp/quizapp-backend/internal/config"
	"github.com/quizapp/quizapp-backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

func newUserFixture(t *testing.T) (*UserService, *memUserStore) {
	t.Helper()
	users := newMemUserStore()
	auth := NewAuthService(&config.Config{BcryptCost: bcrypt.MinCost, JWTSecret: "test-secret"}, nil)
	return NewUserService(users, auth), users
}

func TestSignupAndLogin(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, &model.SignupRequest{
		EmailID:  "alice@example.com",
		UserName: "alice",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if user.PasswordHash == "s3cret-pass" {
		t.Error("password stored in plaintext")
	}

	logged, err := svc.Login(ctx, &model.LoginRequest{EmailID: "alice@example.com", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if logged.UserName != "alice" {
		t.Errorf("UserName = %q, want alice", logged.UserName)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()

	req := &model.SignupRequest{EmailID: "alice@example.com", UserName: "alice", Password: "s3cret-pass"}
	if _, err := svc.Signup(ctx, req); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	req2 := &model.SignupRequest{EmailID: "alice@example.com", UserName: "other", Password: "s3cret-pass"}
	if _, err := svc.Signup(ctx, req2); !errors.Is(err, ErrEmailExists) {
		t.Errorf("Signup() duplicate email error = %v, want ErrEmailExists", err)
	}

	req3 := &model.SignupRequest{EmailID: "other@example.com", UserName: "alice", Password: "s3cret-pass"}
	if _, err := svc.Signup(ctx, req3); !errors.Is(err, ErrUserNameExists) {
		t.Errorf("Signup() duplicate username error = %v, want ErrUserNameExists", err)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, &model.SignupRequest{
		EmailID: "alice@example.com", UserName: "alice", Password: "s3cret-pass",
	}); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	tests := []struct {
		name  string
		email string
		pass  string
	}{
		{"wrong password", "alice@example.com", "wrong"},
		{"unknown email", "nobody@example.com", "s3cret-pass"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, &model.LoginRequest{EmailID: tt.email, Password: tt.pass})
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestEditProfile(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, &model.SignupRequest{
		EmailID: "alice@example.com", UserName: "alice", Password: "s3cret-pass",
	}); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if _, err := svc.Signup(ctx, &model.SignupRequest{
		EmailID: "bob@example.com", UserName: "bob", Password: "s3cret-pass",
	}); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	updated, err := svc.EditProfile(ctx, "alice@example.com", "alice2")
	if err != nil {
		t.Fatalf("EditProfile() error = %v", err)
	}
	if updated.UserName != "alice2" {
		t.Errorf("UserName = %q, want alice2", updated.UserName)
	}

	if _, err := svc.EditProfile(ctx, "alice@example.com", "bob"); !errors.Is(err, ErrUserNameExists) {
		t.Errorf("EditProfile() taken username error = %v, want ErrUserNameExists", err)
	}
	if _, err := svc.EditProfile(ctx, "ghost@example.com", "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("EditProfile() unknown user error = %v, want ErrUserNotFound", err)
	}
}
