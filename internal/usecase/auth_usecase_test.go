package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"clinic-records/config"
	"clinic-records/internal/delivery/dto"
	"clinic-records/pkg/jwt"
)

func newTestAuthUsecase(t *testing.T) (*authUsecase, *jwt.JWTService) {
	t.Helper()

	jwtService, err := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Hour})
	if err != nil {
		t.Fatal(err)
	}
	u := &authUsecase{
		log:          quietLogger(),
		userRepo:     newFakeUserRepo(),
		jwtService:   jwtService,
		auditService: &recordingAudit{},
	}
	return u, jwtService
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	u, _ := newTestAuthUsecase(t)
	ctx := context.Background()

	if _, err := u.Register(ctx, &dto.RegisterRequest{Username: "nurse1", Password: "secret"}); err != nil {
		t.Fatal(err)
	}
	if _, err := u.Register(ctx, &dto.RegisterRequest{Username: "nurse1", Password: "other"}); !errors.Is(err, ErrUsernameAlreadyExists) {
		t.Fatalf("expected ErrUsernameAlreadyExists, got %v", err)
	}
	if _, err := u.Register(ctx, &dto.RegisterRequest{Username: "Nurse1", Password: "other"}); err != nil {
		t.Fatalf("usernames are case-sensitive: %v", err)
	}
}

func TestRegisterRejectsPasswordOverBcryptLimit(t *testing.T) {
	u, _ := newTestAuthUsecase(t)

	// 72 characters, 144 bytes.
	long := strings.Repeat("é", 72)
	if _, err := u.Register(context.Background(), &dto.RegisterRequest{Username: "doc", Password: long}); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	u, _ := newTestAuthUsecase(t)
	ctx := context.Background()

	created, err := u.Register(ctx, &dto.RegisterRequest{Username: "doc", Password: "secret", Name: "Dr Silva"})
	if err != nil {
		t.Fatal(err)
	}

	user, _ := u.userRepo.FindByID(ctx, nil, created.UserID)
	if user.Password == "secret" || user.Password == "" {
		t.Error("password must be stored hashed")
	}
	if user.Name == nil || *user.Name != "Dr Silva" {
		t.Errorf("unexpected name %v", user.Name)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	u, _ := newTestAuthUsecase(t)
	ctx := context.Background()

	if _, err := u.Register(ctx, &dto.RegisterRequest{Username: "doc", Password: "secret"}); err != nil {
		t.Fatal(err)
	}

	_, wrongPassword := u.Login(ctx, &dto.LoginRequest{Username: "doc", Password: "nope"})
	_, unknownUser := u.Login(ctx, &dto.LoginRequest{Username: "ghost", Password: "secret"})

	if !errors.Is(wrongPassword, ErrInvalidCredentials) || !errors.Is(unknownUser, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both, got %v and %v", wrongPassword, unknownUser)
	}
	if wrongPassword.Error() != unknownUser.Error() {
		t.Error("messages must match")
	}
}

func TestLoginIssuesToken(t *testing.T) {
	u, jwtService := newTestAuthUsecase(t)
	ctx := context.Background()

	created, err := u.Register(ctx, &dto.RegisterRequest{Username: "doc", Password: "secret"})
	if err != nil {
		t.Fatal(err)
	}

	login, err := u.Login(ctx, &dto.LoginRequest{Username: "doc", Password: "secret"})
	if err != nil {
		t.Fatal(err)
	}
	if login.ExpiresIn != 3600 {
		t.Errorf("expected 3600s expiry, got %d", login.ExpiresIn)
	}
	if login.User.ID != created.UserID || login.User.Username != "doc" {
		t.Errorf("unexpected user %+v", login.User)
	}

	claims, err := jwtService.ValidateToken(login.Token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != created.UserID || claims.Username != "doc" {
		t.Errorf("unexpected claims %+v", claims)
	}

	me, err := u.GetCurrentUser(ctx, created.UserID)
	if err != nil {
		t.Fatal(err)
	}
	if me.Username != "doc" {
		t.Errorf("unexpected current user %+v", me)
	}
	if _, err := u.GetCurrentUser(ctx, created.UserID+1); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
