package services

import (
	"testing"
	"time"

	"github.com/lexiquest-app/lexi_api/dto"
	"github.com/lexiquest-app/lexi_api/shared"
)

func newAuthEnv(t *testing.T) (*testEnv, *AuthService, *JWTService) {
	t.Helper()

	env := newTestEnv(t)
	jwtSvc := &JWTService{
		AccessTokenDuration: time.Hour,
		jwtSecretKey:        "test-secret",
	}
	authSvc := &AuthService{sqlSvc: env.sqlSvc, jwtSvc: jwtSvc}
	return env, authSvc, jwtSvc
}

func TestRegisterAndLogin(t *testing.T) {
	_, authSvc, _ := newAuthEnv(t)

	reg, err := authSvc.Register(dto.RegisterRequest{
		Username:   "alice",
		Email:      "alice@example.com",
		Password:   "Sup3rSecret",
		Department: "Engineering",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if reg.UserID == "" {
		t.Fatalf("expected a user id")
	}

	login, err := authSvc.Login(dto.LoginRequest{
		EmailOrUsername: "alice@example.com",
		Password:        "Sup3rSecret",
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if login.AccessToken == "" {
		t.Fatalf("expected an access token")
	}

	// Username works as the login identifier too.
	if _, err := authSvc.Login(dto.LoginRequest{EmailOrUsername: "alice", Password: "Sup3rSecret"}); err != nil {
		t.Fatalf("login by username failed: %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	_, authSvc, _ := newAuthEnv(t)

	req := dto.RegisterRequest{
		Username:   "alice",
		Email:      "alice@example.com",
		Password:   "Sup3rSecret",
		Department: "Engineering",
	}
	if _, err := authSvc.Register(req); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	req.Username = "alice2"
	_, err := authSvc.Register(req)
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != 409 {
		t.Fatalf("expected 409 for duplicate email, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	_, authSvc, _ := newAuthEnv(t)

	if _, err := authSvc.Register(dto.RegisterRequest{
		Username:   "alice",
		Email:      "alice@example.com",
		Password:   "Sup3rSecret",
		Department: "Engineering",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, err := authSvc.Login(dto.LoginRequest{EmailOrUsername: "alice", Password: "wrong"})
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != 401 {
		t.Fatalf("expected 401 for a bad password, got %v", err)
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	env, authSvc, _ := newAuthEnv(t)

	if _, err := authSvc.Register(dto.RegisterRequest{
		Username:   "alice",
		Email:      "alice@example.com",
		Password:   "Sup3rSecret",
		Department: "Engineering",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	user, err := env.sqlSvc.GetUserByUsername("alice")
	if err != nil {
		t.Fatalf("GetUserByUsername failed: %v", err)
	}
	if err := env.sqlSvc.Db().Model(user).Update("is_active", false).Error; err != nil {
		t.Fatalf("failed to deactivate account: %v", err)
	}

	_, err = authSvc.Login(dto.LoginRequest{EmailOrUsername: "alice", Password: "Sup3rSecret"})
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != 401 {
		t.Fatalf("expected 401 for an inactive account, got %v", err)
	}
}

func TestJWTRoundTrip(t *testing.T) {
	_, _, jwtSvc := newAuthEnv(t)

	token, err := jwtSvc.ToJWT("user-123")
	if err != nil {
		t.Fatalf("ToJWT failed: %v", err)
	}

	userID, err := jwtSvc.VerifyJWTToken(token)
	if err != nil {
		t.Fatalf("VerifyJWTToken failed: %v", err)
	}
	if userID != "user-123" {
		t.Fatalf("expected user-123, got %q", userID)
	}
}

func TestJWTRejectsTampering(t *testing.T) {
	_, _, jwtSvc := newAuthEnv(t)

	token, err := jwtSvc.ToJWT("user-123")
	if err != nil {
		t.Fatalf("ToJWT failed: %v", err)
	}

	other := &JWTService{AccessTokenDuration: time.Hour, jwtSecretKey: "other-secret"}
	if _, err := other.VerifyJWTToken(token); err == nil {
		t.Fatalf("token signed with another secret must be rejected")
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	jwtSvc := &JWTService{}

	if _, err := jwtSvc.ExtractTokenFromHeader(""); err == nil {
		t.Fatalf("missing header must be rejected")
	}
	if _, err := jwtSvc.ExtractTokenFromHeader("Basic abc"); err == nil {
		t.Fatalf("non-bearer header must be rejected")
	}
	got, err := jwtSvc.ExtractTokenFromHeader("Bearer abc.def.ghi")
	if err != nil {
		t.Fatalf("ExtractTokenFromHeader failed: %v", err)
	}
	if got != "abc.def.ghi" {
		t.Fatalf("unexpected token %q", got)
	}
}
