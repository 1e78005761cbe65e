package services

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/insightpath-backend/internal/logger"
	"github.com/yungbote/insightpath-backend/internal/repos"
	"github.com/yungbote/insightpath-backend/internal/requestdata"
	"github.com/yungbote/insightpath-backend/internal/types"
)

func newAuthFixture(t *testing.T) (AuthService, StatsService) {
	t.Helper()
	db := newTestDB(t)
	log := logger.NewNop()

	stats := NewStatsService(db, log, repos.NewStudentStatsRepo(db, log))
	svc := NewAuthService(db, log,
		repos.NewUserRepo(db, log),
		repos.NewUserTokenRepo(db, log),
		nil, // avatar generation not under test
		stats,
		"test-secret",
		time.Hour,
		24*time.Hour,
	)
	return svc, stats
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, RegisterInput{
		Email:       "  Ada@Example.COM ",
		Password:    "hunter22",
		DisplayName: "Ada Lovelace",
	})
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if user.Email != "ada@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.Role != types.RoleStudent {
		t.Fatalf("default role = %q, want student", user.Role)
	}
	if user.Password == "hunter22" {
		t.Fatal("password stored in plaintext")
	}

	access, refresh, loggedIn, err := svc.LoginUser(ctx, "ada@example.com", "hunter22")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("empty token pair")
	}
	if loggedIn.ID != user.ID {
		t.Fatalf("login returned wrong user: %s", loggedIn.ID)
	}

	claims, err := svc.ParseToken(access)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Subject != user.ID.String() {
		t.Fatalf("Subject = %q, want %s", claims.Subject, user.ID)
	}
	if claims.Role != types.RoleStudent {
		t.Fatalf("Role claim = %q, want student", claims.Role)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	input := RegisterInput{Email: "grace@example.com", Password: "pw", DisplayName: "Grace"}
	if _, err := svc.RegisterUser(ctx, input); err != nil {
		t.Fatalf("first RegisterUser: %v", err)
	}
	if _, err := svc.RegisterUser(ctx, input); err == nil {
		t.Fatal("expected error for duplicate email")
	}
}

func TestRegisterInitializesStudentStats(t *testing.T) {
	svc, stats := newAuthFixture(t)
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, RegisterInput{
		Email:    "student@example.com",
		Password: "pw",
	})
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	row, err := stats.GetOrInit(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetOrInit: %v", err)
	}
	if row.StudentID != user.ID {
		t.Fatalf("StudentID = %s, want %s", row.StudentID, user.ID)
	}
}

func TestLoginWrongPasswordIsGeneric(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	if _, err := svc.RegisterUser(ctx, RegisterInput{Email: "bob@example.com", Password: "right"}); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}

	_, _, _, err := svc.LoginUser(ctx, "bob@example.com", "wrong")
	if err == nil {
		t.Fatal("expected login failure")
	}
	_, _, _, missingErr := svc.LoginUser(ctx, "nobody@example.com", "whatever")
	if missingErr == nil {
		t.Fatal("expected login failure for unknown email")
	}
	// Same message either way; the response must not leak which field was wrong.
	if err.Error() != missingErr.Error() {
		t.Fatalf("error messages differ: %q vs %q", err, missingErr)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, RegisterInput{Email: "carol@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	_, refresh, _, err := svc.LoginUser(ctx, "carol@example.com", "pw")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}

	rdCtx := requestdata.WithRequestData(ctx, &requestdata.RequestData{
		UserID:       user.ID,
		RefreshToken: refresh,
	})
	access, rotated, err := svc.RefreshUser(rdCtx)
	if err != nil {
		t.Fatalf("RefreshUser: %v", err)
	}
	if access == "" {
		t.Fatal("empty access token after refresh")
	}
	if rotated == refresh {
		t.Fatal("refresh token not rotated")
	}

	// The old token is gone; a replay must fail.
	if _, _, err := svc.RefreshUser(rdCtx); err == nil {
		t.Fatal("expected replayed refresh token to fail")
	}

	rotatedCtx := requestdata.WithRequestData(ctx, &requestdata.RequestData{
		UserID:       user.ID,
		RefreshToken: rotated,
	})
	if _, _, err := svc.RefreshUser(rotatedCtx); err != nil {
		t.Fatalf("refresh with rotated token: %v", err)
	}
}

func TestParseTokenRejectsTampering(t *testing.T) {
	svc, _ := newAuthFixture(t)
	other := NewAuthService(newTestDB(t), logger.NewNop(),
		nil, nil, nil, nil, "different-secret", time.Hour, time.Hour)

	ctx := context.Background()
	if _, err := svc.RegisterUser(ctx, RegisterInput{Email: "eve@example.com", Password: "pw"}); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	access, _, _, err := svc.LoginUser(ctx, "eve@example.com", "pw")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	if _, err := other.ParseToken(access); err == nil {
		t.Fatal("token signed with another secret should not parse")
	}
}
