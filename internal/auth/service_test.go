package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitrinelabs/vitrine-backend/internal/users"
	pkgAuth "github.com/vitrinelabs/vitrine-backend/pkg/auth"
	"github.com/vitrinelabs/vitrine-backend/pkg/auth/session"
	"github.com/vitrinelabs/vitrine-backend/pkg/config"
	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
	"github.com/vitrinelabs/vitrine-backend/pkg/pagination"
	"github.com/vitrinelabs/vitrine-backend/pkg/security"
	"github.com/vitrinelabs/vitrine-backend/pkg/types"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "vitrine-test",
	ExpirationMinutes: 15,
}

var testPasswordConfig = config.PasswordConfig{
	ArgonMemoryKB:    8,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

type stubUserRepo struct {
	user      *models.User
	findErr   error
	createErr error
	created   *models.User
	touched   bool
}

func (s *stubUserRepo) WithTx(tx *gorm.DB) users.Repository { return s }

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	user.ID = uuid.New()
	s.created = user
	return nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.user, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.user == nil {
		return nil, users.ErrNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) Update(ctx context.Context, user *models.User) error { return nil }

func (s *stubUserRepo) UpdateShippingAddress(ctx context.Context, id uuid.UUID, address *types.Address) error {
	return nil
}

func (s *stubUserRepo) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.touched = true
	return nil
}

func (s *stubUserRepo) List(ctx context.Context, params users.ListQuery) ([]models.User, *pagination.Cursor, error) {
	return nil, nil, nil
}

type stubSessions struct {
	refresh    string
	rotateErr  error
	revokeErr  error
	revoked    string
	generated  string
	newAccess  string
	newRefresh string
}

func (s *stubSessions) Generate(ctx context.Context, accessID string) (string, error) {
	s.generated = accessID
	if s.refresh == "" {
		return "refresh-token", nil
	}
	return s.refresh, nil
}

func (s *stubSessions) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	return s.newAccess, s.newRefresh, nil
}

func (s *stubSessions) Revoke(ctx context.Context, accessID string) error {
	s.revoked = accessID
	return s.revokeErr
}

func newAuthTestService(repo users.Repository, sessions sessionManager) Service {
	svc, err := NewService(repo, sessions, testJWTConfig, testPasswordConfig)
	if err != nil {
		panic(err)
	}
	return svc
}

func activeUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.User{
		ID:           uuid.New(),
		Email:        "buyer@example.com",
		PasswordHash: hash,
		FirstName:    "Ana",
		LastName:     "Silva",
		Role:         enums.UserRoleBuyer,
		IsActive:     true,
	}
}

func TestRegisterMintsTokenPair(t *testing.T) {
	t.Parallel()

	repo := &stubUserRepo{}
	sessions := &stubSessions{}
	svc := newAuthTestService(repo, sessions)

	pair, err := svc.Register(context.Background(), RegisterInput{
		Email:     "  Buyer@Example.com ",
		Password:  "supersecret",
		FirstName: "Ana",
		LastName:  "Silva",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected minted token pair")
	}
	if repo.created == nil || repo.created.Email != "buyer@example.com" {
		t.Fatalf("expected normalized email, got %+v", repo.created)
	}
	if repo.created.Role != enums.UserRoleBuyer {
		t.Fatalf("expected buyer role, got %s", repo.created.Role)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, pair.AccessToken)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.UserID != repo.created.ID {
		t.Fatalf("token minted for wrong user")
	}
	if claims.ID != sessions.generated {
		t.Fatal("session must be generated for the token jti")
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	t.Parallel()

	svc := newAuthTestService(&stubUserRepo{}, &stubSessions{})
	_, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "short"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := &stubUserRepo{user: activeUser(t, "supersecret")}
	svc := newAuthTestService(repo, &stubSessions{})

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "buyer@example.com",
		Password: "supersecret",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLoginVerifiesPassword(t *testing.T) {
	t.Parallel()

	repo := &stubUserRepo{user: activeUser(t, "supersecret")}
	svc := newAuthTestService(repo, &stubSessions{})

	pair, err := svc.Login(context.Background(), LoginInput{
		Email:    "buyer@example.com",
		Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pair.AccessToken == "" {
		t.Fatal("expected access token")
	}
	if !repo.touched {
		t.Fatal("expected last login recorded")
	}

	_, err = svc.Login(context.Background(), LoginInput{
		Email:    "buyer@example.com",
		Password: "wrong-password",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	t.Parallel()

	svc := newAuthTestService(&stubUserRepo{}, &stubSessions{})
	_, err := svc.Login(context.Background(), LoginInput{Email: "ghost@example.com", Password: "whatever"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginDisabledAccount(t *testing.T) {
	t.Parallel()

	user := activeUser(t, "supersecret")
	user.IsActive = false
	svc := newAuthTestService(&stubUserRepo{user: user}, &stubSessions{})

	_, err := svc.Login(context.Background(), LoginInput{
		Email:    "buyer@example.com",
		Password: "supersecret",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	t.Parallel()

	user := activeUser(t, "supersecret")
	repo := &stubUserRepo{user: user}
	sessions := &stubSessions{newAccess: uuid.NewString(), newRefresh: "fresh-refresh"}
	svc := newAuthTestService(repo, sessions)

	access, err := pkgAuth.MintAccessToken(testJWTConfig, time.Now().Add(-time.Hour), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
	})
	if err != nil {
		t.Fatalf("mint expired token: %v", err)
	}

	pair, err := svc.Refresh(context.Background(), RefreshInput{
		AccessToken:  access,
		RefreshToken: "old-refresh",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pair.RefreshToken != "fresh-refresh" {
		t.Fatalf("expected rotated refresh token, got %q", pair.RefreshToken)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, pair.AccessToken)
	if err != nil {
		t.Fatalf("parse rotated token: %v", err)
	}
	if claims.ID != sessions.newAccess {
		t.Fatal("rotated token must carry the new access id")
	}
}

func TestRefreshRejectsInvalidRefreshToken(t *testing.T) {
	t.Parallel()

	user := activeUser(t, "supersecret")
	sessions := &stubSessions{rotateErr: session.ErrInvalidRefreshToken}
	svc := newAuthTestService(&stubUserRepo{user: user}, sessions)

	access, err := pkgAuth.MintAccessToken(testJWTConfig, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	_, err = svc.Refresh(context.Background(), RefreshInput{
		AccessToken:  access,
		RefreshToken: "stolen",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	t.Parallel()

	user := activeUser(t, "supersecret")
	sessions := &stubSessions{}
	svc := newAuthTestService(&stubUserRepo{user: user}, sessions)

	jti := uuid.NewString()
	access, err := pkgAuth.MintAccessToken(testJWTConfig, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    jti,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	if err := svc.Logout(context.Background(), access); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sessions.revoked != jti {
		t.Fatalf("expected session %s revoked, got %s", jti, sessions.revoked)
	}
}

func TestLogoutRejectsGarbageToken(t *testing.T) {
	t.Parallel()

	svc := newAuthTestService(&stubUserRepo{}, &stubSessions{})
	err := svc.Logout(context.Background(), "garbage")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
