package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
	"github.com/vitrinelabs/vitrine-backend/pkg/pagination"
	"github.com/vitrinelabs/vitrine-backend/pkg/types"
)

type stubUserRepo struct {
	user      *models.User
	updated   *models.User
	updateErr error
}

func (s *stubUserRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error { return nil }

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, ErrNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, ErrNotFound
}

func (s *stubUserRepo) Update(ctx context.Context, user *models.User) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updated = user
	return nil
}

func (s *stubUserRepo) UpdateShippingAddress(ctx context.Context, id uuid.UUID, address *types.Address) error {
	return nil
}

func (s *stubUserRepo) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}

func (s *stubUserRepo) List(ctx context.Context, params ListQuery) ([]models.User, *pagination.Cursor, error) {
	return nil, nil, nil
}

func buyerFixture() *models.User {
	return &models.User{
		ID:        uuid.New(),
		Email:     "buyer@example.com",
		FirstName: "Ana",
		LastName:  "Lima",
		Role:      enums.UserRoleBuyer,
		IsActive:  true,
	}
}

func TestSetRolePromotesBuyer(t *testing.T) {
	repo := &stubUserRepo{user: buyerFixture()}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	view, err := svc.SetRole(context.Background(), repo.user.ID, enums.UserRoleAdmin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Role != enums.UserRoleAdmin {
		t.Fatalf("expected admin role on the view, got %q", view.Role)
	}
	if repo.updated == nil || repo.updated.Role != enums.UserRoleAdmin {
		t.Fatal("expected the role change to be persisted")
	}
}

func TestSetRoleDemotesAdmin(t *testing.T) {
	repo := &stubUserRepo{user: buyerFixture()}
	repo.user.Role = enums.UserRoleAdmin
	svc, _ := NewService(repo)

	view, err := svc.SetRole(context.Background(), repo.user.ID, enums.UserRoleBuyer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Role != enums.UserRoleBuyer {
		t.Fatalf("expected buyer role, got %q", view.Role)
	}
}

func TestSetRoleRejectsUnknownRole(t *testing.T) {
	repo := &stubUserRepo{user: buyerFixture()}
	svc, _ := NewService(repo)

	_, err := svc.SetRole(context.Background(), repo.user.ID, enums.UserRole("superuser"))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.updated != nil {
		t.Fatal("an unknown role must not be persisted")
	}
}

func TestSetRoleMissingUser(t *testing.T) {
	repo := &stubUserRepo{}
	svc, _ := NewService(repo)

	_, err := svc.SetRole(context.Background(), uuid.New(), enums.UserRoleAdmin)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestSetActiveTogglesAccount(t *testing.T) {
	repo := &stubUserRepo{user: buyerFixture()}
	svc, _ := NewService(repo)

	view, err := svc.SetActive(context.Background(), repo.user.ID, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.IsActive {
		t.Fatal("expected a deactivated view")
	}
	if repo.updated == nil || repo.updated.IsActive {
		t.Fatal("expected the deactivation to be persisted")
	}
}
