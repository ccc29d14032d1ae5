package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitrinelabs/vitrine-backend/internal/products"
	"github.com/vitrinelabs/vitrine-backend/pkg/db"
	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
	"github.com/vitrinelabs/vitrine-backend/pkg/outbox"
	"github.com/vitrinelabs/vitrine-backend/pkg/pagination"
)

type stubOrderRepo struct {
	order    *models.Order
	findErr  error
	listRows []models.Order
	listErr  error
	next     *pagination.Cursor
}

func (s *stubOrderRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubOrderRepo) Create(ctx context.Context, order *models.Order) error { return nil }

func (s *stubOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.order, nil
}

func (s *stubOrderRepo) List(ctx context.Context, params listOrdersParams) ([]models.Order, *pagination.Cursor, error) {
	return s.listRows, s.next, s.listErr
}

func (s *stubOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus) (int64, error) {
	return 1, nil
}

type stubEmitter struct{}

func (s *stubEmitter) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	return nil
}

type stubOrderProducts struct{}

func (stubOrderProducts) WithTx(tx *gorm.DB) products.Repository { return stubOrderProducts{} }

func (stubOrderProducts) Create(ctx context.Context, product *models.Product) error { return nil }

func (stubOrderProducts) Update(ctx context.Context, product *models.Product) error { return nil }

func (stubOrderProducts) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (stubOrderProducts) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return nil, products.ErrNotFound
}

func (stubOrderProducts) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return nil, products.ErrNotFound
}

func (stubOrderProducts) List(ctx context.Context, params products.ListQuery) ([]models.Product, *pagination.Cursor, error) {
	return nil, nil, nil
}

func (stubOrderProducts) CreateVariant(ctx context.Context, variant *models.ProductVariant) error {
	return nil
}

func (stubOrderProducts) UpdateVariant(ctx context.Context, variant *models.ProductVariant) error {
	return nil
}

func (stubOrderProducts) DeleteVariant(ctx context.Context, productID, variantID uuid.UUID) error {
	return nil
}

func (stubOrderProducts) FindVariant(ctx context.Context, variantID uuid.UUID) (*models.ProductVariant, error) {
	return nil, products.ErrNotFound
}

func (stubOrderProducts) AdjustVariantStock(ctx context.Context, variantID uuid.UUID, delta int) (int64, error) {
	return 1, nil
}

func newOrderTestService(repo Repository) Service {
	svc, err := NewService(repo, stubOrderProducts{}, &db.Client{}, &stubEmitter{})
	if err != nil {
		panic(err)
	}
	return svc
}

func orderFixture(userID uuid.UUID, status enums.OrderStatus) *models.Order {
	return &models.Order{
		ID:     uuid.New(),
		UserID: userID,
		Status: status,
		Items: []models.OrderItem{
			{ProductID: uuid.New(), VariantID: uuid.New(), Quantity: 2, UnitPriceCents: 5000, TotalCents: 10000},
		},
	}
}

func TestGetForUserHidesOthersOrders(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	repo := &stubOrderRepo{order: orderFixture(owner, enums.OrderStatusPending)}
	svc := newOrderTestService(repo)

	_, err := svc.GetForUser(context.Background(), uuid.New(), repo.order.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign order, got %v", err)
	}

	view, err := svc.GetForUser(context.Background(), owner, repo.order.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.ID != repo.order.ID {
		t.Fatalf("expected own order, got %s", view.ID)
	}
}

func TestGetForUserUnknownOrder(t *testing.T) {
	t.Parallel()

	svc := newOrderTestService(&stubOrderRepo{findErr: ErrNotFound})
	_, err := svc.GetForUser(context.Background(), uuid.New(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCancelRejectsDispatchedOrder(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	repo := &stubOrderRepo{order: orderFixture(owner, enums.OrderStatusDispatched)}
	svc := newOrderTestService(repo)

	_, err := svc.Cancel(context.Background(), owner, repo.order.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for dispatched order, got %v", err)
	}
}

func TestCancelRejectsForeignOrder(t *testing.T) {
	t.Parallel()

	repo := &stubOrderRepo{order: orderFixture(uuid.New(), enums.OrderStatusPending)}
	svc := newOrderTestService(repo)

	_, err := svc.Cancel(context.Background(), uuid.New(), repo.order.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign order, got %v", err)
	}
}

func TestUpdateStatusRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	repo := &stubOrderRepo{order: orderFixture(uuid.New(), enums.OrderStatusPending)}
	svc := newOrderTestService(repo)
	actor := outbox.ActorRef{UserID: uuid.New(), Role: "admin"}

	_, err := svc.UpdateStatus(context.Background(), repo.order.ID, enums.OrderStatus("shipped"), actor)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = svc.UpdateStatus(context.Background(), repo.order.ID, enums.OrderStatusDelivered, actor)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for pending -> delivered, got %v", err)
	}
}

func TestListForUserRequiresUserID(t *testing.T) {
	t.Parallel()

	svc := newOrderTestService(&stubOrderRepo{})
	_, err := svc.ListForUser(context.Background(), uuid.Nil, pagination.Params{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListForUserRejectsBadCursor(t *testing.T) {
	t.Parallel()

	svc := newOrderTestService(&stubOrderRepo{})
	_, err := svc.ListForUser(context.Background(), uuid.New(), pagination.Params{Cursor: "%%%"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAdminListEncodesNextCursor(t *testing.T) {
	t.Parallel()

	next := &pagination.Cursor{CreatedAt: time.Now().UTC(), ID: uuid.New()}
	repo := &stubOrderRepo{
		listRows: []models.Order{*orderFixture(uuid.New(), enums.OrderStatusPending)},
		next:     next,
	}
	svc := newOrderTestService(repo)

	result, err := svc.AdminList(context.Background(), AdminListParams{Limit: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected one order, got %d", len(result.Items))
	}
	if result.Cursor == "" {
		t.Fatal("expected a next cursor")
	}
	decoded, err := pagination.ParseCursor(result.Cursor)
	if err != nil || decoded.ID != next.ID {
		t.Fatalf("cursor round trip failed: %v", err)
	}
}
