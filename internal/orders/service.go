package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitrinelabs/vitrine-backend/internal/products"
	"github.com/vitrinelabs/vitrine-backend/pkg/db"
	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
	"github.com/vitrinelabs/vitrine-backend/pkg/outbox"
	"github.com/vitrinelabs/vitrine-backend/pkg/outbox/payloads"
	"github.com/vitrinelabs/vitrine-backend/pkg/pagination"
)

// Service defines buyer order history and admin fulfillment operations.
type Service interface {
	ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error)
	GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*View, error)
	Cancel(ctx context.Context, userID, orderID uuid.UUID) (*View, error)
	AdminList(ctx context.Context, params AdminListParams) (*ListResult, error)
	AdminGet(ctx context.Context, orderID uuid.UUID) (*View, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, to enums.OrderStatus, actor outbox.ActorRef) (*View, error)
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type service struct {
	repo        Repository
	productRepo products.Repository
	dbClient    *db.Client
	events      eventEmitter
}

// ListResult wraps returned orders and the cursor for the next page.
type ListResult struct {
	Items  []View `json:"items"`
	Cursor string `json:"cursor"`
}

// AdminListParams filters the back-office order list.
type AdminListParams struct {
	Limit  int
	Cursor string
	UserID *uuid.UUID
	Status *enums.OrderStatus
}

// NewService wires order dependencies.
func NewService(repo Repository, productRepo products.Repository, dbClient *db.Client, events eventEmitter) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "orders repository required")
	}
	if productRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "products repository required")
	}
	if dbClient == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "database client required")
	}
	if events == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "outbox service required")
	}
	return &service{repo: repo, productRepo: productRepo, dbClient: dbClient, events: events}, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	return s.list(ctx, listOrdersParams{
		Limit:  params.Limit,
		UserID: &userID,
	}, params.Cursor)
}

func (s *service) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*View, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	view := NewView(order)
	return &view, nil
}

// Cancel aborts the buyer's own order and returns its stock to the catalog.
// Only orders still waiting on fulfillment can be canceled.
func (s *service) Cancel(ctx context.Context, userID, orderID uuid.UUID) (*View, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if !order.Status.CanTransitionTo(enums.OrderStatusCanceled) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order can no longer be canceled")
	}

	actor := outbox.ActorRef{UserID: userID, Role: enums.UserRoleBuyer.String()}
	if err := s.cancelTx(ctx, order, actor); err != nil {
		return nil, err
	}
	return s.AdminGet(ctx, orderID)
}

func (s *service) AdminList(ctx context.Context, params AdminListParams) (*ListResult, error) {
	return s.list(ctx, listOrdersParams{
		Limit:  params.Limit,
		UserID: params.UserID,
		Status: params.Status,
	}, params.Cursor)
}

func (s *service) AdminGet(ctx context.Context, orderID uuid.UUID) (*View, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	view := NewView(order)
	return &view, nil
}

// UpdateStatus moves an order through the fulfillment state machine. Moving
// to canceled restocks the purchased variants.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, to enums.OrderStatus, actor outbox.ActorRef) (*View, error) {
	if !to.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(to) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "invalid status transition")
	}

	if to == enums.OrderStatusCanceled {
		if err := s.cancelTx(ctx, order, actor); err != nil {
			return nil, err
		}
		return s.AdminGet(ctx, orderID)
	}

	from := order.Status
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		affected, txErr := s.repo.WithTx(tx).UpdateStatus(ctx, order.ID, from, to)
		if txErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "update order status")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "order status changed concurrently")
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &actor,
			Data: payloads.OrderStatusChanged{
				OrderID:    order.ID,
				UserID:     order.UserID,
				FromStatus: from.String(),
				ToStatus:   to.String(),
			},
			Version:    1,
			OccurredAt: time.Now().UTC(),
		})
	})
	if err != nil {
		return nil, err
	}
	return s.AdminGet(ctx, orderID)
}

func (s *service) cancelTx(ctx context.Context, order *models.Order, actor outbox.ActorRef) error {
	from := order.Status
	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		affected, txErr := s.repo.WithTx(tx).UpdateStatus(ctx, order.ID, from, enums.OrderStatusCanceled)
		if txErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "cancel order")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "order status changed concurrently")
		}

		txProducts := s.productRepo.WithTx(tx)
		for _, item := range order.Items {
			if _, txErr := txProducts.AdjustVariantStock(ctx, item.VariantID, item.Quantity); txErr != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "restock variant")
			}
		}

		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCanceled,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &actor,
			Data: payloads.OrderCanceled{
				OrderID:    order.ID,
				UserID:     order.UserID,
				FromStatus: from.String(),
			},
			Version:    1,
			OccurredAt: time.Now().UTC(),
		})
	})
}

func (s *service) list(ctx context.Context, params listOrdersParams, rawCursor string) (*ListResult, error) {
	if rawCursor != "" {
		cursor, err := pagination.ParseCursor(rawCursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		params.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	items := make([]View, 0, len(rows))
	for i := range rows {
		items = append(items, NewView(&rows[i]))
	}
	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: items, Cursor: cursor}, nil
}

func (s *service) load(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}
