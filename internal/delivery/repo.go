package delivery

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
)

// ErrNotFound signals the delivery option or pickup location does not exist.
var ErrNotFound = errors.New("delivery entry not found")

// Repository exposes persistence helpers for local delivery options and
// pickup locations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOption(ctx context.Context, option *models.DeliveryOption) error
	UpdateOption(ctx context.Context, option *models.DeliveryOption) error
	DeleteOption(ctx context.Context, id uuid.UUID) error
	FindOption(ctx context.Context, id uuid.UUID) (*models.DeliveryOption, error)
	ListOptions(ctx context.Context, activeOnly bool) ([]models.DeliveryOption, error)
	CreateLocation(ctx context.Context, location *models.PickupLocation) error
	UpdateLocation(ctx context.Context, location *models.PickupLocation) error
	DeleteLocation(ctx context.Context, id uuid.UUID) error
	FindLocation(ctx context.Context, id uuid.UUID) (*models.PickupLocation, error)
	ListLocations(ctx context.Context, activeOnly bool) ([]models.PickupLocation, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a delivery repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) CreateOption(ctx context.Context, option *models.DeliveryOption) error {
	return r.db.WithContext(ctx).Create(option).Error
}

func (r *repositoryImpl) UpdateOption(ctx context.Context, option *models.DeliveryOption) error {
	return r.db.WithContext(ctx).Save(option).Error
}

func (r *repositoryImpl) DeleteOption(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.DeliveryOption{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repositoryImpl) FindOption(ctx context.Context, id uuid.UUID) (*models.DeliveryOption, error) {
	var option models.DeliveryOption
	err := r.db.WithContext(ctx).First(&option, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &option, nil
}

func (r *repositoryImpl) ListOptions(ctx context.Context, activeOnly bool) ([]models.DeliveryOption, error) {
	query := r.db.WithContext(ctx).Model(&models.DeliveryOption{})
	if activeOnly {
		query = query.Where("is_active = TRUE")
	}
	var rows []models.DeliveryOption
	if err := query.Order("fee_cents ASC, name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) CreateLocation(ctx context.Context, location *models.PickupLocation) error {
	return r.db.WithContext(ctx).Create(location).Error
}

func (r *repositoryImpl) UpdateLocation(ctx context.Context, location *models.PickupLocation) error {
	return r.db.WithContext(ctx).Save(location).Error
}

func (r *repositoryImpl) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PickupLocation{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repositoryImpl) FindLocation(ctx context.Context, id uuid.UUID) (*models.PickupLocation, error) {
	var location models.PickupLocation
	err := r.db.WithContext(ctx).First(&location, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *repositoryImpl) ListLocations(ctx context.Context, activeOnly bool) ([]models.PickupLocation, error) {
	query := r.db.WithContext(ctx).Model(&models.PickupLocation{})
	if activeOnly {
		query = query.Where("is_active = TRUE")
	}
	var rows []models.PickupLocation
	if err := query.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
