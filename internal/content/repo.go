package content

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
)

// ErrNotFound signals the content entry does not exist.
var ErrNotFound = errors.New("content entry not found")

// Repository exposes persistence helpers for storefront content blocks.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateBanner(ctx context.Context, banner *models.Banner) error
	UpdateBanner(ctx context.Context, banner *models.Banner) error
	DeleteBanner(ctx context.Context, id uuid.UUID) error
	FindBanner(ctx context.Context, id uuid.UUID) (*models.Banner, error)
	ListBanners(ctx context.Context, activeOnly bool) ([]models.Banner, error)
	CreateFAQ(ctx context.Context, faq *models.FAQ) error
	UpdateFAQ(ctx context.Context, faq *models.FAQ) error
	DeleteFAQ(ctx context.Context, id uuid.UUID) error
	FindFAQ(ctx context.Context, id uuid.UUID) (*models.FAQ, error)
	ListFAQs(ctx context.Context, activeOnly bool) ([]models.FAQ, error)
	CreateInstagramPost(ctx context.Context, post *models.InstagramPost) error
	UpdateInstagramPost(ctx context.Context, post *models.InstagramPost) error
	DeleteInstagramPost(ctx context.Context, id uuid.UUID) error
	FindInstagramPost(ctx context.Context, id uuid.UUID) (*models.InstagramPost, error)
	ListInstagramPosts(ctx context.Context, activeOnly bool) ([]models.InstagramPost, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a content repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) CreateBanner(ctx context.Context, banner *models.Banner) error {
	return r.db.WithContext(ctx).Create(banner).Error
}

func (r *repositoryImpl) UpdateBanner(ctx context.Context, banner *models.Banner) error {
	return r.db.WithContext(ctx).Save(banner).Error
}

func (r *repositoryImpl) DeleteBanner(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &models.Banner{}, id)
}

func (r *repositoryImpl) FindBanner(ctx context.Context, id uuid.UUID) (*models.Banner, error) {
	var banner models.Banner
	if err := firstByID(r.db.WithContext(ctx), &banner, id); err != nil {
		return nil, err
	}
	return &banner, nil
}

func (r *repositoryImpl) ListBanners(ctx context.Context, activeOnly bool) ([]models.Banner, error) {
	query := r.db.WithContext(ctx).Model(&models.Banner{})
	if activeOnly {
		query = query.Where("is_active = TRUE")
	}
	var rows []models.Banner
	if err := query.Order("position ASC, created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) CreateFAQ(ctx context.Context, faq *models.FAQ) error {
	return r.db.WithContext(ctx).Create(faq).Error
}

func (r *repositoryImpl) UpdateFAQ(ctx context.Context, faq *models.FAQ) error {
	return r.db.WithContext(ctx).Save(faq).Error
}

func (r *repositoryImpl) DeleteFAQ(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &models.FAQ{}, id)
}

func (r *repositoryImpl) FindFAQ(ctx context.Context, id uuid.UUID) (*models.FAQ, error) {
	var faq models.FAQ
	if err := firstByID(r.db.WithContext(ctx), &faq, id); err != nil {
		return nil, err
	}
	return &faq, nil
}

func (r *repositoryImpl) ListFAQs(ctx context.Context, activeOnly bool) ([]models.FAQ, error) {
	query := r.db.WithContext(ctx).Model(&models.FAQ{})
	if activeOnly {
		query = query.Where("is_active = TRUE")
	}
	var rows []models.FAQ
	if err := query.Order("position ASC, created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) CreateInstagramPost(ctx context.Context, post *models.InstagramPost) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *repositoryImpl) UpdateInstagramPost(ctx context.Context, post *models.InstagramPost) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *repositoryImpl) DeleteInstagramPost(ctx context.Context, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx), &models.InstagramPost{}, id)
}

func (r *repositoryImpl) FindInstagramPost(ctx context.Context, id uuid.UUID) (*models.InstagramPost, error) {
	var post models.InstagramPost
	if err := firstByID(r.db.WithContext(ctx), &post, id); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *repositoryImpl) ListInstagramPosts(ctx context.Context, activeOnly bool) ([]models.InstagramPost, error) {
	query := r.db.WithContext(ctx).Model(&models.InstagramPost{})
	if activeOnly {
		query = query.Where("is_active = TRUE")
	}
	var rows []models.InstagramPost
	if err := query.Order("position ASC, created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func firstByID(db *gorm.DB, dest any, id uuid.UUID) error {
	err := db.First(dest, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func deleteByID(db *gorm.DB, model any, id uuid.UUID) error {
	result := db.Delete(model, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
