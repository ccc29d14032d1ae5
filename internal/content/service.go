package content

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
)

// Service defines storefront content reads and admin management for banners,
// FAQs, and the curated instagram feed.
type Service interface {
	ListBanners(ctx context.Context, publicOnly bool) ([]models.Banner, error)
	CreateBanner(ctx context.Context, input BannerInput) (*models.Banner, error)
	UpdateBanner(ctx context.Context, id uuid.UUID, input UpdateBannerInput) (*models.Banner, error)
	DeleteBanner(ctx context.Context, id uuid.UUID) error
	ListFAQs(ctx context.Context, publicOnly bool) ([]models.FAQ, error)
	CreateFAQ(ctx context.Context, input FAQInput) (*models.FAQ, error)
	UpdateFAQ(ctx context.Context, id uuid.UUID, input UpdateFAQInput) (*models.FAQ, error)
	DeleteFAQ(ctx context.Context, id uuid.UUID) error
	ListInstagramPosts(ctx context.Context, publicOnly bool) ([]models.InstagramPost, error)
	CreateInstagramPost(ctx context.Context, input InstagramPostInput) (*models.InstagramPost, error)
	UpdateInstagramPost(ctx context.Context, id uuid.UUID, input UpdateInstagramPostInput) (*models.InstagramPost, error)
	DeleteInstagramPost(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// BannerInput carries the admin payload for a new hero slide.
type BannerInput struct {
	Title    string
	ImageURL string
	LinkURL  *string
	Position int
	IsActive bool
}

// UpdateBannerInput carries partial banner edits. Nil fields are left unchanged.
type UpdateBannerInput struct {
	Title    *string
	ImageURL *string
	LinkURL  *string
	Position *int
	IsActive *bool
}

// FAQInput carries the admin payload for a new help entry.
type FAQInput struct {
	Question string
	Answer   string
	Position int
	IsActive bool
}

// UpdateFAQInput carries partial FAQ edits. Nil fields are left unchanged.
type UpdateFAQInput struct {
	Question *string
	Answer   *string
	Position *int
	IsActive *bool
}

// InstagramPostInput carries the admin payload for a curated feed entry.
type InstagramPostInput struct {
	ImageURL  string
	Caption   *string
	Permalink string
	Position  int
	IsActive  bool
}

// UpdateInstagramPostInput carries partial feed edits. Nil fields are left unchanged.
type UpdateInstagramPostInput struct {
	ImageURL  *string
	Caption   *string
	Permalink *string
	Position  *int
	IsActive  *bool
}

// NewService wires content dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "content repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListBanners(ctx context.Context, publicOnly bool) ([]models.Banner, error) {
	rows, err := s.repo.ListBanners(ctx, publicOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list banners")
	}
	return rows, nil
}

func (s *service) CreateBanner(ctx context.Context, input BannerInput) (*models.Banner, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.ImageURL) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title and image url are required")
	}
	banner := &models.Banner{
		Title:    strings.TrimSpace(input.Title),
		ImageURL: strings.TrimSpace(input.ImageURL),
		LinkURL:  input.LinkURL,
		Position: input.Position,
		IsActive: input.IsActive,
	}
	if err := s.repo.CreateBanner(ctx, banner); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create banner")
	}
	return banner, nil
}

func (s *service) UpdateBanner(ctx context.Context, id uuid.UUID, input UpdateBannerInput) (*models.Banner, error) {
	banner, err := s.repo.FindBanner(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "banner not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load banner")
	}

	if input.Title != nil {
		banner.Title = strings.TrimSpace(*input.Title)
	}
	if input.ImageURL != nil {
		banner.ImageURL = strings.TrimSpace(*input.ImageURL)
	}
	if input.LinkURL != nil {
		banner.LinkURL = input.LinkURL
	}
	if input.Position != nil {
		banner.Position = *input.Position
	}
	if input.IsActive != nil {
		banner.IsActive = *input.IsActive
	}
	if banner.Title == "" || banner.ImageURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title and image url are required")
	}

	if err := s.repo.UpdateBanner(ctx, banner); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update banner")
	}
	return banner, nil
}

func (s *service) DeleteBanner(ctx context.Context, id uuid.UUID) error {
	err := s.repo.DeleteBanner(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "banner not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete banner")
	}
	return nil
}

func (s *service) ListFAQs(ctx context.Context, publicOnly bool) ([]models.FAQ, error) {
	rows, err := s.repo.ListFAQs(ctx, publicOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list faqs")
	}
	return rows, nil
}

func (s *service) CreateFAQ(ctx context.Context, input FAQInput) (*models.FAQ, error) {
	if strings.TrimSpace(input.Question) == "" || strings.TrimSpace(input.Answer) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "question and answer are required")
	}
	faq := &models.FAQ{
		Question: strings.TrimSpace(input.Question),
		Answer:   strings.TrimSpace(input.Answer),
		Position: input.Position,
		IsActive: input.IsActive,
	}
	if err := s.repo.CreateFAQ(ctx, faq); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create faq")
	}
	return faq, nil
}

func (s *service) UpdateFAQ(ctx context.Context, id uuid.UUID, input UpdateFAQInput) (*models.FAQ, error) {
	faq, err := s.repo.FindFAQ(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "faq not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load faq")
	}

	if input.Question != nil {
		faq.Question = strings.TrimSpace(*input.Question)
	}
	if input.Answer != nil {
		faq.Answer = strings.TrimSpace(*input.Answer)
	}
	if input.Position != nil {
		faq.Position = *input.Position
	}
	if input.IsActive != nil {
		faq.IsActive = *input.IsActive
	}
	if faq.Question == "" || faq.Answer == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "question and answer are required")
	}

	if err := s.repo.UpdateFAQ(ctx, faq); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update faq")
	}
	return faq, nil
}

func (s *service) DeleteFAQ(ctx context.Context, id uuid.UUID) error {
	err := s.repo.DeleteFAQ(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "faq not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete faq")
	}
	return nil
}

func (s *service) ListInstagramPosts(ctx context.Context, publicOnly bool) ([]models.InstagramPost, error) {
	rows, err := s.repo.ListInstagramPosts(ctx, publicOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list instagram posts")
	}
	return rows, nil
}

func (s *service) CreateInstagramPost(ctx context.Context, input InstagramPostInput) (*models.InstagramPost, error) {
	if strings.TrimSpace(input.ImageURL) == "" || strings.TrimSpace(input.Permalink) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image url and permalink are required")
	}
	post := &models.InstagramPost{
		ImageURL:  strings.TrimSpace(input.ImageURL),
		Caption:   input.Caption,
		Permalink: strings.TrimSpace(input.Permalink),
		Position:  input.Position,
		IsActive:  input.IsActive,
	}
	if err := s.repo.CreateInstagramPost(ctx, post); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create instagram post")
	}
	return post, nil
}

func (s *service) UpdateInstagramPost(ctx context.Context, id uuid.UUID, input UpdateInstagramPostInput) (*models.InstagramPost, error) {
	post, err := s.repo.FindInstagramPost(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "instagram post not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load instagram post")
	}

	if input.ImageURL != nil {
		post.ImageURL = strings.TrimSpace(*input.ImageURL)
	}
	if input.Caption != nil {
		post.Caption = input.Caption
	}
	if input.Permalink != nil {
		post.Permalink = strings.TrimSpace(*input.Permalink)
	}
	if input.Position != nil {
		post.Position = *input.Position
	}
	if input.IsActive != nil {
		post.IsActive = *input.IsActive
	}
	if post.ImageURL == "" || post.Permalink == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image url and permalink are required")
	}

	if err := s.repo.UpdateInstagramPost(ctx, post); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update instagram post")
	}
	return post, nil
}

func (s *service) DeleteInstagramPost(ctx context.Context, id uuid.UUID) error {
	err := s.repo.DeleteInstagramPost(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "instagram post not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete instagram post")
	}
	return nil
}
