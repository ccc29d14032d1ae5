package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	"github.com/vitrinelabs/vitrine-backend/pkg/types"
)

// View is the sanitized account shape returned to clients.
type View struct {
	ID              uuid.UUID      `json:"id"`
	Email           string         `json:"email"`
	FirstName       string         `json:"first_name"`
	LastName        string         `json:"last_name"`
	Phone           *string        `json:"phone,omitempty"`
	Role            enums.UserRole `json:"role"`
	IsActive        bool           `json:"is_active"`
	ShippingAddress *types.Address `json:"shipping_address,omitempty"`
	LastLoginAt     *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// NewView maps a user row to its client-safe shape.
func NewView(user *models.User) View {
	if user == nil {
		return View{}
	}
	return View{
		ID:              user.ID,
		Email:           user.Email,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		Phone:           user.Phone,
		Role:            user.Role,
		IsActive:        user.IsActive,
		ShippingAddress: user.ShippingAddress,
		LastLoginAt:     user.LastLoginAt,
		CreatedAt:       user.CreatedAt,
	}
}
