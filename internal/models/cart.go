package models

import (
	"time"

	"github.com/google/uuid"
)

// CartLine is one (product, size) entry of a user's server-side cart.
type CartLine struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"-"`
	ProductID uuid.UUID `json:"productId"`
	Size      string    `json:"size"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type AddToCartRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Size      string    `json:"size"      validate:"required,max=16"`
	Quantity  int       `json:"quantity"  validate:"omitempty,min=1,max=100"`
}

type UpdateCartRequest struct {
	ItemID   uuid.UUID `json:"itemId"   validate:"required"`
	Quantity int       `json:"quantity" validate:"required,min=1,max=100"`
}
