package transport

import "github.com/ardhiansyah/toko-api/internal/models"

type RegisterRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Address  string `json:"address"  validate:"required"`
	Age      uint   `json:"age"      validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateProductInput is already parsed out of the multipart form by the
// handler; ShopID stays a pointer so a missing field is distinguishable
// from shop 0.
type CreateProductInput struct {
	Name   string  `validate:"required"`
	Price  float64 `validate:"gte=0"`
	Stock  uint    `validate:"gte=0"`
	ShopID *uint
}

type PatchProductRequest struct {
	Name  *string  `json:"name"`
	Price *float64 `json:"price" validate:"omitempty,gte=0"`
	Stock *uint    `json:"stock" validate:"omitempty,gte=0"`
}

// Actor is the authenticated identity attached to a request.
type Actor struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Email    string `json:"email"`
	ShopID   *uint  `json:"shopId,omitempty"`
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }
