package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

type PaymentStatus string

type PaymentMethod string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"

	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusFailed  PaymentStatus = "FAILED"

	PaymentMethodCOD    PaymentMethod = "COD"
	PaymentMethodCard   PaymentMethod = "CARD"
	PaymentMethodPayPal PaymentMethod = "PAYPAL"
)

// Cancellable reports whether an order in this status may still be cancelled by its owner.
func (s OrderStatus) Cancellable() bool {
	return s == OrderStatusPending || s == OrderStatusProcessing
}

type ShippingAddress struct {
	Name       string `json:"name"       validate:"required,max=100"`
	Address    string `json:"address"    validate:"required,max=255"`
	City       string `json:"city"       validate:"required,max=100"`
	State      string `json:"state"      validate:"required,max=100"`
	PostalCode string `json:"postalCode" validate:"required,max=20"`
	Country    string `json:"country"    validate:"required,max=100"`
	Phone      string `json:"phone"      validate:"required,min=5,max=20"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
}

// OrderItem freezes the product price at commit time.
type OrderItem struct {
	ID        uuid.UUID       `json:"id"`
	OrderID   uuid.UUID       `json:"orderId"`
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price" swaggertype:"number"`
}

type Order struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"userId"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	Status          OrderStatus     `json:"status"`
	Subtotal        decimal.Decimal `json:"subtotal" swaggertype:"number"`
	DeliveryFee     decimal.Decimal `json:"deliveryFee" swaggertype:"number"`
	TotalAmount     decimal.Decimal `json:"totalAmount" swaggertype:"number"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// CreateOrderRequest carries the checkout form. TotalAmount and ShippingFee are
// what the client displayed; the server recomputes both and never trusts them.
type CreateOrderRequest struct {
	ShippingAddress ShippingAddress  `json:"shippingAddress" validate:"required"`
	PaymentMethod   PaymentMethod    `json:"paymentMethod,omitempty" validate:"omitempty,oneof=COD CARD PAYPAL"`
	TotalAmount     *decimal.Decimal `json:"totalAmount,omitempty" swaggertype:"number"`
	ShippingFee     *decimal.Decimal `json:"shippingFee,omitempty" swaggertype:"number"`
}

type CreateOrderResponse struct {
	OrderID     uuid.UUID       `json:"orderId"`
	TotalAmount decimal.Decimal `json:"totalAmount" swaggertype:"number"`
	Message     string          `json:"message"`
}
