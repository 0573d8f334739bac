package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents a shopper account linked to the external identity provider
type User struct {
	ID           uuid.UUID
	ExternalID   string // identity provider subject
	Email        string
	Name         string
	IsAdmin      bool
	APIKeyHash   string // bcrypt hash for verification
	APIKeyLookup string // SHA256(apiKey) hex for fast lookup
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Expert represents a curator whose recommended products are listed in the catalog
type Expert struct {
	ID        uuid.UUID
	Name      string
	Role      string
	Username  string // display handle, e.g. "sofia"
	Link      string
	Featured  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Category groups products in the catalog
type Category struct {
	ID          uuid.UUID
	Name        string
	Description string
	Slug        string
	CreatedAt   time.Time
}

// Product represents a catalog product curated by an expert.
// Carts and orders keep a frozen copy of its fields, so later edits or
// deletions never change historical carts or orders.
type Product struct {
	ID         uuid.UUID
	Name       string
	CategoryID uuid.UUID
	ExpertID   uuid.UUID
	Caption    string
	Slug       string
	Price      decimal.Decimal
	ImageURL   *string
	Featured   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CustomerInfo holds the contact details collected at checkout.
// Name and email are required; the rest is optional.
type CustomerInfo struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	Comment *string `json:"comment,omitempty"`
}

// ItemCommission is the per-line share of the expert commission
type ItemCommission struct {
	ProductID  string          `json:"product_id"`
	ItemTotal  decimal.Decimal `json:"item_total"`
	Commission decimal.Decimal `json:"commission"`
}

// PricingBreakdown is the cost breakdown derived from a cart snapshot.
// It is computed on demand and frozen into the order at submission;
// CalculatedAt marks the snapshot time and is used for staleness checks.
type PricingBreakdown struct {
	BasePrice         decimal.Decimal            `json:"base_price"`
	ExpertCommission  decimal.Decimal            `json:"expert_commission"`
	ExpertCommissions map[string]decimal.Decimal `json:"expert_commissions"`
	ItemCommissions   []ItemCommission           `json:"item_commissions"`
	DeliveryFee       decimal.Decimal            `json:"delivery_fee"`
	FinalPrice        decimal.Decimal            `json:"final_price"`
	CalculatedAt      time.Time                  `json:"calculated_at"`
}

// IsStale reports whether the breakdown is older than maxAge at the given time
func (p PricingBreakdown) IsStale(now time.Time, maxAge time.Duration) bool {
	return now.Sub(p.CalculatedAt) > maxAge
}

// Order is created exactly once per checkout, identified by a 6-character
// shareable token. Items and pricing are immutable; only status,
// payment status and notes may change afterwards, by privileged actors.
type Order struct {
	ID            uuid.UUID
	OrderToken    string
	UserID        uuid.UUID
	Items         []OrderItem
	CustomerInfo  CustomerInfo
	Pricing       PricingBreakdown
	Status        OrderStatus
	PaymentStatus PaymentStatus
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderItem is a frozen copy of a cart line at submission time
type OrderItem struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	ProductID      string
	Name           string
	Price          decimal.Decimal
	Quantity       int
	ExpertUsername string
	ImageURL       *string
	Slug           string
	CreatedAt      time.Time
}

// OrderEvent represents an audit event for an order
type OrderEvent struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	EventType string
	EventData map[string]interface{} // JSONB
	CreatedAt time.Time
}
