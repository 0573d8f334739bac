package domain

// OrderStatus represents the fulfillment status of an order
type OrderStatus string

const (
	// PENDING - new order, awaiting confirmation
	OrderStatusPending OrderStatus = "PENDING"
	// CONFIRMED - order accepted, not yet in processing
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	// PROCESSING - order being prepared
	OrderStatusProcessing OrderStatus = "PROCESSING"
	// SHIPPED - order handed to delivery
	OrderStatusShipped OrderStatus = "SHIPPED"
	// DELIVERED - order received by the customer
	OrderStatusDelivered OrderStatus = "DELIVERED"
	// CANCELLED - order cancelled before delivery
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsValid checks if the order status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transitions are allowed
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo checks if a status transition is valid.
// The happy path is PENDING -> CONFIRMED -> PROCESSING -> SHIPPED -> DELIVERED;
// CANCELLED is reachable from any non-terminal state.
func (s OrderStatus) CanTransitionTo(newStatus OrderStatus) bool {
	if newStatus == OrderStatusCancelled {
		return !s.IsTerminal()
	}

	switch s {
	case OrderStatusPending:
		return newStatus == OrderStatusConfirmed
	case OrderStatusConfirmed:
		return newStatus == OrderStatusProcessing
	case OrderStatusProcessing:
		return newStatus == OrderStatusShipped
	case OrderStatusShipped:
		return newStatus == OrderStatusDelivered
	case OrderStatusDelivered, OrderStatusCancelled:
		return false // Terminal states
	default:
		return false
	}
}

// PaymentStatus represents the payment status of an order
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusFailed   PaymentStatus = "FAILED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

// IsValid checks if the payment status is valid
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a payment status transition is valid.
// FAILED may return to PENDING when the customer retries payment.
func (s PaymentStatus) CanTransitionTo(newStatus PaymentStatus) bool {
	switch s {
	case PaymentStatusPending:
		return newStatus == PaymentStatusPaid || newStatus == PaymentStatusFailed
	case PaymentStatusFailed:
		return newStatus == PaymentStatusPending
	case PaymentStatusPaid:
		return newStatus == PaymentStatusRefunded
	case PaymentStatusRefunded:
		return false
	default:
		return false
	}
}
