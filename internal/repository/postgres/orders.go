package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/mbozhik/pickmy/internal/domain"
	apperrors "github.com/mbozhik/pickmy/pkg/errors"
)

type orderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB, logger *zap.Logger) *orderRepository {
	return &orderRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists the order, its frozen line items and the created event in
// a single transaction. A taken token fails the whole transaction with
// ErrDuplicateToken; the caller regenerates and retries.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	now := time.Now()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = now
	}

	customerInfoJSON, err := json.Marshal(order.CustomerInfo)
	if err != nil {
		return err
	}
	expertCommissionsJSON, err := json.Marshal(order.Pricing.ExpertCommissions)
	if err != nil {
		return err
	}
	itemCommissionsJSON, err := json.Marshal(order.Pricing.ItemCommissions)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	orderQuery := `
		INSERT INTO orders (
			id, order_token, user_id, customer_info,
			base_price, expert_commission, expert_commissions, item_commissions,
			delivery_fee, final_price, pricing_calculated_at,
			status, payment_status, notes, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err = tx.ExecContext(ctx, orderQuery,
		order.ID,
		order.OrderToken,
		order.UserID,
		customerInfoJSON,
		order.Pricing.BasePrice,
		order.Pricing.ExpertCommission,
		expertCommissionsJSON,
		itemCommissionsJSON,
		order.Pricing.DeliveryFee,
		order.Pricing.FinalPrice,
		order.Pricing.CalculatedAt,
		order.Status,
		order.PaymentStatus,
		order.Notes,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "orders_order_token_key") {
			return &apperrors.ErrDuplicateToken{Token: order.OrderToken}
		}
		r.logger.Error("Failed to create order", zap.Error(err))
		return err
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, name, price, quantity, expert_username, image_url, slug, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	for i := range order.Items {
		item := &order.Items[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.OrderID = order.ID
		if item.CreatedAt.IsZero() {
			item.CreatedAt = now
		}

		_, err = tx.ExecContext(ctx, itemQuery,
			item.ID,
			item.OrderID,
			item.ProductID,
			item.Name,
			item.Price,
			item.Quantity,
			item.ExpertUsername,
			item.ImageURL,
			item.Slug,
			item.CreatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to create order item", zap.Error(err))
			return err
		}
	}

	eventData, err := json.Marshal(map[string]interface{}{
		"order_token": order.OrderToken,
		"final_price": order.Pricing.FinalPrice,
		"item_count":  len(order.Items),
	})
	if err != nil {
		return err
	}

	eventQuery := `
		INSERT INTO order_events (id, order_id, event_type, event_data, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err = tx.ExecContext(ctx, eventQuery, uuid.New(), order.ID, "order_created", eventData, now); err != nil {
		r.logger.Error("Failed to create order event", zap.Error(err))
		return err
	}

	return tx.Commit()
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := r.getOne(ctx, "id = $1", id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &apperrors.ErrNotFound{Resource: "order", ID: id.String()}
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetByToken(ctx context.Context, token string) (*domain.Order, error) {
	order, err := r.getOne(ctx, "order_token = $1", token)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &apperrors.ErrNotFound{Resource: "order", ID: token}
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Order, error) {
	return r.list(ctx, "WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3", userID, limit, offset)
}

func (r *orderRepository) ListAll(ctx context.Context, limit, offset int) ([]*domain.Order, error) {
	return r.list(ctx, "ORDER BY created_at DESC LIMIT $1 OFFSET $2", limit, offset)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	query := `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to update order status", zap.Error(err))
		return err
	}
	return requireRowAffected(result, "order", id.String())
}

func (r *orderRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) error {
	query := `UPDATE orders SET payment_status = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to update payment status", zap.Error(err))
		return err
	}
	return requireRowAffected(result, "order", id.String())
}

func (r *orderRepository) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error {
	query := `UPDATE orders SET notes = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, notes, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to update order notes", zap.Error(err))
		return err
	}
	return requireRowAffected(result, "order", id.String())
}

const orderColumns = `
	id, order_token, user_id, customer_info,
	base_price, expert_commission, expert_commissions, item_commissions,
	delivery_fee, final_price, pricing_calculated_at,
	status, payment_status, notes, created_at, updated_at
`

func (r *orderRepository) getOne(ctx context.Context, where string, arg interface{}) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE ` + where

	row := r.db.QueryRowContext(ctx, query, arg)
	order, err := scanOrder(row)
	if err != nil {
		return nil, err
	}

	items, err := r.itemsByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

func (r *orderRepository) list(ctx context.Context, tail string, args ...interface{}) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ` + tail

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, order := range orders {
		items, err := r.itemsByOrderID(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}

	return orders, nil
}

func (r *orderRepository) itemsByOrderID(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, name, price, quantity, expert_username, image_url, slug, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		var imageURL sql.NullString
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Name,
			&item.Price,
			&item.Quantity,
			&item.ExpertUsername,
			&imageURL,
			&item.Slug,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}
		if imageURL.Valid {
			item.ImageURL = &imageURL.String
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var customerInfoJSON []byte
	var expertCommissionsJSON []byte
	var itemCommissionsJSON []byte
	var notes sql.NullString

	err := row.Scan(
		&order.ID,
		&order.OrderToken,
		&order.UserID,
		&customerInfoJSON,
		&order.Pricing.BasePrice,
		&order.Pricing.ExpertCommission,
		&expertCommissionsJSON,
		&itemCommissionsJSON,
		&order.Pricing.DeliveryFee,
		&order.Pricing.FinalPrice,
		&order.Pricing.CalculatedAt,
		&order.Status,
		&order.PaymentStatus,
		&notes,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(customerInfoJSON, &order.CustomerInfo); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(expertCommissionsJSON, &order.Pricing.ExpertCommissions); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(itemCommissionsJSON, &order.Pricing.ItemCommissions); err != nil {
		return nil, err
	}
	if notes.Valid {
		order.Notes = &notes.String
	}

	return &order, nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && (constraint == "" || pqErr.Constraint == constraint)
	}
	return false
}

func requireRowAffected(result sql.Result, resource, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &apperrors.ErrNotFound{Resource: resource, ID: id}
	}
	return nil
}
