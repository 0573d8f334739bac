package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mbozhik/pickmy/internal/config"
	"github.com/mbozhik/pickmy/internal/domain"
)

// Client posts order notifications to the configured email service
type Client struct {
	baseURL    string
	apiKey     string
	from       string
	to         string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates an email notifier from the resolved email configuration.
// When BaseURL is empty dispatch is disabled and a Nop notifier is returned.
func NewClient(cfg config.EmailConfig, logger *zap.Logger) Notifier {
	if cfg.BaseURL == "" {
		logger.Warn("Email dispatch disabled: EMAIL_BASE_URL is not set")
		return Nop{}
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		from:    cfg.From,
		to:      cfg.To,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

type orderPayload struct {
	OrderToken   string                  `json:"order_token"`
	Items        []orderItemPayload      `json:"items"`
	CustomerInfo domain.CustomerInfo     `json:"customer_info"`
	Pricing      domain.PricingBreakdown `json:"pricing"`
	From         string                  `json:"from,omitempty"`
	To           string                  `json:"to,omitempty"`
}

type orderItemPayload struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	Price          string `json:"price"`
	Quantity       int    `json:"quantity"`
	ExpertUsername string `json:"expert_username"`
}

// OrderSubmitted posts the order summary to the email service
func (c *Client) OrderSubmitted(ctx context.Context, order *domain.Order) error {
	payload := orderPayload{
		OrderToken:   order.OrderToken,
		CustomerInfo: order.CustomerInfo,
		Pricing:      order.Pricing,
		From:         c.from,
		To:           c.to,
	}
	for _, item := range order.Items {
		payload.Items = append(payload.Items, orderItemPayload{
			ProductID:      item.ProductID,
			Name:           item.Name,
			Price:          item.Price.String(),
			Quantity:       item.Quantity,
			ExpertUsername: item.ExpertUsername,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/order-notifications", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("email service returned status %d", resp.StatusCode)
	}

	c.logger.Info("Order notification dispatched", zap.String("order_token", order.OrderToken))
	return nil
}
