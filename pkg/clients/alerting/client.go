package alerting

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/poultrydesk/eggledger/internal/domain/models"
)

// Notifier delivers low-stock alerts to an external channel.
type Notifier interface {
	SendLowStock(ctx context.Context, alert LowStockAlert) error
}

// LowStockAlert describes the categories that fell below the threshold.
type LowStockAlert struct {
	Date      time.Time
	Threshold int
	Levels    map[models.Size]int
}

// WebhookClient is a resty-backed Notifier that POSTs alerts to a webhook.
type WebhookClient struct {
	httpClient *resty.Client
	url        string
}

// NewWebhookClient builds a webhook notifier for the given URL.
func NewWebhookClient(url string) *WebhookClient {
	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &WebhookClient{
		httpClient: restyClient,
		url:        url,
	}
}

// SendLowStock posts the alert payload.
func (c *WebhookClient) SendLowStock(ctx context.Context, alert LowStockAlert) error {
	text := fmt.Sprintf("Low egg stock on %s (threshold %d pieces):", alert.Date.Format(models.DateLayout), alert.Threshold)
	for _, size := range models.Sizes {
		if level, ok := alert.Levels[size]; ok {
			text += fmt.Sprintf(" %s=%d", size, level)
		}
	}

	payload := map[string]any{
		"text":      text,
		"date":      alert.Date.Format(models.DateLayout),
		"threshold": alert.Threshold,
		"levels":    alert.Levels,
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("send low stock alert: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("alert webhook error: status=%d body=%s", resp.StatusCode(), resp.String())
	}

	return nil
}
