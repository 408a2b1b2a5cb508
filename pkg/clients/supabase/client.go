package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/stitchedpdx/square-inventory/internal/config"
	"github.com/stitchedpdx/square-inventory/internal/domain/models"
)

// MergeDuplicates tells PostgREST to overwrite conflicting rows instead of failing.
const MergeDuplicates = "resolution=merge-duplicates"

// Client exposes the table store operations used by the webhook receiver.
type Client interface {
	UpsertInventory(ctx context.Context, rows ...models.InventoryRow) error
}

// RESTClient is a resty-backed implementation of Client speaking the Supabase REST interface.
type RESTClient struct {
	httpClient *resty.Client
	table      string
}

// NewClient builds a store client using the provided configuration values.
func NewClient(cfg config.StoreConfig, timeout time.Duration) *RESTClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.URL, "/")).
		SetHeader("apikey", cfg.Key).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.Key)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &RESTClient{httpClient: restyClient, table: cfg.Table}
}

// apiError represents a PostgREST error payload.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// UpsertInventory posts the rows as one JSON array with merge-on-conflict semantics.
func (c *RESTClient) UpsertInventory(ctx context.Context, rows ...models.InventoryRow) error {
	if len(rows) == 0 {
		return errors.New("no inventory rows to upsert")
	}

	apiErr := new(apiError)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Prefer", MergeDuplicates).
		SetBody(rows).
		SetError(apiErr).
		Post(fmt.Sprintf("/rest/v1/%s", c.table))
	if err != nil {
		return fmt.Errorf("upsert inventory rows: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := apiErr.Message
		if message == "" {
			message = strings.TrimSpace(resp.String())
		}
		return fmt.Errorf("supabase api error: code=%d, message=%s", resp.StatusCode(), message)
	}

	return nil
}
