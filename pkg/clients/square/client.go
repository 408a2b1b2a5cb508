package square

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/stitchedpdx/square-inventory/internal/config"
	"github.com/stitchedpdx/square-inventory/internal/domain/models"
)

const (
	locationsPath      = "/v2/locations"
	searchCatalogPath  = "/v2/catalog/search-catalog-items"
	batchInventoryPath = "/v2/inventory/batch-change-inventory"
)

// Client exposes the Square API operations used by the inventory relay.
type Client interface {
	ListLocations(ctx context.Context) ([]models.Location, error)
	SearchCatalogItems(ctx context.Context, textFilter string) ([]models.CatalogItem, error)
	BatchChangeInventory(ctx context.Context, req models.BatchChangeInventoryRequest) (json.RawMessage, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a Square API client using the provided configuration values.
func NewClient(cfg config.SquareConfig, timeout time.Duration) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(cfg.ResolvedBaseURL()).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.AccessToken)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &APIClient{httpClient: restyClient}
}

type listLocationsResponse struct {
	Locations []models.Location `json:"locations"`
}

type searchCatalogItemsRequest struct {
	TextFilter string `json:"text_filter"`
}

type searchCatalogItemsResponse struct {
	Items []catalogObject `json:"items"`
}

type catalogObject struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	ItemData struct {
		Name       string `json:"name"`
		Variations []struct {
			ID                string `json:"id"`
			ItemVariationData struct {
				Name string `json:"name"`
			} `json:"item_variation_data"`
		} `json:"variations"`
	} `json:"item_data"`
}

// apiError represents a Square error payload.
type apiError struct {
	Errors []struct {
		Category string `json:"category"`
		Code     string `json:"code"`
		Detail   string `json:"detail"`
		Field    string `json:"field"`
	} `json:"errors"`
}

func (e *apiError) message() string {
	if e == nil || len(e.Errors) == 0 {
		return ""
	}
	parts := make([]string, 0, len(e.Errors))
	for _, item := range e.Errors {
		msg := item.Code
		if item.Detail != "" {
			msg = fmt.Sprintf("%s: %s", item.Code, item.Detail)
		}
		parts = append(parts, msg)
	}
	return strings.Join(parts, "; ")
}

// ListLocations returns every location visible to the access token.
func (c *APIClient) ListLocations(ctx context.Context) ([]models.Location, error) {
	result := new(listLocationsResponse)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		SetError(apiErr).
		Get(locationsPath)
	if err != nil {
		return nil, fmt.Errorf("list square locations: %w", err)
	}
	if err := checkResponse(resp, apiErr); err != nil {
		return nil, err
	}

	return result.Locations, nil
}

// SearchCatalogItems runs a text search over catalog items. Only the first page is read.
func (c *APIClient) SearchCatalogItems(ctx context.Context, textFilter string) ([]models.CatalogItem, error) {
	result := new(searchCatalogItemsResponse)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(searchCatalogItemsRequest{TextFilter: textFilter}).
		SetResult(result).
		SetError(apiErr).
		Post(searchCatalogPath)
	if err != nil {
		return nil, fmt.Errorf("search square catalog: %w", err)
	}
	if err := checkResponse(resp, apiErr); err != nil {
		return nil, err
	}

	items := make([]models.CatalogItem, 0, len(result.Items))
	for _, obj := range result.Items {
		item := models.CatalogItem{ID: obj.ID, Name: obj.ItemData.Name}
		for _, v := range obj.ItemData.Variations {
			item.Variations = append(item.Variations, models.ItemVariation{
				ID:   v.ID,
				Name: v.ItemVariationData.Name,
			})
		}
		items = append(items, item)
	}

	return items, nil
}

// BatchChangeInventory submits inventory changes and returns Square's raw response body.
func (c *APIClient) BatchChangeInventory(ctx context.Context, req models.BatchChangeInventoryRequest) (json.RawMessage, error) {
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetError(apiErr).
		Post(batchInventoryPath)
	if err != nil {
		return nil, fmt.Errorf("batch change square inventory: %w", err)
	}
	if err := checkResponse(resp, apiErr); err != nil {
		return nil, err
	}

	body := resp.Body()
	if !json.Valid(body) {
		return nil, fmt.Errorf("square returned a non-JSON body for batch change")
	}

	return json.RawMessage(body), nil
}

func checkResponse(resp *resty.Response, apiErr *apiError) error {
	if resp.StatusCode() < http.StatusBadRequest {
		return nil
	}
	message := apiErr.message()
	if message == "" {
		message = strings.TrimSpace(resp.String())
	}
	return fmt.Errorf("square api error: code=%d, message=%s", resp.StatusCode(), message)
}
