package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stitchedpdx/square-inventory/internal/domain/models"
	"github.com/stitchedpdx/square-inventory/pkg/clients/square"
)

// ErrNotFound is matched by every lookup miss.
var ErrNotFound = errors.New("not found")

// NotFoundError reports which lookup failed and for which name.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Kind, e.Name)
}

// Is lets errors.Is(err, ErrNotFound) match any lookup miss.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Relay sets absolute stock counts in Square.
type Relay interface {
	SetInventory(ctx context.Context, req models.InventoryUpdateRequest) (json.RawMessage, error)
}

// Service implements Relay against the Square API. It resolves the
// configured location and item on every call; nothing is cached.
type Service struct {
	client       square.Client
	locationName string
	itemName     string
	logger       *zap.Logger
	newID        func() string
}

// NewService wires a relay service for one location and one catalog item.
func NewService(client square.Client, locationName, itemName string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:       client,
		locationName: locationName,
		itemName:     itemName,
		logger:       logger,
		newID:        func() string { return uuid.New().String() },
	}
}

// SetInventory resolves the location and the variation named by req.Size, then
// submits one physical count. Lookup failures abort before any mutation.
func (s *Service) SetInventory(ctx context.Context, req models.InventoryUpdateRequest) (json.RawMessage, error) {
	if req.Quantity == nil {
		return nil, errors.New("quantity is required")
	}

	locationID, err := s.LocationID(ctx, s.locationName)
	if err != nil {
		return nil, err
	}

	variationID, err := s.VariationID(ctx, s.itemName, req.Size)
	if err != nil {
		return nil, err
	}

	batch := s.BuildChange(locationID, variationID, *req.Quantity, req.Comment)

	s.logger.Debug("submitting physical count",
		zap.String("location_id", locationID),
		zap.String("variation_id", variationID),
		zap.Int("quantity", *req.Quantity),
		zap.String("idempotency_key", batch.IdempotencyKey))

	result, err := s.client.BatchChangeInventory(ctx, batch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("inventory updated",
		zap.String("size", req.Size),
		zap.Int("quantity", *req.Quantity),
		zap.String("variation_id", variationID))

	return result, nil
}

// LocationID returns the id of the first location whose name matches.
func (s *Service) LocationID(ctx context.Context, name string) (string, error) {
	locations, err := s.client.ListLocations(ctx)
	if err != nil {
		return "", err
	}

	for _, loc := range locations {
		if namesMatch(loc.Name, name) {
			return loc.ID, nil
		}
	}

	return "", &NotFoundError{Kind: "Location", Name: name}
}

// VariationID searches the catalog for itemName and returns the id of its
// variation named size.
func (s *Service) VariationID(ctx context.Context, itemName, size string) (string, error) {
	items, err := s.client.SearchCatalogItems(ctx, itemName)
	if err != nil {
		return "", err
	}

	itemSeen := false
	for _, item := range items {
		if !namesMatch(item.Name, itemName) {
			continue
		}
		itemSeen = true
		for _, variation := range item.Variations {
			if namesMatch(variation.Name, size) {
				return variation.ID, nil
			}
		}
	}

	if !itemSeen {
		return "", &NotFoundError{Kind: "Item", Name: itemName}
	}
	return "", &NotFoundError{Kind: "Variation", Name: size}
}

// BuildChange assembles a single-change batch with fresh idempotency and
// reference ids. An empty comment falls back to "Manual update: {quantity}".
func (s *Service) BuildChange(locationID, variationID string, quantity int, comment *string) models.BatchChangeInventoryRequest {
	note := fmt.Sprintf("Manual update: %d", quantity)
	if comment != nil && *comment != "" {
		note = *comment
	}

	return models.BatchChangeInventoryRequest{
		IdempotencyKey: s.newID(),
		Changes: []models.InventoryChange{{
			Type: models.ChangeTypePhysicalCount,
			PhysicalCount: &models.PhysicalCount{
				ReferenceID:     s.newID(),
				CatalogObjectID: variationID,
				State:           models.InventoryStateInStock,
				LocationID:      locationID,
				Quantity:        strconv.Itoa(quantity),
				Note:            note,
			},
		}},
		IgnoreUnchangedCounts: true,
	}
}

func namesMatch(candidate, want string) bool {
	return strings.EqualFold(strings.TrimSpace(candidate), strings.TrimSpace(want))
}
