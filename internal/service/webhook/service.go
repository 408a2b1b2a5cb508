package webhook

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/stitchedpdx/square-inventory/internal/domain/models"
	"github.com/stitchedpdx/square-inventory/pkg/clients/supabase"
)

// Receiver describes the operations the webhook HTTP layer performs.
type Receiver interface {
	VerifySignature(body []byte, signature string) error
	HandleEvent(ctx context.Context, event models.WebhookEvent) (bool, error)
}

// Service verifies Square webhook deliveries and mirrors inventory counts
// into the table store. Deliveries are not deduplicated.
type Service struct {
	signingKey []byte
	store      supabase.Client
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires a webhook service instance.
func NewService(signingKey string, store supabase.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		signingKey: []byte(signingKey),
		store:      store,
		logger:     logger,
		now:        time.Now,
	}
}

// VerifySignature checks the delivery signature with the configured key.
func (s *Service) VerifySignature(body []byte, signature string) error {
	return VerifySignature(s.signingKey, body, signature)
}

// HandleEvent upserts inventory.count.updated events and ignores the rest.
// The boolean reports whether the event was acted on.
func (s *Service) HandleEvent(ctx context.Context, event models.WebhookEvent) (bool, error) {
	if event.EventType != models.EventTypeInventoryCountUpdated {
		s.logger.Debug("ignoring webhook event", zap.String("event_type", event.EventType), zap.String("event_id", event.EventID))
		return false, nil
	}

	row, err := s.BuildRow(event.Data.Object.InventoryCount)
	if err != nil {
		return true, err
	}

	if err := s.store.UpsertInventory(ctx, row); err != nil {
		return true, err
	}

	s.logger.Info("inventory row mirrored",
		zap.String("square_item_id", row.SquareItemID),
		zap.String("location_id", row.LocationID),
		zap.Int("quantity", row.Quantity))

	return true, nil
}

// BuildRow converts an inventory count into a store row stamped with the
// current UTC time. A nil count yields an empty row, as Square sent nothing.
func (s *Service) BuildRow(count *models.InventoryCount) (models.InventoryRow, error) {
	if count == nil {
		count = &models.InventoryCount{}
	}

	quantity, err := count.Quantity.Int()
	if err != nil {
		return models.InventoryRow{}, fmt.Errorf("build inventory row: %w", err)
	}

	return models.InventoryRow{
		SquareItemID: count.CatalogObjectID,
		LocationID:   count.LocationID,
		Quantity:     quantity,
		UpdatedAt:    s.now().UTC().Format(time.RFC3339Nano),
	}, nil
}
