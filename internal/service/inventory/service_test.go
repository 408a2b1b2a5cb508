package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitchedpdx/square-inventory/internal/domain/models"
)

type stubSquare struct {
	locations []models.Location
	items     []models.CatalogItem
	result    json.RawMessage

	locationsErr error
	searchErr    error
	batchErr     error

	searchFilters []string
	batches       []models.BatchChangeInventoryRequest
}

func (s *stubSquare) ListLocations(ctx context.Context) ([]models.Location, error) {
	if s.locationsErr != nil {
		return nil, s.locationsErr
	}
	return s.locations, nil
}

func (s *stubSquare) SearchCatalogItems(ctx context.Context, textFilter string) ([]models.CatalogItem, error) {
	s.searchFilters = append(s.searchFilters, textFilter)
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.items, nil
}

func (s *stubSquare) BatchChangeInventory(ctx context.Context, req models.BatchChangeInventoryRequest) (json.RawMessage, error) {
	s.batches = append(s.batches, req)
	if s.batchErr != nil {
		return nil, s.batchErr
	}
	return s.result, nil
}

func newStub() *stubSquare {
	return &stubSquare{
		locations: []models.Location{
			{ID: "L-warehouse", Name: "Warehouse"},
			{ID: "L-pdx", Name: "  stitched pdx llc "},
		},
		items: []models.CatalogItem{
			{ID: "I-2", Name: "Jeans 10", Variations: []models.ItemVariation{{ID: "V-wrong", Name: "32"}}},
			{ID: "I-1", Name: "JEANS 1", Variations: []models.ItemVariation{
				{ID: "V-30", Name: "30"},
				{ID: "V-32", Name: " 32 "},
			}},
		},
		result: json.RawMessage(`{"counts":[]}`),
	}
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestSetInventoryDefaultNote(t *testing.T) {
	stub := newStub()
	svc := NewService(stub, "Stitched PDX LLC", "Jeans 1", nil)

	result, err := svc.SetInventory(context.Background(), models.InventoryUpdateRequest{Size: "32", Quantity: intPtr(7)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"counts":[]}`, string(result))

	assert.Equal(t, []string{"Jeans 1"}, stub.searchFilters)
	require.Len(t, stub.batches, 1)

	batch := stub.batches[0]
	assert.True(t, batch.IgnoreUnchangedCounts)
	require.Len(t, batch.Changes, 1)
	change := batch.Changes[0]
	assert.Equal(t, models.ChangeTypePhysicalCount, change.Type)
	require.NotNil(t, change.PhysicalCount)
	assert.Equal(t, "V-32", change.PhysicalCount.CatalogObjectID)
	assert.Equal(t, "L-pdx", change.PhysicalCount.LocationID)
	assert.Equal(t, models.InventoryStateInStock, change.PhysicalCount.State)
	assert.Equal(t, "7", change.PhysicalCount.Quantity)
	assert.Equal(t, "Manual update: 7", change.PhysicalCount.Note)
	assert.NotEmpty(t, batch.IdempotencyKey)
	assert.NotEqual(t, batch.IdempotencyKey, change.PhysicalCount.ReferenceID)
}

func TestSetInventoryUsesComment(t *testing.T) {
	stub := newStub()
	svc := NewService(stub, "Stitched PDX LLC", "Jeans 1", nil)

	_, err := svc.SetInventory(context.Background(), models.InventoryUpdateRequest{Size: "30", Quantity: intPtr(0), Comment: strPtr("restock from PDX")})
	require.NoError(t, err)
	require.Len(t, stub.batches, 1)
	assert.Equal(t, "restock from PDX", stub.batches[0].Changes[0].PhysicalCount.Note)
	assert.Equal(t, "0", stub.batches[0].Changes[0].PhysicalCount.Quantity)
}

func TestSetInventoryEmptyCommentFallsBack(t *testing.T) {
	svc := NewService(newStub(), "Stitched PDX LLC", "Jeans 1", nil)

	batch := svc.BuildChange("L", "V", 3, strPtr(""))
	assert.Equal(t, "Manual update: 3", batch.Changes[0].PhysicalCount.Note)
}

func TestSetInventoryTwiceMintsDistinctKeys(t *testing.T) {
	stub := newStub()
	svc := NewService(stub, "Stitched PDX LLC", "Jeans 1", nil)
	req := models.InventoryUpdateRequest{Size: "32", Quantity: intPtr(4)}

	_, err := svc.SetInventory(context.Background(), req)
	require.NoError(t, err)
	_, err = svc.SetInventory(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, stub.batches, 2)
	assert.NotEqual(t, stub.batches[0].IdempotencyKey, stub.batches[1].IdempotencyKey)
	assert.NotEqual(t, stub.batches[0].Changes[0].PhysicalCount.ReferenceID, stub.batches[1].Changes[0].PhysicalCount.ReferenceID)
}

func TestSetInventoryLocationMissSkipsMutation(t *testing.T) {
	stub := newStub()
	svc := NewService(stub, "Stitched Seattle", "Jeans 1", nil)

	_, err := svc.SetInventory(context.Background(), models.InventoryUpdateRequest{Size: "32", Quantity: intPtr(1)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "Location 'Stitched Seattle' not found", err.Error())
	assert.Empty(t, stub.searchFilters)
	assert.Empty(t, stub.batches)
}

func TestVariationIDMisses(t *testing.T) {
	svc := NewService(newStub(), "Stitched PDX LLC", "Jeans 1", nil)

	_, err := svc.VariationID(context.Background(), "Jeans 1", "34")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Variation", nf.Kind)
	assert.Equal(t, "34", nf.Name)

	_, err = svc.VariationID(context.Background(), "Shorts", "32")
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Item", nf.Kind)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetInventoryPropagatesUpstreamErrors(t *testing.T) {
	stub := newStub()
	stub.batchErr = errors.New("square api error: code=400, message=INVALID_VALUE")
	svc := NewService(stub, "Stitched PDX LLC", "Jeans 1", nil)

	_, err := svc.SetInventory(context.Background(), models.InventoryUpdateRequest{Size: "32", Quantity: intPtr(1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_VALUE")
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Len(t, stub.batches, 1)

	stub = newStub()
	stub.locationsErr = errors.New("list square locations: timeout")
	svc = NewService(stub, "Stitched PDX LLC", "Jeans 1", nil)
	_, err = svc.SetInventory(context.Background(), models.InventoryUpdateRequest{Size: "32", Quantity: intPtr(1)})
	require.Error(t, err)
	assert.Empty(t, stub.batches)
}

func TestSetInventoryRequiresQuantity(t *testing.T) {
	stub := newStub()
	svc := NewService(stub, "Stitched PDX LLC", "Jeans 1", nil)

	_, err := svc.SetInventory(context.Background(), models.InventoryUpdateRequest{Size: "32"})
	require.Error(t, err)
	assert.Empty(t, stub.batches)
}
