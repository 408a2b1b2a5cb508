package models

// InventoryUpdateRequest is the body accepted by POST /inventory/add.
type InventoryUpdateRequest struct {
	Size     string  `json:"size" binding:"required"`
	Quantity *int    `json:"quantity" binding:"required,min=0"`
	Comment  *string `json:"comment"`
}

// Location is a Square business location.
type Location struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CatalogItem is a sellable Square catalog item with its variations.
type CatalogItem struct {
	ID         string
	Name       string
	Variations []ItemVariation
}

// ItemVariation is a size/style variant of a catalog item.
type ItemVariation struct {
	ID   string
	Name string
}

// Inventory change constants understood by Square.
const (
	ChangeTypePhysicalCount = "PHYSICAL_COUNT"
	InventoryStateInStock   = "IN_STOCK"
)

// PhysicalCount asserts an absolute quantity for one catalog object at one location.
type PhysicalCount struct {
	ReferenceID     string `json:"reference_id"`
	CatalogObjectID string `json:"catalog_object_id"`
	State           string `json:"state"`
	LocationID      string `json:"location_id"`
	Quantity        string `json:"quantity"`
	Note            string `json:"note,omitempty"`
}

// InventoryChange wraps a single change entry of a batch request.
type InventoryChange struct {
	Type          string         `json:"type"`
	PhysicalCount *PhysicalCount `json:"physical_count,omitempty"`
}

// BatchChangeInventoryRequest is the body of POST /v2/inventory/batch-change-inventory.
type BatchChangeInventoryRequest struct {
	IdempotencyKey        string            `json:"idempotency_key"`
	Changes               []InventoryChange `json:"changes"`
	IgnoreUnchangedCounts bool              `json:"ignore_unchanged_counts"`
}
