package models

// InventoryRow is one row of the mirrored inventory table.
type InventoryRow struct {
	SquareItemID string `json:"square_item_id"`
	LocationID   string `json:"location_id"`
	Quantity     int    `json:"quantity"`
	UpdatedAt    string `json:"updated_at"`
}
