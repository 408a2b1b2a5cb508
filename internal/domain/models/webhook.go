package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// EventTypeInventoryCountUpdated is the only webhook event mirrored into the store.
const EventTypeInventoryCountUpdated = "inventory.count.updated"

// WebhookEvent mirrors the envelope posted to webhook subscribers. Dispatch
// keys on event_type alone; Square's separate "type" key is never consulted.
type WebhookEvent struct {
	MerchantID string           `json:"merchant_id"`
	EventType  string           `json:"event_type"`
	EventID    string           `json:"event_id"`
	CreatedAt  string           `json:"created_at"`
	Data       WebhookEventData `json:"data"`
}

// WebhookEventData carries the object the event refers to.
type WebhookEventData struct {
	Type   string             `json:"type"`
	ID     string             `json:"id"`
	Object WebhookEventObject `json:"object"`
}

// WebhookEventObject holds the typed payloads we care about.
type WebhookEventObject struct {
	InventoryCount *InventoryCount `json:"inventory_count,omitempty"`
}

// InventoryCount is the inventory_count object of an inventory.count.updated event.
type InventoryCount struct {
	CatalogObjectID   string   `json:"catalog_object_id"`
	CatalogObjectType string   `json:"catalog_object_type"`
	State             string   `json:"state"`
	LocationID        string   `json:"location_id"`
	Quantity          Quantity `json:"quantity"`
	CalculatedAt      string   `json:"calculated_at"`
}

// Quantity holds the decimal string Square sends; plain JSON numbers are accepted too.
type Quantity string

// UnmarshalJSON decodes a JSON string or number into its textual form.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*q = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = Quantity(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("quantity must be a string or number: %w", err)
	}
	*q = Quantity(n.String())
	return nil
}

// Int parses the quantity as an integer; an empty quantity is 0.
func (q Quantity) Int() (int, error) {
	if q == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(string(q))
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q: %w", string(q), err)
	}
	return n, nil
}
