package database

import (
	"time"
)

// Delivery is one journal row: a release that was successfully pushed to the chat.
type Delivery struct {
	ReleaseID   string
	Artist      string
	Title       string
	Link        string
	DeliveredAt time.Time
}

// DeliveryRepository is the journal surface the pipeline depends on. The
// journal is an audit trail only; the dedup store stays the single authority
// for suppression decisions.
type DeliveryRepository interface {
	RecordDelivery(delivery Delivery) error
	GetDeliveryCount() (int, error)
	GetRecentDeliveries(limit int) ([]Delivery, error)
}
