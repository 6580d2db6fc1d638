package database

import (
	"fmt"
	"time"
)

// DeliveryRepo handles journal operations for delivered releases
type DeliveryRepo struct {
	db *DB
}

var _ DeliveryRepository = (*DeliveryRepo)(nil)

// NewDeliveryRepo creates a new delivery repository
func NewDeliveryRepo(db *DB) *DeliveryRepo {
	return &DeliveryRepo{db: db}
}

// RecordDelivery upserts a journal row for a delivered release. Re-recording
// the same release id refreshes the metadata and timestamp.
func (r *DeliveryRepo) RecordDelivery(delivery Delivery) error {
	deliveredAt := delivery.DeliveredAt
	if deliveredAt.IsZero() {
		deliveredAt = time.Now().UTC()
	}

	_, err := r.db.Exec(`
		INSERT INTO deliveries (release_id, artist, title, link, delivered_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (release_id) DO UPDATE SET
			artist = excluded.artist,
			title = excluded.title,
			link = excluded.link,
			delivered_at = excluded.delivered_at
	`, delivery.ReleaseID, delivery.Artist, delivery.Title, delivery.Link, deliveredAt)

	if err != nil {
		return fmt.Errorf("failed to record delivery: %w", err)
	}

	return nil
}

// GetDeliveryCount returns the total number of journaled deliveries
func (r *DeliveryRepo) GetDeliveryCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM deliveries").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get delivery count: %w", err)
	}
	return count, nil
}

// GetRecentDeliveries returns the most recently journaled deliveries
func (r *DeliveryRepo) GetRecentDeliveries(limit int) ([]Delivery, error) {
	rows, err := r.db.Query(`
		SELECT release_id, artist, title, link, delivered_at
		FROM deliveries
		ORDER BY delivered_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent deliveries: %w", err)
	}
	defer rows.Close()

	var deliveries []Delivery
	for rows.Next() {
		var d Delivery
		if err := rows.Scan(&d.ReleaseID, &d.Artist, &d.Title, &d.Link, &d.DeliveredAt); err != nil {
			return nil, fmt.Errorf("failed to scan delivery row: %w", err)
		}
		deliveries = append(deliveries, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating delivery rows: %w", err)
	}

	return deliveries, nil
}
