// internal/store/notifications.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"matching-engine/internal/common/logger"
	"matching-engine/internal/models"
)

const insertNotificationQuery = `
	INSERT INTO notifications (id, vendor_id, title, body, priority, payload, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

// NotificationStore is the durable notification sink. Delivery (push, email,
// in-app badge) belongs to its consumers, not to this engine.
type NotificationStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewNotificationStore(db *sql.DB, log logger.Logger) *NotificationStore {
	return &NotificationStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "notification-store"}),
	}
}

// WriteBatch inserts all records in a single transaction so one run's
// notifications land atomically or not at all.
func (s *NotificationStore) WriteBatch(ctx context.Context, records []models.NotificationRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin notification batch: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertNotificationQuery)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare notification insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		payload, err := json.Marshal(rec.Payload)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("marshal payload for %s: %w", rec.ID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			rec.ID, rec.VendorID, rec.Title, rec.Body, rec.Priority, payload, rec.CreatedAt,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert notification %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit notification batch: %w", err)
	}

	s.logger.Debug("notification batch written", map[string]interface{}{
		"count": len(records),
	})
	return nil
}
