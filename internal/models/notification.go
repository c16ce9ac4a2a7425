// internal/models/notification.go
package models

// NotificationPayload carries machine-readable match context for downstream
// consumers (in-app badge, push, email renderers).
type NotificationPayload struct {
	RequestID string   `json:"requestId"`
	Score     float64  `json:"score"`
	Reasons   []string `json:"reasons"`
}

// NotificationRecord is one pending notification for a matched vendor. The
// engine only writes these; delivery belongs to the sink's consumers.
type NotificationRecord struct {
	ID        string              `json:"id"`
	VendorID  string              `json:"vendorId"`
	Title     string              `json:"title"`
	Body      string              `json:"body"`
	Priority  string              `json:"priority"` // "medium" or "high"
	Payload   NotificationPayload `json:"payload"`
	CreatedAt string              `json:"createdAt"` // ISO 8601
}
