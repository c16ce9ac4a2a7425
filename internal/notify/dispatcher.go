// internal/notify/dispatcher.go
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"matching-engine/internal/common/logger"
	"matching-engine/internal/models"
)

// DefaultLimit caps how many of the ranked matches are notified. Only the
// strongest candidates get one; flooding weaker matches is noise.
const DefaultLimit = 5

// maxReasonsInBody keeps the message body short; the full reason list rides
// in the payload.
const maxReasonsInBody = 2

// Sink is the durable store notification records are written to.
type Sink interface {
	WriteBatch(ctx context.Context, records []models.NotificationRecord) error
}

// Publisher is an optional fan-out side channel (SNS) for downstream
// delivery consumers.
type Publisher interface {
	PublishMatches(ctx context.Context, records []models.NotificationRecord) error
}

// Dispatcher builds and writes one notification record per top-ranked match.
type Dispatcher struct {
	sink      Sink
	publisher Publisher // may be nil
	limit     int
	logger    logger.Logger
}

func NewDispatcher(sink Sink, publisher Publisher, limit int, log logger.Logger) *Dispatcher {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Dispatcher{
		sink:      sink,
		publisher: publisher,
		limit:     limit,
		logger:    log.WithFields(map[string]interface{}{"component": "dispatcher"}),
	}
}

// Dispatch takes the ranked match list, truncates it to the dispatch limit
// and submits the batch to the sink in a single write. It returns the
// records it emitted so callers can account for them.
func (d *Dispatcher) Dispatch(ctx context.Context, criteria models.MatchingCriteria, ranked []models.ScoreResult) ([]models.NotificationRecord, error) {
	top := ranked
	if len(top) > d.limit {
		top = top[:d.limit]
	}
	if len(top) == 0 {
		return nil, nil
	}

	records := make([]models.NotificationRecord, 0, len(top))
	for _, match := range top {
		records = append(records, buildRecord(criteria, match))
	}

	if err := d.sink.WriteBatch(ctx, records); err != nil {
		return nil, err
	}

	if d.publisher != nil {
		if err := d.publisher.PublishMatches(ctx, records); err != nil {
			// The durable record already exists; fan-out is best-effort.
			d.logger.Warn("notification fan-out publish failed", map[string]interface{}{
				"requestId": criteria.RequestID,
				"error":     err,
			})
		}
	}

	d.logger.Info("notifications dispatched", map[string]interface{}{
		"requestId": criteria.RequestID,
		"count":     len(records),
	})
	return records, nil
}

func buildRecord(criteria models.MatchingCriteria, match models.ScoreResult) models.NotificationRecord {
	priority := models.PriorityMedium
	if criteria.Priority == models.PriorityUrgent {
		priority = models.PriorityHigh
	}

	reasons := match.Reasons
	if len(reasons) > maxReasonsInBody {
		reasons = reasons[:maxReasonsInBody]
	}

	return models.NotificationRecord{
		ID:       uuid.New().String(),
		VendorID: match.CandidateID,
		Title:    "New procurement request matches your profile",
		Body: fmt.Sprintf("Request %s matched your profile with score %.1f: %s",
			criteria.RequestID, match.Score, strings.Join(reasons, ", ")),
		Priority: priority,
		Payload: models.NotificationPayload{
			RequestID: criteria.RequestID,
			Score:     match.Score,
			Reasons:   match.Reasons,
		},
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
}
