// internal/store/activity.go
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	"matching-engine/internal/common/logger"
	"matching-engine/internal/models"
)

// ActivityStore indexes run summaries into Elasticsearch for traceability.
type ActivityStore struct {
	es     *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewActivityStore(es *elasticsearch.Client, index string, log logger.Logger) *ActivityStore {
	return &ActivityStore{
		es:     es,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "activity-store"}),
	}
}

// Record indexes one audit document. Callers treat failures as best-effort
// telemetry; this method only reports them.
func (s *ActivityStore) Record(ctx context.Context, rec models.ActivityRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal activity record: %w", err)
	}

	res, err := s.es.Index(
		s.index,
		bytes.NewReader(body),
		s.es.Index.WithContext(ctx),
		s.es.Index.WithDocumentID(rec.ID),
	)
	if err != nil {
		return fmt.Errorf("index activity record: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index activity record: %s", res.Status())
	}

	s.logger.Debug("activity record indexed", map[string]interface{}{
		"id":        rec.ID,
		"requestId": rec.RequestID,
	})
	return nil
}
