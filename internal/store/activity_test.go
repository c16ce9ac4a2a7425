// internal/store/activity_test.go
package store

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matching-engine/internal/common/logger"
	"matching-engine/internal/models"
)

func testActivityRecord() models.ActivityRecord {
	return models.ActivityRecord{
		ID:                  "act-001",
		Type:                models.ActivityTypeVendorsMatched,
		Description:         "Evaluated 8 vendors, matched 3 for request req-001",
		RequestID:           "req-001",
		CandidatesEvaluated: 8,
		MatchesFound:        3,
		CreatedAt:           "2026-09-01T10:00:00Z",
	}
}

func newTestES(t *testing.T, handler http.HandlerFunc) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es
}

func TestActivityStore_Record(t *testing.T) {
	var (
		gotPath string
		gotBody []byte
	)
	es := newTestES(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"result":"created"}`))
	})

	s := NewActivityStore(es, "matching-activity", logger.NewNoOpLogger())
	err := s.Record(context.Background(), testActivityRecord())
	require.NoError(t, err)

	assert.Equal(t, "/matching-activity/_doc/act-001", gotPath)

	var indexed models.ActivityRecord
	require.NoError(t, json.Unmarshal(gotBody, &indexed))
	assert.Equal(t, "vendors_matched", indexed.Type)
	assert.Equal(t, 8, indexed.CandidatesEvaluated)
	assert.Equal(t, 3, indexed.MatchesFound)
}

func TestActivityStore_Record_ServerError(t *testing.T) {
	es := newTestES(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"index unavailable"}`))
	})

	s := NewActivityStore(es, "matching-activity", logger.NewNoOpLogger())
	err := s.Record(context.Background(), testActivityRecord())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "index activity record")
}
