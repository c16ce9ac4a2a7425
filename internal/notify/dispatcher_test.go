// internal/notify/dispatcher_test.go
package notify

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matching-engine/internal/common/logger"
	"matching-engine/internal/models"
)

// ==========================
// Fakes
// ==========================

type fakeSink struct {
	err     error
	batches [][]models.NotificationRecord
}

func (f *fakeSink) WriteBatch(ctx context.Context, records []models.NotificationRecord) error {
	if f.err != nil {
		return f.err
	}
	f.batches = append(f.batches, records)
	return nil
}

type fakePublisher struct {
	err       error
	published []models.NotificationRecord
}

func (f *fakePublisher) PublishMatches(ctx context.Context, records []models.NotificationRecord) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, records...)
	return nil
}

func testCriteria() models.MatchingCriteria {
	return models.MatchingCriteria{
		RequestID:  "req-042",
		CategoryID: "cleaning",
		Priority:   models.PriorityMedium,
	}
}

func rankedMatch(id string, score float64, reasons ...string) models.ScoreResult {
	return models.ScoreResult{CandidateID: id, Score: score, Reasons: reasons}
}

// ==========================
// Dispatch
// ==========================

func TestDispatch_TruncatesToLimit(t *testing.T) {
	sink := &fakeSink{}
	d := NewDispatcher(sink, nil, DefaultLimit, logger.NewNoOpLogger())

	var ranked []models.ScoreResult
	for i := 0; i < 8; i++ {
		ranked = append(ranked, rankedMatch(fmt.Sprintf("v%d", i), 90-float64(i), "Category expertise match"))
	}

	records, err := d.Dispatch(context.Background(), testCriteria(), ranked)
	require.NoError(t, err)

	require.Len(t, records, DefaultLimit)
	for i, rec := range records {
		assert.Equal(t, fmt.Sprintf("v%d", i), rec.VendorID, "records must follow rank order")
	}
	require.Len(t, sink.batches, 1)
	assert.Len(t, sink.batches[0], DefaultLimit)
}

func TestDispatch_FewerMatchesThanLimit(t *testing.T) {
	sink := &fakeSink{}
	d := NewDispatcher(sink, nil, DefaultLimit, logger.NewNoOpLogger())

	records, err := d.Dispatch(context.Background(), testCriteria(), []models.ScoreResult{
		rankedMatch("v1", 75, "Category expertise match"),
		rankedMatch("v2", 60, "Geographic proximity"),
	})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestDispatch_EmptyRankedWritesNothing(t *testing.T) {
	sink := &fakeSink{}
	d := NewDispatcher(sink, nil, DefaultLimit, logger.NewNoOpLogger())

	records, err := d.Dispatch(context.Background(), testCriteria(), nil)
	require.NoError(t, err)
	assert.Nil(t, records)
	assert.Empty(t, sink.batches)
}

func TestDispatch_RecordContents(t *testing.T) {
	sink := &fakeSink{}
	d := NewDispatcher(sink, nil, DefaultLimit, logger.NewNoOpLogger())

	match := rankedMatch("v1", 87.5,
		"Category expertise match",
		"Geographic proximity",
		"Verified vendor",
	)

	records, err := d.Dispatch(context.Background(), testCriteria(), []models.ScoreResult{match})
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "v1", rec.VendorID)
	assert.Equal(t, "New procurement request matches your profile", rec.Title)
	// Body carries only the first two reasons; the payload keeps them all.
	assert.Equal(t, "Request req-042 matched your profile with score 87.5: Category expertise match, Geographic proximity", rec.Body)
	assert.Equal(t, models.PriorityMedium, rec.Priority)
	assert.Equal(t, "req-042", rec.Payload.RequestID)
	assert.Equal(t, 87.5, rec.Payload.Score)
	assert.Equal(t, match.Reasons, rec.Payload.Reasons)
	assert.NotEmpty(t, rec.CreatedAt)
}

func TestDispatch_UrgentRequestElevatesPriority(t *testing.T) {
	sink := &fakeSink{}
	d := NewDispatcher(sink, nil, DefaultLimit, logger.NewNoOpLogger())

	criteria := testCriteria()
	criteria.Priority = models.PriorityUrgent

	records, err := d.Dispatch(context.Background(), criteria, []models.ScoreResult{
		rankedMatch("v1", 70, "Category expertise match"),
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.PriorityHigh, records[0].Priority)
}

func TestDispatch_SinkFailurePropagates(t *testing.T) {
	sink := &fakeSink{err: fmt.Errorf("pq: connection reset")}
	publisher := &fakePublisher{}
	d := NewDispatcher(sink, publisher, DefaultLimit, logger.NewNoOpLogger())

	records, err := d.Dispatch(context.Background(), testCriteria(), []models.ScoreResult{
		rankedMatch("v1", 70, "Category expertise match"),
	})

	require.Error(t, err)
	assert.Nil(t, records)
	// Fan-out never runs when the durable write failed.
	assert.Empty(t, publisher.published)
}

func TestDispatch_PublisherFailureIsSwallowed(t *testing.T) {
	sink := &fakeSink{}
	publisher := &fakePublisher{err: fmt.Errorf("sns throttled")}
	d := NewDispatcher(sink, publisher, DefaultLimit, logger.NewNoOpLogger())

	records, err := d.Dispatch(context.Background(), testCriteria(), []models.ScoreResult{
		rankedMatch("v1", 70, "Category expertise match"),
	})

	require.NoError(t, err)
	assert.Len(t, records, 1)
	require.Len(t, sink.batches, 1)
}

func TestDispatch_PublisherReceivesWrittenBatch(t *testing.T) {
	sink := &fakeSink{}
	publisher := &fakePublisher{}
	d := NewDispatcher(sink, publisher, DefaultLimit, logger.NewNoOpLogger())

	_, err := d.Dispatch(context.Background(), testCriteria(), []models.ScoreResult{
		rankedMatch("v1", 70, "Category expertise match"),
		rankedMatch("v2", 65, "Geographic proximity"),
	})
	require.NoError(t, err)
	assert.Len(t, publisher.published, 2)
}

func TestNewDispatcher_DefaultsNonPositiveLimit(t *testing.T) {
	d := NewDispatcher(&fakeSink{}, nil, 0, logger.NewNoOpLogger())
	assert.Equal(t, DefaultLimit, d.limit)
}
