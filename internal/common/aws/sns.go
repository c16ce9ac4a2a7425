// internal/common/aws/sns.go
package aws

import (
	"context"
	"encoding/json"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"matching-engine/internal/models"
)

// SNSPublisher fans matched-vendor notifications out to an SNS topic for
// downstream delivery consumers. The Postgres sink remains the durable
// record; this publish is an optional side channel.
type SNSPublisher struct {
	client   *sns.Client
	topicARN string
}

func NewSNSPublisher(ctx context.Context, region, topicARN string) (*SNSPublisher, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &SNSPublisher{client: sns.NewFromConfig(cfg), topicARN: topicARN}, nil
}

// PublishMatches publishes the whole notification batch in one call. SNS
// batches cap at 10 entries, which is above the dispatch limit.
func (p *SNSPublisher) PublishMatches(ctx context.Context, records []models.NotificationRecord) error {
	if len(records) == 0 {
		return nil
	}

	entries := make([]types.PublishBatchRequestEntry, 0, len(records))
	for _, rec := range records {
		body, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal notification %s: %w", rec.ID, err)
		}
		entries = append(entries, types.PublishBatchRequestEntry{
			Id:      awssdk.String(rec.ID),
			Message: awssdk.String(string(body)),
		})
	}

	out, err := p.client.PublishBatch(ctx, &sns.PublishBatchInput{
		TopicArn:                   awssdk.String(p.topicARN),
		PublishBatchRequestEntries: entries,
	})
	if err != nil {
		return err
	}
	if len(out.Failed) > 0 {
		return fmt.Errorf("sns publish batch: %d of %d entries failed", len(out.Failed), len(entries))
	}
	return nil
}
