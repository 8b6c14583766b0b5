// internal/common/aws/sns.go
package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	apperrors "carematch/internal/common/errors"
	"carematch/internal/models"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

const EventProviderRegistered = "provider.registered"

// SNSAPI is the subset of the SNS client used here.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSClient struct {
	client SNSAPI
}

func NewSNSClient(ctx context.Context, region string) (*SNSClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SNSClient{client: sns.NewFromConfig(cfg)}, nil
}

func NewSNSClientWithAPI(api SNSAPI) *SNSClient {
	return &SNSClient{client: api}
}

func (s *SNSClient) Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error) {
	return s.client.Publish(ctx, input)
}

// ProviderRegisteredEvent is the message body published after a provider is stored.
type ProviderRegisteredEvent struct {
	Event        string               `json:"event"`
	ProviderID   string               `json:"providerId"`
	Name         string               `json:"name"`
	ServiceTypes []models.ServiceType `json:"serviceTypes"`
	Price        float64              `json:"price"`
	OccurredAt   time.Time            `json:"occurredAt"`
}

// ProviderEventPublisher announces provider registrations on one topic.
type ProviderEventPublisher struct {
	sns      *SNSClient
	topicARN string
	now      func() time.Time
}

func NewProviderEventPublisher(client *SNSClient, topicARN string) *ProviderEventPublisher {
	return &ProviderEventPublisher{sns: client, topicARN: topicARN, now: time.Now}
}

func (p *ProviderEventPublisher) ProviderRegistered(ctx context.Context, provider models.ProviderProfile) error {
	body, err := json.Marshal(ProviderRegisteredEvent{
		Event:        EventProviderRegistered,
		ProviderID:   provider.ID,
		Name:         provider.Name,
		ServiceTypes: provider.ServiceTypes,
		Price:        provider.Price,
		OccurredAt:   p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", EventProviderRegistered, err)
	}

	_, err = p.sns.Publish(ctx, &sns.PublishInput{
		TopicArn: awssdk.String(p.topicARN),
		Message:  awssdk.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event": {
				DataType:    awssdk.String("String"),
				StringValue: awssdk.String(EventProviderRegistered),
			},
		},
	})
	if err != nil {
		return apperrors.NewEventPublishFailedError(EventProviderRegistered, err)
	}
	return nil
}
