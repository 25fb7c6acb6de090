package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"geoloc193/internal/model"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// SQSAPI is the subset of the SQS client used by Publisher.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Publisher forwards lifecycle events to the queue consumed by the push-notification worker.
type Publisher struct {
	SQS      SQSAPI
	QueueURL string
}

func NewPublisher(sqsClient SQSAPI, queueURL string) *Publisher {
	return &Publisher{
		SQS:      sqsClient,
		QueueURL: queueURL,
	}
}

// NewSQSClient loads the default AWS credential chain for region.
func NewSQSClient(ctx context.Context, region string) (*sqs.Client, error) {
	if region == "" {
		region = "us-east-1"
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return sqs.NewFromConfig(cfg), nil
}

func (p *Publisher) Publish(ctx context.Context, event model.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	attributes := map[string]string{
		"event_type": string(event.Type),
		"request_id": strconv.FormatInt(event.RequestID, 10),
	}
	if event.OperatorID != 0 {
		attributes["operator_id"] = strconv.FormatInt(event.OperatorID, 10)
	}

	msgAttrs := make(map[string]sqstypes.MessageAttributeValue, len(attributes))
	for k, v := range attributes {
		msgAttrs[k] = sqstypes.MessageAttributeValue{
			DataType:    sdkaws.String("String"),
			StringValue: sdkaws.String(v),
		}
	}

	_, err = p.SQS.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:          sdkaws.String(p.QueueURL),
		MessageBody:       sdkaws.String(string(body)),
		MessageAttributes: msgAttrs,
	})
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}
