package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"go.uber.org/zap"
)

// PublishAPI is the subset of the SNS client used for SMS
type PublishAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SMSNotifier texts sellers through AWS SNS.
// Phone numbers must be in E.164 format (e.g. +12065550100).
type SMSNotifier struct {
	client   PublishAPI
	senderID string
	logger   *zap.Logger
}

// NewSMSNotifier creates a notifier; senderID may be empty
func NewSMSNotifier(client PublishAPI, senderID string, logger *zap.Logger) *SMSNotifier {
	return &SMSNotifier{client: client, senderID: senderID, logger: logger}
}

// NewSMSNotifierFromConfig builds the SNS client from a shared AWS config
func NewSMSNotifierFromConfig(cfg aws.Config, senderID string, logger *zap.Logger) *SMSNotifier {
	return NewSMSNotifier(sns.NewFromConfig(cfg), senderID, logger)
}

// Notify sends text to phone as a transactional SMS
func (n *SMSNotifier) Notify(ctx context.Context, phone, text string) error {
	attributes := map[string]types.MessageAttributeValue{
		"AWS.SNS.SMS.SMSType": {
			DataType:    aws.String("String"),
			StringValue: aws.String("Transactional"),
		},
	}
	if n.senderID != "" {
		attributes["AWS.SNS.SMS.SenderID"] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(n.senderID),
		}
	}

	result, err := n.client.Publish(ctx, &sns.PublishInput{
		Message:           aws.String(text),
		PhoneNumber:       aws.String(phone),
		MessageAttributes: attributes,
	})
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}

	n.logger.Debug("sms sent", zap.String("message_id", aws.ToString(result.MessageId)))
	return nil
}
