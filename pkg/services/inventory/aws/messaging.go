package aws

import (
	"context"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/costwatch/costwatch/pkg/services/inventory"
)

type Messaging struct {
	cfg awssdk.Config
}

func NewMessaging(cfg awssdk.Config) *Messaging {
	return &Messaging{cfg: cfg}
}

// ListTopics returns the pub/sub topics in a region.
func (m *Messaging) ListTopics(ctx context.Context, region string) ([]inventory.Topic, error) {
	client := sns.NewFromConfig(m.cfg, func(o *sns.Options) { o.Region = region })

	var out []inventory.Topic
	p := sns.NewListTopicsPaginator(client, &sns.ListTopicsInput{})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, inventory.Classify("ListTopics", region, err)
		}
		for _, topic := range page.Topics {
			out = append(out, inventory.Topic{
				ARN:    awssdk.ToString(topic.TopicArn),
				Region: region,
			})
		}
	}
	return out, nil
}

// ListQueues returns the message queues in a region.
func (m *Messaging) ListQueues(ctx context.Context, region string) ([]inventory.Queue, error) {
	client := sqs.NewFromConfig(m.cfg, func(o *sqs.Options) { o.Region = region })

	var out []inventory.Queue
	p := sqs.NewListQueuesPaginator(client, &sqs.ListQueuesInput{})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, inventory.Classify("ListQueues", region, err)
		}
		for _, url := range page.QueueUrls {
			name := url
			if i := strings.LastIndex(url, "/"); i >= 0 {
				name = url[i+1:]
			}
			out = append(out, inventory.Queue{
				URL:    url,
				Name:   name,
				Region: region,
			})
		}
	}
	return out, nil
}
