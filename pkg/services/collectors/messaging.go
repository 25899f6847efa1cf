package collectors

import (
	"context"

	"github.com/costwatch/costwatch/pkg/models/domain"
	"github.com/costwatch/costwatch/pkg/services/inventory"
)

type MessagingAPI interface {
	ListTopics(ctx context.Context, region string) ([]inventory.Topic, error)
	ListQueues(ctx context.Context, region string) ([]inventory.Queue, error)
}

// Messaging prices topics and queues at the resolver's flat hourly rate,
// which is zero under the free-tier policy.
type Messaging struct {
	api     MessagingAPI
	pricer  Pricer
	regions []string
}

func NewMessaging(api MessagingAPI, pricer Pricer, regions []string) *Messaging {
	return &Messaging{api: api, pricer: pricer, regions: regions}
}

func (m *Messaging) Kind() domain.Kind { return domain.KindMessaging }
func (m *Messaging) Regions() []string { return m.regions }

func (m *Messaging) Collect(ctx context.Context, region string) ([]domain.ResourceRecord, error) {
	hourly := m.pricer.MessagingHourly()

	topics, err := m.api.ListTopics(ctx, region)
	if err != nil {
		return nil, err
	}
	queues, err := m.api.ListQueues(ctx, region)
	if err != nil {
		return nil, err
	}

	var out []domain.ResourceRecord
	for _, topic := range topics {
		out = append(out, domain.ResourceRecord{
			Kind:       domain.KindMessaging,
			ResourceID: topic.ARN,
			Region:     region,
			HourlyCost: hourly,
			DailyCost:  hourly * hoursPerDay,
			Attributes: map[string]string{"service": "topic"},
		})
	}
	for _, queue := range queues {
		out = append(out, domain.ResourceRecord{
			Kind:       domain.KindMessaging,
			ResourceID: queue.Name,
			Region:     region,
			HourlyCost: hourly,
			DailyCost:  hourly * hoursPerDay,
			Attributes: map[string]string{"service": "queue"},
		})
	}
	return out, nil
}
