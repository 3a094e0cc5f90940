// Package events publishes order lifecycle records to Kafka.
package events

import (
	"context"
	"fmt"
	"io"
	"log"
	"strconv"

	"arayesh-shop/internal/domain"
	"github.com/hamba/avro/v2"
	"github.com/twmb/franz-go/pkg/kgo"
)

const schemaHeader = "order_placed.v1"

// Client is the subset of *kgo.Client the producer needs.
type Client interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

// NewClient connects a producing client to seedBrokers and checks that
// at least one broker answers.
func NewClient(ctx context.Context, seedBrokers []string, topic string) (*kgo.Client, error) {
	cl, err := kgo.NewClient(
		kgo.SeedBrokers(seedBrokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("events: new client: %w", err)
	}
	if err := cl.Ping(ctx); err != nil {
		cl.Close()
		return nil, fmt.Errorf("events: ping brokers: %w", err)
	}
	return cl, nil
}

// Producer emits one record per committed order, keyed by order id.
type Producer struct {
	cl     Client
	schema avro.Schema
	logger *log.Logger
}

func NewProducer(cl Client, logger *log.Logger) *Producer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Producer{cl: cl, schema: OrderPlacedV1Avro(), logger: logger}
}

func (p *Producer) OrderPlaced(ctx context.Context, o domain.Order, c domain.Customer) error {
	const op = "events.OrderPlaced"

	payload, err := avro.Marshal(p.schema, toSchemaV1(o, c))
	if err != nil {
		return fmt.Errorf("%s: encode: %w", op, err)
	}
	rec := &kgo.Record{
		Key:   []byte(strconv.FormatInt(o.ID, 10)),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: "schema", Value: []byte(schemaHeader)},
		},
	}
	if err := p.cl.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("%s: produce: %w", op, err)
	}
	p.logger.Printf("events: order placed order_id=%d published", o.ID)
	return nil
}

func (p *Producer) Close() {
	p.cl.Close()
}

func toSchemaV1(o domain.Order, c domain.Customer) OrderPlacedV1 {
	s := OrderPlacedV1{
		OrderID:    o.ID,
		UserID:     o.UserID,
		Email:      c.Email,
		Phone:      o.Phone,
		PostalCode: o.PostalCode,
		Address:    o.Address,
		TotalPrice: o.TotalPrice.String(),
		Status:     o.Status,
		CreatedAt:  o.CreatedAt.UTC(),
		Items:      make([]OrderPlacedItemV1, len(o.Items)),
	}
	for i, it := range o.Items {
		s.Items[i] = OrderPlacedItemV1{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price.String()}
	}
	return s
}
