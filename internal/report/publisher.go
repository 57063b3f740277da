package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/segmentio/kafka-go"

	"orderstats/internal/model"
)

// Publisher ships a finished result somewhere besides stdout.
type Publisher interface {
	Publish(ctx context.Context, res model.Result) error
}

// MultiPublisher writes to multiple publishers sequentially.
type MultiPublisher struct {
	pubs []Publisher
}

func NewMultiPublisher(pubs ...Publisher) *MultiPublisher {
	return &MultiPublisher{pubs: pubs}
}

func (m *MultiPublisher) Publish(ctx context.Context, res model.Result) error {
	for _, p := range m.pubs {
		if err := p.Publish(ctx, res); err != nil {
			return err
		}
	}
	return nil
}

// FilePublisher writes the result record as JSON to a file, replacing it.
type FilePublisher struct {
	path string
}

func NewFilePublisher(path string) *FilePublisher {
	return &FilePublisher{path: path}
}

func (f *FilePublisher) Publish(_ context.Context, res model.Result) error {
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
	}
	out, err := os.Create(f.path)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	if err := WriteJSON(out, res); err != nil {
		_ = out.Close()
		return fmt.Errorf("encode: %w", err)
	}
	return out.Close()
}

// KafkaPublisher publishes the result record to a Kafka topic.
type KafkaPublisher struct {
	writer kafkaMessageWriter
	key    []byte
}

// kafkaMessageWriter abstracts kafka.Writer for testability.
type kafkaMessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// NewKafkaPublisher creates a Kafka result publisher.
// bootstrap can be comma-separated brokers. key is typically the dataset file name.
func NewKafkaPublisher(bootstrap string, topic string, key string) *KafkaPublisher {
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:         kafka.TCP(SplitBrokers(bootstrap)...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}, key: []byte(key)}
}

// NewKafkaPublisherWith is only for tests to inject a fake writer.
func NewKafkaPublisherWith(w kafkaMessageWriter, key string) *KafkaPublisher {
	return &KafkaPublisher{writer: w, key: []byte(key)}
}

func (k *KafkaPublisher) Publish(ctx context.Context, res model.Result) error {
	b, err := json.Marshal(&res)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := k.writer.WriteMessages(ctx, kafka.Message{Key: k.key, Value: b}); err != nil {
		return fmt.Errorf("kafka publish: %w", err)
	}
	return nil
}

// Close releases the underlying writer when it holds connections.
func (k *KafkaPublisher) Close() error {
	if c, ok := k.writer.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// SplitBrokers turns "a:9092, b:9092" into a clean broker list.
func SplitBrokers(bootstrap string) []string {
	var brokers []string
	for _, a := range strings.Split(bootstrap, ",") {
		a = strings.TrimSpace(a)
		if a != "" {
			brokers = append(brokers, a)
		}
	}
	return brokers
}
