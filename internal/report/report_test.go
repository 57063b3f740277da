package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/segmentio/kafka-go"

	"orderstats/internal/model"
)

var sample = model.Result{
	MostExpensiveOrder: "1002",
	OrderWithMostItems: "1002",
	BusiestDate:        "2023-07-01",
	MostActiveUser:     "u1",
	TopSpender:         "u2",
	AverageOrderPrice:  35,
	AverageItemPrice:   10,
	OrderCount:         2,
	TotalPrice:         70,
	TotalQuantity:      7,
}

func TestWriteText_SevenLines(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, sample); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	want := "Most expensive order: 1002\n" +
		"Order with most items: 1002\n" +
		"Busiest date: 2023-07-01\n" +
		"Most active user: u1\n" +
		"Top spender: u2\n" +
		"Average order price: 35.00\n" +
		"Average item price: 10.00\n"
	if got := buf.String(); got != want {
		t.Fatalf("text mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteText_EmptyResult(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, model.EmptyResult()); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("want 7 lines, got %d", len(lines))
	}
	if lines[0] != "Most expensive order: N/A" || lines[6] != "Average item price: 0.00" {
		t.Fatalf("unexpected lines: %q", lines)
	}
}

func TestWriteError_OneLine(t *testing.T) {
	var buf bytes.Buffer
	_ = WriteError(&buf, errors.New("orders file not found: x.json"))
	if got := buf.String(); got != "Error: orders file not found: x.json\n" {
		t.Fatalf("unexpected: %q", got)
	}
}

func TestFilePublisher_WritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "result.json")
	if err := NewFilePublisher(path).Publish(context.Background(), sample); err != nil {
		t.Fatalf("publish: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got model.Result
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got != sample {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if !bytes.Contains(b, []byte(`"most_expensive_order": "1002"`)) {
		t.Fatalf("unexpected field naming: %s", b)
	}
}

// fakeKafkaWriter implements kafkaMessageWriter for tests
type fakeKafkaWriter struct {
	msgs []kafka.Message
	fail bool
}

func (f *fakeKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if f.fail {
		return errors.New("fail")
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func TestKafkaPublisher_Success(t *testing.T) {
	fk := &fakeKafkaWriter{}
	kp := NewKafkaPublisherWith(fk, "orders_july_2023.json")
	if err := kp.Publish(context.Background(), sample); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(fk.msgs) != 1 {
		t.Fatalf("want 1 msg, got %d", len(fk.msgs))
	}
	if string(fk.msgs[0].Key) != "orders_july_2023.json" {
		t.Fatalf("bad key: %s", string(fk.msgs[0].Key))
	}
	var got model.Result
	if err := json.Unmarshal(fk.msgs[0].Value, &got); err != nil || got.TopSpender != "u2" {
		t.Fatalf("bad value: %s err=%v", fk.msgs[0].Value, err)
	}
	if err := kp.Close(); err != nil {
		t.Fatalf("close fake: %v", err)
	}
}

func TestMultiPublisher_StopsOnFirstError(t *testing.T) {
	bad := &fakeKafkaWriter{fail: true}
	good := &fakeKafkaWriter{}
	mp := NewMultiPublisher(NewKafkaPublisherWith(bad, "k"), NewKafkaPublisherWith(good, "k"))
	if err := mp.Publish(context.Background(), sample); err == nil {
		t.Fatalf("expected error")
	}
	if len(good.msgs) != 0 {
		t.Fatalf("second publisher should not run, got %d msgs", len(good.msgs))
	}
}

func TestSplitBrokers(t *testing.T) {
	got := SplitBrokers(" a:9092, ,b:9092 ")
	if len(got) != 2 || got[0] != "a:9092" || got[1] != "b:9092" {
		t.Fatalf("unexpected brokers: %v", got)
	}
}
