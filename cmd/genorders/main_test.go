package main

import (
	"bytes"
	"strings"
	"testing"

	"orderstats/internal/loader"
)

func TestWriteOrders_LoadsBack(t *testing.T) {
	var buf bytes.Buffer
	cfg := genConfig{Count: 50, Month: "2023-02", Users: 3, Seed: 42}
	if err := writeOrders(&buf, cfg); err != nil {
		t.Fatalf("writeOrders: %v", err)
	}

	orders, err := loader.Decode(&buf)
	if err != nil {
		t.Fatalf("generated file does not load: %v", err)
	}
	if len(orders) != 50 {
		t.Fatalf("want 50 orders, got %d", len(orders))
	}
	if orders[0].OrderID != "10001" || orders[49].OrderID != "10050" {
		t.Fatalf("unexpected ids: first=%s last=%s", orders[0].OrderID, orders[49].OrderID)
	}
	for _, o := range orders {
		if !strings.HasPrefix(o.Date, "2023-02-") || o.Date > "2023-02-28" {
			t.Fatalf("date outside month: %s", o.Date)
		}
		if o.Quantity < 1 || o.Quantity > 10 || o.Price <= 0 {
			t.Fatalf("bad order: %+v", o)
		}
	}
}

func TestWriteOrders_SameSeedSameOutput(t *testing.T) {
	var a, b bytes.Buffer
	cfg := genConfig{Count: 10, Month: "2023-07", Users: 5, Seed: 7}
	_ = writeOrders(&a, cfg)
	_ = writeOrders(&b, cfg)
	if a.String() != b.String() {
		t.Fatalf("same seed produced different files")
	}
}

func TestWriteOrders_EmptyAndBadMonth(t *testing.T) {
	var buf bytes.Buffer
	if err := writeOrders(&buf, genConfig{Count: 0, Month: "2023-07", Users: 1}); err != nil {
		t.Fatalf("writeOrders: %v", err)
	}
	orders, err := loader.Decode(&buf)
	if err != nil || len(orders) != 0 {
		t.Fatalf("empty dataset: orders=%d err=%v", len(orders), err)
	}
	if err := writeOrders(&bytes.Buffer{}, genConfig{Count: 1, Month: "July"}); err == nil {
		t.Fatalf("expected month parse error")
	}
}
