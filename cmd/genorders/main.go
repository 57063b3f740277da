package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"
	"os"
	"strconv"
	"time"

	"orderstats/internal/loader"
)

type genConfig struct {
	Count  int
	Month  string // YYYY-MM
	Users  int
	Output string
	Seed   int64
}

func main() {
	var cfg genConfig
	flag.IntVar(&cfg.Count, "count", 100, "number of orders to generate")
	flag.StringVar(&cfg.Month, "month", "2023-07", "month the orders fall into (YYYY-MM)")
	flag.IntVar(&cfg.Users, "users", 20, "number of distinct users")
	flag.StringVar(&cfg.Output, "output", loader.DefaultFile, "output file")
	flag.Int64Var(&cfg.Seed, "seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	if err := generateOrders(cfg); err != nil {
		log.Fatalf("generation failed: %v", err)
	}
}

func generateOrders(cfg genConfig) error {
	file, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if err := writeOrders(w, cfg); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	log.Printf("generated %d orders to %s", cfg.Count, cfg.Output)
	return nil
}

type orderBody struct {
	Date     string  `json:"date"`
	UserID   string  `json:"user_id"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// writeOrders writes a JSON object keyed by order id. Keys are written in
// increasing id order so the file order is deterministic for a given seed.
func writeOrders(w io.Writer, cfg genConfig) error {
	start, err := time.Parse("2006-01", cfg.Month)
	if err != nil {
		return fmt.Errorf("parse month: %w", err)
	}
	if cfg.Users <= 0 {
		cfg.Users = 1
	}
	days := start.AddDate(0, 1, 0).Sub(start).Hours() / 24
	rnd := rand.New(rand.NewSource(cfg.Seed))

	if _, err := io.WriteString(w, "{\n"); err != nil {
		return err
	}
	for i := 0; i < cfg.Count; i++ {
		qty := 1 + rnd.Intn(10)
		body := orderBody{
			Date:     start.AddDate(0, 0, rnd.Intn(int(days))).Format("2006-01-02"),
			UserID:   "user_" + strconv.Itoa(1+rnd.Intn(cfg.Users)),
			Quantity: qty,
			Price:    math.Round(float64(qty)*(5+rnd.Float64()*95)*100) / 100,
		}
		b, err := json.Marshal(&body)
		if err != nil {
			return fmt.Errorf("encode order %d: %w", i+1, err)
		}
		sep := ",\n"
		if i == cfg.Count-1 {
			sep = "\n"
		}
		if _, err := fmt.Fprintf(w, "  %q: %s%s", strconv.Itoa(10001+i), b, sep); err != nil {
			return err
		}
	}
	_, err = io.WriteString(w, "}\n")
	return err
}
