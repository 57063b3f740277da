package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"orderstats/internal/config"
	"orderstats/internal/loader"
	"orderstats/internal/metrics"
	"orderstats/internal/report"
	"orderstats/internal/state"
	"orderstats/internal/stats"
)

func main() {
	cfg, err := readFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("orderstats: %v", err)
	}
	if err := run(cfg, os.Stdout); err != nil {
		_ = report.WriteError(os.Stdout, err)
		os.Exit(1)
	}
}

// readFlags builds the run config: defaults, then the optional -config file,
// then any flag given explicitly, then the positional input path.
func readFlags(fs *flag.FlagSet, args []string) (config.Config, error) {
	def := config.Default()
	var (
		cfgPath string
		flagged config.Config
	)
	fs.StringVar(&cfgPath, "config", "", "YAML config file")
	fs.StringVar(&flagged.TallyBackend, "tally-backend", def.TallyBackend, "tally backend: memory|pebble|badger")
	fs.BoolVar(&flagged.JSON, "json", def.JSON, "print the result record as JSON instead of text")
	fs.StringVar(&flagged.OutFile, "out", def.OutFile, "also write the JSON result record to this file")
	fs.DurationVar(&flagged.Timeout, "timeout", def.Timeout, "timeout for publishing and metrics push")
	fs.StringVar(&flagged.KafkaBootstrap, "kafka-bootstrap", def.KafkaBootstrap, "kafka bootstrap servers, e.g. localhost:9092")
	fs.StringVar(&flagged.KafkaTopic, "kafka-topic", def.KafkaTopic, "kafka topic for the result record")
	fs.StringVar(&flagged.MetricsPushURL, "metrics-push-url", def.MetricsPushURL, "Pushgateway URL")
	fs.StringVar(&flagged.MetricsJob, "metrics-job", def.MetricsJob, "Pushgateway job name")
	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}

	cfg := def
	if cfgPath != "" {
		var err error
		if cfg, err = config.LoadFile(cfgPath); err != nil {
			return config.Config{}, err
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "tally-backend":
			cfg.TallyBackend = flagged.TallyBackend
		case "json":
			cfg.JSON = flagged.JSON
		case "out":
			cfg.OutFile = flagged.OutFile
		case "timeout":
			cfg.Timeout = flagged.Timeout
		case "kafka-bootstrap":
			cfg.KafkaBootstrap = flagged.KafkaBootstrap
		case "kafka-topic":
			cfg.KafkaTopic = flagged.KafkaTopic
		case "metrics-push-url":
			cfg.MetricsPushURL = flagged.MetricsPushURL
		case "metrics-job":
			cfg.MetricsJob = flagged.MetricsJob
		}
	})
	if fs.NArg() > 1 {
		return config.Config{}, fmt.Errorf("expected at most one input file, got %d", fs.NArg())
	}
	if fs.NArg() == 1 {
		cfg.Input = fs.Arg(0)
	}
	return cfg, cfg.Validate()
}

func run(cfg config.Config, stdout io.Writer) error {
	mreg := metrics.NewRegistry()
	mreg.Runs.Inc()
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	err := aggregateAndPublish(ctx, cfg, mreg, stdout)
	if cfg.MetricsPushURL != "" {
		if pushErr := mreg.Push(ctx, cfg.MetricsPushURL, cfg.MetricsJob); pushErr != nil {
			log.Printf("%v", pushErr)
		}
	}
	return err
}

func aggregateAndPublish(ctx context.Context, cfg config.Config, mreg *metrics.Registry, stdout io.Writer) error {
	log.Printf("loading orders from %s (tally backend %s)", cfg.Input, cfg.TallyBackend)
	orders, err := loader.Load(cfg.Input)
	if err != nil {
		mreg.LoadErrors.WithLabelValues(errorKind(err)).Inc()
		return err
	}
	mreg.OrdersLoaded.Add(float64(len(orders)))

	st, err := state.OpenScratch(cfg.TallyBackend)
	if err != nil {
		return fmt.Errorf("open tally store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Printf("close tally store: %v", err)
		}
	}()

	t0 := time.Now()
	res, err := stats.NewAggregator(st).Aggregate(orders)
	if err != nil {
		return fmt.Errorf("aggregate: %w", err)
	}
	mreg.AggregateSec.Observe(time.Since(t0).Seconds())
	mreg.AvgOrder.Set(res.AverageOrderPrice)
	mreg.AvgItem.Set(res.AverageItemPrice)
	log.Printf("aggregated %d orders in %s", res.OrderCount, time.Since(t0))

	if cfg.JSON {
		err = report.WriteJSON(stdout, res)
	} else {
		err = report.WriteText(stdout, res)
	}
	if err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	var pubs []report.Publisher
	if cfg.OutFile != "" {
		pubs = append(pubs, report.NewFilePublisher(cfg.OutFile))
	}
	if cfg.KafkaBootstrap != "" {
		kp := report.NewKafkaPublisher(cfg.KafkaBootstrap, cfg.KafkaTopic, filepath.Base(cfg.Input))
		defer kp.Close()
		pubs = append(pubs, kp)
	}
	if len(pubs) == 0 {
		return nil
	}
	if err := report.NewMultiPublisher(pubs...).Publish(ctx, res); err != nil {
		return fmt.Errorf("publish result: %w", err)
	}
	log.Printf("result published to %d sink(s)", len(pubs))
	return nil
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, loader.ErrNotFound):
		return metrics.KindNotFound
	case errors.Is(err, loader.ErrFormat):
		return metrics.KindFormat
	case errors.Is(err, loader.ErrMissingField):
		return metrics.KindMissingField
	default:
		return metrics.KindOther
	}
}
