// Command dawnvec extracts design fingerprint vectors from capture
// snapshots and compares them.
//
// Usage:
//
//	dawnvec -extract capture.json                  # print the vector as JSON
//	dawnvec -extract capture.json -report          # human-readable feature report
//	dawnvec -extract capture.json -db vectors.db   # store the vector
//	dawnvec -query capture.json -db vectors.db -k 5
//	dawnvec -compare a.json -with b.json           # explain two vector files
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/leomorgan/dawn-dpartner-proto-sub002/engine"
	"github.com/leomorgan/dawn-dpartner-proto-sub002/snapshot"
	"github.com/leomorgan/dawn-dpartner-proto-sub002/vector"
	"github.com/leomorgan/dawn-dpartner-proto-sub002/vecstore"
)

func main() {
	extractPath := flag.String("extract", "", "capture JSON to extract a vector from")
	queryPath := flag.String("query", "", "capture JSON to search neighbours for")
	comparePath := flag.String("compare", "", "vector JSON to compare")
	withPath := flag.String("with", "", "second vector JSON for -compare")
	dbPath := flag.String("db", "", "sqlite vector store path")
	schemaPath := flag.String("schema", "", "schema YAML override (default: built-in v1)")
	metricName := flag.String("metric", "cosine", "search metric: cosine or euclidean")
	k := flag.Int("k", 5, "neighbour count for -query, top/bottom count for -compare")
	report := flag.Bool("report", false, "print a human-readable feature report")
	logLevel := flag.String("log-level", "warn", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := options{
		extractPath: *extractPath,
		queryPath:   *queryPath,
		comparePath: *comparePath,
		withPath:    *withPath,
		dbPath:      *dbPath,
		schemaPath:  *schemaPath,
		metric:      vecstore.Metric(*metricName),
		k:           *k,
		report:      *report,
	}
	if err := run(ctx, logger, opts); err != nil {
		logger.Error("dawnvec: fatal", "error", err)
		os.Exit(1)
	}
}

type options struct {
	extractPath string
	queryPath   string
	comparePath string
	withPath    string
	dbPath      string
	schemaPath  string
	metric      vecstore.Metric
	k           int
	report      bool
}

func run(ctx context.Context, logger *slog.Logger, opts options) error {
	eng, err := newEngine(logger, opts.schemaPath)
	if err != nil {
		return err
	}

	switch {
	case opts.extractPath != "":
		return runExtract(ctx, eng, opts)
	case opts.queryPath != "":
		return runQuery(ctx, eng, opts)
	case opts.comparePath != "":
		return runCompare(opts)
	}
	fmt.Fprintln(os.Stderr, "usage: dawnvec -extract <capture.json> | -query <capture.json> -db <store> | -compare <a.json> -with <b.json>")
	return nil
}

func newEngine(logger *slog.Logger, schemaPath string) (*engine.Engine, error) {
	cfg := engine.Config{Logger: logger}
	if schemaPath != "" {
		schema, err := vector.LoadSchema(schemaPath)
		if err != nil {
			return nil, err
		}
		cfg.Schema = schema
	}
	return engine.New(cfg)
}

func runExtract(ctx context.Context, eng *engine.Engine, opts options) error {
	res, err := extractFile(eng, opts.extractPath)
	if err != nil {
		return err
	}

	if opts.dbPath != "" {
		store, err := vecstore.Open(opts.dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
		id, err := store.Put(ctx, opts.extractPath, res.Vector)
		if err != nil {
			return err
		}
		fmt.Printf("stored %s (%s)\n", id, res.Vector.Version)
	}

	if opts.report {
		fmt.Print(vector.Report(res.Vector))
		return nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res.Vector)
}

func runQuery(ctx context.Context, eng *engine.Engine, opts options) error {
	if opts.dbPath == "" {
		return fmt.Errorf("-query requires -db")
	}
	res, err := extractFile(eng, opts.queryPath)
	if err != nil {
		return err
	}
	store, err := vecstore.Open(opts.dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	hits, err := store.Nearest(ctx, res.Vector, opts.metric, opts.k)
	if err != nil {
		return err
	}
	for i, h := range hits {
		fmt.Printf("%2d. %-40s %s=%.4f id=%s\n", i+1, h.Record.URL, opts.metric, h.Score, h.Record.ID)
	}
	return nil
}

func runCompare(opts options) error {
	if opts.withPath == "" {
		return fmt.Errorf("-compare requires -with")
	}
	a, err := loadVector(opts.comparePath)
	if err != nil {
		return err
	}
	b, err := loadVector(opts.withPath)
	if err != nil {
		return err
	}

	out, err := vector.CompareReport(a, b)
	if err != nil {
		return err
	}
	fmt.Print(out)

	ex, err := vector.Explain(a, b, opts.k)
	if err != nil {
		return err
	}
	fmt.Println("\ntop contributions:")
	for _, c := range ex.Top {
		fmt.Printf("  %-34s %+.4f (raw delta %.3f)\n", c.Name, c.Value, c.RawDelta)
	}
	fmt.Println("bottom contributions:")
	for _, c := range ex.Bottom {
		fmt.Printf("  %-34s %+.4f (raw delta %.3f)\n", c.Name, c.Value, c.RawDelta)
	}
	return nil
}

func extractFile(eng *engine.Engine, path string) (*engine.Result, error) {
	snap, err := snapshot.Load(path)
	if err != nil {
		return nil, err
	}
	return eng.Extract(snap)
}

func loadVector(path string) (*vector.FeatureVector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var v vector.FeatureVector
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse vector %s: %w", path, err)
	}
	return &v, nil
}
