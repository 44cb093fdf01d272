// Command collect-hwid generates a machine-bound license request document
// for the offline issuance workflow.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/Turing-Drive/autodrive-license-client/internal/config"
	apperrors "github.com/Turing-Drive/autodrive-license-client/internal/errors"
	"github.com/Turing-Drive/autodrive-license-client/internal/hwid"
	"github.com/Turing-Drive/autodrive-license-client/internal/infrastructure"
	"github.com/Turing-Drive/autodrive-license-client/internal/request"
)

type options struct {
	customer string
	features []string
	out      string
}

func main() {
	customer := flag.String("customer", "", "customer/organization label (required)")
	features := flag.String("features", "", "comma-separated features to request (default AutoDrive)")
	out := flag.String("out", "", "output file (default license_request.json in the working directory)")
	configFile := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(apperrors.ExitFailure)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger, using default: %v\n", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.WithTraceID(context.Background(), uuid.NewString())
	logger.InfoContext(ctx, "collecting hardware identifiers",
		slog.String("app", config.AppName),
		slog.String("version", config.AppVersion))

	paths, err := config.ResolvePaths(cfg)
	if err != nil {
		logger.ErrorContext(ctx, "path resolution failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(apperrors.ExitFailure)
	}

	opts := options{
		customer: *customer,
		features: parseFeatures(*features),
		out:      *out,
	}

	outPath, doc, err := run(ctx, logger, paths, opts, hwid.NewProber())
	if err != nil {
		logger.ErrorContext(ctx, "license request generation failed",
			slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(apperrors.ExitCode(err))
	}

	fmt.Printf("wrote %s\n", outPath)
	fmt.Printf("HWID: %s\n", doc.HWIDSHA256)
}

// run is the collector pipeline: probe, canonicalize, hash, serialize.
// Nothing is written when probing or validation fails.
func run(ctx context.Context, logger *slog.Logger, paths *config.Paths, opts options, prober *hwid.Prober) (string, *request.Document, error) {
	if strings.TrimSpace(opts.customer) == "" {
		return "", nil, apperrors.ErrInvalidCustomer
	}

	set, err := prober.Collect()
	if err != nil {
		return "", nil, err
	}
	logger.InfoContext(ctx, "hardware identifiers collected",
		slog.Int("components", len(set)))

	doc, err := request.Build(opts.customer, opts.features, set, prober.Environment(set))
	if err != nil {
		return "", nil, err
	}

	outPath := opts.out
	if outPath == "" {
		outPath = paths.RequestFile()
	}
	if err := doc.Write(outPath); err != nil {
		return "", nil, err
	}

	logger.InfoContext(ctx, "license request written",
		slog.String("path", outPath),
		slog.String("hwid_sha256", doc.HWIDSHA256),
		slog.Int("components", len(doc.HWIDComponents)))
	return outPath, doc, nil
}

func parseFeatures(s string) []string {
	var features []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			features = append(features, f)
		}
	}
	return features
}
