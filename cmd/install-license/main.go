// Command install-license places an issued license file into the directory
// read by AutoDrive at startup, backing up any previous license.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/Turing-Drive/autodrive-license-client/internal/config"
	apperrors "github.com/Turing-Drive/autodrive-license-client/internal/errors"
	"github.com/Turing-Drive/autodrive-license-client/internal/infrastructure"
	"github.com/Turing-Drive/autodrive-license-client/internal/installer"
)

func main() {
	dir := flag.String("dir", "", "directory to search for issued license files (default working directory)")
	target := flag.String("target", "", "install target directory (default from config)")
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

	paths, err := config.ResolvePaths(cfg)
	if err != nil {
		logger.ErrorContext(ctx, "path resolution failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(apperrors.ExitFailure)
	}

	searchDir := *dir
	if searchDir == "" {
		searchDir = paths.WorkDir
	}
	targetDir := *target
	if targetDir == "" {
		targetDir = paths.InstallDir
	}

	logger.InfoContext(ctx, "installing license",
		slog.String("app", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("search_dir", searchDir),
		slog.String("target_dir", targetDir))

	ins := installer.New(targetDir, installer.NewTerminalPrompter(), logger)
	result, err := ins.Install(searchDir)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserAborted) {
			// Clean exit: the operator answered, nothing was mutated.
			fmt.Println("Aborted, nothing installed.")
			os.Exit(apperrors.ExitOK)
		}
		logger.ErrorContext(ctx, "license installation failed",
			slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(apperrors.ExitCode(err))
	}

	fmt.Printf("installed %s -> %s\n", result.Source, result.Target)
	if result.BackupPath != "" {
		fmt.Printf("previous license backed up to %s\n", result.BackupPath)
	}
	if result.OriginalCopy != "" {
		fmt.Printf("copy kept under original name: %s\n", result.OriginalCopy)
	}
}
