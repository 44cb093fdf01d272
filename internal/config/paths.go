package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths carries the resolved file system locations the tools operate on.
// Both CLIs receive a Paths value explicitly; nothing below reads the
// working directory behind the caller's back after resolution.
type Paths struct {
	// WorkDir is where the collector writes the request document and where
	// the installer looks for issued license files. Defaults to the current
	// working directory.
	WorkDir string

	// InstallDir is the target directory read by AutoDrive at startup.
	InstallDir string
}

// ResolvePaths resolves the configured paths to absolute directories.
func ResolvePaths(cfg *Config) (*Paths, error) {
	workDir := cfg.Paths.WorkDir
	if workDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to determine working directory: %w", err)
		}
		workDir = cwd
	}
	workDir, err := filepath.Abs(workDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}

	installDir, err := filepath.Abs(cfg.Paths.InstallDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve install directory: %w", err)
	}

	return &Paths{WorkDir: workDir, InstallDir: installDir}, nil
}

// RequestFile returns the default request document path in the working directory.
func (p *Paths) RequestFile() string {
	return filepath.Join(p.WorkDir, RequestFileName)
}

// LicenseFile returns the canonical installed license path.
func (p *Paths) LicenseFile() string {
	return filepath.Join(p.InstallDir, LicenseFileName)
}
