// Package installer places an issued license file into the directory read by
// AutoDrive at startup. The license is an opaque byte sequence here: it is
// copied, never parsed.
package installer

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Turing-Drive/autodrive-license-client/internal/config"
	apperrors "github.com/Turing-Drive/autodrive-license-client/internal/errors"
)

// Installer performs the one-shot, operator-supervised install sequence.
type Installer struct {
	// TargetDir is the directory AutoDrive reads the license from.
	TargetDir string

	// Prompter supplies selection and confirmation answers.
	Prompter Prompter

	// Logger for structured diagnostics; defaults to slog.Default.
	Logger *slog.Logger

	// now stamps backup file names; overridable in tests.
	now func() time.Time
}

// New returns an installer for the given target directory.
func New(targetDir string, prompter Prompter, logger *slog.Logger) *Installer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Installer{
		TargetDir: targetDir,
		Prompter:  prompter,
		Logger:    logger,
		now:       time.Now,
	}
}

// Result describes a completed installation.
type Result struct {
	// Source is the installed candidate file.
	Source string
	// Target is the canonical installed path (<target>/license.json).
	Target string
	// BackupPath is the renamed previous license, if one existed.
	BackupPath string
	// OriginalCopy is the traceability copy under the source's own name,
	// empty when the source is already named license.json.
	OriginalCopy string
}

// FindCandidates lists installable license files in dir: files matching
// license*.json, excluding request documents. A request must never be
// mistaken for an issued license, even when it is the only match.
func FindCandidates(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, config.LicenseFilePattern))
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	var candidates []string
	for _, m := range matches {
		if strings.HasPrefix(filepath.Base(m), config.RequestFilePrefix) {
			continue
		}
		candidates = append(candidates, m)
	}
	sort.Strings(candidates)
	return candidates, nil
}

// Install runs the full sequence against dir: discover candidates, resolve
// ambiguity through the prompter, gate on confirmation, then back up and
// copy. Idempotent when re-run with the same inputs and answers, modulo a
// fresh backup timestamp.
func (ins *Installer) Install(dir string) (*Result, error) {
	candidates, err := FindCandidates(dir)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, apperrors.ErrNoLicenseFound
	}

	source := candidates[0]
	if len(candidates) > 1 {
		// No newest-file heuristic: an ambiguous directory needs an
		// explicit operator decision.
		idx, err := ins.Prompter.Select("Multiple license files found, pick one to install:", candidates)
		if err != nil {
			return nil, err
		}
		source = candidates[idx]
	}

	ok, err := ins.Prompter.Confirm(fmt.Sprintf("Install %s to %s?", filepath.Base(source), ins.TargetDir))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrUserAborted
	}

	return ins.place(source)
}

// place performs the mutation sequence: ensure the target directory, rename
// any existing license to a timestamped backup, copy the new license under
// the canonical name and again under its original name.
func (ins *Installer) place(source string) (*Result, error) {
	if err := os.MkdirAll(ins.TargetDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: create target directory: %v", apperrors.ErrInstallationFailed, err)
	}

	result := &Result{
		Source: source,
		Target: filepath.Join(ins.TargetDir, config.LicenseFileName),
	}

	if _, err := os.Stat(result.Target); err == nil {
		backup := result.Target + ".bak-" + ins.now().Format(config.BackupTimestampFormat)
		if err := os.Rename(result.Target, backup); err != nil {
			return nil, fmt.Errorf("%w: back up existing license: %v", apperrors.ErrInstallationFailed, err)
		}
		result.BackupPath = backup
		ins.Logger.Info("existing license backed up",
			slog.String("backup", backup))
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: stat existing license: %v", apperrors.ErrInstallationFailed, err)
	}

	if err := copyFile(source, result.Target); err != nil {
		return nil, fmt.Errorf("%w: copy license: %v", apperrors.ErrInstallationFailed, err)
	}

	if base := filepath.Base(source); base != config.LicenseFileName {
		originalCopy := filepath.Join(ins.TargetDir, base)
		if err := copyFile(source, originalCopy); err != nil {
			return nil, fmt.Errorf("%w: copy license under original name: %v", apperrors.ErrInstallationFailed, err)
		}
		result.OriginalCopy = originalCopy
	}

	ins.Logger.Info("license installed",
		slog.String("source", source),
		slog.String("target", result.Target))
	return result, nil
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}
	return destFile.Sync()
}
