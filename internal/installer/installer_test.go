package installer

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Turing-Drive/autodrive-license-client/internal/config"
	apperrors "github.com/Turing-Drive/autodrive-license-client/internal/errors"
	"github.com/Turing-Drive/autodrive-license-client/internal/shared/testutil"
)

func writeLicense(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newTestInstaller(t *testing.T, target string, prompter Prompter) *Installer {
	t.Helper()
	logger := slog.New(testutil.NewBufferedSlogHandler(t))
	ins := New(target, prompter, logger)
	ins.now = func() time.Time {
		return time.Date(2026, 8, 27, 10, 30, 0, 0, time.UTC)
	}
	return ins
}

func TestFindCandidates(t *testing.T) {
	dir := t.TempDir()
	writeLicense(t, dir, "license-acme.json", "{}")
	writeLicense(t, dir, "license.json", "{}")
	writeLicense(t, dir, "license_request.json", "{}")
	writeLicense(t, dir, "notes.txt", "")

	candidates, err := FindCandidates(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "license-acme.json"),
		filepath.Join(dir, "license.json"),
	}, candidates)
}

// TestFindCandidatesNeverSelectsRequestFile covers the critical exclusion:
// a request document is not an installable license even when it is the only
// license*.json in the directory.
func TestFindCandidatesNeverSelectsRequestFile(t *testing.T) {
	dir := t.TempDir()
	writeLicense(t, dir, "license_request.json", "{}")
	writeLicense(t, dir, "license_request-84193735d5b2.json", "{}")

	candidates, err := FindCandidates(dir)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestInstallNoLicenseFound(t *testing.T) {
	ins := newTestInstaller(t, t.TempDir(), &ScriptedPrompter{})

	_, err := ins.Install(t.TempDir())
	assert.ErrorIs(t, err, apperrors.ErrNoLicenseFound)
}

// TestInstallDefaultAnswerDeclines verifies the safe default: a prompter
// returning the empty-input answer (false) aborts before any mutation.
func TestInstallDefaultAnswerDeclines(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(t.TempDir(), "autodrive")
	writeLicense(t, dir, "license-acme.json", "{}")

	ins := newTestInstaller(t, target, &ScriptedPrompter{Confirms: []bool{false}})

	_, err := ins.Install(dir)
	require.ErrorIs(t, err, apperrors.ErrUserAborted)

	_, statErr := os.Stat(target)
	assert.True(t, os.IsNotExist(statErr), "declined install must not create the target directory")
}

func TestInstallSingleCandidate(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(t.TempDir(), "autodrive")
	writeLicense(t, dir, "license-acme.json", `{"issued":"yes"}`)

	ins := newTestInstaller(t, target, &ScriptedPrompter{Confirms: []bool{true}})

	result, err := ins.Install(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(target, config.LicenseFileName), result.Target)
	assert.Empty(t, result.BackupPath)

	installed, err := os.ReadFile(result.Target)
	require.NoError(t, err)
	assert.Equal(t, `{"issued":"yes"}`, string(installed))

	// Traceability copy under the original upload name.
	require.Equal(t, filepath.Join(target, "license-acme.json"), result.OriginalCopy)
	original, err := os.ReadFile(result.OriginalCopy)
	require.NoError(t, err)
	assert.Equal(t, `{"issued":"yes"}`, string(original))
}

func TestInstallMultipleCandidatesUseSelection(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(t.TempDir(), "autodrive")
	writeLicense(t, dir, "license-a.json", "aaa")
	writeLicense(t, dir, "license-b.json", "bbb")

	ins := newTestInstaller(t, target, &ScriptedPrompter{
		Selections: []int{1},
		Confirms:   []bool{true},
	})

	result, err := ins.Install(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "license-b.json"), result.Source)

	installed, err := os.ReadFile(result.Target)
	require.NoError(t, err)
	assert.Equal(t, "bbb", string(installed))
}

// TestInstallTwiceBacksUpPrevious runs the installer twice and verifies the
// second run leaves exactly one license.json plus a backup whose content is
// the license as of immediately before the second run.
func TestInstallTwiceBacksUpPrevious(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(t.TempDir(), "autodrive")
	writeLicense(t, dir, "license-acme.json", "first issue")

	first := newTestInstaller(t, target, &ScriptedPrompter{Confirms: []bool{true}})
	_, err := first.Install(dir)
	require.NoError(t, err)

	// The issuer re-sends; the file in the working directory changes.
	writeLicense(t, dir, "license-acme.json", "second issue")

	second := newTestInstaller(t, target, &ScriptedPrompter{Confirms: []bool{true}})
	second.now = func() time.Time {
		return time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	}
	result, err := second.Install(dir)
	require.NoError(t, err)

	require.Equal(t, filepath.Join(target, "license.json.bak-20260828090000"), result.BackupPath)
	backup, err := os.ReadFile(result.BackupPath)
	require.NoError(t, err)
	assert.Equal(t, "first issue", string(backup))

	installed, err := os.ReadFile(result.Target)
	require.NoError(t, err)
	assert.Equal(t, "second issue", string(installed))

	entries, err := os.ReadDir(target)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{
		"license.json",
		"license.json.bak-20260828090000",
		"license-acme.json",
	}, names)
}

func TestInstallCopyFailureSurfaced(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(t.TempDir(), "autodrive")
	// A directory matching the license pattern: selection succeeds, the
	// copy fails, and the failure is surfaced rather than retried.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "license-broken.json"), 0755))

	ins := newTestInstaller(t, target, &ScriptedPrompter{Confirms: []bool{true}})

	_, err := ins.Install(dir)
	assert.ErrorIs(t, err, apperrors.ErrInstallationFailed)
}

func TestInstallSourceAlreadyCanonicalName(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(t.TempDir(), "autodrive")
	writeLicense(t, dir, "license.json", "issued")

	ins := newTestInstaller(t, target, &ScriptedPrompter{Confirms: []bool{true}})

	result, err := ins.Install(dir)
	require.NoError(t, err)
	assert.Empty(t, result.OriginalCopy, "no duplicate copy when the upload is already named license.json")

	entries, err := os.ReadDir(target)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
