package hwid

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	apperrors "github.com/Turing-Drive/autodrive-license-client/internal/errors"
)

// Prober probes the fixed set of host identifier sources. The file system is
// addressed through a configurable root prefix so tests run against a fixture
// tree instead of the live host.
type Prober struct {
	root string

	// gpuTool runs the external GPU enumeration tool. Overridable in tests.
	gpuTool func() ([]byte, error)
}

// NewProber returns a prober reading the live host.
func NewProber() *Prober {
	return NewProberAt("/")
}

// NewProberAt returns a prober rooted at the given directory.
func NewProberAt(root string) *Prober {
	return &Prober{
		root: root,
		gpuTool: func() ([]byte, error) {
			return exec.Command("nvidia-smi", "-L").Output()
		},
	}
}

// WithGPUTool replaces the external GPU enumeration command, for tests and
// environments where nvidia-smi must not be invoked.
func (p *Prober) WithGPUTool(fn func() ([]byte, error)) *Prober {
	p.gpuTool = fn
	return p
}

// probe pairs a component kind with its reader. No reflection: the supported
// sources are a static table iterated in fixed order.
type probe struct {
	kind ComponentKind
	read func(*Prober) (string, error)
}

var probeTable = []probe{
	{KindBoardSerial, (*Prober).boardSerial},
	{KindCPUISA, (*Prober).cpuISA},
	{KindCPUSignature, (*Prober).cpuSignature},
	{KindCPUVendor, (*Prober).cpuVendor},
	{KindDMIUUID, (*Prober).dmiUUID},
	{KindFilesystemID, (*Prober).rootFilesystemID},
	{KindGPU, (*Prober).gpuUUIDs},
	{KindMachineID, (*Prober).machineID},
}

// Collect runs every probe and gathers the successes into a FingerprintSet.
// A probe failure means the source does not exist on this host and the
// component is omitted; only a host where every probe fails is an error.
func (p *Prober) Collect() (FingerprintSet, error) {
	var set FingerprintSet
	for _, pr := range probeTable {
		value, err := pr.read(p)
		if err != nil || value == "" {
			continue
		}
		set = append(set, Component{Kind: pr.kind, Value: value})
	}
	if len(set) == 0 {
		return nil, apperrors.ErrNoIdentifiersFound
	}
	return set, nil
}

func (p *Prober) path(rel string) string {
	return filepath.Join(p.root, rel)
}

var innerWhitespace = regexp.MustCompile(`\s+`)

// normalize canonicalizes a raw identifier value: trimmed, inner whitespace
// removed, lower-cased. Identical on every run regardless of locale.
func normalize(s string) string {
	return strings.ToLower(innerWhitespace.ReplaceAllString(strings.TrimSpace(s), ""))
}

// firstLine reads the first line of a file under the probe root, normalized.
func (p *Prober) firstLine(rel string) (string, error) {
	f, err := os.Open(p.path(rel))
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("hwid: %s is empty", rel)
	}
	value := normalize(scanner.Text())
	if value == "" {
		return "", fmt.Errorf("hwid: %s is empty", rel)
	}
	return value, nil
}

// boardSerial reads the DMI board serial, falling back to the board name on
// consumer hardware where vendors leave the serial field blank.
func (p *Prober) boardSerial() (string, error) {
	if value, err := p.firstLine("sys/class/dmi/id/board_serial"); err == nil {
		return value, nil
	}
	return p.firstLine("sys/class/dmi/id/board_name")
}

// dmiUUID reads the SMBIOS product UUID.
func (p *Prober) dmiUUID() (string, error) {
	return p.firstLine("sys/class/dmi/id/product_uuid")
}

// machineID reads the systemd machine id, falling back to the dbus location
// that some distributions use instead.
func (p *Prober) machineID() (string, error) {
	if value, err := p.firstLine("etc/machine-id"); err == nil {
		return value, nil
	}
	return p.firstLine("var/lib/dbus/machine-id")
}

// rootFilesystemID resolves the UUID of the filesystem mounted at /, by
// matching the root mount's device against the /dev/disk/by-uuid symlinks.
func (p *Prober) rootFilesystemID() (string, error) {
	device, err := p.rootDevice()
	if err != nil {
		return "", err
	}

	byUUID := p.path("dev/disk/by-uuid")
	entries, err := os.ReadDir(byUUID)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		target, err := os.Readlink(filepath.Join(byUUID, entry.Name()))
		if err != nil {
			continue
		}
		if filepath.Base(target) == filepath.Base(device) {
			return normalize(entry.Name()), nil
		}
	}
	return "", fmt.Errorf("hwid: no filesystem UUID for root device %s", device)
}

// rootDevice parses /proc/self/mounts for the device backing the root mount.
func (p *Prober) rootDevice() (string, error) {
	data, err := os.ReadFile(p.path("proc/self/mounts"))
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == "/" && strings.HasPrefix(fields[0], "/dev/") {
			return fields[0], nil
		}
	}
	return "", fmt.Errorf("hwid: root mount not found")
}
