package hwid

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var gpuUUIDPattern = regexp.MustCompile(`(?i)UUID:\s*(GPU-[A-Za-z0-9\-]+)`)

// gpuUUIDs returns the unique NVIDIA GPU UUIDs of the host, sorted and joined
// with ";" into a single component value. The driver's procfs view is
// preferred; nvidia-smi is the fallback when procfs is not exposed (some
// container runtimes hide it while the tool still works).
func (p *Prober) gpuUUIDs() (string, error) {
	uuids := p.gpuUUIDsFromProc()
	if len(uuids) == 0 {
		uuids = p.gpuUUIDsFromTool()
	}
	if len(uuids) == 0 {
		return "", fmt.Errorf("hwid: no GPU UUID found")
	}

	seen := map[string]bool{}
	var unique []string
	for _, u := range uuids {
		if !seen[u] {
			unique = append(unique, u)
			seen[u] = true
		}
	}
	sort.Strings(unique)
	return strings.Join(unique, ";"), nil
}

func (p *Prober) gpuUUIDsFromProc() []string {
	base := p.path("proc/driver/nvidia/gpus")
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil
	}

	var uuids []string
	for _, entry := range entries {
		data, err := os.ReadFile(filepath.Join(base, entry.Name(), "information"))
		if err != nil {
			continue
		}
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.ToLower(strings.TrimSpace(line))
			if !strings.Contains(line, "gpu uuid:") {
				continue
			}
			if idx := strings.Index(line, "gpu-"); idx >= 0 {
				uuids = append(uuids, line[idx:])
			}
		}
	}
	return uuids
}

func (p *Prober) gpuUUIDsFromTool() []string {
	out, err := p.gpuTool()
	if err != nil {
		return nil
	}
	var uuids []string
	for _, line := range strings.Split(string(out), "\n") {
		if m := gpuUUIDPattern.FindStringSubmatch(line); m != nil {
			uuids = append(uuids, strings.ToLower(m[1]))
		}
	}
	return uuids
}

// GPUCount reports how many GPU UUIDs the collected set carries.
func GPUCount(set FingerprintSet) int {
	value, ok := set.Lookup(KindGPU)
	if !ok || value == "" {
		return 0
	}
	return len(strings.Split(value, ";"))
}
