package hwid

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// isaAllowlist is the subset of CPU feature flags that participate in the
// fingerprint. Restricting to a handful of widely reported ISA extensions
// keeps the value stable across kernel versions that expose new flags.
var isaAllowlist = map[string]bool{
	"sse2":    true,
	"sse4_2":  true,
	"avx":     true,
	"avx2":    true,
	"avx512f": true,
}

// cpuIdentity is the parsed first processor block of /proc/cpuinfo.
type cpuIdentity struct {
	vendor    string
	signature string // family-model-stepping
	isa       string // sorted subset of flags, comma-joined
}

// parseCPUInfo parses the first processor block. Vendor, family, model and
// stepping must all be present for the identity to count; a partially
// populated block (some virtualized environments) is treated as missing.
func (p *Prober) parseCPUInfo() (*cpuIdentity, error) {
	data, err := os.ReadFile(p.path("proc/cpuinfo"))
	if err != nil {
		return nil, err
	}

	var vendor, family, model, stepping, flags string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			break // end of first processor block
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.ToLower(innerWhitespace.ReplaceAllString(key, ""))
		value = strings.ToLower(strings.TrimSpace(value))
		switch key {
		case "vendor_id":
			vendor = innerWhitespace.ReplaceAllString(value, "")
		case "cpufamily":
			family = innerWhitespace.ReplaceAllString(value, "")
		case "model":
			model = innerWhitespace.ReplaceAllString(value, "")
		case "stepping":
			stepping = innerWhitespace.ReplaceAllString(value, "")
		case "flags", "features":
			flags = value
		}
	}

	if vendor == "" || family == "" || model == "" || stepping == "" {
		return nil, fmt.Errorf("hwid: incomplete cpuinfo identity")
	}

	var present []string
	seen := map[string]bool{}
	for _, flag := range strings.Fields(flags) {
		if isaAllowlist[flag] && !seen[flag] {
			present = append(present, flag)
			seen[flag] = true
		}
	}
	sort.Strings(present)

	return &cpuIdentity{
		vendor:    vendor,
		signature: fmt.Sprintf("%s-%s-%s", family, model, stepping),
		isa:       strings.Join(present, ","),
	}, nil
}

func (p *Prober) cpuVendor() (string, error) {
	id, err := p.parseCPUInfo()
	if err != nil {
		return "", err
	}
	return id.vendor, nil
}

func (p *Prober) cpuSignature() (string, error) {
	id, err := p.parseCPUInfo()
	if err != nil {
		return "", err
	}
	return id.signature, nil
}

func (p *Prober) cpuISA() (string, error) {
	id, err := p.parseCPUInfo()
	if err != nil {
		return "", err
	}
	if id.isa == "" {
		return "", fmt.Errorf("hwid: no fingerprintable ISA flags")
	}
	return id.isa, nil
}
