package hwid

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/Turing-Drive/autodrive-license-client/internal/config"
)

// ComponentKind tags a hardware identifier source. The set is open but
// bounded per supported platform; unknown kinds sort after the registered
// ones so older issuers can still recompute digests for newer clients.
type ComponentKind string

const (
	KindBoardSerial  ComponentKind = "brd"
	KindCPUISA       ComponentKind = "cpui"
	KindCPUSignature ComponentKind = "cpus"
	KindCPUVendor    ComponentKind = "cpuv"
	KindDMIUUID      ComponentKind = "dmi"
	KindFilesystemID ComponentKind = "fs"
	KindGPU          ComponentKind = "gpu"
	KindMachineID    ComponentKind = "mid"
)

// kindPriority fixes the canonical component ordering. The table order is
// also lexicographic over the tags, so an issuer that plain-sorts the
// "kind:value" strings arrives at the same sequence.
var kindPriority = map[ComponentKind]int{
	KindBoardSerial:  0,
	KindCPUISA:       1,
	KindCPUSignature: 2,
	KindCPUVendor:    3,
	KindDMIUUID:      4,
	KindFilesystemID: 5,
	KindGPU:          6,
	KindMachineID:    7,
}

// Component is a single tagged hardware identifier.
type Component struct {
	Kind  ComponentKind
	Value string
}

// String renders the wire form used in the request document.
func (c Component) String() string {
	return string(c.Kind) + ":" + c.Value
}

// FingerprintSet is an ordered sequence of components. Canonical ordering is
// by kind priority, not collection order, so two runs on the same host feed
// byte-identical input to the hash.
type FingerprintSet []Component

// Canonical returns the components in canonical order as "kind:value" strings.
func (s FingerprintSet) Canonical() []string {
	sorted := make(FingerprintSet, len(s))
	copy(sorted, s)
	sort.SliceStable(sorted, func(i, j int) bool {
		pi, iKnown := kindPriority[sorted[i].Kind]
		pj, jKnown := kindPriority[sorted[j].Kind]
		switch {
		case iKnown && jKnown:
			return pi < pj
		case iKnown:
			return true
		case jKnown:
			return false
		default:
			return sorted[i].Kind < sorted[j].Kind
		}
	})

	out := make([]string, len(sorted))
	for i, c := range sorted {
		out[i] = c.String()
	}
	return out
}

// Fingerprint computes the SHA-256 digest of the canonical component list,
// as a lowercase hex string.
func (s FingerprintSet) Fingerprint() string {
	joined := strings.Join(s.Canonical(), config.ComponentDelimiter)
	sum := sha256.Sum256([]byte(joined))
	return hex.EncodeToString(sum[:])
}

// Lookup returns the value of the component with the given kind, if present.
func (s FingerprintSet) Lookup(kind ComponentKind) (string, bool) {
	for _, c := range s {
		if c.Kind == kind {
			return c.Value, true
		}
	}
	return "", false
}
