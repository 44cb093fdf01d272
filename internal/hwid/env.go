package hwid

import (
	"os"
	"strings"
)

// EnvSummary is the informational environment block of the request document.
// None of it participates in the fingerprint; it helps the issuer triage
// requests from unusual environments.
type EnvSummary struct {
	Uname        string `json:"uname"`
	InDockerHint bool   `json:"in_docker_hint"`
	GPUCount     int    `json:"gpu_count"`
}

// Environment builds the summary for a collected set.
func (p *Prober) Environment(set FingerprintSet) EnvSummary {
	return EnvSummary{
		Uname:        unameString(),
		InDockerHint: p.inDockerHint(),
		GPUCount:     GPUCount(set),
	}
}

// containerMarkers are cgroup substrings that indicate a container runtime.
var containerMarkers = []string{"docker", "containerd", "kubepods", "lxc"}

// inDockerHint is a best-effort container check: the Docker marker file or a
// container runtime named in the init process cgroup. Not authoritative and
// never security-relevant; it is recorded as a hint only.
func (p *Prober) inDockerHint() bool {
	if _, err := os.Stat(p.path(".dockerenv")); err == nil {
		return true
	}
	data, err := os.ReadFile(p.path("proc/1/cgroup"))
	if err != nil {
		return false
	}
	cgroup := string(data)
	for _, marker := range containerMarkers {
		if strings.Contains(cgroup, marker) {
			return true
		}
	}
	return false
}
