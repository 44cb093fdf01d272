// Package hwid collects hardware identifiers from the host and derives the
// stable machine fingerprint that license requests are bound to.
//
// Each identifier source is an independently failable probe; sources that do
// not exist on a given host (no DMI table in a container, no NVIDIA driver)
// are skipped rather than reported as errors, because licensing must work
// across heterogeneous hardware. MAC addresses are deliberately not used:
// they are trivially changed and are not a meaningful hardware anchor.
//
// The fingerprint is the SHA-256 digest of the collected "kind:value"
// components sorted by a fixed kind order and joined with newlines, so an
// issuer can recompute it from the component list in the request document.
package hwid
