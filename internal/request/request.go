// Package request builds and serializes the license request document sent
// to the issuer. The document is immutable once written and is never read
// back by this client.
package request

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Turing-Drive/autodrive-license-client/internal/config"
	apperrors "github.com/Turing-Drive/autodrive-license-client/internal/errors"
	"github.com/Turing-Drive/autodrive-license-client/internal/hwid"
)

// Document is the license request record.
//
// Invariant: HWIDSHA256 is always the SHA-256 hex digest of the canonical
// newline join of HWIDComponents, so the issuer can recompute it from the
// component list and detect a tampered list without any key material.
type Document struct {
	Version        int             `json:"version" validate:"required,min=1"`
	Timestamp      int64           `json:"timestamp" validate:"required"`
	Customer       string          `json:"customer" validate:"required"`
	Features       []string        `json:"features" validate:"required,min=1,dive,required"`
	HWIDComponents []string        `json:"hwid_components" validate:"required,min=1"`
	HWIDSHA256     string          `json:"hwid_sha256" validate:"required,len=64,hexadecimal,lowercase"`
	Env            hwid.EnvSummary `json:"env"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Build assembles a request document from a collected fingerprint set.
// The customer label is required; features default to config.DefaultFeatures
// and are stored sorted and de-duplicated.
func Build(customer string, features []string, set hwid.FingerprintSet, env hwid.EnvSummary) (*Document, error) {
	customer = strings.TrimSpace(customer)
	if customer == "" {
		return nil, apperrors.ErrInvalidCustomer
	}

	if len(features) == 0 {
		features = config.DefaultFeatures
	}
	features = sortedUnique(features)

	doc := &Document{
		Version:        config.RequestSchemaVersion,
		Timestamp:      time.Now().Unix(),
		Customer:       customer,
		Features:       features,
		HWIDComponents: set.Canonical(),
		HWIDSHA256:     set.Fingerprint(),
		Env:            env,
	}

	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("request validation failed: %w", err)
	}
	return doc, nil
}

// Write serializes the document as compact JSON to path, overwriting any
// previous file. The request is an artifact, not a credential, so no backup
// is taken.
func (d *Document) Write(path string) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write request file: %w", err)
	}
	return nil
}

func sortedUnique(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		out = append(out, v)
		seen[v] = true
	}
	sort.Strings(out)
	return out
}
