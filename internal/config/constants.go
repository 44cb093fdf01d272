package config

// Application constants for the AutoDrive license client.
const (
	AppName    = "AutoDrive License Client"
	AppVersion = "1.2.0"
	AppVendor  = "Turing Drive"

	// License request document
	RequestSchemaVersion = 1
	RequestFileName      = "license_request.json"

	// Canonical fingerprint encoding: components are joined with this
	// delimiter before hashing. Issuers recompute the digest the same way,
	// so this value must never change between releases.
	ComponentDelimiter = "\n"

	// Installed license layout
	LicenseFileName       = "license.json"
	LicenseFilePattern    = "license*.json"
	RequestFilePrefix     = "license_request"
	BackupTimestampFormat = "20060102150405"

	// Default install target read by AutoDrive at startup
	DefaultInstallDir = "/etc/autodrive"

	// Logging defaults (relative to the working directory)
	DefaultLogsDir     = "logs"
	DefaultLogFileName = "license-client.log"
)

// DefaultFeatures is requested when the operator does not name any.
var DefaultFeatures = []string{"AutoDrive"}
