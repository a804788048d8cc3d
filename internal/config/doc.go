// Package config loads the salesreport run configuration.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources in increasing order of
// precedence:
//
//	1. Default() values
//	2. YAML file (salesreport.yaml, configs/salesreport.yaml or --config)
//	3. Environment variables prefixed with SALES_
//	4. Command-line flags applied by cmd/salesreport
//
// Validate must be called after all overrides are applied.
//
// # Environment Variables
//
//	SALES_INPUT_PATHS=2024.csv,2025.csv
//	SALES_CURRENT_YEAR=2025
//	SALES_LOGGING_LEVEL=debug
//	SALES_DOMAIN_EXPORT_MARKER=수출
//	SALES_THRESHOLDS_CASH_COW=3000000000
//
// Report outputs (the reports list) can only be set from the YAML file or flags.
//
// # Domain Rules
//
// Customer aliases, the export marker, dummy-row markers and insight
// thresholds live in DomainConfig and Thresholds so the same pipeline can
// serve other source datasets.
package config
