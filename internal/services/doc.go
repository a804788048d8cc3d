// Package services wires the pipeline packages into a report run.
//
// ReportService.Run resolves the configured inputs, loads and normalizes the
// records, renders every configured report in memory and then writes all
// outputs at once. A run either writes every output or none of them.
//
//	svc := services.NewReportService(cfg, logger)
//	summary, err := svc.Run(ctx)
package services
