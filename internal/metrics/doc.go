// Package metrics provides render metrics for docmark.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection never needs nil checks:
//
//	recorder := metrics.NewPrometheusRecorder(registry)
//	handler := server.New(cfg, server.WithRecorder(recorder))
//
// The Prometheus implementation registers its collectors once per registry;
// HTTPHandler exposes them for scraping.
package metrics
