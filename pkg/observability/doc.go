// Package observability provides logging, Prometheus metrics, health checks and graceful shutdown.
//
// # Logging
//
// Create a logger from configuration. With a file set, output rotates through lumberjack:
//
//	log, closer, err := observability.NewLogger(observability.LogConfig{
//		Level: "debug",
//		File:  "/var/log/addon-check/debug.log",
//	})
//	defer closer.Close()
//
// # Prometheus Metrics
//
// Metrics are registered on an explicit registry:
//
//	metrics := observability.NewMetrics(prometheus.NewRegistry())
//	metrics.RecordCheck("leia", time.Since(start), rep.Summary())
//
// One-shot CLI runs write them for the node_exporter textfile collector:
//
//	metrics.WriteToTextfile("/var/lib/node_exporter/addon_check.prom")
//
// Servers expose them over HTTP:
//
//	router.Handle("/metrics", metrics.Handler())
//	router.Use(observability.HTTPMetricsMiddleware(metrics))
//
// # Health Checks
//
//	health := observability.NewHealthChecker(version)
//	health.Register("repository", func(ctx context.Context) error { ... })
//	router.Handle("/healthz", health)
package observability
