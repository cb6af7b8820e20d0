// Package metrics records render metrics.
//
// Components receive a Recorder and default to NoopRecorder, so metrics code
// never needs nil checks. When a site configures metrics_file, the CLI swaps
// in a PrometheusRecorder backed by its own registry and writes the registry
// to a node_exporter textfile after every render pass:
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	r := render.New(site, render.WithRecorder(rec))
//	...
//	err := metrics.WriteTextfile(site.MetricsFile(), reg)
package metrics
