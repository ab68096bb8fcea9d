// Package metrics provides build and HTTP metrics for the site builder.
//
// Components receive a Recorder through dependency injection. NoopRecorder is
// the default and does nothing, so callers never check for nil:
//
//	rec := metrics.Recorder(metrics.NoopRecorder{})
//	if cfg.Metrics.Enabled {
//	    reg := prom.NewRegistry()
//	    rec = metrics.NewPrometheusRecorder(reg)
//	    mux.Handle("/metrics", metrics.HTTPHandler(reg))
//	}
package metrics
