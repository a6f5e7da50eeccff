// Package telemetry provides ive.Observer implementations for Prometheus
// metrics and OpenTelemetry tracing.
//
//	metrics := telemetry.NewMetrics(telemetry.WithRegistry(reg))
//	rt, err := ive.New(
//	    ive.WithObserver(metrics),
//	    ive.WithObserver(telemetry.NewTracing()),
//	)
//
// Both observers also implement ive.RouteObserver and count router
// resolutions by outcome.
package telemetry
