/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// PlanRunsTotal counts completed assignment runs.
	PlanRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "zoneshift_plan_runs_total",
		Help: "Total number of completed assignment runs.",
	})

	// PlanErrorsTotal counts failed assignment runs by stage.
	PlanErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zoneshift_plan_errors_total",
		Help: "Total number of failed assignment runs by stage.",
	}, []string{"stage"})

	// PlanBuildDuration observes wall time per assignment run.
	PlanBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "zoneshift_plan_build_duration_seconds",
		Help:    "Time spent building one schedule.",
		Buckets: prometheus.DefBuckets,
	})

	// UnstaffedSlots reports the unstaffed cell count of the last run.
	UnstaffedSlots = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "zoneshift_unstaffed_slots",
		Help: "Zone/slot cells left unstaffed by the most recent run.",
	})

	// ZoneCoverage reports the staffed fraction of the last run's grid.
	ZoneCoverage = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "zoneshift_zone_coverage_ratio",
		Help: "Fraction of zone/slot cells staffed by the most recent run.",
	})
)

// Handler exposes the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ServeMetrics runs a metrics listener until the context is cancelled.
func ServeMetrics(ctx context.Context, bind string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())

	srv := &http.Server{Addr: bind, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
