/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/friendsincode/zoneshift/internal/planner"
	"github.com/friendsincode/zoneshift/internal/telemetry"
	"github.com/friendsincode/zoneshift/internal/version"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-plan from the stored roster on an interval",
	Long:  "Run the planner loop against the stored roster and zone layout, serving metrics until interrupted",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	logger.Info().Str("version", version.Version).Msg("Zoneshift watch starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracerProvider, err := telemetry.InitTracer(ctx, telemetry.TracerConfig{
		ServiceName:    "zoneshift",
		ServiceVersion: version.Version,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.TracingEnabled,
		SampleRate:     cfg.TracingSampleRate,
	}, logger)
	if err != nil {
		return fmt.Errorf("initialize tracer: %w", err)
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown tracer provider")
		}
	}()

	database, err := initDatabase()
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}

	zones, err := loadZoneConfig("")
	if err != nil {
		return err
	}

	svc := planner.New(database, zones, cfg.SlotMinutes, logger)

	// First plan immediately; the loop takes over from there.
	if _, err := svc.PlanFromStore(ctx); err != nil {
		logger.Warn().Err(err).Msg("initial planning run failed")
	}

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info().Str("bind", cfg.MetricsBind).Msg("metrics listening")
		return telemetry.ServeMetrics(gctx, cfg.MetricsBind)
	})

	group.Go(func() error {
		return svc.Watch(gctx, cfg.PlanInterval)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info().Msg("Zoneshift watch stopped")
	return nil
}
