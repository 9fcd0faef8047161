//go:build linux

package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/ja7ad/emission/pkg/consumption"
	"github.com/ja7ad/emission/pkg/emissions"
	"github.com/ja7ad/emission/pkg/system/proc"
	"github.com/ja7ad/emission/pkg/system/util"
	"github.com/ja7ad/emission/pkg/units"
)

func (a *app) run(ctx context.Context, args []string) error {
	pids, err := util.ParsePIDs(args)
	if err != nil {
		return err
	}
	if len(pids) == 0 {
		return fmt.Errorf("no PIDs provided")
	}
	if err := a.validate(); err != nil {
		return err
	}
	backend, err := proc.ParseBackend(a.backend)
	if err != nil {
		return err
	}
	if a.tree {
		pids = proc.ExpandTree(pids, a.log)
	}

	intensity, region, err := a.pricing()
	if err != nil {
		return fmt.Errorf("pricing: %w", err)
	}
	a.log.Info().
		Ints("pids", pids).
		Str("region", region).
		Str("backend", string(backend)).
		Float64("kg_per_kwh", intensity.KilogramsPerKilowattHour()).
		Dur("interval", a.interval).
		Msg("sampling")

	acc := consumption.New(&a.model)
	col, err := proc.NewCollector(backend, a.ema, a.log)
	if err != nil {
		return fmt.Errorf("collector: %w", err)
	}
	defer func() {
		if err := col.Close(); err != nil {
			a.log.Warn().Err(err).Msg("close collector")
		}
	}()
	procs := describe(pids)

	out, err := newOutput(a.opts)
	if err != nil {
		return err
	}
	defer out.close(a.log)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	tracker := emissions.NewTracker(intensity, time.Now())
	dt := units.TimeFromDuration(a.interval)
	sampleN := 0

loop:
	for {
		select {
		case <-ctx.Done():
			a.log.Info().Msg("interrupted")
			break loop

		case now := <-ticker.C:
			snap, err := col.Sample(pids, dt)
			if errors.Is(err, proc.ErrAllExited) {
				a.log.Info().Msg("all PIDs exited")
				break loop
			}
			if err != nil {
				a.log.Warn().Err(err).Msg("sample error")
				continue
			}

			sampleN++
			if sampleN <= a.warmup {
				continue
			}

			res, window := acc.Apply(snap)
			tracker.Add(window, snap.Interval)
			if err := out.row(newRow(now, snap, res, window, tracker)); err != nil {
				a.log.Error().Err(err).Msg("write row")
			}

			if a.samples > 0 && sampleN-a.warmup >= a.samples {
				break loop
			}
		}
	}

	rep := tracker.Report(emissions.Labels{
		ExperimentID: a.experimentID,
		ProjectID:    a.projectID,
		Region:       region,
	})
	avg := acc.Averages()
	out.summary(rep, avg)
	return out.finish(rep, avg, procs)
}
