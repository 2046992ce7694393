// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/rogiervandergeer/sgp30-driver/sgp30"
)

// coldStartSettle is how long the sensor must run without a restored
// baseline before its baseline is worth saving.
const coldStartSettle = 12 * time.Hour

// sensor is the part of *sgp30.Dev the monitor drives.
type sensor interface {
	Initialise(baseline *sgp30.Baseline) error
	Measure() (sgp30.Measurement, error)
	Baseline() (sgp30.Baseline, error)
	SetHumidity(gm3 float64) error
}

// display shows the latest measurement, e.g. *airbar.Dev.
type display interface {
	Show(m sgp30.Measurement) error
}

// recorder keeps a history, e.g. *trend.Chart.
type recorder interface {
	Add(m sgp30.Measurement)
	SavePNG(path string, w, h int) error
}

// monitor runs the measurement cadence and the baseline bookkeeping.
type monitor struct {
	dev     sensor
	store   *baselineStore
	metrics *metrics
	log     *log.Entry

	bar       display
	chart     recorder
	chartPath string
	// chartEvery is the number of measurements between chart renders.
	chartEvery int

	baselineInterval time.Duration
	now              func() time.Time

	started  time.Time
	restored bool
	lastSave time.Time
	ticks    int
}

// start initialises the sensor, restoring the stored baseline if any, and
// applies humidity compensation when humidity is not negative.
func (m *monitor) start(humidity float64) error {
	now := m.now()
	b, err := m.store.load(now)
	if err != nil {
		m.log.WithError(err).Warn("ignoring stored baseline")
		b = nil
	}
	if err := m.dev.Initialise(b); err != nil {
		return errors.Wrap(err, "initialising sensor")
	}
	m.started = now
	m.lastSave = now
	m.restored = b != nil
	if m.restored {
		m.log.WithField("baseline", b.String()).Info("restored baseline")
	} else {
		m.log.Info("no baseline stored, expect up to 20s of warm-up")
	}
	if humidity >= 0 {
		if err := m.dev.SetHumidity(humidity); err != nil {
			return errors.Wrap(err, "setting humidity")
		}
		m.metrics.humidity.Set(humidity)
		m.log.WithField("gm3", humidity).Info("humidity compensation enabled")
	}
	return nil
}

// tick performs one measurement and, when due, saves the baseline.
func (m *monitor) tick() {
	v, err := m.dev.Measure()
	if err != nil {
		m.metrics.countError(err)
		m.log.WithError(err).Warn("measurement failed")
		return
	}
	m.metrics.observe(v)
	m.log.WithFields(log.Fields{"eco2": v.CO2, "tvoc": v.TVOC}).Debug("measured")
	if m.bar != nil {
		if err := m.bar.Show(v); err != nil {
			m.log.WithError(err).Debug("bar")
		}
	}
	m.ticks++
	if m.chart != nil {
		m.chart.Add(v)
		if m.chartPath != "" && m.chartEvery > 0 && m.ticks%m.chartEvery == 0 {
			if err := m.chart.SavePNG(m.chartPath, 250, 122); err != nil {
				m.log.WithError(err).Warn("writing chart")
			}
		}
	}
	if m.baselineDue() {
		m.saveBaseline()
	}
}

// baselineSettled reports whether the running baseline is worth keeping. It
// is false until start succeeded.
func (m *monitor) baselineSettled() bool {
	if m.started.IsZero() {
		return false
	}
	return m.restored || m.now().Sub(m.started) >= coldStartSettle
}

func (m *monitor) baselineDue() bool {
	return m.baselineSettled() && m.now().Sub(m.lastSave) >= m.baselineInterval
}

func (m *monitor) saveBaseline() {
	b, err := m.dev.Baseline()
	if err != nil {
		m.metrics.countError(err)
		m.log.WithError(err).Warn("reading baseline")
		return
	}
	m.metrics.observeBaseline(b)
	now := m.now()
	if err := m.store.save(b, now); err != nil {
		m.log.WithError(err).Error("saving baseline")
		return
	}
	m.lastSave = now
	m.log.WithField("baseline", b.String()).Info("saved baseline")
}

// run measures every interval until ctx is done, then saves the baseline a
// last time if it has settled.
func (m *monitor) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.tick()
		case <-ctx.Done():
			if m.baselineSettled() {
				m.saveBaseline()
			}
			return
		}
	}
}
