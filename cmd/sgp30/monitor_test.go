// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rogiervandergeer/sgp30-driver/sgp30"
)

type mockSensor struct {
	mock.Mock
}

var _ sensor = (*mockSensor)(nil)

func (s *mockSensor) Initialise(b *sgp30.Baseline) error {
	return s.Called(b).Error(0)
}

func (s *mockSensor) Measure() (sgp30.Measurement, error) {
	args := s.Called()
	return args.Get(0).(sgp30.Measurement), args.Error(1)
}

func (s *mockSensor) Baseline() (sgp30.Baseline, error) {
	args := s.Called()
	return args.Get(0).(sgp30.Baseline), args.Error(1)
}

func (s *mockSensor) SetHumidity(gm3 float64) error {
	return s.Called(gm3).Error(0)
}

type fakeDisplay struct {
	shown []sgp30.Measurement
}

func (f *fakeDisplay) Show(m sgp30.Measurement) error {
	f.shown = append(f.shown, m)
	return nil
}

type fakeRecorder struct {
	added []sgp30.Measurement
	saves int
}

func (f *fakeRecorder) Add(m sgp30.Measurement) {
	f.added = append(f.added, m)
}

func (f *fakeRecorder) SavePNG(path string, w, h int) error {
	f.saves++
	return nil
}

// clock is a manually advanced time source.
type clock struct {
	t time.Time
}

func (c *clock) now() time.Time {
	return c.t
}

func newMonitor(t *testing.T, dev sensor) (*monitor, *clock, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	c := &clock{t: time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)}
	m := &monitor{
		dev:              dev,
		store:            &baselineStore{path: filepath.Join(t.TempDir(), "baseline.json")},
		metrics:          newMetrics(),
		log:              logrus.NewEntry(logger),
		baselineInterval: time.Hour,
		now:              c.now,
		started:          c.t,
		lastSave:         c.t,
	}
	return m, c, hook
}

func TestStartRestoresBaseline(t *testing.T) {
	dev := &mockSensor{}
	m, c, _ := newMonitor(t, dev)
	stored := sgp30.Baseline{CO2: 0x8f3a, TVOC: 0x9021}
	require.NoError(t, m.store.save(stored, c.t.Add(-time.Hour)))

	dev.On("Initialise", mock.MatchedBy(func(b *sgp30.Baseline) bool {
		return b != nil && *b == stored
	})).Return(nil)
	dev.On("SetHumidity", 11.5).Return(nil)

	require.NoError(t, m.start(11.5))
	assert.True(t, m.restored)
	assert.Equal(t, 11.5, testutil.ToFloat64(m.metrics.humidity))
	dev.AssertExpectations(t)

	// A restored baseline is saved again after baselineInterval.
	dev.On("Measure").Return(sgp30.Measurement{CO2: 450, TVOC: 3}, nil)
	dev.On("Baseline").Return(sgp30.Baseline{CO2: 1, TVOC: 2}, nil).Once()
	m.tick()
	dev.AssertNotCalled(t, "Baseline")
	c.t = c.t.Add(time.Hour)
	m.tick()
	dev.AssertNumberOfCalls(t, "Baseline", 1)

	b, err := m.store.load(c.t)
	require.NoError(t, err)
	assert.Equal(t, sgp30.Baseline{CO2: 1, TVOC: 2}, *b)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.metrics.baselineCO2))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.metrics.baselineTVOC))
}

func TestStartColdWaitsBeforeSaving(t *testing.T) {
	dev := &mockSensor{}
	m, c, _ := newMonitor(t, dev)
	dev.On("Initialise", (*sgp30.Baseline)(nil)).Return(nil)
	dev.On("Measure").Return(sgp30.Measurement{CO2: 400}, nil)
	dev.On("Baseline").Return(sgp30.Baseline{CO2: 5, TVOC: 6}, nil)

	require.NoError(t, m.start(-1))
	assert.False(t, m.restored)
	dev.AssertNotCalled(t, "SetHumidity", mock.Anything)

	c.t = c.t.Add(2 * time.Hour)
	m.tick()
	dev.AssertNotCalled(t, "Baseline")

	c.t = c.t.Add(coldStartSettle)
	m.tick()
	dev.AssertNumberOfCalls(t, "Baseline", 1)
}

func TestStartInitFailure(t *testing.T) {
	dev := &mockSensor{}
	m, _, _ := newMonitor(t, dev)
	dev.On("Initialise", mock.Anything).Return(&sgp30.TransportError{Command: "init_air_quality", Err: errors.New("nack")})
	err := m.start(-1)
	var te *sgp30.TransportError
	assert.ErrorAs(t, err, &te)
}

func TestTickError(t *testing.T) {
	dev := &mockSensor{}
	m, _, hook := newMonitor(t, dev)
	dev.On("Measure").Return(sgp30.Measurement{}, &sgp30.ChecksumError{Command: "measure_air_quality", Word: 1})
	m.tick()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.metrics.errors.WithLabelValues("checksum")))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestTickOutputs(t *testing.T) {
	dev := &mockSensor{}
	m, _, _ := newMonitor(t, dev)
	bar := &fakeDisplay{}
	chart := &fakeRecorder{}
	m.bar = bar
	m.chart = chart
	m.chartPath = "chart.png"
	m.chartEvery = 2
	dev.On("Measure").Return(sgp30.Measurement{CO2: 700, TVOC: 80}, nil)

	for range 4 {
		m.tick()
	}
	assert.Len(t, bar.shown, 4)
	assert.Len(t, chart.added, 4)
	assert.Equal(t, 2, chart.saves)
	assert.Equal(t, 700.0, testutil.ToFloat64(m.metrics.eco2))
}

func TestTickBeforeStartKeepsBaseline(t *testing.T) {
	dev := &mockSensor{}
	m, c, _ := newMonitor(t, dev)
	m.started = time.Time{}
	m.lastSave = time.Time{}
	dev.On("Measure").Return(sgp30.Measurement{CO2: 420, TVOC: 1}, nil)

	c.t = c.t.Add(2 * coldStartSettle)
	m.tick()
	assert.False(t, m.baselineSettled())
	dev.AssertNotCalled(t, "Baseline")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m.run(ctx, time.Hour)
	dev.AssertNotCalled(t, "Baseline")
}

func TestRunSavesOnShutdown(t *testing.T) {
	dev := &mockSensor{}
	m, _, _ := newMonitor(t, dev)
	m.restored = true
	dev.On("Baseline").Return(sgp30.Baseline{CO2: 9, TVOC: 8}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m.run(ctx, time.Hour)
	dev.AssertNumberOfCalls(t, "Baseline", 1)
}

func TestCompensationHumidity(t *testing.T) {
	assert.Equal(t, 8.0, compensationHumidity(8, 0, -1))
	assert.Equal(t, -1.0, compensationHumidity(-1, 25, -1))
	assert.InDelta(t, 11.5, compensationHumidity(-1, 25, 50), 0.1)
}
