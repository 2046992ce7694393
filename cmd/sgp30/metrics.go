// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rogiervandergeer/sgp30-driver/sgp30"
)

// metrics exposed to Prometheus.
type metrics struct {
	reg          *prometheus.Registry
	eco2         prometheus.Gauge
	tvoc         prometheus.Gauge
	baselineCO2  prometheus.Gauge
	baselineTVOC prometheus.Gauge
	humidity     prometheus.Gauge
	warmingUp    prometheus.Gauge
	errors       *prometheus.CounterVec
}

func newGauge(name, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sgp30",
		Name:      name,
		Help:      help,
	})
}

func newMetrics() *metrics {
	m := &metrics{
		reg:          prometheus.NewRegistry(),
		eco2:         newGauge("eco2_ppm", "Equivalent CO2 (units: ppm)"),
		tvoc:         newGauge("tvoc_ppb", "Total volatile organic compounds (units: ppb)"),
		baselineCO2:  newGauge("baseline_eco2", "Raw eCO2 baseline of the compensation algorithm"),
		baselineTVOC: newGauge("baseline_tvoc", "Raw TVOC baseline of the compensation algorithm"),
		humidity:     newGauge("absolute_humidity", "Absolute humidity used for compensation (units: g/m3)"),
		warmingUp:    newGauge("warming_up", "1 while the sensor reports its fixed start-up values"),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sgp30",
			Name:      "errors_total",
			Help:      "Failed sensor commands by kind",
		}, []string{"kind"}),
	}
	m.reg.MustRegister(m.eco2, m.tvoc, m.baselineCO2, m.baselineTVOC, m.humidity, m.warmingUp, m.errors)
	m.reg.MustRegister(collectors.NewBuildInfoCollector(), collectors.NewGoCollector())
	return m
}

func (m *metrics) observe(v sgp30.Measurement) {
	m.eco2.Set(float64(v.CO2))
	m.tvoc.Set(float64(v.TVOC))
	if v.WarmingUp() {
		m.warmingUp.Set(1)
	} else {
		m.warmingUp.Set(0)
	}
}

func (m *metrics) observeBaseline(b sgp30.Baseline) {
	m.baselineCO2.Set(float64(b.CO2))
	m.baselineTVOC.Set(float64(b.TVOC))
}

// countError classifies err and increments the matching counter.
func (m *metrics) countError(err error) {
	m.errors.WithLabelValues(errorKind(err)).Inc()
}

func errorKind(err error) string {
	var te *sgp30.TransportError
	switch {
	case errors.Is(err, sgp30.ErrChecksum):
		return "checksum"
	case errors.As(err, &te):
		return "transport"
	case errors.Is(err, sgp30.ErrNotInitialized):
		return "state"
	default:
		return "other"
	}
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{
		// Opt into OpenMetrics to support exemplars.
		EnableOpenMetrics: true,
	})
}
