// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// sgp30 reads an SGP30 air quality sensor once a second and exposes the
// readings as Prometheus metrics. It keeps the sensor baseline in a file so a
// restart does not need a new calibration period.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/rogiervandergeer/sgp30-driver/airbar"
	"github.com/rogiervandergeer/sgp30-driver/sgp30"
	"github.com/rogiervandergeer/sgp30-driver/trend"
)

// CLI args
var (
	busName          = flag.String("bus", "", "I²C bus to use, empty for the first one")
	addr             = flag.Uint("addr", uint(sgp30.DefaultAddress), "I²C address of the sensor")
	listenAddr       = flag.String("listen-address", ":8080", "The address to listen on for HTTP requests; empty disables the exporter")
	interval         = flag.Duration("interval", time.Second, "time between measurements; the baseline algorithm expects 1s")
	baselinePath     = flag.String("baseline-file", "", "file to load the baseline from and save it to")
	baselineInterval = flag.Duration("baseline-interval", time.Hour, "time between baseline saves")
	baselineMaxAge   = flag.Duration("baseline-max-age", 7*24*time.Hour, "ignore stored baselines older than this")
	humidity         = flag.Float64("humidity", -1, "absolute humidity in g/m3 for compensation; negative disables")
	temperature      = flag.Float64("temperature", 0, "temperature in °C, used with -rh to compute the absolute humidity")
	relHumidity      = flag.Float64("rh", -1, "relative humidity in %, used with -temperature")
	selfTest         = flag.Bool("selftest", false, "run the on-chip self test before initialising")
	showBar          = flag.Bool("bar", false, "draw a colored bar on the terminal")
	chartPath        = flag.String("chart", "", "write a PNG trend chart to this path")
	chartPoints      = flag.Int("chart-points", 300, "number of measurements in the trend chart")
	verbose          = flag.Bool("v", false, "log every measurement")
)

func init() {
	formatter := &log.TextFormatter{
		FullTimestamp: true,
	}
	log.SetFormatter(formatter)
}

func main() {
	flag.Parse()
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	if err := mainImpl(); err != nil {
		log.Fatal(err)
	}
}

// compensationHumidity returns the absolute humidity selected by the flags,
// or -1 if compensation is disabled.
func compensationHumidity(gm3, celsius, rh float64) float64 {
	if gm3 >= 0 {
		return gm3
	}
	if rh < 0 {
		return -1
	}
	t := physic.ZeroCelsius + physic.Temperature(celsius*float64(physic.Kelvin))
	return sgp30.AbsoluteHumidity(t, physic.RelativeHumidity(rh*float64(physic.PercentRH)))
}

// checkFlags rejects flag values that would otherwise be truncated or make
// the measurement loop panic.
func checkFlags(addr uint, interval, baselineInterval time.Duration) error {
	if addr > 0x7f {
		return errors.Errorf("-addr 0x%x is not a 7 bit I²C address", addr)
	}
	if interval <= 0 {
		return errors.Errorf("-interval must be positive, got %s", interval)
	}
	if baselineInterval <= 0 {
		return errors.Errorf("-baseline-interval must be positive, got %s", baselineInterval)
	}
	return nil
}

func mainImpl() error {
	if err := checkFlags(*addr, *interval, *baselineInterval); err != nil {
		return err
	}
	if _, err := host.Init(); err != nil {
		return errors.Wrap(err, "initialising host")
	}
	bus, err := i2creg.Open(*busName)
	if err != nil {
		return errors.Wrap(err, "opening i2c bus")
	}
	defer bus.Close()

	dev, err := sgp30.NewI2C(bus, uint16(*addr))
	if err != nil {
		return err
	}
	logger := log.WithField("dev", dev.String())

	sn, err := dev.SerialNumber()
	if err != nil {
		return errors.Wrap(err, "reading serial number")
	}
	fs, err := dev.FeatureSet()
	if err != nil {
		return errors.Wrap(err, "reading feature set")
	}
	logger = logger.WithField("serial", sn)
	logger.WithField("feature_set", fs).Info("found sensor")

	if *selfTest {
		if err := dev.SelfTest(); err != nil {
			return err
		}
		logger.Info("self test passed")
	}

	m := &monitor{
		dev:              dev,
		store:            &baselineStore{path: *baselinePath, maxAge: *baselineMaxAge},
		metrics:          newMetrics(),
		log:              logger,
		baselineInterval: *baselineInterval,
		now:              time.Now,
	}
	if *showBar {
		bar := airbar.New(&airbar.Opts{Label: true})
		defer bar.Halt()
		m.bar = bar
	}
	if *chartPath != "" {
		chart, err := trend.New(*chartPoints)
		if err != nil {
			return err
		}
		m.chart = chart
		m.chartPath = *chartPath
		m.chartEvery = 10
	}

	if err := m.start(compensationHumidity(*humidity, *temperature, *relHumidity)); err != nil {
		return err
	}

	if *listenAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", m.metrics.handler())
			log.Panic(http.ListenAndServe(*listenAddr, mux))
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	m.run(ctx, *interval)
	return nil
}
