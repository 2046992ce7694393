// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/rogiervandergeer/sgp30-driver/sgp30"
)

// baselineFile is the on-disk format of a saved baseline.
type baselineFile struct {
	sgp30.Baseline
	Saved time.Time `json:"saved"`
}

// baselineStore persists the sensor baseline between runs.
type baselineStore struct {
	path string
	// maxAge is how old a stored baseline may be and still be restored. The
	// datasheet allows up to a week without operation.
	maxAge time.Duration
}

// load returns the stored baseline, or nil if there is none or it is too
// old to be used.
func (s *baselineStore) load(now time.Time) (*sgp30.Baseline, error) {
	if s.path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading baseline")
	}
	var f baselineFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, errors.Wrapf(err, "parsing baseline %s", s.path)
	}
	if s.maxAge > 0 && now.Sub(f.Saved) > s.maxAge {
		return nil, nil
	}
	return &f.Baseline, nil
}

// save writes b next to the target and renames it into place.
func (s *baselineStore) save(b sgp30.Baseline, now time.Time) error {
	if s.path == "" {
		return nil
	}
	raw, err := json.Marshal(baselineFile{Baseline: b, Saved: now})
	if err != nil {
		return errors.Wrap(err, "encoding baseline")
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".baseline-*")
	if err != nil {
		return errors.Wrap(err, "saving baseline")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return errors.Wrap(err, "saving baseline")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "saving baseline")
	}
	return errors.Wrap(os.Rename(tmp.Name(), s.path), "saving baseline")
}
