// Package extract reads line-delimited JSON experiment logs and normalizes the
// records of one study into observations.
package extract

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/modspec/specgain/internal/logging"
	"github.com/modspec/specgain/internal/models"
)

var (
	// ErrNoFiles is returned when the glob pattern matches nothing.
	ErrNoFiles = errors.New("no metric files found")
	// ErrNoRecords is returned when no usable record survives filtering.
	ErrNoRecords = errors.New("no records found")
)

// Stats counts what happened to every line read during a Load.
type Stats struct {
	Files      int `json:"files"`
	Lines      int `json:"lines"`
	Malformed  int `json:"malformed"`
	OtherStudy int `json:"other_study"`
	Incomplete int `json:"incomplete"`
	Accepted   int `json:"accepted"`
}

func (s *Stats) add(o Stats) {
	s.Files += o.Files
	s.Lines += o.Lines
	s.Malformed += o.Malformed
	s.OtherStudy += o.OtherStudy
	s.Incomplete += o.Incomplete
	s.Accepted += o.Accepted
}

// MatchFiles returns the files in dir matching pattern, sorted.
func MatchFiles(dir, pattern string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// Load reads every file in dir matching pattern and returns the observations
// recorded under study. It fails with ErrNoFiles when nothing matches and with
// ErrNoRecords when no usable record is found.
func Load(dir, pattern, study string) ([]models.Observation, Stats, error) {
	logger := logging.New("extract")

	var stats Stats
	paths, err := MatchFiles(dir, pattern)
	if err != nil {
		return nil, stats, err
	}
	if len(paths) == 0 {
		return nil, stats, fmt.Errorf("%w in %s matching %s", ErrNoFiles, dir, pattern)
	}

	var observations []models.Observation
	for _, path := range paths {
		obs, fileStats, err := ReadFile(path, study)
		if err != nil {
			return nil, stats, err
		}
		logger.Debug("read metrics file",
			"path", path,
			"lines", fileStats.Lines,
			"accepted", fileStats.Accepted,
			"malformed", fileStats.Malformed,
			"other_study", fileStats.OtherStudy,
			"incomplete", fileStats.Incomplete)
		stats.add(fileStats)
		observations = append(observations, obs...)
	}

	if len(observations) == 0 {
		return nil, stats, fmt.Errorf("%w for study=%q in %s (pattern: %s)", ErrNoRecords, study, dir, pattern)
	}
	return observations, stats, nil
}

// ReadFile reads one log file. Compressed files (.gz, .zst) are decompressed
// transparently.
func ReadFile(path, study string) ([]models.Observation, Stats, error) {
	stats := Stats{Files: 1}

	f, err := os.Open(path)
	if err != nil {
		return nil, stats, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	r, closeFn, err := openReader(path, f)
	if err != nil {
		return nil, stats, fmt.Errorf("opening %s: %w", path, err)
	}
	defer closeFn()

	obs, err := readLines(r, study, &stats)
	if err != nil {
		return nil, stats, fmt.Errorf("reading %s: %w", path, err)
	}
	return obs, stats, nil
}

func readLines(r io.Reader, study string, stats *Stats) ([]models.Observation, error) {
	var observations []models.Observation

	br := bufio.NewReader(r)
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			if obs, ok := classify(line, study, stats); ok {
				observations = append(observations, obs)
			}
		}
		if errors.Is(err, io.EOF) {
			return observations, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func classify(line []byte, study string, stats *Stats) (models.Observation, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return models.Observation{}, false
	}
	stats.Lines++

	obs, outcome := ParseLine(line, study)
	switch outcome {
	case OutcomeAccepted:
		stats.Accepted++
		return obs, true
	case OutcomeMalformed:
		stats.Malformed++
	case OutcomeOtherStudy:
		stats.OtherStudy++
	case OutcomeIncomplete:
		stats.Incomplete++
	}
	return models.Observation{}, false
}

// Outcome classifies a single log line.
type Outcome int

const (
	OutcomeAccepted Outcome = iota
	OutcomeMalformed
	OutcomeOtherStudy
	OutcomeIncomplete
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeMalformed:
		return "malformed"
	case OutcomeOtherStudy:
		return "other_study"
	case OutcomeIncomplete:
		return "incomplete"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// ParseLine decodes one JSON line and normalizes it when it belongs to study.
func ParseLine(line []byte, study string) (models.Observation, Outcome) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	var rec map[string]any
	if err := dec.Decode(&rec); err != nil || rec == nil {
		return models.Observation{}, OutcomeMalformed
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return models.Observation{}, OutcomeMalformed
	}

	if s, ok := rec["study"].(string); !ok || s != study {
		return models.Observation{}, OutcomeOtherStudy
	}

	data, ok := rec["data"].(map[string]any)
	if !ok {
		return models.Observation{}, OutcomeIncomplete
	}

	obs, ok := normalize(data)
	if !ok {
		return models.Observation{}, OutcomeIncomplete
	}
	return obs, OutcomeAccepted
}
