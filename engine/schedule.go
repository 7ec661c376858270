package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

var ErrScheduleTooShort = errors.New("schedule too short")

// Schedule holds the pre-generated fMRI intervals, in seconds, one pair per
// trial.
type Schedule struct {
	Source string
	ISI    []float64
	ITI    []float64
}

// LoadSchedule reads a schedule file. When path is a directory one of its
// files is picked at random.
func LoadSchedule(path string, rng *rand.Rand, log *zap.Logger) (*Schedule, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("schedule: %w", err)
		}
		var files []string
		for _, e := range entries {
			if !e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
				files = append(files, e.Name())
			}
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("schedule: no files in %s", path)
		}
		path = filepath.Join(path, files[rng.IntN(len(files))])
		log.Info("ITIs chosen", zap.String("file", path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}
	defer f.Close()

	s, err := ParseSchedule(f, log)
	if err != nil {
		return nil, fmt.Errorf("schedule %s: %w", path, err)
	}
	s.Source = path
	return s, nil
}

// ParseSchedule reads whitespace separated numbers. Even positions are ISIs
// and odd positions ITIs. A line holding anything that is not a number is
// skipped whole, so the pairing of the lines after it is kept.
func ParseSchedule(r io.Reader, log *zap.Logger) (*Schedule, error) {
	s := &Schedule{}
	n := 0
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		values, err := parseLine(sc.Text())
		if err != nil {
			log.Warn("could not convert to float", zap.Int("line", line), zap.Error(err))
			continue
		}
		for _, v := range values {
			if n%2 == 0 {
				s.ISI = append(s.ISI, v)
			} else {
				s.ITI = append(s.ITI, v)
			}
			n++
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

func parseLine(text string) ([]float64, error) {
	fields := strings.Fields(text)
	values := make([]float64, 0, len(fields))
	for _, tok := range fields {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func (s *Schedule) Pairs() int {
	return min(len(s.ISI), len(s.ITI))
}

// Require checks there is an ISI and an ITI for each of n trials.
func (s *Schedule) Require(n int) error {
	if s.Pairs() < n {
		return fmt.Errorf("%d pairs for %d trials: %w", s.Pairs(), n, ErrScheduleTooShort)
	}
	return nil
}
