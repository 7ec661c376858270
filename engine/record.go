package engine

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Outcome string

const (
	OutcomeCorrect    Outcome = "correct"
	OutcomeIncorrect  Outcome = "incorrect"
	OutcomeNoResponse Outcome = "no response"
)

// TrialRecord is one completed trial. ITI is nil in self-guided sessions.
type TrialRecord struct {
	ProportionDiff float64
	MajorityColor  Color
	ISI            float64
	ITI            *float64
	Outcome        Outcome
	ResponseTime   float64 // seconds; the response window on timeout
	ChosenColor    string  // "red", "yellow" or NoResponse
	Context        Context
	RunningScore   float64
	Correct        bool
	ChosenImage    Choice
}

// TrialLog accumulates records in trial order and writes them as CSV.
type TrialLog struct {
	SelfGuided bool
	Records    []TrialRecord
}

func (l *TrialLog) Append(r TrialRecord) {
	l.Records = append(l.Records, r)
}

func (l *TrialLog) Len() int { return len(l.Records) }

func (l *TrialLog) Columns() []string {
	cols := []string{"proportion_diff", "majority_color", "isi_duration"}
	if !l.SelfGuided {
		cols = append(cols, "iti_duration")
	}
	return append(cols, "correct", "response_time", "chosen_color", "current_context",
		"running_score", "correct_binary", "chosen_image")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (l *TrialLog) row(r TrialRecord) []string {
	row := []string{formatFloat(r.ProportionDiff), r.MajorityColor.String(), formatFloat(r.ISI)}
	if !l.SelfGuided {
		iti := ""
		if r.ITI != nil {
			iti = formatFloat(*r.ITI)
		}
		row = append(row, iti)
	}
	binary := "0"
	if r.Correct {
		binary = "1"
	}
	return append(row,
		string(r.Outcome),
		formatFloat(r.ResponseTime),
		r.ChosenColor,
		strconv.Itoa(int(r.Context)),
		formatFloat(r.RunningScore),
		binary,
		r.ChosenImage.String(),
	)
}

func (l *TrialLog) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	w.Write(l.Columns())
	for _, r := range l.Records {
		w.Write(l.row(r))
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

const outputTimeFormat = "2006-01-02-15-04-05"

// OutputName is the data file name for a session started at start.
func OutputName(subject, block string, method Method, start time.Time) string {
	return fmt.Sprintf("HDMRalf_%s_%s_%s_%s_data.csv", subject, block, method, start.Format(outputTimeFormat))
}
