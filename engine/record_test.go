package engine

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrialLogColumns(t *testing.T) {
	want := []string{
		"proportion_diff", "majority_color", "isi_duration", "iti_duration",
		"correct", "response_time", "chosen_color", "current_context",
		"running_score", "correct_binary", "chosen_image",
	}
	if diff := cmp.Diff(want, (&TrialLog{}).Columns()); diff != "" {
		t.Errorf("columns (-want +got):\n%s", diff)
	}

	selfGuided := (&TrialLog{SelfGuided: true}).Columns()
	assert.NotContains(t, selfGuided, "iti_duration")
	assert.Len(t, selfGuided, len(want)-1)
}

func TestTrialLogSave(t *testing.T) {
	iti := 4.5
	log := &TrialLog{}
	log.Append(TrialRecord{
		ProportionDiff: 0.12,
		MajorityColor:  ColorYellow,
		ISI:            0.25,
		ITI:            &iti,
		Outcome:        OutcomeCorrect,
		ResponseTime:   0.731,
		ChosenColor:    "yellow",
		Context:        Context2,
		RunningScore:   1,
		Correct:        true,
		ChosenImage:    ChoiceCity,
	})
	log.Append(TrialRecord{
		ProportionDiff: 0.3,
		MajorityColor:  ColorRed,
		ISI:            0.4,
		ITI:            &iti,
		Outcome:        OutcomeNoResponse,
		ResponseTime:   5,
		ChosenColor:    NoResponse,
		Context:        Context2,
		RunningScore:   0.5,
		ChosenImage:    ChoiceNone,
	})

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, log.Save(path))

	want := [][]string{
		log.Columns(),
		{"0.12", "yellow", "0.25", "4.5", "correct", "0.731", "yellow", "2", "1", "1", "city"},
		{"0.3", "red", "0.4", "4.5", "no response", "5", "No Response", "2", "0.5", "0", "No Response"},
	}
	if diff := cmp.Diff(want, readCSV(t, path)); diff != "" {
		t.Errorf("csv (-want +got):\n%s", diff)
	}
}

func TestTrialLogSaveEmpty(t *testing.T) {
	log := &TrialLog{SelfGuided: true}
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, log.Save(path))

	rows := readCSV(t, path)
	require.Len(t, rows, 1)
	assert.Equal(t, log.Columns(), rows[0])
}

func TestTrialLogSaveBadPath(t *testing.T) {
	log := &TrialLog{}
	assert.Error(t, log.Save(filepath.Join(t.TempDir(), "missing", "out.csv")))
}

func TestOutputName(t *testing.T) {
	start := time.Date(2024, 5, 17, 14, 3, 9, 0, time.Local)
	assert.Equal(t, "HDMRalf_s01_3_fMRI_2024-05-17-14-03-09_data.csv", OutputName("s01", "3", MethodFMRI, start))
	assert.Equal(t, "HDMRalf_s01_practice_BEH_2024-05-17-14-03-09_data.csv", OutputName("s01", PracticeBlock, MethodBEH, start))
}
