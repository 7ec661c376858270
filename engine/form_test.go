package engine

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormApplyRoundTrip(t *testing.T) {
	base := validConfig()
	base.SelfGuided = true

	cfg, err := NewForm(base).Apply(DefaultConfig())
	require.NoError(t, err)
	if diff := cmp.Diff(base, cfg); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

func TestFormApplyEdits(t *testing.T) {
	f := NewForm(validConfig())
	f.Values["method"] = " fMRI "
	f.Values["schedule_path"] = "QuantumITI_afni"
	f.Values["hard_diff"] = "0.04"
	f.Tutorial = true

	base := DefaultConfig()
	cfg, err := f.Apply(base)
	require.NoError(t, err)
	assert.Equal(t, MethodFMRI, cfg.Method)
	assert.Equal(t, "QuantumITI_afni", cfg.SchedulePath)
	assert.Equal(t, 0.04, cfg.HardDiff)
	assert.True(t, cfg.Tutorial)
	assert.Equal(t, MethodBEH, base.Method, "base is not modified")
}

func TestFormApplyErrors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"empty subject", "subject", ""},
		{"blank iti", "iti_high", "  "},
		{"not a number", "isi_low", "fast"},
		{"fails validation", "easy_diff", "0.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewForm(validConfig())
			f.Values[tt.key] = tt.value

			_, err := f.Apply(DefaultConfig())
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.key, verr.Field)
		})
	}
}

func TestFormApplyScheduleIsOptional(t *testing.T) {
	f := NewForm(validConfig())
	f.Values["schedule_path"] = ""
	_, err := f.Apply(DefaultConfig())
	require.NoError(t, err)
}

func TestFormCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), CacheFile)

	saved := NewForm(validConfig())
	saved.Values["subject"] = "s42"
	saved.Values["block"] = "3"
	saved.SelfGuided = true
	require.NoError(t, saved.SaveCache(path))

	loaded := NewForm(DefaultConfig())
	require.NoError(t, loaded.LoadCache(path))
	assert.Equal(t, saved, loaded)
}

func TestFormLoadCacheMissing(t *testing.T) {
	f := NewForm(DefaultConfig())
	before := *f
	require.NoError(t, f.LoadCache(filepath.Join(t.TempDir(), CacheFile)))
	assert.Equal(t, before.Values, f.Values)
}
