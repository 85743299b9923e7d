package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digestsim/internal/assist"
)

func TestNewDefaults(t *testing.T) {
	s := New()

	assert.Equal(t, 170.0, s.Flow)
	assert.Equal(t, 150.0, s.Horizon)
	assert.Equal(t, 0.1, s.Step)
	assert.False(t, s.UseKinetics)

	wantHRT := []float64{30, 45, 60}
	for i, slot := range s.Slots {
		assert.Equal(t, 308.15, slot.Temperature, "slot %d", i)
		assert.Equal(t, wantHRT[i], slot.HRT, "slot %d", i)
		assert.Equal(t, "BDF", slot.Method, "slot %d", i)
	}
}

func TestApplyExtractionMerges(t *testing.T) {
	s := New()
	require.NoError(t, s.SetFeedstock("S_ac", 0.5))
	require.NoError(t, s.SetKinetic("k_su", 25.0))

	s.ApplyExtraction(assist.Extraction{
		FeedstockValues: map[string]float64{"S_su": 2.5, "X_ch": 12.0},
		FeedstockNotes:  map[string]string{"S_su": "high sugar content"},
		KineticValues:   map[string]float64{"k_dis": 0.4},
		KineticNotes:    map[string]string{"k_dis": "slow disintegration"},
	}, "raw response text")

	// New keys land, prior overrides survive untouched.
	assert.Equal(t, 2.5, s.FeedstockOverrides["S_su"])
	assert.Equal(t, 12.0, s.FeedstockOverrides["X_ch"])
	assert.Equal(t, 0.5, s.FeedstockOverrides["S_ac"])
	assert.Equal(t, 25.0, s.KineticOverrides["k_su"])
	assert.Equal(t, "high sugar content", s.FeedstockNotes["S_su"])
	assert.Equal(t, "raw response text", s.LastRaw)
}

func TestApplyExtractionOverwritesPerKey(t *testing.T) {
	s := New()
	require.NoError(t, s.SetFeedstock("S_su", 1.0))

	s.ApplyExtraction(assist.Extraction{
		FeedstockValues: map[string]float64{"S_su": 3.0},
		FeedstockNotes:  map[string]string{"S_su": "updated"},
	}, "raw")

	assert.Equal(t, 3.0, s.FeedstockOverrides["S_su"])
	assert.Equal(t, "updated", s.FeedstockNotes["S_su"])
}

func TestSetRejectsUnknownNames(t *testing.T) {
	s := New()

	err := s.SetFeedstock("S_sugar", 1.0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S_sugar")
	assert.Empty(t, s.FeedstockOverrides)

	err = s.SetKinetic("k_magic", 1.0)
	assert.Error(t, err)
}

func TestManualEditDropsStaleNote(t *testing.T) {
	s := New()
	s.ApplyExtraction(assist.Extraction{
		FeedstockValues: map[string]float64{"S_su": 2.0},
		FeedstockNotes:  map[string]string{"S_su": "from the model"},
	}, "raw")

	require.NoError(t, s.SetFeedstock("S_su", 4.0))
	_, hasNote := s.FeedstockNotes["S_su"]
	assert.False(t, hasNote, "the note described a value that no longer exists")
}

func TestResolvedKineticsNilWithoutFlag(t *testing.T) {
	s := New()
	require.NoError(t, s.SetKinetic("k_su", 25.0))

	assert.Nil(t, s.ResolvedKinetics())

	s.UseKinetics = true
	k := s.ResolvedKinetics()
	require.NotNil(t, k)
	assert.Equal(t, 25.0, k["k_su"])
	assert.Equal(t, 8.0, k["k_ac"]) // untouched keys resolve to defaults
}

func TestResolvedFeedstockAppliesOverrides(t *testing.T) {
	s := New()
	require.NoError(t, s.SetFeedstock("S_su", 0.05))

	f := s.ResolvedFeedstock()
	assert.Equal(t, 0.05, f["S_su"])
	assert.Len(t, f, 26)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ws := t.TempDir()

	s := New()
	require.NoError(t, s.SetFeedstock("X_pr", 18.0))
	s.UseKinetics = true
	s.Slots[1].Method = "LSODA"
	s.LastRaw = "response"
	require.NoError(t, s.Save(ws))

	loaded, err := Load(ws)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	loaded, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, New(), loaded)
}

func TestLoadCorruptFileErrors(t *testing.T) {
	ws := t.TempDir()
	dir := filepath.Join(ws, ".digestsim")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "session.yaml"), []byte("{not yaml"), 0644))

	_, err := Load(ws)
	assert.Error(t, err)
}

func TestClearOverrides(t *testing.T) {
	s := New()
	require.NoError(t, s.SetFeedstock("S_su", 2.0))
	s.UseKinetics = true
	s.LastRaw = "raw"

	s.ClearOverrides()

	assert.Empty(t, s.FeedstockOverrides)
	assert.Empty(t, s.KineticOverrides)
	assert.Empty(t, s.LastRaw)
	assert.True(t, s.UseKinetics, "run configuration is not part of the override set")
	assert.Equal(t, 170.0, s.Flow)
}
