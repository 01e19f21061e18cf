package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankit-chaubey/smplinfo/core"
	"github.com/ankit-chaubey/smplinfo/core/midi"
	"github.com/ankit-chaubey/smplinfo/internal/wavtest"
)

func setup(t *testing.T) string {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "kick_C1.wav"), wavtest.Basic(), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "snare_D1.wav"), wavtest.Build(wavtest.Fmt(), wavtest.Smpl(10, 0)), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not audio"), 0o644))
	return dir
}

func noteOf(t *testing.T, path string) *midi.Note {
	t.Helper()

	s, err := core.ReadSample(afero.NewOsFs(), path)
	require.NoError(t, err)
	return s.Note
}

func TestRunUsage(t *testing.T) {
	assert.Equal(t, 2, run(nil))
	assert.Equal(t, 2, run([]string{"--no-such-flag", "x"}))
	assert.Equal(t, 0, run([]string{"--help"}))
}

func TestRunReadOnly(t *testing.T) {
	dir := setup(t)
	assert.Equal(t, 0, run([]string{dir}))
	assert.Nil(t, noteOf(t, filepath.Join(dir, "kick_C1.wav")))
}

func TestRunNoteFromFilenameAndRename(t *testing.T) {
	dir := setup(t)

	assert.Equal(t, 0, run([]string{"-f", "-r", "%n_%m", dir}))

	kick := filepath.Join(dir, "C1_036.wav")
	snare := filepath.Join(dir, "D1_038.wav")
	assert.Equal(t, midi.Note(36), *noteOf(t, kick))
	assert.Equal(t, midi.Note(38), *noteOf(t, snare))

	_, err := os.Stat(filepath.Join(dir, "kick_C1.wav"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunDryRun(t *testing.T) {
	dir := setup(t)

	assert.Equal(t, 0, run([]string{"--dry-run", "--json", "-n", "60", dir}))
	assert.Nil(t, noteOf(t, filepath.Join(dir, "kick_C1.wav")))
	assert.Equal(t, midi.Note(10), *noteOf(t, filepath.Join(dir, "snare_D1.wav")))
}

func TestRunReportsFailures(t *testing.T) {
	dir := setup(t)

	assert.Equal(t, 1, run([]string{"-n", "60", filepath.Join(dir, "notes.txt"), filepath.Join(dir, "kick_C1.wav")}))
	assert.Equal(t, midi.Note(60), *noteOf(t, filepath.Join(dir, "kick_C1.wav")))
}

func TestRunBadTemplate(t *testing.T) {
	dir := setup(t)
	assert.Equal(t, 2, run([]string{"-r", "%x", dir}))
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent of testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
