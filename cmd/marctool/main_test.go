package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	marc "github.com/marclib/marc21"
)

func buildFixtureRecord(t *testing.T, controlNum string) []byte {
	t.Helper()
	rec := marc.NewRecord("00000cam a2200000 a 4500")
	rec.Add(&marc.ControlField{FieldTag: "001", Data: controlNum})
	rec.Add(&marc.DataField{
		FieldTag:   "650",
		Indicator1: ' ',
		Indicator2: '0',
		Subfields:  []marc.Subfield{{Code: 'a', Data: "Cats"}},
	})
	out, err := rec.Serialize()
	require.NoError(t, err)
	return out
}

func writeFixtureFile(t *testing.T, records ...[]byte) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.mrc")
	var all []byte
	for _, r := range records {
		all = append(all, r...)
	}
	require.NoError(t, os.WriteFile(path, all, 0o644))
	return path
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestPickCommand_FindsMatchingRecord(t *testing.T) {
	recA := buildFixtureRecord(t, "aaa001")
	recB := buildFixtureRecord(t, "bbb002")
	path := writeFixtureFile(t, recA, recB)

	app := buildApp()
	var runErr error
	out := captureStdout(t, func() {
		runErr = app.Run([]string{"marctool", "pick", "bbb002", path})
	})
	require.NoError(t, runErr)
	assert.Equal(t, string(recB), out)
}

func TestCatCommand_ExtractsControlNumber(t *testing.T) {
	path := writeFixtureFile(t, buildFixtureRecord(t, "aaa001"))

	app := buildApp()
	var runErr error
	out := captureStdout(t, func() {
		runErr = app.Run([]string{"marctool", "cat", "001", path})
	})
	require.NoError(t, runErr)
	assert.Contains(t, out, "aaa001")
}

func TestCountCommand_RunsCleanlyOverValidFile(t *testing.T) {
	path := writeFixtureFile(t, buildFixtureRecord(t, "aaa001"), buildFixtureRecord(t, "bbb002"))

	app := buildApp()
	err := app.Run([]string{"marctool", "count", path})
	assert.NoError(t, err)
}

func TestPickCommand_RequiresArguments(t *testing.T) {
	app := buildApp()
	err := app.Run([]string{"marctool", "pick"})
	assert.Error(t, err)
}
