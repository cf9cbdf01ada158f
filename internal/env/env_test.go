package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	got := Merge(
		[]string{"HOME=/root", "PATH=/bin", "=bad", "noequals"},
		[]string{"PATH=/opt/bin:${PATH}", "APP=${HOME}/app", "LEFT=${MISSING}"},
	)
	assert.Equal(t, []string{
		"APP=/root/app",
		"HOME=/root",
		"LEFT=${MISSING}",
		"PATH=/opt/bin:/bin",
	}, got)
}

func TestMerge_LaterWins(t *testing.T) {
	assert.Equal(t, []string{"A=2"}, Merge([]string{"A=1"}, []string{"A=2"}))
}

func TestWithOS(t *testing.T) {
	t.Setenv("PROCGUARD_ENV_TEST", "base")
	got := WithOS([]string{"PROCGUARD_ENV_TEST=over"})
	assert.Contains(t, got, "PROCGUARD_ENV_TEST=over")
	assert.NotContains(t, got, "PROCGUARD_ENV_TEST=base")
}

func TestLoadFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), ".env")
	body := "# comment\n\nA=1\nexport B = two words \nC=\"quoted\"\nD='single'\r\nE=\n"
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))

	got, err := LoadFile(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"A=1", "B=two words", "C=quoted", "D=single", "E="}, got)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	p := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(p, []byte("A=1\njunk\n"), 0o600))
	_, err = LoadFile(p)
	assert.ErrorContains(t, err, ":2:")
}
