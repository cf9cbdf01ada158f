package process

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawn_Errors(t *testing.T) {
	ctl := NewController(WithLogger(quiet))
	ctx := context.Background()

	_, err := ctl.Spawn(ctx, SpawnSpec{Command: "__definitely_not_exists__"})
	var se *SpawnError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, OpLookup, se.Op)

	_, err = ctl.Spawn(ctx, SpawnSpec{Command: "  "})
	require.ErrorAs(t, err, &se)
	assert.Equal(t, OpLookup, se.Op)

	exe, err := os.Executable()
	require.NoError(t, err)

	_, err = ctl.Spawn(ctx, SpawnSpec{Command: exe, WorkDir: filepath.Join(t.TempDir(), "missing")})
	require.ErrorAs(t, err, &se)
	assert.Equal(t, OpWorkDir, se.Op)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	file := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	_, err = ctl.Spawn(ctx, SpawnSpec{Command: exe, WorkDir: file})
	require.ErrorAs(t, err, &se)
	assert.Equal(t, OpWorkDir, se.Op)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = ctl.Spawn(cancelled, SpawnSpec{Command: exe})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSpawnErrorMessage(t *testing.T) {
	e := &SpawnError{Op: OpStart, Command: "x", Err: os.ErrPermission}
	assert.Equal(t, `spawn "x": start: permission denied`, e.Error())
	assert.ErrorIs(t, e, os.ErrPermission)
}
