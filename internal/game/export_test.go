package game

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExporterAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "results.txt")
	e := NewFileExporter(path)

	at := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	require.NoError(t, e.Record(Result{Room: "R42", GameID: "g1", Winner: "Alice", Players: []string{"Alice", "Bob"}, FinishedAt: at}))
	require.NoError(t, e.Record(Result{Room: "R42", GameID: "g2", Players: []string{"Alice"}, FinishedAt: at}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(b)
	assert.Contains(t, out, "Red Tetris - Room R42")
	assert.Contains(t, out, "Game: g1")
	assert.Contains(t, out, "Winner: Alice")
	assert.Contains(t, out, "- Bob\n")
	assert.Contains(t, out, "Game: g2")
	assert.Contains(t, out, "Winner: draw")
	assert.Contains(t, out, "Finished: 2026-10-19 12:00:00")
}

func TestCoordinatorExportsFinishedGames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.txt")
	c := newTestCoordinator(WithResultSink(NewFileExporter(path)))
	alice, bob := newFakeClient("Alice"), newFakeClient("Bob")
	joinAll(t, c, "R42", alice, bob)
	require.NoError(t, c.StartGame(alice, "R42"))
	c.GameOver(alice, "R42", "Alice")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "Winner: Bob")
}
