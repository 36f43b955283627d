package game

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileExporter appends a plain-text block for every finished game to Path.
type FileExporter struct {
	Path string
	mu   sync.Mutex
}

func NewFileExporter(path string) *FileExporter {
	return &FileExporter{Path: path}
}

// Record implements ResultSink.
func (e *FileExporter) Record(r Result) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Create directory if it doesn't exist
	dir := filepath.Dir(e.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(e.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(FormatResult(r)); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return nil
}

func FormatResult(r Result) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Red Tetris - Room %s\n", r.Room))
	sb.WriteString(fmt.Sprintf("Game: %s\n", r.GameID))
	sb.WriteString(fmt.Sprintf("Finished: %s\n", r.FinishedAt.Format("2006-01-02 15:04:05")))
	sb.WriteString(strings.Repeat("-", 40) + "\n")
	winner := r.Winner
	if winner == "" {
		winner = "draw"
	}
	sb.WriteString(fmt.Sprintf("Winner: %s\n", winner))
	sb.WriteString("Players:\n")
	for _, name := range r.Players {
		sb.WriteString(fmt.Sprintf("- %s\n", name))
	}
	sb.WriteString("\n")
	return sb.String()
}
