// Package history keeps the list of recently played streams as a TSV file
// in the data directory. Writes go through a temp file and a rename.
package history

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cmore/internal/config"
)

const (
	fileName = "history.tsv"

	// MaxEntries bounds the file; the oldest plays drop off.
	MaxEntries = 100
)

// TSV columns: video id, played at (RFC 3339), title
const numColumns = 3

// Entry is one played stream.
type Entry struct {
	VideoID  string
	Title    string
	PlayedAt time.Time
}

// Path returns the history file location.
func Path() (string, error) {
	dir, err := config.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Load returns the entries in path, newest first.
func Load(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening history: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entry, err := parseLine(line)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	return entries, nil
}

// Add records a play at the top of the history, replacing an older play
// of the same video.
func Add(path string, entry Entry) error {
	existing, err := Load(path)
	if err != nil {
		return err
	}

	entries := []Entry{entry}
	for _, e := range existing {
		if e.VideoID != entry.VideoID {
			entries = append(entries, e)
		}
	}
	return write(path, entries)
}

// Clear removes every entry.
func Clear(path string) error {
	return write(path, nil)
}

func write(path string, entries []Entry) error {
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}

	var b strings.Builder
	for _, e := range entries {
		b.WriteString(formatLine(e))
		b.WriteByte('\n')
	}
	return config.WriteFileAtomic(path, []byte(b.String()), 0600)
}

// FormatForDisplay renders entries for selection.
func FormatForDisplay(entries []Entry) []string {
	items := make([]string, 0, len(entries))
	for _, e := range entries {
		items = append(items, fmt.Sprintf("%s  %s", e.PlayedAt.Local().Format("02.01.2006 15:04"), e.Title))
	}
	return items
}

func parseLine(line string) (Entry, error) {
	fields := strings.SplitN(line, "\t", numColumns)
	if len(fields) < numColumns {
		return Entry{}, fmt.Errorf("expected %d columns, got %d", numColumns, len(fields))
	}

	playedAt, err := time.Parse(time.RFC3339, fields[1])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing play time: %w", err)
	}

	return Entry{
		VideoID:  fields[0],
		PlayedAt: playedAt,
		Title:    fields[2],
	}, nil
}

func formatLine(e Entry) string {
	title := strings.NewReplacer("\t", " ", "\n", " ").Replace(e.Title)
	return strings.Join([]string{e.VideoID, e.PlayedAt.UTC().Format(time.RFC3339), title}, "\t")
}
