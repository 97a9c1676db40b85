// Package logging writes JSONL session logs and console output.
package logging

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/nibzard/fvp-go/internal/fvpdir"
)

// RunLogger manages the session log file for one run over a task file.
type RunLogger struct {
	Dir     string
	RunID   string
	LogPath string
	file    *os.File
}

// NewRunLogger creates the session log directory for taskFile under baseDir
// and opens a new JSONL file in it.
func NewRunLogger(baseDir, taskFile string) (*RunLogger, error) {
	logDir, err := FindLogDir(baseDir, taskFile)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	runID := runID()
	logPath := filepath.Join(logDir, fmt.Sprintf("%s.jsonl", runID))
	file, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	return &RunLogger{
		Dir:     logDir,
		RunID:   runID,
		LogPath: logPath,
		file:    file,
	}, nil
}

// Writer returns the underlying log file writer.
func (r *RunLogger) Writer() io.Writer {
	return r.file
}

// EventWriter returns a JSON event writer for the session log.
func (r *RunLogger) EventWriter() EventWriter {
	if r == nil || r.file == nil {
		return Discard
	}
	return NewJSONEventWriter(r.file)
}

// Close closes the log file.
func (r *RunLogger) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	return r.file.Close()
}

// FindLogDir returns the session log directory for a task file.
func FindLogDir(baseDir, taskFile string) (string, error) {
	if baseDir == "" {
		return "", fmt.Errorf("log base dir is empty")
	}
	if taskFile == "" {
		return "", fmt.Errorf("task file is empty")
	}

	resolved := taskFile
	if abs, err := filepath.Abs(taskFile); err == nil {
		resolved = abs
	}

	return filepath.Join(fvpdir.SessionsPath(filepath.Clean(baseDir)), taskSlug(resolved)), nil
}

func taskSlug(taskFile string) string {
	name := strings.TrimSuffix(filepath.Base(taskFile), filepath.Ext(taskFile))
	return fmt.Sprintf("%s-%s", slugify(name), hashPath(taskFile))
}

func slugify(input string) string {
	if strings.TrimSpace(input) == "" {
		return "tasks"
	}

	var b strings.Builder
	lastUnderscore := false
	for i := 0; i < len(input); i++ {
		c := input[i]
		valid := (c >= 'A' && c <= 'Z') ||
			(c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') ||
			c == '.' || c == '_' || c == '-'
		if !valid {
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
			continue
		}
		b.WriteByte(c)
		lastUnderscore = false
	}

	slug := strings.Trim(b.String(), "_")
	if slug == "" {
		return "tasks"
	}
	return slug
}

func hashPath(input string) string {
	sum := sha1.Sum([]byte(input))
	return hex.EncodeToString(sum[:])[:8]
}

func runID() string {
	return fmt.Sprintf("%s-%d", time.Now().UTC().Format("20060102-150405"), os.Getpid())
}

// FindLatestLog finds the latest JSONL log file in a directory.
// It returns an empty path when the directory does not exist.
func FindLatestLog(logDir string) (string, error) {
	runs, err := FindLogRuns(logDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	if len(runs) == 0 {
		return "", nil
	}
	return runs[0].Path, nil
}

// LogRun describes one session log file.
type LogRun struct {
	RunID   string
	Path    string
	ModTime time.Time
	Size    int64
}

// FindLogRuns lists the session logs in a directory, newest first.
func FindLogRuns(logDir string) ([]LogRun, error) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("read log dir: %w", err)
	}

	var runs []LogRun
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".jsonl") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		runs = append(runs, LogRun{
			RunID:   strings.TrimSuffix(name, ".jsonl"),
			Path:    filepath.Join(logDir, name),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].ModTime.Equal(runs[j].ModTime) {
			return runs[i].RunID > runs[j].RunID
		}
		return runs[i].ModTime.After(runs[j].ModTime)
	})
	return runs, nil
}

// TailLog copies a log file to w. When n > 0 only roughly the last n lines
// are shown. With follow set it keeps copying new data until ctx is done.
func TailLog(ctx context.Context, w io.Writer, path string, n int, follow bool) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if n > 0 {
		if err := tailSeek(file, n); err != nil {
			return fmt.Errorf("seek to tail position: %w", err)
		}
	}

	if _, err := io.Copy(w, file); err != nil {
		return err
	}
	if !follow {
		return nil
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := io.Copy(w, file); err != nil {
				return err
			}
		}
	}
}

// tailSeek seeks to a position that shows approximately the last n lines.
func tailSeek(file *os.File, n int) error {
	const avgLineLength = 100

	stat, err := file.Stat()
	if err != nil {
		return err
	}

	size := stat.Size()
	if size < avgLineLength*int64(n) {
		_, err = file.Seek(0, io.SeekStart)
		return err
	}

	offset := size - int64(n*avgLineLength)
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return err
	}

	// Discard partial first line
	buf := make([]byte, 1)
	for {
		if _, err := file.Read(buf); err != nil {
			return nil
		}
		if buf[0] == '\n' {
			return nil
		}
	}
}
