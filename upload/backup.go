package upload

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Backup copies the upload directory into a timestamped folder once a day
// at Hour:Minute local time and prunes copies older than Retention.
type Backup struct {
	Src       string
	Dest      string
	Retention time.Duration
	Hour      int
	Minute    int

	now func() time.Time
}

// Run blocks until ctx is cancelled.
func (b *Backup) Run(ctx context.Context) {
	for {
		next := b.nextRun()
		slog.Info("next image backup scheduled", "at", next.Format("2006-01-02 15:04:05"))

		timer := time.NewTimer(next.Sub(b.clock()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if dest, err := b.RunOnce(); err != nil {
			slog.Error("failed to back up images", "error", err)
		} else {
			slog.Info("images backed up", "dest", dest)
		}
	}
}

// RunOnce takes one backup immediately and prunes old ones.
func (b *Backup) RunOnce() (string, error) {
	dest := filepath.Join(b.Dest, b.clock().Format("2006-01-02_15-04-05"))
	if err := copyDir(b.Src, dest); err != nil {
		return "", err
	}
	b.cleanup()
	return dest, nil
}

func (b *Backup) clock() time.Time {
	if b.now != nil {
		return b.now()
	}
	return time.Now()
}

func (b *Backup) nextRun() time.Time {
	now := b.clock()
	next := time.Date(now.Year(), now.Month(), now.Day(), b.Hour, b.Minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

// cleanup removes backup folders older than the retention window.
func (b *Backup) cleanup() {
	entries, err := os.ReadDir(b.Dest)
	if err != nil {
		slog.Error("failed to read backup directory", "error", err)
		return
	}

	cutoff := b.clock().Add(-b.Retention)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folder := filepath.Join(b.Dest, entry.Name())
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.RemoveAll(folder); err != nil {
				slog.Error("failed to remove old backup", "path", folder, "error", err)
			} else {
				slog.Info("removed old backup", "path", folder)
			}
		}
	}
}

func copyDir(src, dest string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		destPath := filepath.Join(dest, entry.Name())

		if entry.IsDir() {
			if err := copyDir(srcPath, destPath); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(srcPath, destPath); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
