package feed

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"edupulse/internal/config"
	"edupulse/internal/model"
)

// ReadFiles reads every configured JSONL file once, delivering each decoded
// record in file order, then closes out. Undecodable lines and records with
// unusable course bounds are logged and skipped; the only fatal outcome is
// delivering nothing at all.
func ReadFiles(ctx context.Context, cfg *config.Manager, out chan<- model.StudentActivity, logger *slog.Logger) error {
	defer close(out)
	current := cfg.Get().Feed
	if !current.File.Enabled {
		if logger != nil {
			logger.Info("file feed disabled")
		}
		return nil
	}
	dedupe := NewDedupeCache()
	delivered := 0
	for _, path := range current.File.Files {
		n, err := readFile(ctx, path, current.DedupeWindow, dedupe, out, logger)
		delivered += n
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			if logger != nil {
				logger.Warn("file feed error", "path", path, "err", err)
			}
		}
	}
	if delivered == 0 {
		return fmt.Errorf("file feed delivered no records from %d files", len(current.File.Files))
	}
	if logger != nil {
		logger.Info("file feed finished", "records", delivered)
	}
	return nil
}

func readFile(ctx context.Context, path string, window time.Duration, dedupe *DedupeCache, out chan<- model.StudentActivity, logger *slog.Logger) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	delivered := 0
	for scanner.Scan() {
		if ctx.Err() != nil {
			return delivered, ctx.Err()
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if dedupe.Seen(PayloadKey(line), time.Now().UTC(), window) {
			continue
		}
		rec, err := DecodeRecord(line)
		if err != nil {
			if logger != nil {
				logger.Warn("record decode failed", "path", path, "err", err)
			}
			continue
		}
		act, err := rec.Normalize()
		if err != nil {
			if logger != nil {
				logger.Warn("record rejected", "student_id", rec.StudentID, "course_id", rec.CourseID, "err", err)
			}
			continue
		}
		if !Send(ctx, out, act) {
			return delivered, ctx.Err()
		}
		delivered++
	}
	return delivered, scanner.Err()
}
