package configwatcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
	"zenda_backend/internal/config"
)

func writeConfig(t *testing.T, path, threshold string) {
	t.Helper()
	body := []byte("server:\n  mode: debug\nassessment:\n  course_pass_threshold: " + threshold + "\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestWatchConfigReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	writeConfig(t, file, "70")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *config.Config, 1)
	done := make(chan error, 1)
	go func() {
		done <- WatchConfig(ctx, file, func(cfg *config.Config) {
			select {
			case reloaded <- cfg:
			default:
			}
		})
	}()

	// give the watcher time to register before writing
	time.Sleep(200 * time.Millisecond)
	writeConfig(t, file, "55")

	select {
	case cfg := <-reloaded:
		if cfg.Assessment.CoursePassThreshold != 55 {
			t.Fatalf("threshold: want=55 got=%v", cfg.Assessment.CoursePassThreshold)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("config was not reloaded")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("watcher returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("watcher did not stop after cancel")
	}
}
