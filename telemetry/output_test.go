package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/nebula/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("expected nil manager for empty dir, got %v, %v", om, err)
	}
	// Nil receivers are no-ops
	if err := om.WriteStatus(StatusEvent{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("creating output: %v", err)
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	for i, to := range []string{"ROLLING", "SHUFFLING"} {
		if err := om.WriteStatus(NewStatusEvent(int64(i*60), float64(i), "IDLE", to, "")); err != nil {
			t.Fatalf("writing status: %v", err)
		}
	}
	if err := om.WriteTelemetry(WindowStats{WindowEndFrame: 300, Status: "IDLE", Avatars: 3}); err != nil {
		t.Fatalf("writing telemetry: %v", err)
	}
	if err := om.WritePerf(PerfStats{AvgFrameDuration: time.Millisecond}, 300); err != nil {
		t.Fatalf("writing perf: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("closing: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "status.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines: %q", len(lines), lines)
	}
	if lines[0] != "frame,time,from,to,winner" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[2], "SHUFFLING") {
		t.Errorf("expected second row to record shuffling, got %q", lines[2])
	}

	for _, name := range []string{"telemetry.csv", "perf.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
}
