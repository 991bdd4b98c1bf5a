package cli

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cropforge/cropforge/pkg/config"
	"github.com/cropforge/cropforge/pkg/registry"
)

func TestFormatRelativeTime(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"just now", now.Add(-30 * time.Second), "just now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
		{"days", now.Add(-49 * time.Hour), "2d ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatRelativeTime(tt.t); got != tt.want {
				t.Errorf("formatRelativeTime() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunsListDisabledRegistry(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	c.Config.Registry.Backend = config.RegistryBackendNone

	if err := c.runRunsList(context.Background(), 10); err != nil {
		t.Fatalf("runRunsList() with disabled registry: %v", err)
	}
}

func TestRunsShowNotFound(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	c.Config.Registry.Dir = t.TempDir()

	err := c.runRunsShow(context.Background(), "does-not-exist")
	if err == nil {
		t.Fatal("runRunsShow() should fail for an unknown run ID")
	}
}

func TestRunsShowFound(t *testing.T) {
	dir := t.TempDir()

	store, err := registry.NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	run := registry.Run{
		ID:              "run-1",
		Mode:            "sweep",
		Canvases:        []string{"fhd"},
		ImagesCreated:   10,
		ImagesRequested: 10,
		Seed:            42,
		StartedAt:       time.Now().Add(-time.Minute),
		FinishedAt:      time.Now(),
		DurationMS:      60000,
	}
	if err := store.Save(context.Background(), run); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, log.InfoLevel)
	c.Config.Registry.Dir = dir

	if err := c.runRunsShow(context.Background(), "run-1"); err != nil {
		t.Fatalf("runRunsShow() error: %v", err)
	}
}
