package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/Joseda-hg/focuspal/internal/assistant"
	"github.com/Joseda-hg/focuspal/internal/db"
	"github.com/Joseda-hg/focuspal/internal/kv"
	"github.com/Joseda-hg/focuspal/internal/repo"
)

func TestRunCommand(t *testing.T) {
	color.NoColor = true
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local)
	a := assistant.New(repo.New(kv.NewMemory()), func() time.Time { return now })

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"task", "add a task finish the report", []string{"✓ Added task: finish the report", "work"}},
		{"reminder", "remind me to stretch in 2 hours", []string{"✓ I'll remind you to stretch", "2 hours from now"}},
		{"focus", "start a focus session", []string{"✓", "open the console"}},
		{"unknown", "sing a song", []string{"? " + assistant.HelpMessage}},
		{"bad time", "remind me to eat at noon", []string{"✗ " + assistant.TimeErrorMessage}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := runCommand(context.Background(), &out, a, tt.text); err != nil {
				t.Fatalf("run: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out.String(), want) {
					t.Fatalf("output %q missing %q", out.String(), want)
				}
			}
		})
	}
}

func TestResolveConfigPath(t *testing.T) {
	got, err := resolveConfigPath("/tmp/custom.json")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != "/tmp/custom.json" {
		t.Fatalf("expected flag value, got %q", got)
	}
}

func TestRunOneCommandPersistsAndCloses(t *testing.T) {
	color.NoColor = true
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "focuspal.db")

	err := run([]string{
		"-config", filepath.Join(dir, "config.json"),
		"-db", dbPath,
		"-c", "add a task call the bank",
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	sqlDB, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("reopen db: %v", err)
	}
	store := db.NewStore(sqlDB)
	defer store.Close()
	tasks, err := repo.New(store).Tasks(context.Background())
	if err != nil {
		t.Fatalf("tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Text != "call the bank" {
		t.Fatalf("unexpected tasks %+v", tasks)
	}
}

func TestRunReturnsStartupErrors(t *testing.T) {
	dir := t.TempDir()
	rulesPath := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(rulesPath, []byte("distracting_sites: [unterminated"), 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	err := run([]string{
		"-config", filepath.Join(dir, "config.json"),
		"-db", filepath.Join(dir, "focuspal.db"),
		"-rules", rulesPath,
		"-c", "how am I doing",
	})
	if err == nil || !strings.Contains(err.Error(), "parse rules") {
		t.Fatalf("expected a rules error, got %v", err)
	}
}
