package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pders01/riffle/internal/config"
	"github.com/pders01/riffle/internal/navsignal"
)

func TestVersionCommand(t *testing.T) {
	// Capture stdout
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	originalArgs := os.Args
	os.Args = []string{"riffle", "version"}
	defer func() { os.Args = originalArgs }()

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		outC <- buf.String()
	}()

	versionCmd.Run(nil, nil)

	w.Close()
	os.Stdout = old
	out := <-outC

	// Version is "dev" by default in tests
	if !strings.Contains(out, "riffle dev") {
		t.Errorf("Expected version output to contain 'riffle dev', got: %s", out)
	}
	if !strings.Contains(out, "Swipeable feed reader") {
		t.Errorf("Expected version output to contain 'Swipeable feed reader', got: %s", out)
	}
	if !strings.Contains(out, "github.com/pders01/riffle") {
		t.Errorf("Expected version output to contain 'github.com/pders01/riffle', got: %s", out)
	}
}

func TestGenerateConfigCommand(t *testing.T) {
	// Point the command at a temp path through the shared --config flag;
	// the default path is resolved from HOME at process start, so swapping
	// HOME here would not redirect it.
	configFile := filepath.Join(t.TempDir(), "riffle", "config.toml")
	oldFlag := flagConfig
	flagConfig = configFile
	defer func() { flagConfig = oldFlag }()

	// Capture stdout
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	originalArgs := os.Args
	os.Args = []string{"riffle", "config", "generate"}
	defer func() { os.Args = originalArgs }()

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		outC <- buf.String()
	}()

	configGenCmd.Run(nil, nil)

	w.Close()
	os.Stdout = old
	out := <-outC

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		t.Errorf("Config file was not created at %s", configFile)
	}
	if !strings.Contains(out, "Generated default configuration at:") {
		t.Errorf("Expected output to contain 'Generated default configuration at:', got: %s", out)
	}
}

func TestRequestSourceTab(t *testing.T) {
	bridge := navsignal.NewBridge()

	requestSourceTab(bridge, "3")
	req, ok := bridge.ConsumePendingSource()
	if !ok {
		t.Fatal("Expected a pending source request for a numeric value")
	}
	if req.SourceID != 3 {
		t.Errorf("Expected source id 3, got %d", req.SourceID)
	}
	if req.Name != "" {
		t.Errorf("Expected empty name for a numeric value, got %q", req.Name)
	}

	requestSourceTab(bridge, "Go Blog")
	req, ok = bridge.ConsumePendingSource()
	if !ok {
		t.Fatal("Expected a pending source request for a title value")
	}
	if req.SourceID != 0 {
		t.Errorf("Expected source id 0 for a title value, got %d", req.SourceID)
	}
	if req.Name != "Go Blog" {
		t.Errorf("Expected name 'Go Blog', got %q", req.Name)
	}
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.toml")
	if _, err := config.GenerateDefaultConfig(configFile); err != nil {
		t.Fatalf("Failed to generate config: %v", err)
	}

	oldConfig, oldDB, oldLevel := flagConfig, flagDB, flagLogLevel
	flagConfig = configFile
	flagDB = "/tmp/riffle-test.db"
	flagLogLevel = "debug"
	defer func() { flagConfig, flagDB, flagLogLevel = oldConfig, oldDB, oldLevel }()

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Database.Path != "/tmp/riffle-test.db" {
		t.Errorf("Expected --db to override database path, got %s", cfg.Database.Path)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected --log-level to override log level, got %s", cfg.Log.Level)
	}
}
