package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardnew/arsla/cli/cmd"
	"github.com/ardnew/arsla/pkg"
)

func TestMain(m *testing.M) {
	home, err := os.MkdirTemp("", "arsla-cli-test-*")
	if err != nil {
		panic(err)
	}

	for _, key := range []string{"HOME", "XDG_CONFIG_HOME", "XDG_CACHE_HOME"} {
		os.Setenv(key, filepath.Join(home, key))
	}

	code := m.Run()

	os.RemoveAll(home)
	os.Exit(code)
}

func exitFatal(t *testing.T) func(int) {
	return func(code int) { t.Fatalf("unexpected exit %d", code) }
}

func TestRun_Init(t *testing.T) {
	confPath := configPath(baseConfig)
	os.Remove(confPath)

	if err := Run(context.Background(), exitFatal(t), "init"); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(confPath); err != nil {
		t.Fatalf("init did not write %s: %v", confPath, err)
	}

	if _, err := os.Stat(pkg.CacheDir()); err != nil {
		t.Errorf("cache directory not created: %v", err)
	}

	// The generated file must be accepted by the resolver as is.
	if err := Run(context.Background(), exitFatal(t), "--no-implicit", "-e", "1"); err != nil {
		t.Errorf("run with generated config: %v", err)
	}

	err := Run(context.Background(), exitFatal(t), "init")
	if !errors.Is(err, cmd.ErrFileExists) {
		t.Errorf("got %v want %v", err, cmd.ErrFileExists)
	}
}

func TestRun_ConfigFile(t *testing.T) {
	confPath := configPath(baseConfig)
	defer os.Remove(confPath)

	if err := os.MkdirAll(filepath.Dir(confPath), defaultDirMode); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(confPath, []byte("run:\n  max-steps: many\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	// A value the flag cannot decode proves the config reached the flag.
	exited := false

	err := Run(context.Background(), func(int) { exited = true }, "--no-implicit", "-e", "1")
	if err == nil && !exited {
		t.Error("invalid max-steps from config file was accepted")
	}
}

func TestRun_ProgramError(t *testing.T) {
	err := Run(context.Background(), exitFatal(t), "-e", "+")
	if !errors.Is(err, cmd.ErrProgram) {
		t.Errorf("got %v want %v", err, cmd.ErrProgram)
	}
}
