package pkg

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	if Name != "arsla" {
		t.Errorf("got %q want %q", Name, "arsla")
	}

	if got := EnvVar("path"); got != "ARSLA_PATH" {
		t.Errorf("got %q want %q", got, "ARSLA_PATH")
	}
}

func TestVersion(t *testing.T) {
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("read VERSION: %v", err)
	}

	if want := strings.TrimSpace(string(buf)); Version() != want {
		t.Errorf("got %q want %q", Version(), want)
	}

	if strings.ContainsAny(Version(), " \n") {
		t.Errorf("version %q has whitespace", Version())
	}
}

func TestAuthor(t *testing.T) {
	if len(Author) == 0 {
		t.Fatal("no authors")
	}

	for i, author := range Author {
		if author.Name == "" && author.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}

func TestError_Is(t *testing.T) {
	cause := &fs.PathError{Op: "open", Path: "x.aw", Err: fs.ErrNotExist}
	err := ErrHistory.Wrap(cause)

	if !errors.Is(err, ErrHistory) {
		t.Error("wrapped error does not match its sentinel")
	}

	if errors.Is(err, ErrProgramNotFound) {
		t.Error("wrapped error matches an unrelated sentinel")
	}

	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("wrapped error does not match its cause")
	}

	if got, want := err.Error(), "shell history: open x.aw: file does not exist"; got != want {
		t.Errorf("got %q want %q", got, want)
	}

	if len(ErrHistory) != 1 {
		t.Errorf("Wrap modified the sentinel: %v", ErrHistory)
	}
}

func TestMakeError(t *testing.T) {
	if got := MakeError(); got != nil {
		t.Errorf("got %v want nil", got)
	}

	if got := MakeError(nil, nil); got != nil {
		t.Errorf("got %v want nil", got)
	}

	nested := MakeError(ErrReadStdin, MakeErrorf("line 2"))
	if got, want := nested.Error(), "failed to read stdin: line 2"; got != want {
		t.Errorf("got %q want %q", got, want)
	}

	if !errors.Is(nested, ErrReadStdin) {
		t.Error("nested error does not match its sentinel")
	}
}

func TestFindProgram(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "lib")

	if err := os.Mkdir(lib, 0o700); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"fizz.aw", "buzz.golf", "plain"} {
		if err := os.WriteFile(filepath.Join(lib, name), []byte("1"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name string
		want string
		err  error
	}{
		{name: "fizz", want: filepath.Join(lib, "fizz.aw")},
		{name: "fizz.aw", want: filepath.Join(lib, "fizz.aw")},
		{name: "buzz", want: filepath.Join(lib, "buzz.golf")},
		{name: "plain", want: filepath.Join(lib, "plain")},
		{name: "missing", err: ErrProgramNotFound},
		{name: filepath.Join("nowhere", "fizz"), err: ErrProgramNotFound},
		{name: filepath.Join(lib, "fizz"), want: filepath.Join(lib, "fizz.aw")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindProgram(tt.name, []string{lib})
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Errorf("got %v want %v", err, tt.err)
				}

				return
			}

			if err != nil {
				t.Fatal(err)
			}

			if got != tt.want {
				t.Errorf("got %q want %q", got, tt.want)
			}
		})
	}
}

func TestSearchPath(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	missing := filepath.Join(a, "missing")

	t.Setenv(EnvVar("path"), strings.Join([]string{b, missing, a}, string(os.PathListSeparator)))

	got := SearchPath(a, missing)

	for _, dir := range []string{a, b} {
		if !slices.Contains(got, dir) {
			t.Errorf("got %v want %s included", got, dir)
		}
	}

	if slices.Contains(got, missing) {
		t.Errorf("got %v want %s dropped", got, missing)
	}

	if n := len(slices.Compact(slices.Sorted(slices.Values(got)))); n != len(got) {
		t.Errorf("got duplicates in %v", got)
	}
}
