package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/mung"
)

// Prefix returns the base prefix string used to construct the path to the
// configuration and cache directories.
//
// By default, Prefix is the base name of the executable file unless it matches
// one of the following substitution rules:
//   - "__debug_bin" (default output of the dlv debugger): replaced with [Name]
//   - "^\.+" (dot-prefixed names): remove the dot prefix
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		exe, err := os.Executable()
		if err == nil {
			id = exe
		}

		ext := filepath.Ext(filepath.Base(id))
		id = strings.TrimSuffix(filepath.Base(id), ext)

		for rex, rep := range map[*regexp.Regexp]string{
			regexp.MustCompile(`^__debug_bin\d+$`): Name, // default output from dlv
			regexp.MustCompile(`^(.+)\.test$`):     Name, // go test binaries
			regexp.MustCompile(`^\.+`):             "",   // remove leading dot(s)
		} {
			id = rex.ReplaceAllString(id, rep)
		}

		if id == "" {
			id = Name
		}

		return id
	},
)

// ConfigDir returns the configuration directory path.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() string {
		return filepath.Join(userDir(os.UserConfigDir, ".config"), Prefix())
	},
)

// CacheDir returns the cache directory path used for transient files such as
// the shell history and profiles.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() string {
		return filepath.Join(userDir(os.UserCacheDir, ".cache"), Prefix())
	},
)

// userDir returns the directory reported by fn, falling back to a hidden
// directory in the user's home and then to the working directory.
func userDir(fn func() (string, error), hidden string) string {
	if dir, err := fn(); err == nil {
		return dir
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, hidden)
	}

	if wd, err := os.Getwd(); err == nil {
		return wd
	}

	return "."
}

// LibraryDir returns the directory searched last for programs named on the
// command line.
func LibraryDir() string {
	return filepath.Join(ConfigDir(), "lib")
}

// ProgramExt lists the file extensions tried, in order, when a program name
// does not resolve to a file as given.
//
//nolint:gochecknoglobals
var ProgramExt = []string{".aw", ".golf"}

// SearchPath returns the directories searched for programs: the given
// directories, then those listed in the environment variable [EnvVar]("path"),
// then [LibraryDir]. Directories that do not exist are dropped and duplicates
// are removed.
func SearchPath(dirs ...string) []string {
	subject := os.Getenv(EnvVar("path"))
	if subject == "" {
		subject = LibraryDir()
	} else {
		subject += string(os.PathListSeparator) + LibraryDir()
	}

	joined := mung.Make(
		mung.WithSubjectItems(subject),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
		mung.WithFilter(isDir),
	).String()

	var path []string

	for _, dir := range filepath.SplitList(joined) {
		if isDir(dir) && !slices.Contains(path, dir) {
			path = append(path, dir)
		}
	}

	return path
}

// FindProgram resolves name to a readable file. A name containing a path
// separator is only tried relative to the working directory. Otherwise the
// working directory is tried first, then each directory in path. In each
// location name is tried as given and then with each of [ProgramExt].
func FindProgram(name string, path []string) (string, error) {
	dirs := []string{""}
	if !strings.ContainsRune(name, filepath.Separator) && !strings.ContainsRune(name, '/') {
		dirs = append(dirs, path...)
	}

	for _, dir := range dirs {
		for _, ext := range append([]string{""}, ProgramExt...) {
			if cand := filepath.Join(dir, name+ext); isFile(cand) {
				return cand, nil
			}
		}
	}

	return "", ErrProgramNotFound.Wrapf("%s", name)
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}
