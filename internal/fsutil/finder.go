// Package fsutil provides file system utility functions.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ProjectExt is the extension of project files.
const ProjectExt = ".rsproj"

// ErrNoProject is returned when a directory holds no project file.
var ErrNoProject = errors.New("no " + ProjectExt + " file found")

// AmbiguousError is returned when a directory holds more than one project
// file and the caller has to pick one.
type AmbiguousError struct {
	Dir   string
	Files []string
}

// Error implements the error interface.
func (e *AmbiguousError) Error() string {
	names := make([]string, len(e.Files))
	for i, f := range e.Files {
		names[i] = filepath.Base(f)
	}
	return fmt.Sprintf("found multiple %s files in %s, specify one of: %s", ProjectExt, e.Dir, strings.Join(names, ", "))
}

// FindFilesByExtension returns the regular files directly inside dir whose
// names end with extension, sorted by name. Subdirectories are not searched.
func FindFilesByExtension(dir string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, d := range entries {
		if !d.Type().IsRegular() || !strings.HasSuffix(d.Name(), extension) {
			continue
		}
		files = append(files, filepath.Join(dir, d.Name()))
	}
	sort.Strings(files)

	return files, nil
}

// FindProjectFiles returns the project files directly inside dir.
func FindProjectFiles(dir string) ([]string, error) {
	return FindFilesByExtension(dir, ProjectExt)
}

// ResolveProject turns a user-supplied path into the absolute path of one
// project file. An empty path means the current directory. A directory must
// hold exactly one project file. A path that does not exist is retried with
// the project extension appended.
func ResolveProject(path string) (string, error) {
	if path == "" {
		path = "."
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) && !strings.HasSuffix(path, ProjectExt) {
		if alt, altErr := os.Stat(path + ProjectExt); altErr == nil {
			path, info, err = path+ProjectExt, alt, nil
		}
	}
	if err != nil {
		return "", fmt.Errorf("failed to find project %s: %w", path, err)
	}

	if info.IsDir() {
		files, err := FindProjectFiles(path)
		if err != nil {
			return "", fmt.Errorf("failed to list %s: %w", path, err)
		}
		switch len(files) {
		case 0:
			return "", fmt.Errorf("%w in %s", ErrNoProject, path)
		case 1:
			path = files[0]
		default:
			return "", &AmbiguousError{Dir: path, Files: files}
		}
	}

	return filepath.Abs(path)
}
