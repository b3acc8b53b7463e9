package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const gitignoreName = ".gitignore"

// projectIgnores lists what a project directory keeps out of version
// control. The configuration file itself stays tracked.
//
//nolint:gochecknoglobals // read-only pattern list
var projectIgnores = []string{
	"results/",
	"*.ndjson",
	"*.log",
}

// GitignoreContent returns the .gitignore written into new project
// directories.
func GitignoreContent() string {
	var b strings.Builder
	b.WriteString("# dpe3cl project data, generated by `dpe3cl config init`\n")
	b.WriteString("# config.yaml is tracked; results and logs are not.\n")
	for _, p := range projectIgnores {
		b.WriteString(p)
		b.WriteByte('\n')
	}
	return b.String()
}

// EnsureGitignore writes the project .gitignore into dir, creating dir as
// needed. An existing file is left untouched and reported as not created.
func EnsureGitignore(dir string) (bool, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return false, fmt.Errorf("creating directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, gitignoreName)
	//nolint:gosec // .gitignore is meant to be readable by every tool.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("creating %s: %w", path, err)
	}

	_, err = f.WriteString(GitignoreContent())
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}
