package service

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tonkit/tonkit/cli/printer"
	"github.com/tonkit/tonkit/common"
	"github.com/tonkit/tonkit/common/logging"
)

const DefaultCopyWord = "example"

type CopyParams struct {
	// Source holds glob patterns in the filepath.Match syntax, where a "**"
	// segment also matches any number of directories.
	Source []string
	// Words mark template files: "keys.example.json" is copied to "keys.json".
	Words []string
}

// Copy materializes template files next to them. Existing targets are overwritten.
// It returns the paths written.
func (s *Service) Copy(p CopyParams) ([]string, error) {
	words := common.Unique(p.Words)
	if len(words) == 0 {
		words = []string{DefaultCopyWord}
	}

	var written []string
	for _, pattern := range common.Unique(p.Source) {
		files, err := glob(pattern)
		if err != nil {
			return written, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		for _, file := range files {
			for _, word := range words {
				target, ok := copyTarget(file, word)
				if !ok {
					continue
				}
				if err := copyFile(file, target); err != nil {
					return written, err
				}
				s.logger.Debug().Str(logging.FieldFile, target).Msg("Copied")
				s.printer.Print(printer.Green(filepath.Base(file)), " > ", printer.Green(filepath.Base(target)))
				written = append(written, target)
			}
		}
	}
	return written, nil
}

func copyTarget(file, word string) (string, bool) {
	dir, name := filepath.Split(file)
	search := "." + word + "."
	if !strings.Contains(name, search) {
		return "", false
	}
	return dir + strings.Replace(name, search, ".", 1), true
}

func copyFile(from, to string) error {
	info, err := os.Stat(from)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", from)
	}
	data, err := os.ReadFile(from)
	if err != nil {
		return err
	}
	return os.WriteFile(to, data, info.Mode().Perm())
}

const anyDirs = "**"

func glob(pattern string) ([]string, error) {
	if !strings.Contains(pattern, anyDirs) {
		return filepath.Glob(pattern)
	}

	sep := string(filepath.Separator)
	segments := strings.Split(filepath.Clean(pattern), sep)
	static := 0
	for static < len(segments) && !strings.ContainsAny(segments[static], `*?[\`) {
		static++
	}
	for _, seg := range segments[static:] {
		if seg == anyDirs {
			continue
		}
		if _, err := filepath.Match(seg, ""); err != nil {
			return nil, err
		}
	}

	root := strings.Join(segments[:static], sep)
	switch {
	case static == 0:
		root = "."
	case root == "":
		root = sep
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root && errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if matchSegments(segments[static:], strings.Split(rel, sep)) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func matchSegments(pattern, path []string) bool {
	if len(pattern) == 0 {
		return len(path) == 0
	}
	if pattern[0] == anyDirs {
		for i := 0; i <= len(path); i++ {
			if matchSegments(pattern[1:], path[i:]) {
				return true
			}
		}
		return false
	}
	if len(path) == 0 {
		return false
	}
	if ok, _ := filepath.Match(pattern[0], path[0]); !ok {
		return false
	}
	return matchSegments(pattern[1:], path[1:])
}
