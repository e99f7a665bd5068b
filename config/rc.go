package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// RCPaths returns the candidate rc files in lookup order:
// $XDG_CONFIG_HOME/system-graph/system-graphrc, then ~/.system-graphrc.
func RCPaths() []string {
	paths := []string{filepath.Join(Dir(), AppName+"rc")}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, "."+AppName+"rc"))
	}
	return paths
}

// ReadRC returns the arguments stored in the first existing file of paths,
// one argument per line, and the path it read. Lines are trimmed; blank
// lines and lines starting with '#' are skipped. No file yields nil.
//
// Because every line is one argument, "-max-points 10" does not work; write
// "-max-points=10" or put the value on the next line.
func ReadRC(paths []string) ([]string, string, error) {
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, "", fmt.Errorf("config: open %s: %w", path, err)
		}
		defer f.Close()

		var args []string
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			args = append(args, line)
		}
		if err := scanner.Err(); err != nil {
			return nil, "", fmt.Errorf("config: read %s: %w", path, err)
		}
		return args, path, nil
	}
	return nil, "", nil
}
