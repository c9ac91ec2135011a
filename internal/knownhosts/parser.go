package knownhosts

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"unicode"

	"github.com/charmbracelet/log"
)

const maxLineSize = 1024 * 1024

// ParseLine splits line into host, key type and key value. The split stops
// after the second field so the key value keeps any inner spaces. Lines with
// fewer than three fields are rejected.
func ParseLine(line string) (Entry, bool) {
	line = strings.TrimSpace(line)

	host, rest := cutField(line)
	keyType, keyValue := cutField(rest)

	if host == "" || keyType == "" || keyValue == "" {
		return Entry{}, false
	}

	return Entry{Host: host, KeyType: keyType, KeyValue: keyValue}, true
}

func cutField(s string) (string, string) {
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimLeftFunc(s[i:], unicode.IsSpace)
}

// Parse reads entries from r. Malformed lines are skipped.
func Parse(r io.Reader, logger *log.Logger) ([]Entry, error) {
	if logger == nil {
		logger = log.Default()
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var entries []Entry
	lineNumber := 0

	for scanner.Scan() {
		lineNumber++

		entry, ok := ParseLine(scanner.Text())
		if !ok {
			if strings.TrimSpace(scanner.Text()) != "" {
				logger.Debug("skipping malformed line", "line", lineNumber)
			}
			continue
		}
		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading known_hosts file: %w", err)
	}

	return entries, nil
}

// ParseFile opens path and parses it. A missing file yields ErrFileMissing.
func ParseFile(path string, logger *log.Logger) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileMissing, path)
		}
		return nil, fmt.Errorf("failed to open known_hosts file: %w", err)
	}
	defer file.Close()

	return Parse(file, logger)
}

func writeEntries(w io.Writer, entries []Entry) error {
	for _, e := range entries {
		if _, err := io.WriteString(w, e.String()+"\n"); err != nil {
			return fmt.Errorf("failed to write host: %w", err)
		}
	}
	return nil
}
