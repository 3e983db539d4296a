package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file is not an error.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Level is the severity tag written by the logger package.
type Level string

const (
	LevelDebug Level = "DBG"
	LevelInfo  Level = "INF"
	LevelWarn  Level = "WRN"
	LevelError Level = "ERR"
	LevelNone  Level = ""
)

// Entry is one parsed log line.
type Entry struct {
	Level     Level
	Timestamp string
	Message   string
	Raw       string
}

// Parse splits "[INF] 2006/01/02 15:04:05 message". Lines in any other shape
// come back with only Message and Raw set.
func Parse(line string) Entry {
	e := Entry{Message: line, Raw: line}
	if len(line) < 5 || line[0] != '[' || line[4] != ']' {
		return e
	}
	lvl := Level(line[1:4])
	switch lvl {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
	default:
		return e
	}
	e.Level = lvl
	rest := strings.TrimPrefix(line[5:], " ")

	// date and time are the next two fields
	fields := strings.SplitN(rest, " ", 3)
	if len(fields) == 3 && looksLikeDate(fields[0]) {
		e.Timestamp = fields[0] + " " + fields[1]
		e.Message = fields[2]
	} else {
		e.Message = rest
	}
	return e
}

func looksLikeDate(s string) bool {
	return len(s) == 10 && s[4] == '/' && s[7] == '/'
}

func (l Level) rank() int {
	switch l {
	case LevelDebug:
		return 0
	case LevelInfo, LevelNone:
		return 1
	case LevelWarn:
		return 2
	case LevelError:
		return 3
	}
	return 1
}

// Filter keeps entries at or above min whose raw text contains query
// (case-insensitive). An empty query matches everything.
func Filter(lines []string, min Level, query string) []Entry {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]Entry, 0, len(lines))
	for _, line := range lines {
		e := Parse(line)
		if e.Level.rank() < min.rank() {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(e.Raw), query) {
			continue
		}
		out = append(out, e)
	}
	return out
}
