package resource

import (
	"bufio"
	"bytes"
	"log/slog"
	"regexp"
	"strings"
)

// Line is one meaningful line of a resource file.
type Line struct {
	No   int // 1-based
	Text string
}

// readLines splits data into lines, dropping comments and blank lines.
func readLines(data []byte) ([]Line, error) {
	var lines []Line
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for no := 1; sc.Scan(); no++ {
		text := strings.TrimSuffix(sc.Text(), "\r")
		if no == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}
		if text == "" || strings.HasPrefix(text, "//") {
			continue
		}
		lines = append(lines, Line{No: no, Text: text})
	}
	return lines, sc.Err()
}

// JoinPattern joins pattern alternatives as one capturing group.
func JoinPattern(alternatives []string) string {
	return "(" + strings.Join(alternatives, "|") + ")"
}

func parsePattern(lines []Line) string {
	alts := make([]string, len(lines))
	for i, l := range lines {
		alts[i] = l.Text
	}
	return JoinPattern(alts)
}

var normalizationLine = regexp.MustCompile(`"(.*?)","(.*?)"`)

// parseNormalization reads "key","value" pairs. A line may hold several
// pairs; a line with none is logged and skipped.
func parseNormalization(logger *slog.Logger, path string, lines []Line) map[string]string {
	entries := make(map[string]string, len(lines))
	for _, l := range lines {
		matches := normalizationLine.FindAllStringSubmatch(l.Text, -1)
		if len(matches) == 0 {
			logger.Warn("cannot read normalization line", "path", path, "line", l.No, "text", l.Text)
			continue
		}
		for _, m := range matches {
			entries[m[1]] = m[2]
		}
	}
	return entries
}
