package subtitle

import (
	"fmt"
	"regexp"
	"strings"
)

var vttTimestampLine = regexp.MustCompile(`^(\d{2}:)?\d{2}:\d{2}\.\d{3}\s*-->\s*(\d{2}:)?\d{2}:\d{2}\.\d{3}`)

// ConvertVTTToSRT rewrites a WebVTT payload as SubRip: cues renumbered from
// 1, millisecond separators switched from dot to comma, the WEBVTT header
// and metadata blocks dropped, cue text preserved verbatim. Input that does
// not look like WebVTT comes back unchanged.
func ConvertVTTToSRT(data []byte) []byte {
	if Classify(data) != KindWebVTT {
		return data
	}

	lines := strings.Split(strings.ReplaceAll(string(stripBOM(data)), "\r\n", "\n"), "\n")

	var out strings.Builder
	cue := 0
	inCue := false

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		if vttTimestampLine.MatchString(trimmed) {
			cue++
			out.WriteString(fmt.Sprintf("%d\n", cue))
			out.WriteString(srtTimestamp(trimmed) + "\n")
			inCue = true
			continue
		}

		if !inCue {
			// Header, NOTE/STYLE blocks, cue identifiers and blank lines
			// before the first timestamp all get dropped.
			continue
		}

		if trimmed == "" {
			out.WriteString("\n")
			inCue = false
			continue
		}
		out.WriteString(line + "\n")
	}

	if cue == 0 {
		return data
	}
	return []byte(strings.TrimRight(out.String(), "\n") + "\n")
}

// srtTimestamp converts a VTT timestamp line to SubRip form: dots become
// commas and short MM:SS.mmm stamps gain the hour field SubRip requires.
func srtTimestamp(line string) string {
	parts := strings.SplitN(line, "-->", 2)
	if len(parts) != 2 {
		return strings.ReplaceAll(line, ".", ",")
	}
	return srtTime(parts[0]) + " --> " + srtTime(parts[1])
}

func srtTime(stamp string) string {
	stamp = strings.TrimSpace(stamp)
	// Cue settings can trail the end timestamp; SubRip has no use for them.
	if idx := strings.IndexAny(stamp, " \t"); idx >= 0 {
		stamp = stamp[:idx]
	}
	stamp = strings.ReplaceAll(stamp, ".", ",")
	if strings.Count(stamp, ":") == 1 {
		stamp = "00:" + stamp
	}
	return stamp
}
