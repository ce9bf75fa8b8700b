package subtitle

import (
	"bytes"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/nwaples/rardecode/v2"

	"github.com/ciefp/subgrab/internal/config"
)

// Kind classifies a downloaded payload by content, independent of whatever
// extension or MIME type the catalog claimed.
type Kind int

const (
	KindUnknown Kind = iota
	KindSubRip
	KindWebVTT
	KindSubStation
	KindMicroDVD
	KindZipArchive
	KindRarArchive
	KindHTMLPage
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindSubRip:
		return "srt"
	case KindWebVTT:
		return "vtt"
	case KindSubStation:
		return "ass"
	case KindMicroDVD:
		return "sub"
	case KindZipArchive:
		return "zip"
	case KindRarArchive:
		return "rar"
	case KindHTMLPage:
		return "html"
	default:
		return "unknown"
	}
}

// Extension returns the file extension for subtitle kinds, with ".srt" as
// the fallback for anything that is not a recognized text format.
func (k Kind) Extension() string {
	switch k {
	case KindWebVTT:
		return ".vtt"
	case KindSubStation:
		return ".ass"
	case KindMicroDVD:
		return ".sub"
	default:
		return ".srt"
	}
}

var (
	zipMagic = []byte("PK")
	rarMagic = []byte("Rar!")

	// A numbered SubRip block: cue index, then a timestamp line. The
	// millisecond separator is a comma, but some catalogs ship dots.
	srtBlockPattern = regexp.MustCompile(`(?m)^\d+\r?\n\d{2}:\d{2}:\d{2}[,.]\d{3}\s*-->\s*\d{2}:\d{2}:\d{2}[,.]\d{3}`)

	// MicroDVD frame-based cues: {start}{stop}text
	microDVDPattern = regexp.MustCompile(`(?m)^\{\d+\}\{\d+\}`)
)

// Classify inspects raw bytes and reports what they contain.
func Classify(data []byte) Kind {
	if len(data) == 0 {
		return KindUnknown
	}
	if bytes.HasPrefix(data, zipMagic) {
		return KindZipArchive
	}
	if bytes.HasPrefix(data, rarMagic) {
		return KindRarArchive
	}

	probe := data
	if len(probe) > 4096 {
		probe = probe[:4096]
	}
	text := string(stripBOM(probe))

	if strings.HasPrefix(strings.TrimLeft(text, "\uFEFF \t\r\n"), "WEBVTT") {
		return KindWebVTT
	}
	if srtBlockPattern.MatchString(text) {
		return KindSubRip
	}
	if strings.Contains(text, "[Script Info]") {
		return KindSubStation
	}
	if microDVDPattern.MatchString(text) {
		return KindMicroDVD
	}
	if isHTML(data) {
		return KindHTMLPage
	}
	return KindUnknown
}

// isHTML reports whether the payload looks like an HTML page, which for a
// subtitle download means an error page served with status 200.
func isHTML(data []byte) bool {
	head := data
	if len(head) > 1000 {
		head = head[:1000]
	}
	lower := bytes.ToLower(head)
	return bytes.Contains(lower, []byte("<html")) || bytes.Contains(lower, []byte("<!doctype"))
}

// extensionPriority orders archive entries by how much we want them.
var extensionPriority = []string{".srt", ".sub", ".txt", ".ass", ".ssa", ".vtt"}

// ClassifyAndExtract turns a raw download payload into subtitle content.
// Archives are opened and the best candidate entry is pulled out; plain
// payloads come back unchanged with their sniffed extension. A malformed
// archive degrades to returning the raw bytes rather than failing.
// The second return is the inferred extension; the third reports whether the
// payload was recognized as subtitle content at all (an HTML error page or
// unknown binary is not).
func ClassifyAndExtract(data []byte) ([]byte, string, bool) {
	switch Classify(data) {
	case KindZipArchive:
		return extractFromZip(data)
	case KindRarArchive:
		return extractFromRar(data)
	case KindWebVTT:
		return data, ".vtt", true
	case KindSubRip:
		return data, ".srt", true
	case KindSubStation:
		return data, ".ass", true
	case KindMicroDVD:
		return data, ".sub", true
	case KindHTMLPage:
		return data, "", false
	default:
		return data, "", false
	}
}

func extractFromZip(data []byte) ([]byte, string, bool) {
	logger := config.GetLogger()

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		logger.Warn().Err(err).Msg("Malformed ZIP payload, returning raw bytes")
		return data, ".srt", true
	}

	var names []string
	open := func(name string) ([]byte, bool) {
		for _, file := range reader.File {
			if file.Name != name || file.FileInfo().IsDir() {
				continue
			}
			rc, err := file.Open()
			if err != nil {
				logger.Warn().Err(err).Str("entry", name).Msg("Failed to open ZIP entry")
				return nil, false
			}
			defer rc.Close()
			content, err := io.ReadAll(rc)
			if err != nil {
				logger.Warn().Err(err).Str("entry", name).Msg("Failed to read ZIP entry")
				return nil, false
			}
			return content, true
		}
		return nil, false
	}

	for _, file := range reader.File {
		if !file.FileInfo().IsDir() {
			names = append(names, file.Name)
		}
	}
	return pickEntry(names, open, data)
}

func extractFromRar(data []byte) ([]byte, string, bool) {
	logger := config.GetLogger()

	// rardecode reads sequentially, so collect every entry in one pass and
	// pick afterwards.
	contents := make(map[string][]byte)
	var names []string

	reader, err := rardecode.NewReader(bytes.NewReader(data))
	if err != nil {
		logger.Warn().Err(err).Msg("Malformed RAR payload, returning raw bytes")
		return data, ".srt", true
	}
	for {
		header, err := reader.Next()
		if err != nil {
			break
		}
		if header.IsDir {
			continue
		}
		content, err := io.ReadAll(reader)
		if err != nil {
			logger.Warn().Err(err).Str("entry", header.Name).Msg("Failed to read RAR entry")
			continue
		}
		names = append(names, header.Name)
		contents[header.Name] = content
	}

	open := func(name string) ([]byte, bool) {
		content, ok := contents[name]
		return content, ok
	}
	return pickEntry(names, open, data)
}

// pickEntry selects the best archive entry: first extension in priority
// order, else the first entry in archive order, else the raw archive bytes.
func pickEntry(names []string, open func(string) ([]byte, bool), raw []byte) ([]byte, string, bool) {
	for _, wanted := range extensionPriority {
		for _, name := range names {
			if strings.EqualFold(filepath.Ext(name), wanted) {
				if content, ok := open(name); ok {
					return content, extensionFor(name, content), true
				}
			}
		}
	}
	for _, name := range names {
		if content, ok := open(name); ok {
			return content, extensionFor(name, content), true
		}
	}
	return raw, ".srt", true
}

// extensionFor trusts the entry's own extension when it is a known subtitle
// extension, and falls back to sniffing the content otherwise.
func extensionFor(name string, content []byte) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".srt", ".sub", ".ass", ".vtt":
		return ext
	case ".ssa":
		return ".ass"
	}
	return Classify(content).Extension()
}

func stripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
}
