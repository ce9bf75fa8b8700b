package subtitle

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/ciefp/subgrab/internal/config"
)

// EnsureUTF8 transcodes subtitle text to UTF-8 when it is not already valid.
// UTF-16 payloads are detected by BOM; everything else that fails UTF-8
// validation is assumed to be a legacy single-byte code page: Windows-1251
// for Cyrillic-script languages, Windows-1250 otherwise, with a byte-range
// heuristic when no language hint is available. Undecodable input comes
// back unchanged.
func EnsureUTF8(data []byte, languageCode string) []byte {
	if len(data) == 0 {
		return data
	}

	if bytes.HasPrefix(data, []byte{0xFF, 0xFE}) || bytes.HasPrefix(data, []byte{0xFE, 0xFF}) {
		decoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		if decoded, err := decoder.Bytes(data); err == nil {
			return decoded
		}
		return data
	}

	data = stripBOM(data)
	if utf8.Valid(data) {
		return data
	}

	cm := charmap.Windows1250
	switch languageCode {
	case "sr", "mk", "bg", "ru", "uk":
		cm = charmap.Windows1251
	case "":
		if looksCyrillic(data) {
			cm = charmap.Windows1251
		}
	}

	decoded, err := cm.NewDecoder().Bytes(data)
	if err != nil {
		logger := config.GetLogger()
		logger.Warn().Err(err).Str("charmap", cm.String()).Msg("Failed to transcode subtitle text")
		return data
	}
	return decoded
}

// looksCyrillic reports whether high-bit bytes cluster in the Windows-1251
// Cyrillic letter range. Rough, but it only has to pick between two code
// pages for one catalog's languages.
func looksCyrillic(data []byte) bool {
	var high, cyrillic int
	for _, b := range data {
		if b < 0x80 {
			continue
		}
		high++
		if b >= 0xC0 {
			cyrillic++
		}
	}
	return high > 0 && cyrillic*2 > high
}
