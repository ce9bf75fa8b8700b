package titlovi

import (
	"regexp"
	"strconv"
	"strings"
)

// The detail page has no stable structure, so every field is scraped with an
// ordered chain of patterns, strictest first. A miss on the whole chain
// leaves the field at its zero value; partial information is still a result.

var titlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<meta\s+property=["']og:title["']\s+content=["']([^"']+)["']`),
	regexp.MustCompile(`(?is)<h1[^>]*>\s*(?:<[^>]+>\s*)*([^<]+)`),
	regexp.MustCompile(`(?is)<title>\s*([^<|]+)`),
}

var yearPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\((\d{4})\)`),
	regexp.MustCompile(`(?is)(?:godina|year)\D{0,40}(\d{4})`),
}

var languagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<img[^>]+class=["'][^"']*flag[^"']*["'][^>]+alt=["']([^"']+)["']`),
	regexp.MustCompile(`(?is)(?:jezik|language)\s*:?\s*(?:<[^>]+>\s*)*([A-Za-zĆćČčŠšŽžĐđ]+)`),
	regexp.MustCompile(`(?i)\b(srpski|hrvatski|bosanski|makedonski|slovenski|engleski|english|cirilica|ćirilica)\b`),
}

var downloadCountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)(?:preuzimanja|downloads?)\D{0,40}?([\d.,]+)`),
	regexp.MustCompile(`(?is)([\d.,]+)\s*(?:preuzimanja|downloads?)`),
}

var fpsPattern = regexp.MustCompile(`(?is)fps\D{0,20}(\d{2}(?:\.\d+)?)`)

// Season/episode markers come in both local and English spellings, plus the
// usual release-name form.
var (
	seasonEpisodePattern = regexp.MustCompile(`(?i)\bS(\d{1,2})E(\d{1,2})\b`)
	seasonPatterns       = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:sezona|season)[ .:]{0,3}(\d{1,2})`),
		regexp.MustCompile(`(?i)(\d{1,2})\.?\s*(?:sezona|season)`),
	}
	episodePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:epizoda|episode)[ .:]{0,3}(\d{1,2})`),
		regexp.MustCompile(`(?i)(\d{1,2})\.?\s*(?:epizoda|episode)`),
	}
)

// detailInfo is what the secondary page fetch yields for one candidate.
type detailInfo struct {
	Title     string
	Year      string
	Language  string
	Code      string
	Downloads int
	FPS       float64
	Season    int
	Episode   int
	Release   string
}

func firstMatch(html string, patterns []*regexp.Regexp) string {
	for _, pattern := range patterns {
		if match := pattern.FindStringSubmatch(html); match != nil {
			return strings.TrimSpace(match[1])
		}
	}
	return ""
}

// parseDetail scrapes one candidate's detail page.
func parseDetail(html string) detailInfo {
	info := detailInfo{
		Title:    firstMatch(html, titlePatterns),
		Year:     firstMatch(html, yearPatterns),
		Language: firstMatch(html, languagePatterns),
	}
	info.Code = codeForLabel(info.Language)

	if raw := firstMatch(html, downloadCountPatterns); raw != "" {
		cleaned := strings.NewReplacer(".", "", ",", "").Replace(raw)
		if n, err := strconv.Atoi(cleaned); err == nil {
			info.Downloads = n
		}
	}
	if match := fpsPattern.FindStringSubmatch(html); match != nil {
		if f, err := strconv.ParseFloat(match[1], 64); err == nil {
			info.FPS = f
		}
	}

	if match := seasonEpisodePattern.FindStringSubmatch(html); match != nil {
		info.Season, _ = strconv.Atoi(match[1])
		info.Episode, _ = strconv.Atoi(match[2])
		info.Release = match[0]
	} else {
		if raw := firstMatch(html, seasonPatterns); raw != "" {
			info.Season, _ = strconv.Atoi(raw)
		}
		if raw := firstMatch(html, episodePatterns); raw != "" {
			info.Episode, _ = strconv.Atoi(raw)
		}
	}

	if title := info.Title; title != "" {
		// Site titles read "Name (1999) | Titlovi"; keep the name only.
		if idx := strings.IndexAny(title, "(|"); idx > 0 {
			info.Title = strings.TrimSpace(title[:idx])
		}
	}
	return info
}
