package downloader

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/ciefp/subgrab/internal/config"
	"github.com/ciefp/subgrab/internal/models"
)

var unsafeNameChars = regexp.MustCompile(`[^\w\-_]`)

// Save persists a resolved subtitle under dir, or under the configured save
// path when dir is empty. The file name is built from the originating
// result so artifacts from different catalogs and languages never collide.
// Returns the full path written.
func (d *Downloader) Save(resolved *models.ResolvedSubtitle, dir string) (string, error) {
	if dir == "" {
		dir = d.cfg().SavePath
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating save directory: %w", err)
	}

	path := filepath.Join(dir, ArtifactName(resolved.Result, resolved.Extension, time.Now()))
	if err := os.WriteFile(path, resolved.Content, 0o644); err != nil {
		return "", fmt.Errorf("writing subtitle file: %w", err)
	}

	logger := config.GetLogger()
	logger.Info().
		Str("ref", resolved.Result.Ref()).
		Str("path", path).
		Msg("Saved subtitle")
	return path, nil
}

// ArtifactName builds the on-disk file name for a resolved subtitle:
// sanitized title, an SxxEyy tag for episodes, the service tag, language
// code and a timestamp, then the sniffed extension.
func ArtifactName(result models.SubtitleResult, ext string, now time.Time) string {
	title := sanitizeName(result.Title)
	if title == "" {
		title = "subtitle"
	}

	parts := []string{title}
	if result.Season > 0 && result.Episode > 0 {
		parts = append(parts, fmt.Sprintf("S%02dE%02d", result.Season, result.Episode))
	}
	parts = append(parts, result.Service.String(), result.LanguageCode, fmt.Sprintf("%d", now.Unix()))
	return strings.Join(parts, "_") + ext
}

func sanitizeName(title string) string {
	title = strings.ReplaceAll(strings.TrimSpace(title), " ", "_")
	return unsafeNameChars.ReplaceAllString(title, "")
}
