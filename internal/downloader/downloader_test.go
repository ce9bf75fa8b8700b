package downloader

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/ciefp/subgrab/internal/apperrors"
	"github.com/ciefp/subgrab/internal/config"
	"github.com/ciefp/subgrab/internal/models"
	"github.com/ciefp/subgrab/internal/provider"
	"github.com/ciefp/subgrab/internal/testutil"
)

// stubCatalog serves canned payloads per handle and counts download calls.
type stubCatalog struct {
	service  models.Service
	payloads map[string][]byte
	err      error

	mu    sync.Mutex
	calls int
}

func (s *stubCatalog) Service() models.Service                  { return s.service }
func (s *stubCatalog) Enabled() bool                            { return true }
func (s *stubCatalog) Supports(models.SearchMethod) bool        { return true }
func (s *stubCatalog) Search(context.Context, models.SearchQuery, models.SearchMethod) ([]models.SubtitleResult, error) {
	return nil, nil
}

func (s *stubCatalog) Download(_ context.Context, result models.SubtitleResult) ([]byte, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	payload, ok := s.payloads[result.Handle]
	if !ok {
		return nil, apperrors.NewNotFoundError("subtitle", result.Handle)
	}
	return payload, nil
}

func (s *stubCatalog) downloads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// stubSource maps one service to one adapter.
type stubSource map[models.Service]provider.Provider

func (s stubSource) Provider(service models.Service) provider.Provider { return s[service] }

// mapCache is a plain map behind the cache interface.
type mapCache map[string][]byte

func (m mapCache) Get(key string) ([]byte, bool) { v, ok := m[key]; return v, ok }
func (m mapCache) Set(key string, value []byte)  { m[key] = value }
func (m mapCache) Contains(key string) bool      { _, ok := m[key]; return ok }
func (m mapCache) Len() int                      { return len(m) }
func (m mapCache) Close() error                  { return nil }

func testDownloader(catalog *stubCatalog, payloads mapCache) *Downloader {
	cfg := &config.Config{}
	source := stubSource{catalog.service: catalog}
	return New(source, payloads, func() *config.Config { return cfg })
}

func subdlResult(handle string) models.SubtitleResult {
	return models.SubtitleResult{
		Title:        "The Matrix",
		LanguageCode: "en",
		Handle:       handle,
		Service:      models.ServiceSubDL,
	}
}

func TestFetchExtractsZipPayload(t *testing.T) {
	catalog := &stubCatalog{
		service: models.ServiceSubDL,
		payloads: map[string][]byte{
			"1-1": testutil.ZipArchive(map[string]string{"The.Matrix.srt": testutil.SRTSample}),
		},
	}
	d := testDownloader(catalog, mapCache{})

	resolved, err := d.Fetch(context.Background(), subdlResult("1-1"))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if resolved.Extension != ".srt" {
		t.Errorf("extension %q, want .srt", resolved.Extension)
	}
	if string(resolved.Content) != testutil.SRTSample {
		t.Errorf("content mismatch:\n%s", resolved.Content)
	}
	if resolved.Result.Handle != "1-1" {
		t.Errorf("resolved result %+v, want the original result carried through", resolved.Result)
	}
}

func TestFetchSubOnlyArchive(t *testing.T) {
	catalog := &stubCatalog{
		service: models.ServiceSubDL,
		payloads: map[string][]byte{
			"1-2": testutil.ZipArchive(map[string]string{
				"readme.nfo":     "release notes",
				"The.Matrix.sub": "{1}{50}Hello",
			}),
		},
	}
	d := testDownloader(catalog, mapCache{})

	resolved, err := d.Fetch(context.Background(), subdlResult("1-2"))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if resolved.Extension != ".sub" {
		t.Errorf("extension %q, want .sub", resolved.Extension)
	}
	if string(resolved.Content) != "{1}{50}Hello" {
		t.Errorf("content %q", resolved.Content)
	}
}

func TestFetchRejectsErrorPage(t *testing.T) {
	catalog := &stubCatalog{
		service: models.ServiceSubDL,
		payloads: map[string][]byte{
			"1-3": []byte("<!DOCTYPE html><html><body>Not found</body></html>"),
		},
	}
	d := testDownloader(catalog, mapCache{})

	_, err := d.Fetch(context.Background(), subdlResult("1-3"))
	if !errors.Is(err, &apperrors.ContentError{}) {
		t.Fatalf("got %v, want a content failure", err)
	}
}

func TestFetchUsesPayloadCache(t *testing.T) {
	catalog := &stubCatalog{
		service: models.ServiceSubDL,
		payloads: map[string][]byte{
			"1-4": []byte(testutil.SRTSample),
		},
	}
	payloads := mapCache{}
	d := testDownloader(catalog, payloads)

	for i := 0; i < 3; i++ {
		if _, err := d.Fetch(context.Background(), subdlResult("1-4")); err != nil {
			t.Fatalf("Fetch %d: %v", i, err)
		}
	}
	if got := catalog.downloads(); got != 1 {
		t.Errorf("catalog hit %d times, want the cache to absorb repeats", got)
	}
}

func TestFetchDownloadFailureNotCached(t *testing.T) {
	catalog := &stubCatalog{
		service: models.ServiceSubDL,
		err:     apperrors.NewTransientServiceError("subdl", 503, errors.New("unavailable")),
	}
	payloads := mapCache{}
	d := testDownloader(catalog, payloads)

	_, err := d.Fetch(context.Background(), subdlResult("1-5"))
	if !errors.Is(err, &apperrors.TransientServiceError{}) {
		t.Fatalf("got %v, want the adapter's transient failure", err)
	}
	if len(payloads) != 0 {
		t.Errorf("failure left %d cached payloads", len(payloads))
	}
}

func TestFetchUnknownService(t *testing.T) {
	d := New(stubSource{}, nil, func() *config.Config { return &config.Config{} })

	_, err := d.Fetch(context.Background(), subdlResult("1-6"))
	if !errors.Is(err, &apperrors.ConfigurationError{}) {
		t.Fatalf("got %v, want a configuration failure", err)
	}
}

func TestFetchEmptyHandle(t *testing.T) {
	d := New(stubSource{}, nil, func() *config.Config { return &config.Config{} })

	_, err := d.Fetch(context.Background(), subdlResult(""))
	if !errors.Is(err, &apperrors.ContentError{}) {
		t.Fatalf("got %v, want a content failure", err)
	}
}

func TestFetchRepairsLegacyEncoding(t *testing.T) {
	payload := []byte("1\n00:00:01,000 --> 00:00:02,000\n\xC4\xEE\xE1\xF0\xEE\n")
	catalog := &stubCatalog{
		service:  models.ServiceTitlovi,
		payloads: map[string][]byte{"film-1": payload},
	}
	cfg := &config.Config{}
	d := New(stubSource{models.ServiceTitlovi: catalog}, nil, func() *config.Config { return cfg })

	result := models.SubtitleResult{
		Title:        "Film",
		LanguageCode: "sr",
		Handle:       "film-1",
		Service:      models.ServiceTitlovi,
	}
	resolved, err := d.Fetch(context.Background(), result)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !utf8.Valid(resolved.Content) {
		t.Fatalf("content is not valid UTF-8: %q", resolved.Content)
	}
	if !strings.Contains(string(resolved.Content), "Добро") {
		t.Errorf("content %q, want the windows-1251 text transcoded", resolved.Content)
	}
}
