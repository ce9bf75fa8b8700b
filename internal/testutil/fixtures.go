// Package testutil holds shared fixture builders for package tests. Nothing
// here is meant for production code paths.
package testutil

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/klauspost/compress/zip"
)

// SRTSample is a minimal two-cue SubRip document.
const SRTSample = "1\n00:00:01,000 --> 00:00:02,500\nHello there\n\n2\n00:00:03,000 --> 00:00:04,000\nGeneral Kenobi\n"

// VTTSample is a minimal two-cue WebVTT document.
const VTTSample = "WEBVTT\n\n00:00:01.000 --> 00:00:02.500\nHello there\n\n00:00:03.000 --> 00:00:04.000\nGeneral Kenobi\n"

// ZipArchive builds an in-memory ZIP with the given entries. Entry order is
// unspecified; use ZipArchiveOrdered when it matters.
func ZipArchive(entries map[string]string) []byte {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	ordered := make([]ZipEntry, 0, len(names))
	for _, name := range names {
		ordered = append(ordered, ZipEntry{Name: name, Content: entries[name]})
	}
	return ZipArchiveOrdered(ordered)
}

// ZipEntry is one named file for ZipArchiveOrdered.
type ZipEntry struct {
	Name    string
	Content string
}

// ZipArchiveOrdered builds an in-memory ZIP preserving entry order.
func ZipArchiveOrdered(entries []ZipEntry) []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, entry := range entries {
		f, err := w.Create(entry.Name)
		if err != nil {
			panic(err)
		}
		if _, err := f.Write([]byte(entry.Content)); err != nil {
			panic(err)
		}
	}
	if err := w.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// SearchEntry is one catalog hit on a scrape search page.
type SearchEntry struct {
	Slug string
	ID   string
}

// ScrapeSearchPage renders a search results page with one candidate anchor
// per entry, plus the usual navigation noise real pages carry.
func ScrapeSearchPage(entries []SearchEntry) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><title>Pretraga | Titlovi</title></head><body>\n")
	b.WriteString(`<nav><a href="/">Home</a><a href="/forum/">Forum</a></nav>` + "\n")
	b.WriteString("<ul class=\"titlovi\">\n")
	for _, entry := range entries {
		fmt.Fprintf(&b, `<li><a href="/titlovi/%s-%s/">%s</a></li>`+"\n", entry.Slug, entry.ID, entry.Slug)
	}
	b.WriteString("</ul></body></html>\n")
	return b.String()
}

// DetailPage describes a scrape detail page to render.
type DetailPage struct {
	Title     string
	Year      string
	Language  string
	Downloads int
	Season    int
	Episode   int
	// DownloadHref, FormAction and MetaRefreshURL switch on the matching
	// download affordance in the rendered HTML.
	DownloadHref   string
	FormAction     string
	MetaRefreshURL string
}

// ScrapeDetailPage renders a candidate detail page.
func ScrapeDetailPage(p DetailPage) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head>\n")
	fmt.Fprintf(&b, `<meta property="og:title" content="%s (%s)"/>`+"\n", p.Title, p.Year)
	if p.MetaRefreshURL != "" {
		fmt.Fprintf(&b, `<meta http-equiv="refresh" content="0;url=%s"/>`+"\n", p.MetaRefreshURL)
	}
	fmt.Fprintf(&b, "<title>%s (%s) | Titlovi</title></head><body>\n", p.Title, p.Year)
	fmt.Fprintf(&b, "<h1>%s</h1>\n", p.Title)
	if p.Language != "" {
		fmt.Fprintf(&b, "<p>Jezik: %s</p>\n", p.Language)
	}
	if p.Downloads > 0 {
		fmt.Fprintf(&b, "<p>Preuzimanja: %d</p>\n", p.Downloads)
	}
	if p.Season > 0 {
		fmt.Fprintf(&b, "<p>Sezona %d, Epizoda %d</p>\n", p.Season, p.Episode)
	}
	if p.FormAction != "" {
		fmt.Fprintf(&b, `<form action="%s" method="post"><input type="hidden" name="mediaid" value="42"/><button>Preuzmi</button></form>`+"\n", p.FormAction)
	}
	if p.DownloadHref != "" {
		fmt.Fprintf(&b, `<a href="%s">Preuzmi titl</a>`+"\n", p.DownloadHref)
	}
	b.WriteString("</body></html>\n")
	return b.String()
}
