package models

import "testing"

func TestParseQuality(t *testing.T) {
	tests := []struct {
		input string
		want  Quality
	}{
		{"360p", Quality360p},
		{"480p", Quality480p},
		{"720p", Quality720p},
		{"1080p", Quality1080p},
		{"2160p", Quality2160p},
		{"4k", Quality2160p},
		{"1080P", Quality1080p},
		{"dvdrip", QualityUnknown},
		{"", QualityUnknown},
	}

	for _, tt := range tests {
		if got := ParseQuality(tt.input); got != tt.want {
			t.Errorf("ParseQuality(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestQualityFromRelease(t *testing.T) {
	tests := []struct {
		release string
		want    Quality
	}{
		{"The.Matrix.1999.1080p.BluRay.x264", Quality1080p},
		{"Show.S01E02.720p.WEB-DL", Quality720p},
		{"Movie.2160p.UHD", Quality2160p},
		{"Movie.DVDRip.XviD", QualityUnknown},
	}

	for _, tt := range tests {
		if got := QualityFromRelease(tt.release); got != tt.want {
			t.Errorf("QualityFromRelease(%q) = %v, want %v", tt.release, got, tt.want)
		}
	}
}

func TestIsHDRelease(t *testing.T) {
	tests := []struct {
		release string
		want    bool
	}{
		{"The.Matrix.1999.1080p.BluRay.x264", true},
		{"Show.S01E02.720p.WEB-DL.H264", true},
		{"Movie.2020.WEBDL.x265", true},
		{"Some.Movie.HD.Remux", true},
		{"Movie.DVDRip.XviD", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsHDRelease(tt.release); got != tt.want {
			t.Errorf("IsHDRelease(%q) = %v, want %v", tt.release, got, tt.want)
		}
	}
}

func TestQualityJSONRoundTrip(t *testing.T) {
	data, err := Quality1080p.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"1080p"` {
		t.Errorf("marshal = %s", data)
	}

	var q Quality
	if err := q.UnmarshalJSON(data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if q != Quality1080p {
		t.Errorf("round trip = %v", q)
	}
}
