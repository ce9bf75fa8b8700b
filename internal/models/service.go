package models

import "strings"

// Service identifies the catalog a subtitle record originates from.
// The downloader dispatches on this value, so every result must carry it.
type Service int

const (
	ServiceUnknown Service = iota
	ServiceTitlovi
	ServiceSubDL
	ServiceOpenSubtitles
)

// String returns the string representation of the service
func (s Service) String() string {
	switch s {
	case ServiceTitlovi:
		return "titlovi"
	case ServiceSubDL:
		return "subdl"
	case ServiceOpenSubtitles:
		return "opensubtitles"
	default:
		return "unknown"
	}
}

// ParseService converts a service name to the Service enum
func ParseService(name string) Service {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "titlovi":
		return ServiceTitlovi
	case "subdl":
		return ServiceSubDL
	case "opensubtitles":
		return ServiceOpenSubtitles
	default:
		return ServiceUnknown
	}
}

// Priority returns the ranking tier of the service. Public catalogs with no
// request quota rank before key-authenticated, rate-limited ones.
func (s Service) Priority() int {
	switch s {
	case ServiceTitlovi:
		return 0
	case ServiceSubDL:
		return 1
	case ServiceOpenSubtitles:
		return 2
	default:
		return 3
	}
}

// MarshalJSON implements json.Marshaler interface
func (s Service) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler interface
func (s *Service) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), `"`)
	*s = ParseService(str)
	return nil
}
