package models

import "strings"

// SearchMethod records which lookup produced a result. The escalating
// search tags each tier's results so ranking can prefer stronger lookups.
type SearchMethod int

const (
	MethodStandard SearchMethod = iota
	MethodIdentifier
	MethodFilename
	MethodFreeText
)

// String returns the string representation of the search method
func (m SearchMethod) String() string {
	switch m {
	case MethodIdentifier:
		return "identifier"
	case MethodFilename:
		return "filename"
	case MethodFreeText:
		return "freetext"
	default:
		return "standard"
	}
}

// ParseSearchMethod converts a method name to the SearchMethod enum
func ParseSearchMethod(name string) SearchMethod {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "identifier":
		return MethodIdentifier
	case "filename":
		return MethodFilename
	case "freetext":
		return MethodFreeText
	default:
		return MethodStandard
	}
}

// TierRank returns the quality rank of the method for escalated searches.
// Lower is better: an identifier match beats a filename match beats free text,
// and results from non-escalating services rank last.
func (m SearchMethod) TierRank() int {
	switch m {
	case MethodIdentifier:
		return 0
	case MethodFilename:
		return 1
	case MethodFreeText:
		return 2
	default:
		return 3
	}
}

// MarshalJSON implements json.Marshaler interface
func (m SearchMethod) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler interface
func (m *SearchMethod) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), `"`)
	*m = ParseSearchMethod(str)
	return nil
}
