package model

import (
	"encoding/json"
	"strings"
)

// StringList is an ordered sequence of strings. The comma joined text form only
// exists in the edit form; see SplitList and JoinList.
type StringList []string

// UnmarshalJSON accepts a JSON array, or a comma joined string as older records carry.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err == nil {
		*l = items
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	*l = SplitList(joined)
	return nil
}

// SplitList splits comma separated form text, trimming whitespace and dropping empty segments.
func SplitList(s string) StringList {
	parts := strings.Split(s, ",")
	out := make(StringList, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinList is the inverse of SplitList for lists without blank or comma bearing items.
func JoinList(l StringList) string {
	return strings.Join(l, ", ")
}

type Specialty struct {
	SpecialtyID      ID         `json:"specialty_id,omitempty"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	FeeRange         string     `json:"fee_range"`
	CommonConditions StringList `json:"common_conditions"`
	Subspecialties   StringList `json:"subspecialties"`
	GoverningBody    string     `json:"governing_body"`
	SpecialistCount  int        `json:"specialist_count"`
	Popularity       int        `json:"popularity"`
}

// SpecialtyResult is what the specialties backend answers to mutations.
type SpecialtyResult struct {
	SpecialtyID ID     `json:"specialty_id,omitempty"`
	Message     string `json:"message"`
}
