package player

import "strings"

// DefaultIDs is the group the competition was started with.
var DefaultIDs = []string{"Biniam A", "Biniam G", "Biniam E", "Abel", "Siem", "Kubrom"}

// Roster is the fixed, ordered set of players taking part.
type Roster struct {
	ids   []string
	index map[string]struct{}
}

// NewRoster builds a roster, trimming names and dropping blanks and duplicates
// while keeping the first-seen order.
func NewRoster(ids []string) Roster {
	r := Roster{
		ids:   make([]string, 0, len(ids)),
		index: make(map[string]struct{}, len(ids)),
	}
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		if _, exists := r.index[id]; exists {
			continue
		}
		r.index[id] = struct{}{}
		r.ids = append(r.ids, id)
	}
	return r
}

func (r Roster) IDs() []string {
	return append([]string(nil), r.ids...)
}

func (r Roster) Contains(id string) bool {
	_, ok := r.index[strings.TrimSpace(id)]
	return ok
}

func (r Roster) Len() int {
	return len(r.ids)
}
