// Package entries tracks which names on a meet entry list have been claimed
// by a swimmer in the swim list. Values are never mutated in place: Claim
// returns the updated set.
package entries

import "github.com/okian/swimtimes/internal/domain/model"

// Set is an entry list with claim state. The zero value accepts every
// swimmer, for runs with no entry list.
type Set struct {
	order   []string
	claimed map[string]bool
}

// New builds a Set from names in entry-list order. Repeated names collapse
// to the first.
func New(names []string) Set {
	s := Set{claimed: make(map[string]bool, len(names))}
	for _, n := range names {
		if _, ok := s.claimed[n]; ok {
			continue
		}
		s.claimed[n] = false
		s.order = append(s.order, n)
	}
	return s
}

// Open reports whether the set has no entry list and so accepts everyone.
func (s Set) Open() bool { return s.claimed == nil }

// Len is the number of distinct entry names.
func (s Set) Len() int { return len(s.order) }

// Match finds the entry name for sw: full name first, then known-as name.
func Match(s Set, sw model.Swimmer) (string, bool) {
	if s.Open() {
		return sw.FullName(), true
	}
	for _, name := range []string{sw.FullName(), sw.AlternateName()} {
		if _, ok := s.claimed[name]; ok {
			return name, true
		}
	}
	return "", false
}

// Claim returns a copy of s with name marked as processed. Unknown names
// and open sets are returned unchanged.
func Claim(s Set, name string) Set {
	if s.Open() {
		return s
	}
	if _, ok := s.claimed[name]; !ok {
		return s
	}
	next := Set{order: s.order, claimed: make(map[string]bool, len(s.claimed))}
	for k, v := range s.claimed {
		next.claimed[k] = v
	}
	next.claimed[name] = true
	return next
}

// Unmatched lists entry names never claimed, in entry-list order.
func Unmatched(s Set) []string {
	var out []string
	for _, n := range s.order {
		if !s.claimed[n] {
			out = append(out, n)
		}
	}
	return out
}
