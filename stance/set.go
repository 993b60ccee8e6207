package stance

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Refs is the pre-bucketed stance column shape: article ids per bucket.
type Refs struct {
	Factual    []string `json:"factual"`
	Critical   []string `json:"critical"`
	Supportive []string `json:"supportive"`
}

// Merge appends o's ids to r.
func (r Refs) Merge(o Refs) Refs {
	return Refs{
		Factual:    append(append([]string{}, r.Factual...), o.Factual...),
		Critical:   append(append([]string{}, r.Critical...), o.Critical...),
		Supportive: append(append([]string{}, r.Supportive...), o.Supportive...),
	}
}

// Dedup drops repeated ids within each bucket, keeping first occurrences.
func (r Refs) Dedup() Refs {
	return Refs{
		Factual:    dedup(r.Factual),
		Critical:   dedup(r.Critical),
		Supportive: dedup(r.Supportive),
	}
}

// Len is the number of ids across all buckets.
func (r Refs) Len() int {
	return len(r.Factual) + len(r.Critical) + len(r.Supportive)
}

// BucketOf maps each referenced id to its bucket. An id listed under more
// than one bucket resolves to the last one assigned, in the order
// supportive, critical, factual.
func (r Refs) BucketOf() map[string]Bucket {
	m := make(map[string]Bucket, r.Len())
	for _, id := range r.Supportive {
		m[id] = Supportive
	}
	for _, id := range r.Critical {
		m[id] = Critical
	}
	for _, id := range r.Factual {
		m[id] = Factual
	}
	return m
}

// AllIDs lists every id, factual first.
func (r Refs) AllIDs() []string {
	out := make([]string, 0, r.Len())
	out = append(out, r.Factual...)
	out = append(out, r.Critical...)
	return append(out, r.Supportive...)
}

func (r *Refs) UnmarshalJSON(b []byte) error {
	var raw struct {
		Factual    []any `json:"factual"`
		Critical   []any `json:"critical"`
		Supportive []any `json:"supportive"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	r.Factual = idStrings(raw.Factual)
	r.Critical = idStrings(raw.Critical)
	r.Supportive = idStrings(raw.Supportive)
	return nil
}

// Entry is one element of the list-shaped stance column.
type Entry struct {
	Stance      string `json:"stance"`
	CountryCode string `json:"country_code,omitempty"`
}

// Set is a decoded stances column. Exactly one of Refs or List is populated
// for non-empty values.
type Set struct {
	Refs *Refs
	List []Entry
}

// Empty reports whether the set carries no signals.
func (s Set) Empty() bool {
	if s.Refs != nil {
		return s.Refs.Len() == 0
	}
	return len(s.List) == 0
}

// Entries returns the set in list form. Refs are emitted factual, critical,
// supportive, one entry per id.
func (s Set) Entries() []Entry {
	if s.Refs == nil {
		if s.List == nil {
			return []Entry{}
		}
		return s.List
	}
	out := make([]Entry, 0, s.Refs.Len())
	for range s.Refs.Factual {
		out = append(out, Entry{Stance: Factual.WireLabel()})
	}
	for range s.Refs.Critical {
		out = append(out, Entry{Stance: Critical.WireLabel()})
	}
	for range s.Refs.Supportive {
		out = append(out, Entry{Stance: Supportive.WireLabel()})
	}
	return out
}

// Signals converts the set into classifier input.
func (s Set) Signals() []Signal {
	entries := s.Entries()
	out := make([]Signal, 0, len(entries))
	for _, e := range entries {
		out = append(out, Signal{Label: e.Stance, CountryCode: e.CountryCode})
	}
	return out
}

func (s *Set) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*s = Set{}
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	switch b[0] {
	case '{':
		var r Refs
		if err := json.Unmarshal(b, &r); err != nil {
			return fmt.Errorf("decode stance refs: %w", err)
		}
		s.Refs = &r
	case '[':
		var list []Entry
		if err := json.Unmarshal(b, &list); err != nil {
			return fmt.Errorf("decode stance list: %w", err)
		}
		s.List = list
	default:
		return fmt.Errorf("decode stances: unexpected %q", b[0])
	}
	return nil
}

func (s Set) MarshalJSON() ([]byte, error) {
	if s.Refs != nil {
		return json.Marshal(s.Refs)
	}
	return json.Marshal(s.Entries())
}

func idStrings(vals []any) []string {
	if vals == nil {
		return nil
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		switch id := v.(type) {
		case nil:
		case string:
			out = append(out, id)
		case float64:
			out = append(out, fmt.Sprintf("%.0f", id))
		default:
			out = append(out, fmt.Sprint(id))
		}
	}
	return out
}

func dedup(ids []string) []string {
	if ids == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
