package models

import "sort"

// Story is one generated mystery case. Suspects maps a suspect's full name to their
// biography and alibi. Clues and RedHerrings are kept separate in storage, but the
// game presents them together unlabeled so the player cannot tell them apart.
type Story struct {
	ID          string            `json:"id" db:"id"`
	Setting     string            `json:"setting" db:"setting"`
	Description string            `json:"description" db:"description"`
	Victim      string            `json:"victim" db:"victim"`
	Suspects    map[string]string `json:"suspects"`
	Clues       []string          `json:"clues"`
	RedHerrings []string          `json:"redHerrings"`
	Culprit     string            `json:"culprit" db:"culprit"`
	Explanation string            `json:"explanation" db:"explanation"`
}

// SuspectNames returns the suspect names in a stable order for rendering.
func (s *Story) SuspectNames() []string {
	names := make([]string, 0, len(s.Suspects))
	for name := range s.Suspects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasSuspect reports whether name is one of the suspects.
func (s *Story) HasSuspect(name string) bool {
	_, ok := s.Suspects[name]
	return ok
}

// AllClues returns genuine clues and red herrings as one list, in the order they are
// shown to the player.
func (s *Story) AllClues() []string {
	clues := make([]string, 0, len(s.Clues)+len(s.RedHerrings))
	clues = append(clues, s.Clues...)
	clues = append(clues, s.RedHerrings...)
	return clues
}
