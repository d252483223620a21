package models

import "strings"

// Apply merges the patch into u. Text values win only when non-blank after trimming.
func (p UserPatch) Apply(u *User) {
	if v, ok := nonBlank(p.Name); ok {
		u.Name = v
	}
	if v, ok := nonBlank(p.Email); ok {
		u.Email = v
	}
}

// Apply merges the patch into it. Text values win only when non-blank after trimming.
func (p ItemPatch) Apply(it *Item) {
	if v, ok := nonBlank(p.Name); ok {
		it.Name = v
	}
	if v, ok := nonBlank(p.Description); ok {
		it.Description = v
	}
	if p.Available != nil {
		it.Available = *p.Available
	}
}

func nonBlank(s *string) (string, bool) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return "", false
	}
	return *s, true
}
