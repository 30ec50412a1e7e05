// Package questions holds interview question banks: the Question type, the
// seed catalogue shipped with the service, and YAML loading for custom banks.
package questions

import "strings"

// DefaultRole names the bank used when a role has no bank of its own.
const DefaultRole = "default"

type Question struct {
	ID               int      `json:"id" yaml:"id"`
	Text             string   `json:"text" yaml:"text"`
	ExpectedPoints   []string `json:"expected_points" yaml:"expected_points"`
	TimeLimitSeconds int      `json:"time_limit_seconds" yaml:"time_limit_seconds"`
}

// Introduction is asked before every role bank.
func Introduction() Question {
	return Question{
		ID:               0,
		Text:             "Please introduce yourself and tell us about your background and experience.",
		ExpectedPoints:   []string{"Background", "Relevant experience", "Motivation for the role"},
		TimeLimitSeconds: 120,
	}
}

// WithIntroduction returns a new slice with the introduction question first.
func WithIntroduction(bank []Question) []Question {
	out := make([]Question, 0, len(bank)+1)
	out = append(out, Introduction())
	out = append(out, bank...)
	return out
}

// Catalog maps a normalised role name to its bank.
type Catalog map[string][]Question

// NormalizeRole lower-cases and trims a role so that "Backend Developer " and
// "backend developer" resolve to the same bank.
func NormalizeRole(role string) string {
	return strings.ToLower(strings.Join(strings.Fields(role), " "))
}

// Lookup returns the bank for role without falling back.
func (c Catalog) Lookup(role string) ([]Question, bool) {
	qs, ok := c[NormalizeRole(role)]
	if !ok || len(qs) == 0 {
		return nil, false
	}
	return clone(qs), true
}

// Resolve returns the bank for role, or the default bank when the role is
// unknown. The second result reports whether the fallback was used.
func (c Catalog) Resolve(role string) ([]Question, bool) {
	if qs, ok := c.Lookup(role); ok {
		return qs, false
	}
	if qs, ok := c.Lookup(DefaultRole); ok {
		return qs, true
	}
	return clone(defaultBank), true
}

// Roles lists the role names in the catalogue, default excluded.
func (c Catalog) Roles() []string {
	out := make([]string, 0, len(c))
	for role := range c {
		if role == DefaultRole {
			continue
		}
		out = append(out, role)
	}
	return out
}

// Merge returns a catalogue where banks from other replace banks in c.
func (c Catalog) Merge(other Catalog) Catalog {
	out := Catalog{}
	for role, qs := range c {
		out[role] = qs
	}
	for role, qs := range other {
		out[NormalizeRole(role)] = qs
	}
	return out
}

func clone(qs []Question) []Question {
	out := make([]Question, len(qs))
	for i, q := range qs {
		q.ExpectedPoints = append([]string(nil), q.ExpectedPoints...)
		out[i] = q
	}
	return out
}
