// Package hints suggests what to do next after a capledger command fails.
package hints

import (
	"slices"
)

// DefaultMax is how many hints a failure prints.
const DefaultMax = 2

// Hint is one suggestion, optionally with a command to run.
type Hint struct {
	Message string   `json:"message" yaml:"message"`
	Command string   `json:"command,omitempty" yaml:"command,omitempty"`
	Tags    []string `json:"-" yaml:"-"`
}

// String renders the hint for a terminal.
func (h Hint) String() string {
	s := "💡 " + h.Message
	if h.Command != "" {
		s += "\n   Run: " + h.Command
	}
	return s
}

// Context describes the command that just ran.
type Context struct {
	// Command is the full command path, e.g. "capledger grants create".
	Command string
	Err     error
	// APIURL is the backend the command talked to.
	APIURL string
}

// Provider returns the hints that apply to ctx, if any.
type Provider func(Context) []Hint

// Registry runs providers in registration order.
type Registry struct {
	// Max caps the hints returned; 0 means no cap.
	Max int
	// Exclude drops hints carrying any of these tags.
	Exclude []string

	providers []Provider
}

// NewRegistry returns an empty registry capped at DefaultMax.
func NewRegistry() *Registry {
	return &Registry{Max: DefaultMax}
}

// Register appends p.
func (r *Registry) Register(p Provider) {
	r.providers = append(r.providers, p)
}

// For collects the hints for ctx. Successful commands get none.
func (r *Registry) For(ctx Context) []Hint {
	if ctx.Err == nil {
		return nil
	}
	var out []Hint
	for _, p := range r.providers {
		for _, h := range p(ctx) {
			if !slices.ContainsFunc(h.Tags, func(t string) bool { return slices.Contains(r.Exclude, t) }) {
				out = append(out, h)
			}
		}
	}
	if r.Max > 0 && len(out) > r.Max {
		out = out[:r.Max]
	}
	return out
}
