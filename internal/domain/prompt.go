package domain

import "time"

// InitialVersion is the version label seeded when a prompt is created.
const InitialVersion = "1.0"

// InitialChangeNote is the change note on the seeded version.
const InitialChangeNote = "initial version"

// Prompt is a titled text snippet with category placement, tags, a usage
// counter, and a linear version history.
//
// CategoryName and CategoryPath are denormalized copies of the referenced
// category's fields. They must be resynced whenever that category's name or
// path changes; the category tree is the source of truth.
type Prompt struct {
	Entity
	Title       string `json:"title"`
	Content     string `json:"content"`
	Description string `json:"description,omitempty"`

	CategoryID   string `json:"category_id,omitempty"`
	CategoryName string `json:"category_name"`
	CategoryPath string `json:"category_path"`

	// Tags holds tag display names; the registry owns colors and identity.
	Tags []string `json:"tags"`

	UsageCount     int    `json:"usage_count"`
	CurrentVersion string `json:"current_version"`

	Versions []*PromptVersion `json:"versions,omitempty"`
}

// ActiveVersion returns the version entry matching CurrentVersion, or nil.
func (p *Prompt) ActiveVersion() *PromptVersion {
	for _, v := range p.Versions {
		if v.Version == p.CurrentVersion {
			return v
		}
	}
	return nil
}

// HasTag reports whether the prompt carries the given tag name.
func (p *Prompt) HasTag(name string) bool {
	for _, t := range p.Tags {
		if t == name {
			return true
		}
	}
	return false
}

// PromptVersion is one entry in a prompt's append-only version history.
// Version labels are opaque; ordering comes from creation time.
type PromptVersion struct {
	Version     string    `json:"version"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Description string    `json:"description,omitempty"`
	ChangeNote  string    `json:"change_note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
