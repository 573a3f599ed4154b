package domain

// DefaultTagColor is used when a tag is auto-created on first attach.
const DefaultTagColor = "#3B82F6"

// Tag is a flat label attached to prompts. Names are unique across all tags;
// identity is the ID, the name is a mutable display attribute. Prompt linkage
// is keyed by ID, so renames never touch the join table.
type Tag struct {
	Entity
	Name  string `json:"name"`
	Color string `json:"color"`
}
