package store

// Update payloads distinguish "not supplied" (nil) from "explicitly set"
// (non-nil pointer), so partial updates never clobber fields the caller
// did not mention.

// CategoryUpdate carries optional field changes for a category.
// ParentID set to a pointer to "" re-parents the category to the root.
type CategoryUpdate struct {
	Name        *string
	Color       *string
	Description *string
	ParentID    *string
}

// TagUpdate carries optional field changes for a tag.
type TagUpdate struct {
	Name  *string
	Color *string
}

// PromptUpdate carries optional field changes for a prompt.
// Only whitelisted fields are directly mutable; usage counters and version
// history have their own operations. CategoryID set to a pointer to ""
// detaches the prompt from its category. Tags, when supplied, replace the
// full tag set.
type PromptUpdate struct {
	Title       *string
	Content     *string
	Description *string
	CategoryID  *string
	Tags        *[]string
}

// SearchFilter narrows prompt searches. Query matches case-insensitively as
// a substring of title, content, or description. CategoryID filters to that
// category and all of its descendants and takes precedence over the legacy
// name-based CategoryName filter.
type SearchFilter struct {
	Query        string
	CategoryName string
	CategoryID   string
}

// ForceDeleteResult reports what a force delete removed and reassigned.
type ForceDeleteResult struct {
	DeletedCategoriesCount int `json:"deleted_categories_count"`
	AffectedPromptsCount   int `json:"affected_prompts_count"`
}

// Settings keys persisted in the settings table.
const (
	SettingSchemaVersion = "schema_version"
	SettingLastUpdated   = "last_updated"
)

// SchemaVersion is the current storage schema generation.
const SchemaVersion = "2.0"
