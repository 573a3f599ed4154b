package domain

// Categories form a hierarchy: Programming -> Python -> Scripting.
// Each category stores a materialized path of display names so prompts can
// show their full location without walking the tree.

// MaxCategoryLevel is the deepest a category can sit in the tree (roots are level 1).
const MaxCategoryLevel = 5

// FallbackCategoryName is the catch-all category that absorbs prompts whose
// category was force-deleted or could not be resolved.
const FallbackCategoryName = "Other"

// DefaultCategoryColor is used when a category is created without a color.
const DefaultCategoryColor = "#6B7280"

// Category is a node in the category tree.
type Category struct {
	Entity
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`       // Hex color for UI badges
	Description string `json:"description,omitempty"` // Optional description
	ParentID    string `json:"parent_id,omitempty"`   // Parent category ID (empty for roots)
	Level       int    `json:"level"`                 // 1=root, 2=child, up to MaxCategoryLevel
	Path        string `json:"path"`                  // Materialized path: "Programming/Python"
}

// IsRoot returns true if this category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == ""
}

// BuildPath constructs the materialized path from the parent path and name.
func (c *Category) BuildPath(parentPath string) string {
	if parentPath == "" {
		return c.Name
	}
	return parentPath + "/" + c.Name
}

// CategoryNode is a category with its resolved children, used for tree responses.
type CategoryNode struct {
	*Category
	Children []*CategoryNode `json:"children"`
}

// BuildCategoryTree assembles a forest from a flat category list in a single
// pass grouped by parent ID. Categories referencing a missing parent are
// treated as roots rather than dropped.
func BuildCategoryTree(categories []*Category) []*CategoryNode {
	nodes := make(map[string]*CategoryNode, len(categories))
	for _, c := range categories {
		nodes[c.ID] = &CategoryNode{Category: c, Children: []*CategoryNode{}}
	}

	var roots []*CategoryNode
	for _, c := range categories {
		node := nodes[c.ID]
		if parent, ok := nodes[c.ParentID]; ok && c.ParentID != "" {
			parent.Children = append(parent.Children, node)
		} else {
			roots = append(roots, node)
		}
	}

	return roots
}

// CategoryImpact previews what a category deletion would affect. Callers
// must confirm with a force delete after seeing the impact.
type CategoryImpact struct {
	CategoryName         string   `json:"category_name"`
	ChildCategoriesCount int      `json:"child_categories_count"`
	AffectedPromptsCount int      `json:"affected_prompts_count"`
	ChildCategories      []string `json:"child_categories"`
}
