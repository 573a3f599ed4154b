package domain

import "testing"

func TestBuildPath(t *testing.T) {
	c := &Category{Name: "Python"}

	if got := c.BuildPath(""); got != "Python" {
		t.Errorf("root path: got %q, want %q", got, "Python")
	}
	if got := c.BuildPath("Programming"); got != "Programming/Python" {
		t.Errorf("child path: got %q, want %q", got, "Programming/Python")
	}
}

func TestBuildCategoryTree(t *testing.T) {
	categories := []*Category{
		{Entity: Entity{ID: "a"}, Name: "A"},
		{Entity: Entity{ID: "b"}, Name: "B", ParentID: "a"},
		{Entity: Entity{ID: "c"}, Name: "C", ParentID: "b"},
		{Entity: Entity{ID: "x"}, Name: "X"},
	}

	roots := BuildCategoryTree(categories)
	if len(roots) != 2 {
		t.Fatalf("roots: got %d, want 2", len(roots))
	}
	if roots[0].Name != "A" || roots[1].Name != "X" {
		t.Errorf("root order: got %s, %s", roots[0].Name, roots[1].Name)
	}
	if len(roots[0].Children) != 1 || roots[0].Children[0].Name != "B" {
		t.Fatalf("children of A: got %v", roots[0].Children)
	}
	if len(roots[0].Children[0].Children) != 1 || roots[0].Children[0].Children[0].Name != "C" {
		t.Errorf("children of B: got %v", roots[0].Children[0].Children)
	}
	if len(roots[1].Children) != 0 {
		t.Errorf("children of X: got %d, want 0", len(roots[1].Children))
	}
}

func TestBuildCategoryTreeOrphan(t *testing.T) {
	categories := []*Category{
		{Entity: Entity{ID: "lost"}, Name: "Lost", ParentID: "gone"},
	}

	roots := BuildCategoryTree(categories)
	if len(roots) != 1 || roots[0].Name != "Lost" {
		t.Errorf("orphan should surface as a root, got %v", roots)
	}
}

func TestPromptActiveVersion(t *testing.T) {
	p := &Prompt{
		CurrentVersion: "2.0",
		Versions: []*PromptVersion{
			{Version: "1.0", Content: "old"},
			{Version: "2.0", Content: "new"},
		},
	}

	v := p.ActiveVersion()
	if v == nil || v.Content != "new" {
		t.Errorf("ActiveVersion: got %v", v)
	}

	p.CurrentVersion = "9.9"
	if v := p.ActiveVersion(); v != nil {
		t.Errorf("expected nil for unknown current version, got %v", v)
	}
}

func TestPromptHasTag(t *testing.T) {
	p := &Prompt{Tags: []string{"code", "review"}}

	if !p.HasTag("code") {
		t.Error("expected HasTag(code) to be true")
	}
	if p.HasTag("missing") {
		t.Error("expected HasTag(missing) to be false")
	}
}
