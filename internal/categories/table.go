// Package categories holds the static category reference table and the
// keyword matcher that assigns a category to a free-text transaction title.
package categories

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Fallback display attributes for unknown ids and synthetic buckets.
const (
	OtherID    = "other"
	OtherName  = "Другое"
	OtherColor = "#71717a"
	OtherIcon  = "more-horizontal"
)

var (
	ErrEmptyID     = errors.New("category id is empty")
	ErrDuplicateID = errors.New("duplicate category id")
)

type (
	Subcategory struct {
		ID       string   `json:"id"`
		Name     string   `json:"name"`
		Keywords []string `json:"keywords"`
	}

	Category struct {
		ID            string        `json:"id"`
		Name          string        `json:"name"`
		Color         string        `json:"color"`
		Icon          string        `json:"icon"`
		Keywords      []string      `json:"keywords"`
		Subcategories []Subcategory `json:"subcategories,omitempty"`
	}

	// Table is a read-only lookup over categories. Iteration order is the
	// order the categories were given in.
	Table struct {
		ordered []Category
		byID    map[string]int
	}
)

// NewTable copies cats into a new table. Keywords are lowercased once here
// so that matching never has to.
func NewTable(cats []Category) (*Table, error) {
	t := &Table{
		ordered: make([]Category, 0, len(cats)),
		byID:    make(map[string]int, len(cats)),
	}
	for _, c := range cats {
		if strings.TrimSpace(c.ID) == "" {
			return nil, ErrEmptyID
		}
		if _, dup := t.byID[c.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, c.ID)
		}
		seen := make(map[string]bool, len(c.Subcategories))
		cp := c
		cp.Keywords = lowerAll(c.Keywords)
		cp.Subcategories = make([]Subcategory, 0, len(c.Subcategories))
		for _, s := range c.Subcategories {
			if strings.TrimSpace(s.ID) == "" {
				return nil, fmt.Errorf("%w: subcategory of %s", ErrEmptyID, c.ID)
			}
			if seen[s.ID] {
				return nil, fmt.Errorf("%w: %s/%s", ErrDuplicateID, c.ID, s.ID)
			}
			seen[s.ID] = true
			s.Keywords = lowerAll(s.Keywords)
			cp.Subcategories = append(cp.Subcategories, s)
		}
		t.byID[c.ID] = len(t.ordered)
		t.ordered = append(t.ordered, cp)
	}
	return t, nil
}

var defaultTable = sync.OnceValue(func() *Table {
	t, err := NewTable(defaultCategories)
	if err != nil {
		panic("categories: invalid default table: " + err.Error())
	}
	return t
})

// Default returns the built-in table, built on first use.
func Default() *Table {
	return defaultTable()
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, k := range in {
		out[i] = strings.ToLower(k)
	}
	return out
}

// Categories returns the categories in table order. The slice is a copy;
// nested slices are shared and must not be modified.
func (t *Table) Categories() []Category {
	out := make([]Category, len(t.ordered))
	copy(out, t.ordered)
	return out
}

// Lookup finds a category by id.
func (t *Table) Lookup(id string) (Category, bool) {
	i, ok := t.byID[id]
	if !ok {
		return Category{}, false
	}
	return t.ordered[i], true
}

// Name returns "Category • Subcategory", or the category name alone when
// the subcategory is unknown. Unknown categories map to OtherName.
func (t *Table) Name(categoryID, subcategoryID string) string {
	c, ok := t.Lookup(categoryID)
	if !ok {
		return OtherName
	}
	if subcategoryID != "" {
		for _, s := range c.Subcategories {
			if s.ID == subcategoryID {
				return c.Name + " • " + s.Name
			}
		}
	}
	return c.Name
}

// Color returns the category color or OtherColor.
func (t *Table) Color(categoryID string) string {
	if c, ok := t.Lookup(categoryID); ok && c.Color != "" {
		return c.Color
	}
	return OtherColor
}

// Icon returns the category icon reference or OtherIcon.
func (t *Table) Icon(categoryID string) string {
	if c, ok := t.Lookup(categoryID); ok && c.Icon != "" {
		return c.Icon
	}
	return OtherIcon
}
