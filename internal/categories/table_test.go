package categories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		cats    []Category
		wantErr error
	}{
		{"empty id", []Category{{ID: " "}}, ErrEmptyID},
		{"duplicate category", []Category{{ID: "a"}, {ID: "a"}}, ErrDuplicateID},
		{"duplicate subcategory", []Category{{ID: "a", Subcategories: []Subcategory{{ID: "x"}, {ID: "x"}}}}, ErrDuplicateID},
		{"empty subcategory id", []Category{{ID: "a", Subcategories: []Subcategory{{ID: ""}}}}, ErrEmptyID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.cats)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewTable_LowercasesKeywordsWithoutTouchingInput(t *testing.T) {
	in := []Category{{ID: "a", Keywords: []string{"ABC"}}}
	table, err := NewTable(in)
	require.NoError(t, err)

	c, ok := table.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, []string{"abc"}, c.Keywords)
	assert.Equal(t, "ABC", in[0].Keywords[0])
}

func TestDefaultTable(t *testing.T) {
	table := Default()
	assert.Same(t, table, Default())

	cats := table.Categories()
	require.Len(t, cats, 12)
	assert.Equal(t, "food", cats[0].ID)
	assert.Equal(t, OtherID, cats[len(cats)-1].ID)
}

func TestTable_Lookups(t *testing.T) {
	table := Default()

	tests := []struct {
		name      string
		cat, sub  string
		wantName  string
		wantColor string
		wantIcon  string
	}{
		{"category only", "food", "", "Еда", "#22c55e", "shopping-bag"},
		{"with subcategory", "food", "coffee", "Еда • Кофе", "#22c55e", "shopping-bag"},
		{"unknown subcategory", "transport", "boat", "Транспорт", "#3b82f6", "car"},
		{"unknown category", "nope", "coffee", OtherName, OtherColor, OtherIcon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantName, table.Name(tt.cat, tt.sub))
			assert.Equal(t, tt.wantColor, table.Color(tt.cat))
			assert.Equal(t, tt.wantIcon, table.Icon(tt.cat))
		})
	}
}
