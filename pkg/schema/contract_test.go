package schema

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	assert.Equal(t, "events", c.Entity())
	assert.Equal(t, "event", c.EntityNoun())
	assert.Equal(t, DialectMySQL, c.Dialect())
	assert.Equal(t, "2022", c.PlaceholderYear())
	assert.Equal(t, 10, c.RowCap())
	assert.Equal(t, "LIMIT 10", c.RowCapClause())
	assert.Equal(t, "STR_TO_DATE(date_time, '%d/%m/%Y,%H : %i')", c.TemporalExpression())
	assert.Equal(t, []string{
		"id", "title", "address", "lat", "long", "date_time", "about", "category_id", "rating",
		"user_id", "created_at", "link", "visible_date", "recurring", "end_date", "weekdays",
		"dates", "all_time", "selected_weeks",
	}, c.ColumnNames())
}

func TestCategoryID(t *testing.T) {
	c := Default()

	tests := []struct {
		label  string
		wantID int
		wantOK bool
	}{
		{"music", 6, true},
		{"Sports", 3, true},
		{" ART ", 4, true},
		{"education", 5, true},
		{"tech", 2, true},
		{"food", 7, true},
		{"theatre", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			id, ok := c.CategoryID(tt.label)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	c := Default()

	cats := c.Categories()
	cats[0].ID = 99
	cols := c.Columns()
	cols[0].Name = "changed"

	id, _ := c.CategoryID("music")
	assert.Equal(t, 6, id)
	assert.Equal(t, "id", c.Columns()[0].Name)
}

func TestNew_CopiesDefinition(t *testing.T) {
	def := DefaultDefinition(DialectMySQL)
	c, err := New(def)
	require.NoError(t, err)

	def.Categories[0].ID = 42
	id, _ := c.CategoryID("music")
	assert.Equal(t, 6, id)
}

func TestForDialect(t *testing.T) {
	pg, err := ForDialect(DialectPostgres)
	require.NoError(t, err)
	require.NoError(t, pg.Validate())
	assert.Equal(t, "TO_TIMESTAMP(date_time, 'DD/MM/YYYY,HH24 : MI')", pg.TemporalExpression())
	assert.Equal(t, "LIMIT 10", pg.RowCapClause())
	assert.Equal(t, "PostgreSQL", pg.DialectName())

	ms, err := ForDialect(DialectSQLServer)
	require.NoError(t, err)
	require.NoError(t, ms.Validate())
	assert.Equal(t, "TOP (10)", ms.RowCapClause())
	assert.Contains(t, ms.TemporalExpression(), "REPLACE(REPLACE(date_time")
	assert.Contains(t, ms.TemporalExpression(), ", 103)")

	_, err = ForDialect("oracle")
	assert.ErrorIs(t, err, ErrInvalidContract)
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *Definition)
	}{
		{"empty entity", func(d *Definition) { d.Entity = " " }},
		{"unknown dialect", func(d *Definition) { d.Dialect = "sqlite" }},
		{"no columns", func(d *Definition) { d.Columns = nil }},
		{"duplicate column", func(d *Definition) { d.Columns = append(d.Columns, Column{Name: "TITLE"}) }},
		{"temporal column missing", func(d *Definition) { d.TemporalColumn = "starts_at" }},
		{"empty format", func(d *Definition) { d.TemporalFormat = "" }},
		{"template without column", func(d *Definition) { d.TemporalParse = "NOW()" }},
		{"duplicate category label", func(d *Definition) { d.Categories = append(d.Categories, Category{Label: "Music", ID: 8}) }},
		{"duplicate category id", func(d *Definition) { d.Categories = append(d.Categories, Category{Label: "film", ID: 6}) }},
		{"category column missing", func(d *Definition) { d.CategoryColumn = "genre" }},
		{"zero row cap", func(d *Definition) { d.RowCap = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := DefaultDefinition(DialectMySQL)
			tt.mutate(&def)
			_, err := New(def)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidContract))
		})
	}
}

func TestLoadFile_OverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contract.yaml")
	doc := `
dialect: postgres
row_cap: 5
categories:
  - label: film
    id: 9
  - label: music
    id: 6
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	c, err := LoadFile(path, DialectMySQL)
	require.NoError(t, err)

	assert.Equal(t, DialectPostgres, c.Dialect())
	assert.Equal(t, 5, c.RowCap())
	assert.Equal(t, "LIMIT 5", c.RowCapClause())
	assert.Equal(t, "TO_TIMESTAMP(date_time, 'DD/MM/YYYY,HH24 : MI')", c.TemporalExpression())
	assert.Equal(t, []Category{{Label: "film", ID: 9}, {Label: "music", ID: 6}}, c.Categories())
	assert.Len(t, c.Columns(), 19)
}

func TestValidate_CategoryColumnOptionalWithoutCategories(t *testing.T) {
	def := DefaultDefinition(DialectMySQL)
	def.Categories = nil
	def.CategoryColumn = "genre"

	_, err := New(def)
	assert.NoError(t, err)
}

func TestParse_OverlayDropsStaleDefaults(t *testing.T) {
	doc := `
entity: shows
columns:
  - name: id
  - name: name
  - name: starts_at
  - name: genre
temporal_column: starts_at
temporal_format: "%Y-%m-%d %H:%i"
`
	c, err := Parse([]byte(doc), DialectMySQL)
	require.NoError(t, err)

	assert.Equal(t, "shows", c.Entity())
	assert.Empty(t, c.TemporalSample())
	assert.Empty(t, c.Categories())
	assert.Equal(t, "STR_TO_DATE(starts_at, '%Y-%m-%d %H:%i')", c.TemporalExpression())
}

func TestParse_OverlayKeepsDeclaredValues(t *testing.T) {
	doc := `
entity: shows
columns:
  - name: id
  - name: name
  - name: starts_at
  - name: genre
category_column: genre
categories:
  - label: comedy
    id: 1
temporal_column: starts_at
temporal_format: "%Y-%m-%d %H:%i"
temporal_sample: "2025-06-20 20:30"
`
	c, err := Parse([]byte(doc), DialectMySQL)
	require.NoError(t, err)

	assert.Equal(t, "genre", c.CategoryColumn())
	assert.Equal(t, "2025-06-20 20:30", c.TemporalSample())
	assert.Equal(t, []Category{{Label: "comedy", ID: 1}}, c.Categories())
}

func TestParse_CategoriesNeedTheirColumn(t *testing.T) {
	doc := `
columns:
  - name: id
  - name: date_time
categories:
  - label: comedy
    id: 1
`
	_, err := Parse([]byte(doc), DialectMySQL)
	assert.ErrorIs(t, err, ErrInvalidContract)
}

func TestParse_SameFormatKeepsSample(t *testing.T) {
	c, err := Parse([]byte("temporal_format: \"%d/%m/%Y,%H : %i\"\n"), DialectMySQL)
	require.NoError(t, err)
	assert.Equal(t, DefaultTemporalSample, c.TemporalSample())
	assert.Equal(t, DefaultCategoryColumn, c.CategoryColumn())
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), DialectMySQL)
	assert.Error(t, err)

	_, err = Parse([]byte("row_cap: -1\n"), DialectMySQL)
	assert.ErrorIs(t, err, ErrInvalidContract)

	_, err = Parse([]byte("columns: [unterminated"), DialectMySQL)
	assert.Error(t, err)
}
