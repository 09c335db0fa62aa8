package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jinzhu/inflection"
)

// Dialect identifies the SQL flavour the generated statements must target.
type Dialect string

const (
	DialectMySQL     Dialect = "mysql"
	DialectPostgres  Dialect = "postgres"
	DialectSQLServer Dialect = "sqlserver"
)

const (
	DefaultEntity          = "events"
	DefaultTemporalColumn  = "date_time"
	DefaultPlaceholderYear = "2022"
	DefaultRowCap          = 10
	DefaultCategoryColumn  = "category_id"
	DefaultTemporalSample  = "20/06/2025,20 : 30"
)

var ErrInvalidContract = errors.New("invalid schema contract")

// Column is one column of the queryable entity.
type Column struct {
	Name         string `yaml:"name"`
	SemanticType string `yaml:"type"`
	Description  string `yaml:"description"`
}

// Category maps a human label to the numeric id stored in the category column.
type Category struct {
	Label string `yaml:"label"`
	ID    int    `yaml:"id"`
}

// SummaryFields names the columns the result formatter renders for each row.
type SummaryFields struct {
	Title    string `yaml:"title"`
	DateTime string `yaml:"date_time"`
	Location string `yaml:"location"`
	Link     string `yaml:"link"`
	Rating   string `yaml:"rating"`
	About    string `yaml:"about"`
}

// Definition is the mutable form of a contract, as read from YAML.
type Definition struct {
	Entity          string        `yaml:"entity"`
	Dialect         Dialect       `yaml:"dialect"`
	Columns         []Column      `yaml:"columns"`
	Categories      []Category    `yaml:"categories"`
	CategoryColumn  string        `yaml:"category_column"`
	TemporalColumn  string        `yaml:"temporal_column"`
	TemporalFormat  string        `yaml:"temporal_format"`
	TemporalSample  string        `yaml:"temporal_sample"` // optional stored value shown to the model
	TemporalParse   string        `yaml:"temporal_parse"`  // template with {column} and {format}
	PlaceholderYear string        `yaml:"placeholder_year"`
	RowCap          int           `yaml:"row_cap"`
	Summary         SummaryFields `yaml:"summary"`
}

// Contract is the single source of truth for table name, column list,
// temporal idiom and category mapping. It is immutable once built.
type Contract struct {
	def Definition
}

// New validates def and returns a contract holding a private copy of it.
func New(def Definition) (*Contract, error) {
	c := &Contract{def: cloneDefinition(def)}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Default returns the events contract for MySQL.
func Default() *Contract {
	return &Contract{def: DefaultDefinition(DialectMySQL)}
}

// ForDialect returns the events contract re-targeted to the given dialect.
func ForDialect(d Dialect) (*Contract, error) {
	switch d {
	case DialectMySQL, DialectPostgres, DialectSQLServer:
		return &Contract{def: DefaultDefinition(d)}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported dialect %q", ErrInvalidContract, d)
	}
}

// DefaultDefinition returns the built-in events definition for d.
func DefaultDefinition(d Dialect) Definition {
	def := Definition{
		Entity:  DefaultEntity,
		Dialect: d,
		Columns: []Column{
			{Name: "id", SemanticType: "integer"},
			{Name: "title", SemanticType: "text"},
			{Name: "address", SemanticType: "text", Description: "venue location"},
			{Name: "lat", SemanticType: "decimal"},
			{Name: "long", SemanticType: "decimal"},
			{Name: "date_time", SemanticType: "text", Description: "start as DD/MM/YYYY,HH : MM"},
			{Name: "about", SemanticType: "text"},
			{Name: "category_id", SemanticType: "integer"},
			{Name: "rating", SemanticType: "decimal"},
			{Name: "user_id", SemanticType: "integer"},
			{Name: "created_at", SemanticType: "timestamp"},
			{Name: "link", SemanticType: "text"},
			{Name: "visible_date", SemanticType: "text"},
			{Name: "recurring", SemanticType: "boolean"},
			{Name: "end_date", SemanticType: "text"},
			{Name: "weekdays", SemanticType: "text"},
			{Name: "dates", SemanticType: "text"},
			{Name: "all_time", SemanticType: "boolean"},
			{Name: "selected_weeks", SemanticType: "text"},
		},
		Categories: []Category{
			{Label: "music", ID: 6},
			{Label: "sports", ID: 3},
			{Label: "art", ID: 4},
			{Label: "education", ID: 5},
			{Label: "tech", ID: 2},
			{Label: "food", ID: 7},
		},
		CategoryColumn:  DefaultCategoryColumn,
		TemporalColumn:  DefaultTemporalColumn,
		TemporalSample:  DefaultTemporalSample,
		PlaceholderYear: DefaultPlaceholderYear,
		RowCap:          DefaultRowCap,
		Summary: SummaryFields{
			Title:    "title",
			DateTime: "date_time",
			Location: "address",
			Link:     "link",
			Rating:   "rating",
			About:    "about",
		},
	}

	switch d {
	case DialectPostgres:
		def.TemporalFormat = "DD/MM/YYYY,HH24 : MI"
		def.TemporalParse = "TO_TIMESTAMP({column}, '{format}')"
	case DialectSQLServer:
		// Style 103 is dd/mm/yyyy; the stored separators are normalized first.
		def.TemporalFormat = "103"
		def.TemporalParse = "CONVERT(datetime2, REPLACE(REPLACE({column}, ',', ' '), ' : ', ':'), {format})"
	default:
		def.TemporalFormat = "%d/%m/%Y,%H : %i"
		def.TemporalParse = "STR_TO_DATE({column}, '{format}')"
	}
	return def
}

// Validate checks the contract for internal consistency.
func (c *Contract) Validate() error {
	d := c.def
	if strings.TrimSpace(d.Entity) == "" {
		return fmt.Errorf("%w: entity name is required", ErrInvalidContract)
	}
	switch d.Dialect {
	case DialectMySQL, DialectPostgres, DialectSQLServer:
	default:
		return fmt.Errorf("%w: unsupported dialect %q", ErrInvalidContract, d.Dialect)
	}
	if len(d.Columns) == 0 {
		return fmt.Errorf("%w: at least one column is required", ErrInvalidContract)
	}

	seen := make(map[string]bool, len(d.Columns))
	for _, col := range d.Columns {
		name := strings.ToLower(strings.TrimSpace(col.Name))
		if name == "" {
			return fmt.Errorf("%w: column with empty name", ErrInvalidContract)
		}
		if seen[name] {
			return fmt.Errorf("%w: duplicate column %q", ErrInvalidContract, col.Name)
		}
		seen[name] = true
	}

	if !seen[strings.ToLower(d.TemporalColumn)] {
		return fmt.Errorf("%w: temporal column %q is not a column of %s", ErrInvalidContract, d.TemporalColumn, d.Entity)
	}
	if d.TemporalFormat == "" {
		return fmt.Errorf("%w: temporal format is required", ErrInvalidContract)
	}
	if !strings.Contains(d.TemporalParse, "{column}") {
		return fmt.Errorf("%w: temporal parse template must contain {column}", ErrInvalidContract)
	}

	if len(d.Categories) > 0 && !seen[strings.ToLower(d.CategoryColumn)] {
		return fmt.Errorf("%w: category column %q is not a column of %s", ErrInvalidContract, d.CategoryColumn, d.Entity)
	}
	labels := make(map[string]bool, len(d.Categories))
	ids := make(map[int]bool, len(d.Categories))
	for _, cat := range d.Categories {
		label := strings.ToLower(strings.TrimSpace(cat.Label))
		if label == "" {
			return fmt.Errorf("%w: category with empty label", ErrInvalidContract)
		}
		if labels[label] {
			return fmt.Errorf("%w: duplicate category label %q", ErrInvalidContract, cat.Label)
		}
		if ids[cat.ID] {
			return fmt.Errorf("%w: duplicate category id %d", ErrInvalidContract, cat.ID)
		}
		labels[label] = true
		ids[cat.ID] = true
	}

	if d.RowCap <= 0 {
		return fmt.Errorf("%w: row cap must be positive, got %d", ErrInvalidContract, d.RowCap)
	}
	return nil
}

func (c *Contract) Entity() string          { return c.def.Entity }
func (c *Contract) Dialect() Dialect        { return c.def.Dialect }
func (c *Contract) TemporalColumn() string  { return c.def.TemporalColumn }
func (c *Contract) TemporalFormat() string  { return c.def.TemporalFormat }
func (c *Contract) TemporalSample() string  { return c.def.TemporalSample }
func (c *Contract) CategoryColumn() string  { return c.def.CategoryColumn }
func (c *Contract) PlaceholderYear() string { return c.def.PlaceholderYear }
func (c *Contract) RowCap() int             { return c.def.RowCap }
func (c *Contract) Summary() SummaryFields  { return c.def.Summary }

// Columns returns a copy of the ordered column list.
func (c *Contract) Columns() []Column {
	out := make([]Column, len(c.def.Columns))
	copy(out, c.def.Columns)
	return out
}

// ColumnNames returns the column names in contract order.
func (c *Contract) ColumnNames() []string {
	names := make([]string, len(c.def.Columns))
	for i, col := range c.def.Columns {
		names[i] = col.Name
	}
	return names
}

// HasColumn reports whether name is a column of the entity (case-insensitive).
func (c *Contract) HasColumn(name string) bool {
	for _, col := range c.def.Columns {
		if strings.EqualFold(col.Name, name) {
			return true
		}
	}
	return false
}

// Categories returns a copy of the ordered category mapping.
func (c *Contract) Categories() []Category {
	out := make([]Category, len(c.def.Categories))
	copy(out, c.def.Categories)
	return out
}

// CategoryID looks up the id for a label, ignoring case and surrounding space.
func (c *Contract) CategoryID(label string) (int, bool) {
	label = strings.TrimSpace(label)
	for _, cat := range c.def.Categories {
		if strings.EqualFold(cat.Label, label) {
			return cat.ID, true
		}
	}
	return 0, false
}

// TemporalExpression renders the parse expression for the temporal column,
// e.g. STR_TO_DATE(date_time, '%d/%m/%Y,%H : %i').
func (c *Contract) TemporalExpression() string {
	return strings.NewReplacer(
		"{column}", c.def.TemporalColumn,
		"{format}", c.def.TemporalFormat,
	).Replace(c.def.TemporalParse)
}

// RowCapClause returns the dialect's phrase for capping rows.
func (c *Contract) RowCapClause() string {
	n := strconv.Itoa(c.def.RowCap)
	if c.def.Dialect == DialectSQLServer {
		return "TOP (" + n + ")"
	}
	return "LIMIT " + n
}

// EntityNoun is the singular noun for one row, e.g. "event".
func (c *Contract) EntityNoun() string {
	return inflection.Singular(c.def.Entity)
}

// DialectName is the human-readable product name used in prompts.
func (c *Contract) DialectName() string {
	switch c.def.Dialect {
	case DialectPostgres:
		return "PostgreSQL"
	case DialectSQLServer:
		return "SQL Server"
	default:
		return "MySQL"
	}
}

func cloneDefinition(def Definition) Definition {
	out := def
	out.Columns = append([]Column(nil), def.Columns...)
	out.Categories = append([]Category(nil), def.Categories...)
	return out
}
