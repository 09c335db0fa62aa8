package models

// ResultSet is the ordered output of one executed query. Each row maps
// column name to a driver-normalized value (string, int64, float64, bool,
// RFC 3339 time string, or nil).
type ResultSet struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// Len returns the number of rows.
func (r *ResultSet) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// IsEmpty reports whether the set has no rows.
func (r *ResultSet) IsEmpty() bool {
	return r.Len() == 0
}
