package datasource

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeValue(t *testing.T) {
	ts := time.Date(2025, 6, 20, 20, 30, 0, 0, time.UTC)
	var nilTime *time.Time

	assert.Equal(t, "Jazz Night", NormalizeValue([]byte("Jazz Night")))
	assert.Equal(t, "2025-06-20T20:30:00Z", NormalizeValue(ts))
	assert.Equal(t, "2025-06-20T20:30:00Z", NormalizeValue(&ts))
	assert.Nil(t, NormalizeValue(nilTime))
	assert.Equal(t, int64(4), NormalizeValue(int64(4)))
	assert.Nil(t, NormalizeValue(nil))
}

func TestQueryExecutionResult_ColumnNames(t *testing.T) {
	r := &QueryExecutionResult{Columns: []ColumnInfo{{Name: "title"}, {Name: "date_time"}}}
	assert.Equal(t, []string{"title", "date_time"}, r.ColumnNames())
}
