//go:build integration

package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-eventbot/pkg/adapters/datasource/postgres"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/testhelpers"
)

func TestQueryExecutor_AgainstFixtures(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	ctx := context.Background()

	exec, err := postgres.NewQueryExecutor(ctx, testDB.Config, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = exec.Close() })

	require.NoError(t, exec.Ping(ctx))

	result, err := exec.Query(ctx, "SELECT title, address, rating FROM events WHERE category_id = 6", 10)
	require.NoError(t, err)

	assert.Equal(t, []string{"title", "address", "rating"}, result.ColumnNames())
	require.Equal(t, 1, result.RowCount)
	assert.Equal(t, "Jazz Night", result.Rows[0]["title"])
	assert.InDelta(t, 4.7, result.Rows[0]["rating"], 0.001)
}

func TestQueryExecutor_LimitWrapsTrailingComment(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	ctx := context.Background()

	exec, err := postgres.NewQueryExecutor(ctx, testDB.Config, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = exec.Close() })

	result, err := exec.Query(ctx, "SELECT title FROM events -- everything", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, result.RowCount)
}

func TestQueryExecutor_ParsesTemporalText(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	ctx := context.Background()

	exec, err := postgres.NewQueryExecutor(ctx, testDB.Config, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = exec.Close() })

	result, err := exec.Query(ctx,
		"SELECT title FROM events WHERE EXTRACT(MONTH FROM TO_TIMESTAMP(date_time, 'DD/MM/YYYY,HH24 : MI')) = 6", 10)
	require.NoError(t, err)
	require.Equal(t, 1, result.RowCount)
	assert.Equal(t, "Jazz Night", result.Rows[0]["title"])
}
