package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func TestPostgresStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("regrade"),
		postgres.WithUsername("regrade"),
		postgres.WithPassword("regrade"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.True(t, IsPostgres(dsn))

	require.NoError(t, Init(dsn))
	require.NoError(t, Init(dsn))

	db, err := GetDB(dsn)
	require.NoError(t, err)
	defer db.Close()
	assert.True(t, isPostgresDB(db))

	id, err := SaveRun(db, testRun("class.xlsx"))
	require.NoError(t, err)

	got, err := GetRun(db, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "class.xlsx", got.Input)
	require.Len(t, got.Flags, 1)

	list, err := ListRuns(db, 5)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	n, err := DeleteRuns(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
