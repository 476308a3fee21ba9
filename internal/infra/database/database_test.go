package database

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Migrate(ctx, db))
	return db
}

// fixedClock returns a clock frozen at start; advance moves it.
func fixedClock(start time.Time) (now func() time.Time, advance func(time.Duration)) {
	cur := start
	return func() time.Time { return cur }, func(d time.Duration) { cur = cur.Add(d) }
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	assert.NoError(t, Migrate(context.Background(), db))
}

func TestRebind(t *testing.T) {
	q := "SELECT * FROM t WHERE a = ? AND b = ? LIMIT ?"
	assert.Equal(t, q, SQLite.Rebind(q))
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2 LIMIT $3", Postgres.Rebind(q))
}

func TestParseURL(t *testing.T) {
	cases := []struct {
		url     string
		driver  string
		dsn     string
		dialect Dialect
	}{
		{"postgres://u:p@localhost/db", "postgres", "postgres://u:p@localhost/db", Postgres},
		{"postgresql://localhost/db", "postgres", "postgresql://localhost/db", Postgres},
		{"sqlite:///./prospectplus.db", "sqlite", "./prospectplus.db", SQLite},
		{"sqlite:////var/lib/app.db", "sqlite", "/var/lib/app.db", SQLite},
		{"sqlite://data.db", "sqlite", "data.db", SQLite},
		{":memory:", "sqlite", ":memory:", SQLite},
	}
	for _, tc := range cases {
		driver, dsn, dialect, err := parseURL(tc.url)
		require.NoError(t, err, tc.url)
		assert.Equal(t, tc.driver, driver, tc.url)
		assert.Equal(t, tc.dsn, dsn, tc.url)
		assert.Equal(t, tc.dialect, dialect, tc.url)
	}

	for _, bad := range []string{"", "mysql://x", "sqlite://"} {
		_, _, _, err := parseURL(bad)
		assert.Error(t, err, bad)
	}
}

func TestDialectTimeIsSortableText(t *testing.T) {
	a := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	b := a.Add(time.Microsecond)
	sa := SQLite.Time(a).(string)
	sb := SQLite.Time(b).(string)
	assert.Len(t, sb, len(sa))
	assert.True(t, strings.Compare(sa, sb) < 0)

	var parsed dbTime
	require.NoError(t, parsed.Scan(sb))
	assert.True(t, parsed.Time.Equal(b))
}

func TestIsUniqueViolationFallback(t *testing.T) {
	assert.False(t, SQLite.IsUniqueViolation(nil))
	assert.True(t, SQLite.IsUniqueViolation(errors.New("UNIQUE constraint failed: prospects.email")))
	assert.False(t, Postgres.IsUniqueViolation(errors.New("connection reset")))
}
