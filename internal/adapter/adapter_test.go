package adapter

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPostgresDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "defaults",
			cfg:  Config{Database: "sales"},
			want: "host=localhost port=5432 dbname=sales sslmode=disable",
		},
		{
			name: "full config",
			cfg: Config{
				Host:     "db.internal",
				Port:     5433,
				Database: "sales",
				Username: "reader",
				Password: "secret",
			},
			want: "host=db.internal port=5433 dbname=sales sslmode=disable user=reader password=secret",
		},
		{
			name: "sslmode override",
			cfg: Config{
				Host:     "db.internal",
				Database: "sales",
				Options:  map[string]string{"sslmode": "require"},
			},
			want: "host=db.internal port=5432 dbname=sales sslmode=require",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildPostgresDSN(tt.cfg))
		})
	}
}

func TestRegistry(t *testing.T) {
	names := List()
	assert.Contains(t, names, "postgres")
	assert.Contains(t, names, "duckdb")

	a, err := New(Config{Type: "postgres"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "postgres", a.DriverName())

	_, err = New(Config{Type: "oracle"}, nil)
	assert.Error(t, err)
}

func TestCollectRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name"}).
			AddRow(1, []byte("alice")).
			AddRow(2, nil),
	)

	rows, err := db.Query("SELECT id, name FROM users")
	require.NoError(t, err)

	result, err := collectRows(rows)
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name"}, result.Columns)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "alice", result.Rows[0]["name"])
	assert.Nil(t, result.Rows[1]["name"])
	require.NoError(t, mock.ExpectationsWereMet())
}
