package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithMigrationsTable(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"postgres://u:p@db:5432/erp?sslmode=disable", "postgres://u:p@db:5432/erp?sslmode=disable&x-migrations-table=schema_migrations"},
		{"postgres://u:p@db:5432/erp", "postgres://u:p@db:5432/erp?x-migrations-table=schema_migrations"},
		{"postgres://db/erp?x-migrations-table=custom", "postgres://db/erp?x-migrations-table=custom"},
		{"host=db user=u dbname=erp", "host=db user=u dbname=erp"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, withMigrationsTable(tt.in))
	}
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "empty schema", Status{}.String())
	assert.Equal(t, "version 7", Status{Version: 7}.String())
	assert.Equal(t, "version 7 (dirty)", Status{Version: 7, Dirty: true}.String())
}

func TestMigrateLogger(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	l := migrateLogger{zap.New(core).Sugar()}

	assert.True(t, l.Verbose())
	l.Printf("Finished 3/u create_sequences (read 1ms, ran 4ms)\n")
	entries := recorded.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "Finished 3/u create_sequences (read 1ms, ran 4ms)", entries[0].Message)
	}

	quiet := migrateLogger{zap.New(core).WithOptions(zap.IncreaseLevel(zapcore.InfoLevel)).Sugar()}
	assert.False(t, quiet.Verbose())
}
