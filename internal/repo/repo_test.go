package repo

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"meal-checkin/internal/config"
	"meal-checkin/internal/lib/logger"
	"meal-checkin/internal/lib/migrator"
	"meal-checkin/internal/storage"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := config.StorageConfig{
		Driver: config.DriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	}

	st, err := storage.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, migrator.RunMigrations(cfg, logger.Discard()))

	return st.GetDB()
}
