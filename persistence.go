package auth

import (
	"database/sql"
	"fmt"
	"time"

	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func init() {
	persistence.RegisterModel((*VerificationToken)(nil))
}

// PersistenceConfig configures the sqlite backed persistence client
type PersistenceConfig struct {
	DSN         string
	Debug       bool
	PingTimeout time.Duration
}

func (c PersistenceConfig) GetDebug() bool {
	return c.Debug
}

func (c PersistenceConfig) GetDriver() string {
	return sqliteshim.ShimName
}

func (c PersistenceConfig) GetServer() string {
	return c.DSN
}

func (c PersistenceConfig) GetPingTimeout() time.Duration {
	if c.PingTimeout <= 0 {
		return 5 * time.Second
	}
	return c.PingTimeout
}

func (c PersistenceConfig) GetOtelIdentifier() string {
	return ""
}

// NewPersistenceClient opens the database and registers the embedded
// migrations. Call Migrate on the client before using repositories.
func NewPersistenceClient(cfg PersistenceConfig) (*persistence.Client, error) {
	sqldb, err := sql.Open(cfg.GetDriver(), cfg.GetServer())
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite serializes writers, a single connection keeps :memory: databases coherent
	sqldb.SetMaxOpenConns(1)

	client, err := persistence.New(cfg, sqldb, sqlitedialect.New())
	if err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("persistence client: %w", err)
	}

	client.RegisterDialectMigrations(
		GetMigrationsFS(),
		persistence.WithDialectSourceLabel("data/sql/migrations"),
	)

	return client, nil
}
