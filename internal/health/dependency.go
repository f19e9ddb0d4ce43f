package health

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// DBChecker pings the database and, when tables are given, confirms they
// exist so a server pointed at an unmigrated database reports not ready.
type DBChecker struct {
	db     *gorm.DB
	tables []string
}

// NewDBChecker returns nil for a nil handle so callers can hand the result
// straight to NewProbeRunner.
func NewDBChecker(db *gorm.DB, tables ...string) Checker {
	if db == nil {
		return nil
	}
	return &DBChecker{db: db, tables: tables}
}

func (c *DBChecker) Check(ctx context.Context) CheckResult {
	return result("db", func() error {
		sqlDB, err := c.db.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return err
		}
		migrator := c.db.WithContext(ctx).Migrator()
		for _, table := range c.tables {
			if !migrator.HasTable(table) {
				return fmt.Errorf("missing table %q", table)
			}
		}
		return nil
	})
}

// RedisChecker pings the permission cache and rate limit backend.
type RedisChecker struct {
	client redis.UniversalClient
}

func NewRedisChecker(client redis.UniversalClient) Checker {
	if client == nil {
		return nil
	}
	return &RedisChecker{client: client}
}

func (c *RedisChecker) Check(ctx context.Context) CheckResult {
	return result("redis", func() error { return c.client.Ping(ctx).Err() })
}

func result(name string, check func() error) CheckResult {
	if err := check(); err != nil {
		return CheckResult{Name: name, Error: err.Error()}
	}
	return CheckResult{Name: name, Healthy: true}
}
