package migration

import "context"

// Migrator runs database migrations
type Migrator interface {
	Run(ctx context.Context, workerCount int, fresh bool) error
}
