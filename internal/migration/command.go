package migration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"

	"jtr/internal/config"
	"jtr/internal/domain"
	"jtr/internal/ui"
)

// ErrNoMigrateCommand is returned when migrate.command is not configured
var ErrNoMigrateCommand = errors.New("no migrate command configured: set migrate.command in .jtr.yaml")

// CommandMigrator runs the project's own migrate command once per worker database
type CommandMigrator struct {
	config      *config.Config
	provisioner Provisioner
	showBar     bool
}

// NewCommandMigrator creates a new CommandMigrator
func NewCommandMigrator(cfg *config.Config, provisioner Provisioner) *CommandMigrator {
	return &CommandMigrator{
		config:      cfg,
		provisioner: provisioner,
		showBar:     true,
	}
}

// Command returns the program and arguments for one migration. With fresh the configured
// fresh arguments are appended.
func (cm *CommandMigrator) Command(fresh bool) (string, []string, error) {
	fields := strings.Fields(cm.config.MigrateCommand)
	if len(fields) == 0 {
		return "", nil, ErrNoMigrateCommand
	}
	if fresh {
		fields = append(fields, strings.Fields(cm.config.MigrateFresh)...)
	}
	return fields[0], fields[1:], nil
}

// Run executes migrations in parallel for all workers
func (cm *CommandMigrator) Run(ctx context.Context, workerCount int, fresh bool) error {
	program, args, err := cm.Command(fresh)
	if err != nil {
		return err
	}

	workers, err := cm.provisioner.EnsureDatabases(ctx, workerCount)
	if err != nil {
		return fmt.Errorf("failed to check databases: %w", err)
	}
	if len(workers) == 0 {
		return fmt.Errorf("no test databases available")
	}

	color.White("Workers: %d | Command: %s\n", len(workers), strings.Join(append([]string{program}, args...), " "))

	var bar *ui.ProgressBar
	if cm.showBar {
		bar = ui.NewProgressBar(len(workers), "Migrating")
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		completed int
		succeeded int
		failed    []domain.MigrationResult
	)
	start := time.Now()

	for _, workerID := range workers {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			result := cm.runForWorker(ctx, id, program, args)

			mu.Lock()
			defer mu.Unlock()
			completed++
			if result.Success {
				succeeded++
			} else {
				failed = append(failed, result)
			}
			if bar != nil {
				bar.Update(completed, succeeded, len(failed))
			}
		}(workerID)
	}
	wg.Wait()
	if bar != nil {
		bar.Finish()
	}

	duration := time.Since(start)
	if len(failed) == 0 {
		color.Green("✓ Migrations completed successfully for all %d workers\n", len(workers))
		color.White("Duration: %s\n", duration.Round(time.Millisecond))
		return nil
	}

	color.Red("✗ Migration failed for %d worker(s)\n", len(failed))
	for _, result := range failed {
		color.Red("  Worker %d (DB: %s): %v\n", result.WorkerID, result.Database, result.Error)
		log.Debug().Int("worker", result.WorkerID).Str("output", result.Output).Msg("migration output")
	}
	return fmt.Errorf("migration failed for %d worker(s)", len(failed))
}

func (cm *CommandMigrator) runForWorker(ctx context.Context, workerID int, program string, args []string) domain.MigrationResult {
	database := cm.config.GetDatabaseName(workerID)

	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Dir = cm.config.GetProjectRoot()
	cmd.Env = append(os.Environ(), "NODE_ENV=test", "DB_DATABASE="+database)

	output, err := cmd.CombinedOutput()
	return domain.MigrationResult{
		WorkerID: workerID,
		Database: database,
		Success:  err == nil,
		Output:   string(output),
		Error:    err,
	}
}
