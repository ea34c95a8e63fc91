package execution

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog/log"

	"jtr/internal/config"
	"jtr/internal/domain"
)

// Runner starts jest processes
type Runner struct {
	config  *config.Config
	locator *Locator
	stdout  io.Writer
	stderr  io.Writer
}

// NewRunner creates a new Runner that streams interactive runs to the process stdout/stderr
func NewRunner(cfg *config.Config, locator *Locator) *Runner {
	return &Runner{config: cfg, locator: locator, stdout: os.Stdout, stderr: os.Stderr}
}

// SetOutput redirects interactive runs
func (r *Runner) SetOutput(stdout, stderr io.Writer) {
	r.stdout = stdout
	r.stderr = stderr
}

// RunTest runs one test or suite by qualified name
func (r *Runner) RunTest(ctx context.Context, testName, testFile string) error {
	return r.stream(ctx, TestArgs(testName, testFile))
}

// RunFile runs every test in one file
func (r *Runner) RunFile(ctx context.Context, testFile string) error {
	return r.stream(ctx, FileArgs(testFile))
}

// RunAll lets jest discover and run the whole project
func (r *Runner) RunAll(ctx context.Context) error {
	return r.stream(ctx, nil)
}

func (r *Runner) stream(ctx context.Context, args []string) error {
	cmd, err := r.command(ctx, args)
	if err != nil {
		return err
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr

	log.Debug().Str("cmd", cmd.String()).Msg("starting jest")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("jest: %w", err)
	}
	return nil
}

// Run executes one test file and captures its output. The worker gets its own database.
func (r *Runner) Run(ctx context.Context, testPath string, workerID int) domain.TestResult {
	start := time.Now()
	result := domain.TestResult{TestPath: testPath, WorkerID: workerID}

	cmd, err := r.command(ctx, []string{testPath, "--no-coverage", "--ci"})
	if err != nil {
		result.Error = err
		return result
	}
	cmd.Env = append(cmd.Env, fmt.Sprintf("DB_DATABASE=%s", r.config.GetDatabaseName(workerID)))

	output, err := cmd.CombinedOutput()
	result.Success = err == nil
	result.Output = string(output)
	result.Error = err
	result.Duration = time.Since(start)
	return result
}

func (r *Runner) command(ctx context.Context, args []string) (*exec.Cmd, error) {
	program, lead, err := r.locator.Command()
	if err != nil {
		return nil, err
	}
	cmd := exec.CommandContext(ctx, program, append(lead, args...)...)
	cmd.Dir = r.config.GetProjectRoot()
	cmd.Env = append(os.Environ(), "NODE_ENV=test")
	return cmd, nil
}
