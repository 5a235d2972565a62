package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/FishingHacks/redstart/internal/ctxlog"
	"github.com/FishingHacks/redstart/internal/fsutil"
	"github.com/FishingHacks/redstart/internal/registry"
	"github.com/FishingHacks/redstart/internal/rsproj"
	"github.com/FishingHacks/redstart/internal/timer"
	"github.com/google/uuid"
)

// Project settings the orchestrator understands.
const (
	settingCwd       = "cwd"
	settingDebug     = "dbgprint"
	settingProfiling = "profiling"
)

// Project is a parsed project file together with the directory its steps
// run in.
type Project struct {
	// Path is the absolute path of the project file.
	Path string
	// WorkDir is the project directory joined with the `cwd` setting.
	WorkDir string
	*rsproj.ParseResult
}

// LoadProject resolves path to a project file, parses it and computes its
// working directory. Parse failures are returned as *rsproj.Error.
func (a *App) LoadProject(ctx context.Context, path string) (*Project, error) {
	logger := ctxlog.FromContext(ctx)

	file, err := fsutil.ResolveProject(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("Project file resolved.", "path", file)

	result, err := rsproj.NewParser().ParseFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(file), err)
	}
	logger.Debug("Project parsed.", "jobs", result.Order, "modules", result.Modules)

	workDir := filepath.Dir(file)
	if v, ok := result.Settings[settingCwd]; ok {
		if dir := v.String(); filepath.IsAbs(dir) {
			workDir = filepath.Clean(dir)
		} else {
			workDir = filepath.Join(workDir, dir)
		}
	}
	info, err := os.Stat(workDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("working directory %s doesn't exist", workDir)
	}

	return &Project{Path: file, WorkDir: workDir, ParseResult: result}, nil
}

// SelectJob returns the name of the job to run. An empty name picks the
// project's only job.
func (p *Project) SelectJob(name string) (string, error) {
	if name != "" {
		if _, ok := p.Jobs[name]; !ok {
			return "", fmt.Errorf("job %s doesn't exist, choose one of: %s", name, strings.Join(p.Order, ", "))
		}
		return name, nil
	}

	switch len(p.Order) {
	case 0:
		return "", errors.New("project defines no jobs")
	case 1:
		return p.Order[0], nil
	default:
		return "", fmt.Errorf("project defines several jobs, specify one of: %s", strings.Join(p.Order, ", "))
	}
}

// stepCall pairs a step with the module that runs it.
type stepCall struct {
	step  rsproj.Step
	entry *registry.Entry
	call  *registry.Call
	ctx   context.Context
}

// Run loads the configured project and runs the selected job: every step is
// validated first, then the steps are initiated one after another.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger.With("run_id", uuid.NewString()))
	logger := ctxlog.FromContext(ctx)
	logger.Debug("App.Run method started.")

	tm := timer.New()

	endLoad := tm.Start("load project")
	project, err := a.LoadProject(ctx, a.config.ProjectPath)
	endLoad()
	if err != nil {
		return err
	}
	defer a.report(ctx, tm, project)

	entries, err := a.registry.Resolve(project.Modules)
	if err != nil {
		return err
	}

	jobName, err := project.SelectJob(a.config.Job)
	if err != nil {
		return err
	}
	job := project.Jobs[jobName]
	logger.Info("Running job.", "job", jobName, "steps", len(job), "project", project.Path)

	endValidate := tm.Start("validate")
	calls, err := a.prepare(ctx, tm, project, jobName, job, entries)
	endValidate()
	if err != nil {
		return err
	}

	for i, sc := range calls {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("job %s cancelled before step %d (%s): %w", jobName, i+1, sc.step.Type, err)
		}

		stepLogger := ctxlog.FromContext(sc.ctx)
		stepLogger.Debug("Initiating step.", "cwd", sc.call.Cwd)

		end := tm.Start(fmt.Sprintf("%s #%d", sc.step.Type, i+1))
		err := sc.entry.Module.Initiate(sc.ctx, sc.call)
		end()
		if err != nil {
			return fmt.Errorf("step %d (%s) of job %s failed: %w", i+1, sc.step.Type, jobName, err)
		}
	}

	logger.Info("Job finished.", "job", jobName)
	return nil
}

// prepare decodes and validates every step of a job. All failures are
// collected so they can be reported together; nothing runs if any step is
// rejected.
func (a *App) prepare(ctx context.Context, tm *timer.Timer, project *Project, jobName string, job rsproj.Job, entries map[string]*registry.Entry) ([]stepCall, error) {
	calls := make([]stepCall, 0, len(job))
	var errs []error

	for i, step := range job {
		entry := entries[step.Type]
		stepCtx := ctxlog.With(ctx, "module", step.Type, "job", jobName, "step", i+1)

		cwd := step.Cwd
		if !filepath.IsAbs(cwd) {
			cwd = filepath.Join(project.WorkDir, cwd)
		}

		input, err := entry.DecodeOptions(step.Options)
		if err != nil {
			errs = append(errs, fmt.Errorf("step %d (%s): %w", i+1, step.Type, err))
			continue
		}

		prefix := step.Type + ": "
		call := &registry.Call{
			Options:  step.Options,
			Input:    input,
			Cwd:      cwd,
			Settings: project.Settings,
			Out:      a.outW,
			Start:    func(name string) func() { return tm.Start(prefix + name) },
		}
		if err := entry.Module.Validate(stepCtx, call); err != nil {
			errs = append(errs, fmt.Errorf("step %d (%s): %w", i+1, step.Type, err))
			continue
		}

		calls = append(calls, stepCall{step: step, entry: entry, call: call, ctx: stepCtx})
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("job %s is invalid: %w", jobName, errors.Join(errs...))
	}
	return calls, nil
}

// report prints the timing table when the project asks for debug output
// and writes the profiling report when profiling is enabled.
func (a *App) report(ctx context.Context, tm *timer.Timer, project *Project) {
	logger := ctxlog.FromContext(ctx)

	if project.Settings.Truthy(settingDebug) {
		if err := tm.Print(a.outW); err != nil {
			logger.Warn("Failed to print timings.", "error", err)
		}
	}

	if a.config.Profile || project.Settings.Truthy(settingProfiling) {
		dir := a.config.ProfileDir
		if dir == "" {
			dir = "."
		}
		path, err := tm.WriteJSON(dir)
		if err != nil {
			logger.Warn("Failed to write profiling report.", "error", err)
			return
		}
		logger.Info("Profiling report written.", "path", path)
	}
}
