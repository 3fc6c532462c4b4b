package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/toyz/measuregen/internal/generator"
	"github.com/toyz/measuregen/internal/models"
	"github.com/toyz/measuregen/internal/parser"
	"github.com/toyz/measuregen/internal/utils"
)

// GenerationSummary contains information about one generation run
type GenerationSummary struct {
	RunID             string
	PackagesScanned   int
	TypesFound        int
	WrappersGenerated int
	Failures          int
	Unchanged         int      // wrappers whose file already held the same content
	GeneratedFiles    []string // files written, in type order
	Duration          time.Duration
}

// Stats returns the summary lines in display order
func (s *GenerationSummary) Stats() []utils.Stat {
	return []utils.Stat{
		{Label: "Packages scanned", Value: s.PackagesScanned},
		{Label: "Types found", Value: s.TypesFound},
		{Label: "Wrappers generated", Value: s.WrappersGenerated},
		{Label: "Files written", Value: len(s.GeneratedFiles)},
		{Label: "Unchanged", Value: s.Unchanged},
		{Label: "Failures", Value: s.Failures},
	}
}

// Generator coordinates the CLI generation process
type Generator struct {
	moduleResolver *ModuleResolver
	newReader      func() parser.DeclarationReader
	codeGenerator  generator.CodeGenerator
	diagnostics    *utils.DiagnosticSystem
	writeFile      func(path string, content []byte) error
}

// NewGenerator creates a new CLI generator
func NewGenerator(diagnostics *utils.DiagnosticSystem) *Generator {
	return &Generator{
		moduleResolver: NewModuleResolver(),
		newReader:      func() parser.DeclarationReader { return parser.NewParser() },
		codeGenerator:  generator.NewGenerator(),
		diagnostics:    diagnostics,
		writeFile:      utils.WriteGoFile,
	}
}

// target is one type with measured methods
type target struct {
	pkg     *parser.Package
	id      models.TypeIdentity
	methods []models.MethodHandle
}

// outcome is the result of generating one target
type outcome struct {
	file      *models.GeneratedFile
	written   bool
	unchanged bool
	err       error
}

// Run executes the complete generation process. Per-type failures do not
// stop the run; they are returned together as a *RunError along with the
// summary of everything that succeeded.
func (g *Generator) Run(ctx context.Context, config Config) (*GenerationSummary, error) {
	startTime := time.Now()
	summary := &GenerationSummary{RunID: uuid.NewString()}
	defer func() { summary.Duration = time.Since(startTime) }()

	d := g.diagnostics
	d.Verbose("Starting run %s", summary.RunID)

	scanner, err := NewDirectoryScanner(config.Exclude...)
	if err != nil {
		return summary, &models.GeneratorError{
			Kind:        models.ErrorKindValidation,
			Message:     "invalid exclude pattern",
			Cause:       err,
			Suggestions: []string{"Exclude patterns use doublestar syntax, for example internal/legacy/**"},
		}
	}

	targets := config.Targets()
	module, err := g.moduleResolver.ResolveModule(config.ModuleName, workingDir(targets))
	if err != nil {
		return summary, &models.GeneratorError{
			Kind:    models.ErrorKindValidation,
			Message: "failed to resolve module name",
			Cause:   err,
			Suggestions: []string{
				"Check your go.mod file exists and is valid",
				"Try specifying --module flag explicitly",
			},
		}
	}
	d.Debug("Resolved module %s rooted at %s", module.Path, module.Root)

	d.PhaseHeader("Scanning")
	packageDirs, err := scanner.ScanDirectories(targets)
	if err != nil {
		return summary, &models.GeneratorError{
			Kind:    models.ErrorKindFileSystem,
			Message: "failed to scan directories",
			Cause:   err,
			Suggestions: []string{
				"Check that the specified directories exist",
				"Ensure you have read permissions for the directories",
			},
		}
	}
	summary.PackagesScanned = len(packageDirs)
	d.PhaseItem(fmt.Sprintf("Found %d packages", len(packageDirs)))

	// a fresh reader per run keeps its file set from growing in watch mode
	reader := g.newReader()
	work, failures := g.discover(reader, module, packageDirs)
	summary.TypesFound = len(work)
	d.PhaseItem(fmt.Sprintf("Found %d types with measured methods", len(work)))

	if len(work) > 0 {
		d.PhaseHeader("Generating")
	}
	outcomes, err := g.generateAll(ctx, reader, work, config)
	if err != nil {
		return summary, err
	}

	for i, o := range outcomes {
		if o.err != nil {
			failures = append(failures, TypeFailure{Type: work[i].id, Err: o.err})
			d.Error("%s: %v", work[i].id, o.err)
			continue
		}

		summary.WrappersGenerated++
		switch {
		case o.written:
			summary.GeneratedFiles = append(summary.GeneratedFiles, o.file.FilePath)
			d.PhaseWrite(o.file.FilePath)
		case o.unchanged:
			summary.Unchanged++
			d.PhaseProgress(fmt.Sprintf("%s is up to date", o.file.FilePath))
		default:
			d.PhaseProgress(fmt.Sprintf("%s (dry run, not written)", o.file.FilePath))
		}
	}

	summary.Failures = len(failures)
	if len(failures) > 0 {
		return summary, newRunError(summary.RunID, failures)
	}
	return summary, nil
}

// discover parses every package and collects the types to wrap, sorted by
// identity. Packages that fail to parse are reported as failures.
func (g *Generator) discover(reader parser.DeclarationReader, module Module, packageDirs []string) ([]target, []TypeFailure) {
	var (
		work     []target
		failures []TypeFailure
	)

	for _, dir := range packageDirs {
		namespace, err := g.moduleResolver.BuildPackagePath(module, dir)
		if err != nil {
			failures = append(failures, TypeFailure{Err: err})
			g.diagnostics.Error("%v", err)
			continue
		}

		pkg, err := reader.ParseDirectory(dir, namespace)
		if err != nil {
			failures = append(failures, TypeFailure{
				Type: models.TypeIdentity{Namespace: namespace},
				Err: &models.GeneratorError{
					Kind:    models.ErrorKindSyntax,
					File:    dir,
					Message: "package could not be parsed",
					Cause:   err,
				},
			})
			g.diagnostics.Error("%s: %v", namespace, err)
			continue
		}

		for id, methods := range reader.Collect(pkg) {
			work = append(work, target{pkg: pkg, id: id, methods: methods})
		}
	}

	sort.Slice(work, func(i, j int) bool { return work[i].id.Less(work[j].id) })
	return work, failures
}

// generateAll runs the per-type pipeline with bounded parallelism. Results
// are stored by index so their order does not depend on scheduling.
func (g *Generator) generateAll(ctx context.Context, reader parser.DeclarationReader, work []target, config Config) ([]outcome, error) {
	outcomes := make([]outcome, len(work))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(config.WorkerLimit())

	for i := range work {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			outcomes[i] = g.generateOne(reader, work[i], config.DryRun)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (g *Generator) generateOne(reader parser.DeclarationReader, t target, dryRun bool) outcome {
	g.diagnostics.Verbose("%s: %d measured methods", t.id, len(t.methods))

	decl, err := reader.ReadPublicSurface(t.pkg, t.id.Name)
	if err != nil {
		return outcome{err: err}
	}

	file, err := g.codeGenerator.GenerateWrapper(decl)
	if err != nil {
		return outcome{err: err}
	}

	if dryRun {
		return outcome{file: file}
	}

	content := []byte(file.Content)
	if existing, err := os.ReadFile(file.FilePath); err == nil && bytes.Equal(existing, content) {
		return outcome{file: file, unchanged: true}
	}

	if err := g.writeFile(file.FilePath, content); err != nil {
		return outcome{err: &models.GeneratorError{
			Kind:    models.ErrorKindFileSystem,
			Type:    t.id,
			File:    file.FilePath,
			Message: "failed to write wrapper",
			Cause:   err,
			Suggestions: []string{
				"Check write permissions for the target directory",
			},
		}}
	}
	return outcome{file: file, written: true}
}
