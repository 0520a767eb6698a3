// Package pipeline runs one scan: walk the input folder, render the tree, merge the selected files.
package pipeline

import (
	"fmt"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"

	"github.com/temirov/scraper/internal/commands"
	"github.com/temirov/scraper/internal/config"
	"github.com/temirov/scraper/internal/output"
	"github.com/temirov/scraper/internal/types"
)

const errorOutputPathFormat = "%w: resolve output path %s: %w"

// Pipeline sequences the walker, the tree renderer and the merge writer for one configuration.
type Pipeline struct {
	configuration config.Configuration
	logger        *zap.Logger
}

// New returns a Pipeline bound to configuration. A nil logger discards all log output.
func New(configuration config.Configuration, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{configuration: configuration.Normalize(), logger: logger}
}

// Run scans the configured input folder into the configured output file.
func (pipeline *Pipeline) Run() (types.Result, error) {
	return pipeline.RunPaths(pipeline.configuration.InputFolder, pipeline.configuration.OutputFile)
}

// RunPaths scans inputFolder into outputFile using the configured selection rules.
// An invalid input folder fails with types.ErrInvalidInput before anything is written;
// output errors fail with types.ErrWriteFailure. Per-file problems are reported in Result.Failures.
func (pipeline *Pipeline) RunPaths(inputFolder, outputFile string) (types.Result, error) {
	configuration := pipeline.configuration
	pipeline.logger.Info("running scraper",
		zap.String("input", inputFolder),
		zap.String("output", outputFile),
		zap.String("platform", runtime.GOOS))
	pipeline.logger.Debug("selection rules",
		zap.Strings("extensions", configuration.IncludeExtensions),
		zap.Strings("filenames", configuration.IncludeFilenames),
		zap.Strings("excludeFolders", configuration.ExcludeFolders),
		zap.Strings("excludePatterns", configuration.ExcludeFilePatterns),
		zap.Bool("caseSensitivePatterns", configuration.ExcludePatternCaseSensitive))

	absoluteOutput, absoluteError := filepath.Abs(outputFile)
	if absoluteError != nil {
		return types.Result{}, fmt.Errorf(errorOutputPathFormat, types.ErrWriteFailure, outputFile, absoluteError)
	}

	walker := &commands.Walker{
		Matcher: commands.NewPatternMatcher(commands.SelectionRules{
			IncludeExtensions:     configuration.IncludeExtensions,
			IncludeFilenames:      configuration.IncludeFilenames,
			ExcludeFolders:        configuration.ExcludeFolders,
			ExcludeFilePatterns:   configuration.ExcludeFilePatterns,
			CaseSensitivePatterns: configuration.ExcludePatternCaseSensitive,
		}),
		Logger:    pipeline.logger,
		SkipPaths: []string{absoluteOutput},
	}
	index, selection, walkError := walker.Walk(inputFolder)
	if walkError != nil {
		pipeline.logger.Error("scanning input folder failed", zap.String("input", inputFolder), zap.Error(walkError))
		return types.Result{}, walkError
	}

	result := types.Result{
		InputRoot:  index.Root,
		OutputPath: absoluteOutput,
		Selection:  selection,
		Tree:       output.RenderTree(index),
	}

	mergeWriter := &output.MergeWriter{Logger: pipeline.logger}
	failures, mergeError := mergeWriter.Merge(output.Document{
		InputRoot:  result.InputRoot,
		OutputPath: result.OutputPath,
		Tree:       result.Tree,
		Selection:  result.Selection,
	})
	result.Failures = failures
	if mergeError != nil {
		pipeline.logger.Error("writing output failed", zap.String("output", absoluteOutput), zap.Error(mergeError))
		return result, mergeError
	}

	pipeline.logger.Info("scraper completed",
		zap.Int("files", len(result.Selection)),
		zap.Int("failures", len(result.Failures)),
		zap.String("output", result.OutputPath))
	return result, nil
}
