// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/scraper/internal/config"
	"github.com/temirov/scraper/internal/services/clipboard"
	"github.com/temirov/scraper/internal/services/pipeline"
	"github.com/temirov/scraper/internal/utils"
)

const (
	configFlagName         = "config"
	extensionFlagName      = "ext"
	includeNameFlagName    = "include-name"
	excludeFolderFlagName  = "exclude-folder"
	excludePatternFlagName = "exclude-pattern"
	caseSensitiveFlagName  = "case-sensitive"
	clipboardFlagName      = "clipboard"
	verboseFlagName        = "verbose"
	versionFlagName        = "version"
	globalFlagName         = "global"
	forceFlagName          = "force"

	rootUse              = "scraper"
	rootShortDescription = "merge a source tree into one text document"
	rootLongDescription  = `scraper walks a folder, keeps the files matching the configured extensions and
exclusion rules, and writes one document holding a tree of the kept files followed by their content.
Without a subcommand it runs once when run_on_startup is enabled in the configuration.`
	versionTemplate = "scraper version: %s\n"

	runUse              = "run [input-folder] [output-file]"
	runShortDescription = "merge the input folder into the output file"
	runLongDescription  = `Merge the input folder into the output file.
Positional arguments override input_folder and output_file from the configuration.`
	runUsageExample = `  # Merge using config.yaml from the working directory
  scraper run

  # Merge Go and Markdown files from ./service, skipping generated folders
  scraper run ./service /tmp/service.txt --ext go --ext md --exclude-folder gen`

	initUse              = "init"
	initShortDescription = "write a default configuration file"

	configFlagDescription         = "configuration file (default ./config.yaml)"
	extensionFlagDescription      = "file extension to include, repeatable"
	includeNameFlagDescription    = "file name to include regardless of extension, repeatable"
	excludeFolderFlagDescription  = "folder name to prune, repeatable"
	excludePatternFlagDescription = "file name glob to exclude, repeatable"
	caseSensitiveFlagDescription  = "match exclusion globs case-sensitively"
	clipboardFlagDescription      = "copy the merged document to the clipboard"
	verboseFlagDescription        = "log every exclusion decision"
	versionFlagDescription        = "display application version"
	globalFlagDescription         = "write the configuration under the home directory"
	forceFlagDescription          = "overwrite an existing configuration file"

	mergedSummaryFormat     = "Merged %d file(s) into %s\n"
	failureSummaryFormat    = "Skipped content of %d file(s); see warnings above\n"
	configurationWrittenFmt = "Configuration written to %s\n"
)

// runOptions holds flag values shared by the root and run commands.
type runOptions struct {
	configPath        string
	includeExtensions []string
	includeFilenames  []string
	excludeFolders    []string
	excludePatterns   []string
	caseSensitive     bool
	copyToClipboard   bool
	verbose           bool
	flagBindings      map[string]*pflag.Flag
}

type application struct {
	logger  *zap.Logger
	level   zap.AtomicLevel
	copier  clipboard.Copier
	options runOptions
}

// Execute runs the scraper application with the process arguments.
func Execute(logger *zap.Logger, level zap.AtomicLevel) error {
	rootCommand := createRootCommand(logger, level, clipboard.NewService())
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand(logger *zap.Logger, level zap.AtomicLevel, copier clipboard.Copier) *cobra.Command {
	app := &application{logger: logger, level: level, copier: copier}
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
			if app.options.verbose {
				app.level.SetLevel(zapcore.DebugLevel)
			}
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			configuration, loadError := app.loadConfiguration()
			if loadError != nil {
				return loadError
			}
			if !configuration.RunOnStartup {
				return command.Help()
			}
			return app.run(command.OutOrStdout(), configuration)
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	app.addRunFlags(rootCommand.PersistentFlags())

	rootCommand.AddCommand(
		app.createRunCommand(),
		createInitCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// addRunFlags registers selection flags and records which configuration key each overrides.
func (app *application) addRunFlags(flagSet *pflag.FlagSet) {
	options := &app.options
	flagSet.StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	flagSet.StringSliceVar(&options.includeExtensions, extensionFlagName, nil, extensionFlagDescription)
	flagSet.StringSliceVar(&options.includeFilenames, includeNameFlagName, nil, includeNameFlagDescription)
	flagSet.StringSliceVarP(&options.excludeFolders, excludeFolderFlagName, "e", nil, excludeFolderFlagDescription)
	flagSet.StringSliceVar(&options.excludePatterns, excludePatternFlagName, nil, excludePatternFlagDescription)
	caseSensitiveFlag := registerBooleanFlag(flagSet, &options.caseSensitive, caseSensitiveFlagName, false, caseSensitiveFlagDescription)
	registerBooleanFlag(flagSet, &options.copyToClipboard, clipboardFlagName, false, clipboardFlagDescription)
	registerBooleanFlag(flagSet, &options.verbose, verboseFlagName, false, verboseFlagDescription)

	options.flagBindings = map[string]*pflag.Flag{
		config.KeyIncludeExtensions:           flagSet.Lookup(extensionFlagName),
		config.KeyIncludeFilenames:            flagSet.Lookup(includeNameFlagName),
		config.KeyExcludeFolders:              flagSet.Lookup(excludeFolderFlagName),
		config.KeyExcludeFilePatterns:         flagSet.Lookup(excludePatternFlagName),
		config.KeyExcludePatternCaseSensitive: caseSensitiveFlag,
	}
}

// createRunCommand returns the run subcommand.
func (app *application) createRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:     runUse,
		Short:   runShortDescription,
		Long:    runLongDescription,
		Example: runUsageExample,
		Args:    cobra.MaximumNArgs(2),
		RunE: func(command *cobra.Command, arguments []string) error {
			configuration, loadError := app.loadConfiguration()
			if loadError != nil {
				return loadError
			}
			var inputFolder, outputFile string
			if len(arguments) > 0 {
				inputFolder = arguments[0]
			}
			if len(arguments) > 1 {
				outputFile = arguments[1]
			}
			return app.run(command.OutOrStdout(), configuration.WithPaths(inputFolder, outputFile))
		},
	}
}

// createInitCommand returns the init subcommand.
func createInitCommand() *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			writtenPath, initError := config.InitializeConfiguration(config.InitOptions{Target: target, Force: force})
			if initError != nil {
				return initError
			}
			fmt.Fprintf(command.OutOrStdout(), configurationWrittenFmt, writtenPath)
			return nil
		},
	}
	registerBooleanFlag(initCommand.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return initCommand
}

func (app *application) loadConfiguration() (config.Configuration, error) {
	return config.Load(config.LoadOptions{
		ExplicitFilePath: app.options.configPath,
		FlagBindings:     app.options.flagBindings,
	})
}

// run executes one pipeline pass and reports the outcome on stdout.
func (app *application) run(stdout io.Writer, configuration config.Configuration) error {
	if validationError := configuration.Validate(); validationError != nil {
		return validationError
	}
	result, runError := pipeline.New(configuration, app.logger).Run()
	if runError != nil {
		return runError
	}
	fmt.Fprintf(stdout, mergedSummaryFormat, len(result.Selection), result.OutputPath)
	if len(result.Failures) > 0 {
		fmt.Fprintf(stdout, failureSummaryFormat, len(result.Failures))
	}
	if app.options.copyToClipboard {
		if copyError := clipboard.CopyFile(app.copier, result.OutputPath); copyError != nil {
			app.logger.Warn("clipboard copy failed", zap.Error(copyError))
		}
	}
	return nil
}
