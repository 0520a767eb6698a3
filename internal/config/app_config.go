// Package config resolves the immutable scraper configuration from defaults, files, environment and flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/temirov/scraper/internal/utils"
)

// Configuration keys shared by files, environment variables and flags.
const (
	KeyInputFolder                 = "input_folder"
	KeyOutputFile                  = "output_file"
	KeyIncludeExtensions           = "include_extensions"
	KeyIncludeFilenames            = "include_filenames"
	KeyExcludeFolders              = "exclude_folders"
	KeyExcludeFilePatterns         = "exclude_file_patterns"
	KeyExcludePatternCaseSensitive = "exclude_pattern_case_sensitive"
	KeyRunOnStartup                = "run_on_startup"

	defaultInputFolder = "."
	defaultOutputFile  = "scraper-output.txt"

	errorMissingInputFolder = "configuration key %s is empty"
	errorMissingOutputFile  = "configuration key %s is empty"
)

var (
	defaultIncludeExtensions   = []string{"go", "java", "kt", "py", "js", "ts", "md", "yaml", "yml", "xml", "json", "properties", "sql"}
	defaultIncludeFilenames    = []string{"Dockerfile", "Makefile"}
	defaultExcludeFolders      = []string{".git", ".idea", "node_modules", "target", "build", "vendor"}
	defaultExcludeFilePatterns = []string{"*.min.js", "*.lock"}
)

// LoadOptions controls how configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
	// FlagBindings maps configuration keys to command-line flags that override them when set.
	FlagBindings map[string]*pflag.Flag
}

// Configuration is the resolved, read-only input of one pipeline run.
type Configuration struct {
	InputFolder                 string   `mapstructure:"input_folder"`
	OutputFile                  string   `mapstructure:"output_file"`
	IncludeExtensions           []string `mapstructure:"include_extensions"`
	IncludeFilenames            []string `mapstructure:"include_filenames"`
	ExcludeFolders              []string `mapstructure:"exclude_folders"`
	ExcludeFilePatterns         []string `mapstructure:"exclude_file_patterns"`
	ExcludePatternCaseSensitive bool     `mapstructure:"exclude_pattern_case_sensitive"`
	RunOnStartup                bool     `mapstructure:"run_on_startup"`
}

// Default returns the built-in configuration.
func Default() Configuration {
	return Configuration{
		InputFolder:         defaultInputFolder,
		OutputFile:          defaultOutputFile,
		IncludeExtensions:   append([]string(nil), defaultIncludeExtensions...),
		IncludeFilenames:    append([]string(nil), defaultIncludeFilenames...),
		ExcludeFolders:      append([]string(nil), defaultExcludeFolders...),
		ExcludeFilePatterns: append([]string(nil), defaultExcludeFilePatterns...),
		RunOnStartup:        true,
	}
}

// Load resolves configuration from defaults, the global file, the local or explicit file,
// SCRAPER_* environment variables and bound flags, in increasing precedence.
func Load(options LoadOptions) (Configuration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return Configuration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	reader := viper.New()
	applyDefaults(reader)

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		if mergeErr := mergeConfigurationFile(reader, globalPath, false); mergeErr != nil {
			return Configuration{}, mergeErr
		}
	}

	localPath, explicit := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if mergeErr := mergeConfigurationFile(reader, localPath, explicit); mergeErr != nil {
		return Configuration{}, mergeErr
	}

	reader.SetEnvPrefix(utils.EnvironmentPrefix)
	reader.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	reader.AutomaticEnv()

	for key, flag := range options.FlagBindings {
		if flag == nil {
			continue
		}
		if bindErr := reader.BindPFlag(key, flag); bindErr != nil {
			return Configuration{}, fmt.Errorf("bind flag %s: %w", flag.Name, bindErr)
		}
	}

	var configuration Configuration
	if decodeErr := reader.Unmarshal(&configuration); decodeErr != nil {
		return Configuration{}, fmt.Errorf("decode configuration: %w", decodeErr)
	}
	return configuration.Normalize(), nil
}

// Normalize returns a copy with trimmed, deduplicated lists and dot-free lowercase extensions.
func (configuration Configuration) Normalize() Configuration {
	result := configuration
	result.InputFolder = strings.TrimSpace(configuration.InputFolder)
	result.OutputFile = strings.TrimSpace(configuration.OutputFile)
	result.IncludeExtensions = utils.NormalizeExtensions(configuration.IncludeExtensions)
	result.IncludeFilenames = utils.DeduplicatePatterns(utils.TrimNonEmpty(configuration.IncludeFilenames))
	result.ExcludeFolders = utils.DeduplicatePatterns(utils.TrimNonEmpty(configuration.ExcludeFolders))
	result.ExcludeFilePatterns = utils.DeduplicatePatterns(utils.TrimNonEmpty(configuration.ExcludeFilePatterns))
	return result
}

// WithPaths returns a copy that targets the provided input folder and output file.
// Empty arguments keep the configured values.
func (configuration Configuration) WithPaths(inputFolder, outputFile string) Configuration {
	result := configuration
	if strings.TrimSpace(inputFolder) != "" {
		result.InputFolder = strings.TrimSpace(inputFolder)
	}
	if strings.TrimSpace(outputFile) != "" {
		result.OutputFile = strings.TrimSpace(outputFile)
	}
	return result
}

// Validate reports missing required paths.
func (configuration Configuration) Validate() error {
	if configuration.InputFolder == "" {
		return fmt.Errorf(errorMissingInputFolder, KeyInputFolder)
	}
	if configuration.OutputFile == "" {
		return fmt.Errorf(errorMissingOutputFile, KeyOutputFile)
	}
	return nil
}

func applyDefaults(reader *viper.Viper) {
	defaults := Default()
	reader.SetDefault(KeyInputFolder, defaults.InputFolder)
	reader.SetDefault(KeyOutputFile, defaults.OutputFile)
	reader.SetDefault(KeyIncludeExtensions, defaults.IncludeExtensions)
	reader.SetDefault(KeyIncludeFilenames, defaults.IncludeFilenames)
	reader.SetDefault(KeyExcludeFolders, defaults.ExcludeFolders)
	reader.SetDefault(KeyExcludeFilePatterns, defaults.ExcludeFilePatterns)
	reader.SetDefault(KeyExcludePatternCaseSensitive, defaults.ExcludePatternCaseSensitive)
	reader.SetDefault(KeyRunOnStartup, defaults.RunOnStartup)
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, bool) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, true
		}
		return filepath.Join(workingDirectory, explicitPath), true
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), false
}

func mergeConfigurationFile(reader *viper.Viper, path string, required bool) error {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) && !required {
			return nil
		}
		return fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return fmt.Errorf("configuration path %s is a directory", path)
	}
	reader.SetConfigFile(path)
	if mergeErr := reader.MergeInConfig(); mergeErr != nil {
		return fmt.Errorf("read configuration from %s: %w", path, mergeErr)
	}
	return nil
}
