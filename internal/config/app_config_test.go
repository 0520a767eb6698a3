package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/pflag"

	"github.com/temirov/scraper/internal/utils"
)

type configTestCase struct {
	name              string
	globalContent     string
	localContent      string
	explicitPath      string
	environment       map[string]string
	expectInput       string
	expectOutput      string
	expectExtensions  []string
	expectFolders     []string
	expectCaseSense   bool
	expectRunOnStart  bool
	expectLoadFailure bool
}

func TestLoadMergesSources(t *testing.T) {
	defaults := Default().Normalize()

	testCases := []configTestCase{
		{
			name:             "defaults_without_files",
			expectInput:      defaults.InputFolder,
			expectOutput:     defaults.OutputFile,
			expectExtensions: defaults.IncludeExtensions,
			expectFolders:    defaults.ExcludeFolders,
			expectRunOnStart: true,
		},
		{
			name:             "local_overrides_global",
			globalContent:    "input_folder: /global/in\noutput_file: /global/out.txt\nexclude_folders: [dist]\n",
			localContent:     "output_file: /local/out.txt\ninclude_extensions: [.GO, java]\nrun_on_startup: false\n",
			expectInput:      "/global/in",
			expectOutput:     "/local/out.txt",
			expectExtensions: []string{"go", "java"},
			expectFolders:    []string{"dist"},
			expectRunOnStart: false,
		},
		{
			name:             "explicit_path_replaces_local",
			localContent:     "input_folder: ignored\n",
			explicitPath:     "custom.yaml",
			expectInput:      "/explicit/in",
			expectOutput:     defaults.OutputFile,
			expectExtensions: defaults.IncludeExtensions,
			expectFolders:    defaults.ExcludeFolders,
			expectRunOnStart: true,
		},
		{
			name:         "environment_overrides_files",
			localContent: "input_folder: /local/in\nexclude_pattern_case_sensitive: false\n",
			environment: map[string]string{
				"SCRAPER_INPUT_FOLDER":                   "/env/in",
				"SCRAPER_INCLUDE_EXTENSIONS":             "rs,toml",
				"SCRAPER_EXCLUDE_PATTERN_CASE_SENSITIVE": "true",
			},
			expectInput:      "/env/in",
			expectOutput:     defaults.OutputFile,
			expectExtensions: []string{"rs", "toml"},
			expectFolders:    defaults.ExcludeFolders,
			expectCaseSense:  true,
			expectRunOnStart: true,
		},
		{
			name:              "missing_explicit_file_fails",
			explicitPath:      "absent.yaml",
			expectLoadFailure: true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			homeDir := t.TempDir()
			workingDir := t.TempDir()
			t.Setenv("HOME", homeDir)
			t.Setenv("USERPROFILE", homeDir)
			for key, value := range testCase.environment {
				t.Setenv(key, value)
			}
			if testCase.globalContent != "" {
				configDir := filepath.Join(homeDir, utils.GlobalConfigDirectoryName)
				if err := os.MkdirAll(configDir, 0o755); err != nil {
					t.Fatalf("create config dir: %v", err)
				}
				writeFile(t, filepath.Join(configDir, utils.ConfigFileName), testCase.globalContent)
			}
			if testCase.localContent != "" {
				writeFile(t, filepath.Join(workingDir, utils.ConfigFileName), testCase.localContent)
			}
			if testCase.explicitPath != "" && !testCase.expectLoadFailure {
				writeFile(t, filepath.Join(workingDir, testCase.explicitPath), "input_folder: /explicit/in\n")
			}

			loaded, err := Load(LoadOptions{WorkingDirectory: workingDir, ExplicitFilePath: testCase.explicitPath})
			if testCase.expectLoadFailure {
				if err == nil {
					t.Fatalf("expected load failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load error: %v", err)
			}
			if loaded.InputFolder != testCase.expectInput {
				t.Fatalf("expected input %q, got %q", testCase.expectInput, loaded.InputFolder)
			}
			if loaded.OutputFile != testCase.expectOutput {
				t.Fatalf("expected output %q, got %q", testCase.expectOutput, loaded.OutputFile)
			}
			if !reflect.DeepEqual(loaded.IncludeExtensions, testCase.expectExtensions) {
				t.Fatalf("expected extensions %v, got %v", testCase.expectExtensions, loaded.IncludeExtensions)
			}
			if !reflect.DeepEqual(loaded.ExcludeFolders, testCase.expectFolders) {
				t.Fatalf("expected folders %v, got %v", testCase.expectFolders, loaded.ExcludeFolders)
			}
			if loaded.ExcludePatternCaseSensitive != testCase.expectCaseSense {
				t.Fatalf("expected case sensitivity %v, got %v", testCase.expectCaseSense, loaded.ExcludePatternCaseSensitive)
			}
			if loaded.RunOnStartup != testCase.expectRunOnStart {
				t.Fatalf("expected run on startup %v, got %v", testCase.expectRunOnStart, loaded.RunOnStartup)
			}
		})
	}
}

func TestLoadAppliesChangedFlagsOnly(t *testing.T) {
	workingDir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	writeFile(t, filepath.Join(workingDir, utils.ConfigFileName), "output_file: /file/out.txt\nexclude_folders: [dist]\n")

	flagSet := pflag.NewFlagSet("scraper", pflag.ContinueOnError)
	flagSet.StringSlice("exclude-folder", nil, "")
	flagSet.String("output", "", "")
	if err := flagSet.Parse([]string{"--exclude-folder", "vendor", "--exclude-folder", "gen"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	loaded, err := Load(LoadOptions{
		WorkingDirectory: workingDir,
		FlagBindings: map[string]*pflag.Flag{
			KeyExcludeFolders: flagSet.Lookup("exclude-folder"),
			KeyOutputFile:     flagSet.Lookup("output"),
		},
	})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !reflect.DeepEqual(loaded.ExcludeFolders, []string{"vendor", "gen"}) {
		t.Fatalf("expected flag folders, got %v", loaded.ExcludeFolders)
	}
	if loaded.OutputFile != "/file/out.txt" {
		t.Fatalf("unchanged flag must not override file value, got %q", loaded.OutputFile)
	}
}

func TestConfigurationWithPathsAndValidate(t *testing.T) {
	base := Default()
	overridden := base.WithPaths("/in", "")
	if overridden.InputFolder != "/in" || overridden.OutputFile != base.OutputFile {
		t.Fatalf("unexpected override result: %+v", overridden)
	}
	if base.InputFolder == "/in" {
		t.Fatalf("WithPaths must not mutate the receiver")
	}
	if err := (Configuration{OutputFile: "out.txt"}).Validate(); err == nil {
		t.Fatalf("expected error for empty input folder")
	}
	if err := (Configuration{InputFolder: "."}).Validate(); err == nil {
		t.Fatalf("expected error for empty output file")
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
