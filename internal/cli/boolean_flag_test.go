package cli

import (
	"reflect"
	"testing"

	"github.com/spf13/cobra"
)

func TestRegisterBooleanFlagParsesValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		defaultValue bool
		arguments    []string
		expected     bool
		expectError  bool
	}{
		{name: "defaults_to_false", defaultValue: false, arguments: []string{}, expected: false},
		{name: "sets_true_without_value", defaultValue: false, arguments: []string{"--case-sensitive"}, expected: true},
		{name: "sets_false_with_equals", defaultValue: true, arguments: []string{"--case-sensitive=false"}, expected: false},
		{name: "sets_false_with_no_literal", defaultValue: true, arguments: []string{"--case-sensitive", "no"}, expected: false},
		{name: "sets_true_with_on_literal", defaultValue: false, arguments: []string{"--case-sensitive", "on"}, expected: true},
		{name: "leaves_positional_argument", defaultValue: false, arguments: []string{"--case-sensitive", "./src"}, expected: true},
		{name: "rejects_invalid_literal", defaultValue: false, arguments: []string{"--case-sensitive=maybe"}, expectError: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			command := &cobra.Command{Use: "boolean-test"}
			flagValue := !testCase.defaultValue
			registered := registerBooleanFlag(command.Flags(), &flagValue, "case-sensitive", testCase.defaultValue, "match globs case-sensitively")
			if registered == nil || registered.Name != "case-sensitive" {
				t.Fatalf("expected registered flag, got %+v", registered)
			}
			parseErr := command.ParseFlags(normalizeBooleanFlagArguments(command, testCase.arguments))
			if testCase.expectError {
				if parseErr == nil {
					t.Fatalf("expected parse error for arguments %v", testCase.arguments)
				}
				return
			}
			if parseErr != nil {
				t.Fatalf("unexpected parse error: %v", parseErr)
			}
			if flagValue != testCase.expected {
				t.Fatalf("expected %t, got %t", testCase.expected, flagValue)
			}
		})
	}
}

func TestNormalizeBooleanFlagArgumentsCoversSubcommands(t *testing.T) {
	rootCommand := &cobra.Command{Use: "root"}
	var verbose, force bool
	var name string
	registerBooleanFlag(rootCommand.PersistentFlags(), &verbose, "verbose", false, "verbose output")
	childCommand := &cobra.Command{Use: "child"}
	registerBooleanFlag(childCommand.Flags(), &force, "force", false, "overwrite")
	childCommand.Flags().StringVar(&name, "name", "", "plain string flag")
	rootCommand.AddCommand(childCommand)

	normalized := normalizeBooleanFlagArguments(rootCommand, []string{"child", "--force", "off", "--name", "yes", "--verbose", "--", "--force", "no"})
	expected := []string{"child", "--force=off", "--name", "yes", "--verbose", "--", "--force", "no"}
	if !reflect.DeepEqual(normalized, expected) {
		t.Fatalf("expected %v, got %v", expected, normalized)
	}
}
