package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// switchFlagType is reported as "bool" so viper casts bound values like native boolean flags.
const (
	switchFlagType           = "bool"
	switchImplicitValue      = "true"
	errorSwitchLiteralFormat = "invalid boolean value %q for --%s; accepted values: true, false, yes, no, on, off, 1, 0"
)

var (
	switchOnLiterals  = []string{"true", "t", "1", "yes", "y", "on"}
	switchOffLiterals = []string{"false", "f", "0", "no", "n", "off"}
)

// parseSwitchLiteral maps a yes/no style literal to a boolean; ok is false for anything else.
func parseSwitchLiteral(literal string) (value bool, ok bool) {
	normalized := strings.ToLower(strings.TrimSpace(literal))
	for _, onLiteral := range switchOnLiterals {
		if normalized == onLiteral {
			return true, true
		}
	}
	for _, offLiteral := range switchOffLiterals {
		if normalized == offLiteral {
			return false, true
		}
	}
	return false, false
}

// switchValue is a pflag.Value storing into a bool that also understands yes/no and on/off.
type switchValue struct {
	name        string
	destination *bool
}

func (value *switchValue) Set(input string) error {
	if strings.TrimSpace(input) == "" {
		input = switchImplicitValue
	}
	parsed, ok := parseSwitchLiteral(input)
	if !ok {
		return fmt.Errorf(errorSwitchLiteralFormat, input, value.name)
	}
	*value.destination = parsed
	return nil
}

func (value *switchValue) String() string {
	if value == nil || value.destination == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.destination)
}

func (value *switchValue) Type() string {
	return switchFlagType
}

// registerBooleanFlag defines a switch flag on flagSet and returns it so callers can bind it to configuration.
func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) *pflag.Flag {
	*target = defaultValue
	flag := flagSet.VarPF(&switchValue{name: name, destination: target}, name, "", usage)
	flag.DefValue = strconv.FormatBool(defaultValue)
	flag.NoOptDefVal = switchImplicitValue
	return flag
}

// normalizeBooleanFlagArguments joins "--flag no" into "--flag=no" for switch flags anywhere in the
// command tree; pflag never consumes a separate value for a flag with NoOptDefVal.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string) []string {
	switchNames := collectBooleanFlagNames(command)
	if len(switchNames) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	for position := 0; position < len(arguments); position++ {
		argument := arguments[position]
		if argument == "--" {
			return append(normalized, arguments[position:]...)
		}
		name, isLongFlag := strings.CutPrefix(argument, "--")
		hasValue := position+1 < len(arguments)
		if isLongFlag && hasValue && !strings.Contains(name, "=") {
			if _, isSwitch := switchNames[name]; isSwitch {
				if _, isLiteral := parseSwitchLiteral(arguments[position+1]); isLiteral {
					normalized = append(normalized, argument+"="+arguments[position+1])
					position++
					continue
				}
			}
		}
		normalized = append(normalized, argument)
	}
	return normalized
}

// collectBooleanFlagNames returns the names of every switch flag defined on command or its descendants.
func collectBooleanFlagNames(command *cobra.Command) map[string]struct{} {
	names := map[string]struct{}{}
	var visit func(*cobra.Command)
	visit = func(current *cobra.Command) {
		for _, flagSet := range []*pflag.FlagSet{current.PersistentFlags(), current.Flags()} {
			flagSet.VisitAll(func(flag *pflag.Flag) {
				if _, isSwitch := flag.Value.(*switchValue); isSwitch {
					names[flag.Name] = struct{}{}
				}
			})
		}
		for _, child := range current.Commands() {
			visit(child)
		}
	}
	visit(command)
	return names
}
