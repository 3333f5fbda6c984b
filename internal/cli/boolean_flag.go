package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	toggleFlagTypeName   = "bool"
	toggleImpliedLiteral = "true"

	errorInvalidToggleFormat = "invalid value %q for --%s; accepted values: %s"
)

var toggleLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// toggleValue is a pflag.Value accepting yes/no/on/off as well as Go boolean literals.
type toggleValue struct {
	target *bool
	name   string
}

func (value *toggleValue) Set(input string) error {
	literal := strings.ToLower(strings.TrimSpace(input))
	if literal == "" {
		literal = toggleImpliedLiteral
	}
	parsed, known := toggleLiterals[literal]
	if !known {
		return fmt.Errorf(errorInvalidToggleFormat, input, value.name, acceptedToggleLiterals())
	}
	*value.target = parsed
	return nil
}

func (value *toggleValue) String() string {
	if value == nil || value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *toggleValue) Type() string {
	return toggleFlagTypeName
}

// registerBooleanFlag adds a toggle that may be given bare (--copy), with an
// equals sign (--copy=no) or, after normalization, as a separate word (--copy no).
func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	if flagSet == nil || target == nil {
		return
	}
	*target = defaultValue
	flagSet.Var(&toggleValue{target: target, name: name}, name, usage)
	flag := flagSet.Lookup(name)
	flag.DefValue = strconv.FormatBool(defaultValue)
	flag.NoOptDefVal = toggleImpliedLiteral
}

// normalizeBooleanFlagArguments joins "--flag literal" pairs into "--flag=literal"
// for every toggle declared anywhere in the command tree, so pflag does not
// read the literal as a positional argument.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string) []string {
	toggles := map[string]struct{}{}
	gatherToggleNames(command, toggles)
	if len(toggles) == 0 {
		return arguments
	}

	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		current := arguments[index]
		if current == "--" {
			return append(normalized, arguments[index:]...)
		}
		name, isLongFlag := strings.CutPrefix(current, "--")
		if isLongFlag && !strings.Contains(name, "=") && index+1 < len(arguments) {
			if _, isToggle := toggles[name]; isToggle {
				next := arguments[index+1]
				if _, isLiteral := toggleLiterals[strings.ToLower(strings.TrimSpace(next))]; isLiteral {
					normalized = append(normalized, "--"+name+"="+next)
					index++
					continue
				}
			}
		}
		normalized = append(normalized, current)
	}
	return normalized
}

func gatherToggleNames(command *cobra.Command, target map[string]struct{}) {
	if command == nil {
		return
	}
	record := func(flag *pflag.Flag) {
		if _, isToggle := flag.Value.(*toggleValue); isToggle {
			target[flag.Name] = struct{}{}
		}
	}
	command.PersistentFlags().VisitAll(record)
	command.Flags().VisitAll(record)
	for _, child := range command.Commands() {
		gatherToggleNames(child, target)
	}
}

func acceptedToggleLiterals() string {
	literals := make([]string, 0, len(toggleLiterals))
	for literal := range toggleLiterals {
		literals = append(literals, literal)
	}
	sort.Strings(literals)
	return strings.Join(literals, ", ")
}
