package main

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/npillmayer/cfgkit/lr"
	"github.com/npillmayer/cfgkit/lr/notation"
	"github.com/npillmayer/schuko/tracing"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cfgkit",
	Short: "Normalize, parse and inspect context-free grammars",
	Long: `cfgkit provides the following features:
- Transforms a grammar into Chomsky Normal Form, reporting every stage.
- Parses input strings with an Earley and/or a GLR parser.
- Counts the derivations of an input string to detect ambiguity.
- Steps through parser runs interactively.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var rootFlags = struct {
	grammar *string
	rules   *string
	trace   *string
}{}

// tracing keys of the packages of this module
var traceKeys = []string{"cfgkit.cli", "cfgkit.lr", "cfgkit.scanner"}

func init() {
	rootFlags.grammar = rootCmd.PersistentFlags().StringP("grammar", "g", "", "grammar file in exchange format")
	rootFlags.rules = rootCmd.PersistentFlags().StringP("rules", "r", "", "grammar in rule notation, e.g. 'S -> aSb | ε'")
	rootFlags.trace = rootCmd.PersistentFlags().String("trace", "Error", "trace level [Debug|Info|Error]")
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}

func setup(cmd *cobra.Command, args []string) error {
	level := tracing.TraceLevelFromString(*rootFlags.trace)
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
	tracer().Infof("trace level is %s", *rootFlags.trace)
	return nil
}

// loadGrammar reads the grammar given by either --grammar or --rules.
func loadGrammar() (*lr.Grammar, error) {
	switch {
	case *rootFlags.grammar != "" && *rootFlags.rules != "":
		return nil, errors.New("you cannot use --grammar and --rules at the same time")
	case *rootFlags.grammar != "":
		return lr.LoadFile(*rootFlags.grammar)
	case *rootFlags.rules != "":
		return notation.Parse("G", *rootFlags.rules)
	}
	return nil, errors.New("no grammar given, use --grammar or --rules")
}

// recoverError turns a panic into an error for the commands' RunE functions.
// Stack traces are printed for panics only.
func recoverError(retErr *error) {
	v := recover()
	if v == nil {
		return
	}
	err, ok := v.(error)
	if !ok {
		err = fmt.Errorf("an unexpected error occurred: %v", v)
	}
	fmt.Fprintf(os.Stderr, "%v:\n%v", err, string(debug.Stack()))
	*retErr = err
}
