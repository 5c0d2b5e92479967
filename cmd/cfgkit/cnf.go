package main

import (
	"fmt"
	"os"

	"github.com/npillmayer/cfgkit/lr"
	"github.com/npillmayer/cfgkit/lr/cnf"
	"github.com/npillmayer/cfgkit/lr/notation"
	"github.com/spf13/cobra"
)

var cnfFlags = struct {
	output *string
	quiet  *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "cnf",
		Short:   "Transform a grammar into Chomsky Normal Form",
		Example: `  cfgkit cnf -r 'S -> aSb | ε'` + "\n" + `  cfgkit cnf -g grammar.json -o grammar-cnf.json`,
		Args:    cobra.NoArgs,
		RunE:    runCNF,
	}
	cnfFlags.output = cmd.Flags().StringP("output", "o", "", "write the CNF grammar in exchange format to a file")
	cnfFlags.quiet = cmd.Flags().BoolP("quiet", "q", false, "do not print the stage reports")
	rootCmd.AddCommand(cmd)
}

func runCNF(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverError(&retErr)
	g, err := loadGrammar()
	if err != nil {
		return err
	}
	report := cnf.Normalize(g)
	if !*cnfFlags.quiet {
		report.Print(os.Stdout)
		fmt.Println()
	}
	g.Print(os.Stdout)
	fmt.Println()
	fmt.Print(notation.Format(g))
	if *cnfFlags.output != "" {
		return writeGrammar(*cnfFlags.output, g)
	}
	return nil
}

func writeGrammar(path string, g *lr.Grammar) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create output file %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("cannot close output file %s: %w", path, cerr)
		}
	}()
	if err = lr.WriteJSON(f, g); err != nil {
		return fmt.Errorf("cannot write grammar to %s: %w", path, err)
	}
	tracer().Infof("grammar %s written to %s", g.Name, path)
	return nil
}
