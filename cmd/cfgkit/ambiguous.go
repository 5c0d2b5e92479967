package main

import (
	"fmt"

	"github.com/npillmayer/cfgkit/lr/ambiguity"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "ambiguous <input>...",
		Short:   "Count the derivations of input strings",
		Example: `  cfgkit ambiguous -r 'S -> SS | a' aaa`,
		Args:    cobra.MinimumNArgs(1),
		RunE:    runAmbiguous,
	}
	rootCmd.AddCommand(cmd)
}

func runAmbiguous(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverError(&retErr)
	g, err := loadGrammar()
	if err != nil {
		return err
	}
	data := pterm.TableData{{"Input", "Accepted", "Derivations", "Verdict"}}
	for _, input := range args {
		result, err := ambiguity.Check(g, input)
		if err != nil {
			return err
		}
		count := fmt.Sprint(result.Derivations)
		if result.Infinite {
			count = "∞"
		}
		data = append(data, []string{input, fmt.Sprint(result.Accepted), count, result.String()})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil
}
