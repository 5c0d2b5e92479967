package main

import (
	"fmt"
	"os"

	"github.com/npillmayer/cfgkit/lr/earley"
	"github.com/npillmayer/cfgkit/lr/glr"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var parseFlags = struct {
	engine  *string
	explain *bool
	tree    *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse <input>...",
		Short:   "Decide membership of input strings",
		Example: `  cfgkit parse -r 'S -> aSb | ε' aabb aab`,
		Args:    cobra.MinimumNArgs(1),
		RunE:    runParse,
	}
	parseFlags.engine = cmd.Flags().StringP("engine", "e", "earley", "parsing engine [earley|glr|both]")
	parseFlags.explain = cmd.Flags().Bool("explain", false, "print the explanations of every parser step")
	parseFlags.tree = cmd.Flags().BoolP("tree", "t", false, "print a derivation tree for accepted input")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverError(&retErr)
	switch *parseFlags.engine {
	case "earley", "glr", "both":
	default:
		return fmt.Errorf("unknown engine %q", *parseFlags.engine)
	}
	g, err := loadGrammar()
	if err != nil {
		return err
	}
	var eopts []earley.Option
	var gopts []glr.Option
	if *parseFlags.explain {
		eopts = append(eopts, earley.Explain(printExplanation))
		gopts = append(gopts, glr.Explain(printExplanation))
	}
	var ep *earley.Parser
	var gp *glr.Parser
	if *parseFlags.engine != "glr" {
		ep = earley.NewParser(g, eopts...)
	}
	if *parseFlags.engine != "earley" {
		gp = glr.NewParser(g, gopts...)
	}
	disagree := 0
	for _, input := range args {
		var verdicts []bool
		if ep != nil {
			accept := ep.Parse(input)
			verdicts = append(verdicts, accept)
			printVerdict("Earley", input, accept)
			if accept && *parseFlags.tree {
				printTree(ep)
			}
		}
		if gp != nil {
			accept := gp.Parse(input)
			verdicts = append(verdicts, accept)
			printVerdict("GLR", input, accept)
		}
		if len(verdicts) == 2 && verdicts[0] != verdicts[1] {
			disagree++
			pterm.Error.Printf("parsers disagree on %q\n", input)
		}
	}
	if disagree > 0 {
		return fmt.Errorf("parsers disagree on %d inputs", disagree)
	}
	return nil
}

func printExplanation(msg string) {
	fmt.Fprintln(os.Stdout, "    "+msg)
}

func printVerdict(engine, input string, accept bool) {
	if accept {
		pterm.Success.Printf("%-6s %q accepted\n", engine, input)
	} else {
		pterm.Warning.Printf("%-6s %q rejected\n", engine, input)
	}
}

// printTree displays a derivation tree of the last run of an Earley parser.
func printTree(p *earley.Parser) {
	tb := earley.NewTreeBuilder()
	if p.WalkDerivation(tb) == nil {
		return
	}
	root := treeNodes(tb.Tree())
	pterm.DefaultTree.WithRoot(root).Render()
}

func treeNodes(tree *earley.Node) pterm.TreeNode {
	var ll pterm.LeveledList
	tree.Each(func(node *earley.Node, depth int) {
		ll = append(ll, pterm.LeveledListItem{
			Level: depth,
			Text:  nodeLabel(node),
		})
	})
	return pterm.NewTreeFromLeveledList(ll)
}

func nodeLabel(node *earley.Node) string {
	if node.IsLeaf() {
		return fmt.Sprintf("'%s' %v", node.Token.Lexeme(), node.Span)
	}
	if len(node.Children) == 0 {
		return fmt.Sprintf("%s -> ε %v", node.Symbol, node.Span)
	}
	return fmt.Sprintf("%s %v", node.Symbol, node.Span)
}
