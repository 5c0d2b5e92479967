package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/cfgkit/lr"
	"github.com/npillmayer/cfgkit/lr/cnf"
	"github.com/npillmayer/cfgkit/lr/earley"
	"github.com/npillmayer/cfgkit/lr/glr"
	"github.com/npillmayer/cfgkit/lr/notation"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var replFlags = struct {
	init *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "repl [input]",
		Short: "Step through parser runs interactively",
		Long: `repl starts an interactive session. Both the Earley and the GLR parser
are reset with the input and may then be advanced step by step. Type 'help'
for a list of commands, quit with 'quit' or <ctrl>D.`,
		Example: `  cfgkit repl -r 'S -> aSb | ε' aabb`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runREPL,
	}
	replFlags.init = cmd.Flags().String("init", "", "file with commands to execute at start")
	rootCmd.AddCommand(cmd)
}

func runREPL(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverError(&retErr)
	g, err := loadGrammar()
	if err != nil {
		return err
	}
	repl, err := readline.New("cfgkit> ")
	if err != nil {
		return err
	}
	defer repl.Close()
	pterm.Info.Println("Welcome to the cfgkit REPL")
	intp := &Intp{repl: repl}
	intp.setGrammar(g)
	if len(args) > 0 {
		intp.reset(args[0])
	}
	intp.loadInitFile(*replFlags.init)
	tracer().Infof("Quit with <ctrl>D")
	intp.REPL()
	return nil
}

// Intp is our interpreter object. It holds a grammar and an Earley and a GLR
// parser for it, which run over the same input in lock step.
type Intp struct {
	g      *lr.Grammar
	repl   *readline.Instance
	ep     *earley.Parser
	gp     *glr.Parser
	input  string
	eseen  int // number of Earley explanations already displayed
	gseen  int // number of GLR explanations already displayed
	active bool
}

func (intp *Intp) setGrammar(g *lr.Grammar) {
	intp.g = g
	intp.ep = earley.NewParser(g)
	intp.gp = glr.NewParser(g, glr.RecordSnapshots(true))
	intp.active = false
	if intp.gp.Tables().HasConflicts {
		pterm.Info.Println("LR(0) tables have conflicts, the GLR parser will fork")
	}
}

func (intp *Intp) loadInitFile(filename string) {
	if filename == "" {
		return
	}
	f, err := os.Open(filename)
	if err != nil {
		tracer().Errorf("Unable to open init file: %s", filename)
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, err := intp.Eval(line); err != nil {
			pterm.Error.Printf("init file line %d: %v\n", lineno, err)
		}
	}
	if err := scanner.Err(); err != nil {
		tracer().Errorf("Error while reading init file: " + err.Error())
	}
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		quit, err := intp.Eval(line)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	fmt.Println("Good bye!")
}

var errNoRun = errors.New("no active parser run, use 'reset <input>' first")

// Eval executes a single command line. It returns true if the user asked to
// quit.
func (intp *Intp) Eval(line string) (bool, error) {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "quit", "exit":
		return true, nil
	case "help":
		intp.help()
	case "reset":
		intp.reset(arg)
	case "step":
		n := 1
		if arg != "" {
			var err error
			if n, err = strconv.Atoi(arg); err != nil || n < 1 {
				return false, fmt.Errorf("step count must be a positive number: %q", arg)
			}
		}
		return false, intp.step(n)
	case "run":
		return false, intp.step(-1)
	case "chart":
		return false, intp.chart()
	case "gss":
		return false, intp.gss()
	case "tree":
		return false, intp.tree()
	case "count":
		return false, intp.count()
	case "trace":
		level := tracing.TraceLevelFromString(arg)
		for _, key := range traceKeys {
			tracing.Select(key).SetTraceLevel(level)
		}
		pterm.Info.Printf("trace level is %s\n", arg)
	case "print":
		intp.g.Print(os.Stdout)
	case "grammar":
		g, err := notation.Parse("G", arg)
		if err != nil {
			return false, err
		}
		intp.setGrammar(g)
		intp.g.Print(os.Stdout)
	case "cnf":
		h := intp.g.Clone()
		cnf.Normalize(h).Print(os.Stdout)
		fmt.Print(notation.Format(h))
		if arg == "use" {
			intp.setGrammar(h)
			pterm.Info.Println("now using the grammar in CNF")
		}
	default:
		return false, fmt.Errorf("unknown command %q, try 'help'", cmd)
	}
	return false, nil
}

func (intp *Intp) help() {
	pterm.DefaultTable.WithData(pterm.TableData{
		{"reset <input>", "reset both parsers with a new input string"},
		{"step [n]", "advance both parsers by n steps (default 1)"},
		{"run", "run both parsers to completion"},
		{"chart", "display the Earley chart"},
		{"gss", "display the graph-structured stack of the GLR parser"},
		{"tree", "display a derivation tree of accepted input"},
		{"count", "count the derivations of accepted input"},
		{"trace <level>", "set the trace level [Debug|Info|Error]"},
		{"print", "print the grammar"},
		{"grammar <rules>", "replace the grammar, given in rule notation"},
		{"cnf [use]", "show the grammar in CNF, optionally switch to it"},
		{"quit", "leave the REPL"},
	}).Render()
}

func (intp *Intp) reset(input string) {
	intp.input = input
	intp.ep.Reset(input)
	intp.gp.Reset(input)
	intp.eseen, intp.gseen = 0, 0
	intp.active = true
	intp.showExplanations()
}

// step advances both parsers by n steps, or to completion if n < 0.
func (intp *Intp) step(n int) error {
	if !intp.active {
		return errNoRun
	}
	for ; n != 0; n-- {
		emore, gmore := intp.ep.NextStep(), intp.gp.NextStep()
		intp.showExplanations()
		if !emore && !gmore {
			break
		}
	}
	if intp.ep.IsDone() && intp.gp.IsDone() {
		printVerdict("Earley", intp.input, intp.ep.IsAccepted())
		printVerdict("GLR", intp.input, intp.gp.IsAccepted())
	}
	return nil
}

func (intp *Intp) showExplanations() {
	log := intp.ep.Explanations()
	for _, msg := range log[intp.eseen:] {
		fmt.Println("  " + msg)
	}
	intp.eseen = len(log)
	log = intp.gp.Explanations()
	for _, msg := range log[intp.gseen:] {
		fmt.Println("  " + msg)
	}
	intp.gseen = len(log)
}

func (intp *Intp) chart() error {
	if !intp.active {
		return errNoRun
	}
	view := intp.ep.Chart()
	for i, set := range view.Sets {
		if uint64(i) > view.Position {
			break
		}
		if tok := intp.ep.TokenAt(uint64(i)); tok != nil {
			pterm.DefaultSection.Printf("chart[%d], next input %q at %v", i, tok.Lexeme(), tok.Span())
		} else {
			pterm.DefaultSection.Printf("chart[%d], end of input", i)
		}
		for _, item := range set {
			fmt.Println("    " + item.String())
		}
	}
	return nil
}

func (intp *Intp) gss() error {
	if !intp.active {
		return errNoRun
	}
	snap := intp.gp.GSS()
	tops := make(map[glr.NodeID]bool, len(snap.Tops))
	for _, t := range snap.Tops {
		tops[t] = true
	}
	data := pterm.TableData{{"Node", "State", "Pos", "Predecessors", "Top"}}
	for _, n := range snap.Nodes {
		preds := make([]string, len(n.Preds))
		for i, p := range n.Preds {
			preds[i] = strconv.Itoa(int(p))
		}
		top := ""
		if tops[n.ID] {
			top = "*"
		}
		data = append(data, []string{
			strconv.Itoa(int(n.ID)),
			fmt.Sprint(n.State),
			fmt.Sprint(n.Pos),
			strings.Join(preds, " "),
			top,
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil
}

func (intp *Intp) tree() error {
	if !intp.ep.IsDone() || !intp.ep.IsAccepted() {
		return errors.New("input has not been accepted (yet)")
	}
	printTree(intp.ep)
	return nil
}

func (intp *Intp) count() error {
	if !intp.ep.IsDone() || !intp.ep.IsAccepted() {
		return errors.New("input has not been accepted (yet)")
	}
	pterm.Info.Printf("%q has %s derivations\n", intp.input, intp.ep.Derivations())
	return nil
}
