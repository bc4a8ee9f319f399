package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/midbel/cli"
	spinner "github.com/midbel/opath/cmd/cli"
	"github.com/midbel/opath/graph"
)

var queryCmd = cli.Command{
	Name:    "query",
	Alias:   []string{"exec"},
	Summary: "run a path query and print every matching location",
	Handler: &QueryCmd{},
}

var valueCmd = cli.Command{
	Name:    "get",
	Summary: "run a path query and print the value of its first match",
	Handler: &ValueCmd{},
}

type QueryCmd struct {
	Format  string
	Limit   int
	Text    bool
	Quiet   bool
	Lenient bool
	Vars    []string
}

const queryInfo = "query took %s - %d locations matching %q"

var (
	pathStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	faintStyle = lipgloss.NewStyle().Faint(true)
)

func (q *QueryCmd) Run(args []string) error {
	set := flag.NewFlagSet("query", flag.ContinueOnError)
	set.StringVar(&q.Format, "format", "", "input document format (json, yaml, xml)")
	set.IntVar(&q.Limit, "limit", 0, "limit number of results returned by query")
	set.BoolVar(&q.Text, "text", false, "print only the value of each location")
	set.BoolVar(&q.Quiet, "quiet", false, "suppress output - default is to print the matching locations")
	set.BoolVar(&q.Lenient, "lenient", false, "missing locations give no result instead of an error")
	set.Func("var", "define a variable as name=value", func(str string) error {
		q.Vars = append(q.Vars, str)
		return nil
	})
	if err := set.Parse(args); err != nil {
		return err
	}
	ctx, _, err := makeContext(set.Arg(1), detectFormat(set.Arg(1), q.Format), q.Vars)
	if err != nil {
		return err
	}
	ctx.Lenient = q.Lenient

	var (
		now     = time.Now()
		results []graph.Pointer
		spin    = spinner.NewSpinner()
	)
	spin.SetMessage("evaluating")
	spin.Run(func() {
		results, err = ctx.Selection(set.Arg(0))
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(now)
	if q.Limit > 0 && len(results) > q.Limit {
		results = results[:q.Limit]
	}
	if !q.Quiet {
		printResults(results, q.Text)
	}
	fmt.Fprintf(os.Stdout, queryInfo, elapsed, len(results), set.Arg(0))
	fmt.Fprintln(os.Stdout)
	if len(results) == 0 {
		return errFail
	}
	return nil
}

func printResults(results []graph.Pointer, text bool) {
	for _, p := range results {
		if text {
			fmt.Fprintln(os.Stdout, displayValue(p.Value()))
			continue
		}
		var (
			where = pathStyle.Render(p.String())
			what  = valueStyle.Render(displayValue(p.Value()))
		)
		fmt.Fprintf(os.Stdout, "%s %s %s", where, faintStyle.Render("="), what)
		fmt.Fprintln(os.Stdout)
	}
}

type ValueCmd struct {
	Format string
	Vars   []string
}

func (v *ValueCmd) Run(args []string) error {
	set := flag.NewFlagSet("get", flag.ContinueOnError)
	set.StringVar(&v.Format, "format", "", "input document format (json, yaml, xml)")
	set.Func("var", "define a variable as name=value", func(str string) error {
		v.Vars = append(v.Vars, str)
		return nil
	})
	if err := set.Parse(args); err != nil {
		return err
	}
	ctx, _, err := makeContext(set.Arg(1), detectFormat(set.Arg(1), v.Format), v.Vars)
	if err != nil {
		return err
	}
	value, err := ctx.Value(set.Arg(0))
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, displayValue(value))
	return nil
}
