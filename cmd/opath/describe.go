package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/midbel/cli"
	"github.com/midbel/opath/graph"
)

var describeCmd = cli.Command{
	Name:    "describe",
	Summary: "dump the pointer tree of a document",
	Handler: &DescribeCmd{},
}

type DescribeCmd struct {
	Format string
	Depth  int
}

func (d *DescribeCmd) Run(args []string) error {
	set := flag.NewFlagSet("describe", flag.ContinueOnError)
	set.StringVar(&d.Format, "format", "", "input document format (json, yaml, xml)")
	set.IntVar(&d.Depth, "depth", 0, "limit tree depth - 0 prints everything")
	if err := set.Parse(args); err != nil {
		return err
	}
	ctx, _, err := makeContext(set.Arg(0), detectFormat(set.Arg(0), d.Format), nil)
	if err != nil {
		return err
	}
	describe(ctx.Root(), 0, d.Depth)
	return nil
}

func describe(p graph.Pointer, depth, limit int) {
	if limit > 0 && depth > limit {
		return
	}
	label := p.Name().QualifiedName()
	if label == "" {
		label = "/"
	}
	var (
		pad  = strings.Repeat("  ", depth)
		name = pathStyle.Render(label)
	)
	if p.Leaf() {
		fmt.Fprintf(os.Stdout, "%s%s %s %s", pad, name, faintStyle.Render("="), valueStyle.Render(displayValue(p.Value())))
		fmt.Fprintln(os.Stdout)
		return
	}
	fmt.Fprintln(os.Stdout, pad+name)
	attrs := p.Attributes(graph.QName{})
	for attrs.Next() {
		a := attrs.Pointer()
		fmt.Fprintf(os.Stdout, "%s  @%s %s %s", pad, pathStyle.Render(a.Name().QualifiedName()), faintStyle.Render("="), valueStyle.Render(displayValue(a.Value())))
		fmt.Fprintln(os.Stdout)
	}
	children := p.Children(nil, false, nil)
	for children.Next() {
		describe(children.Pointer(), depth+1, limit)
	}
}
