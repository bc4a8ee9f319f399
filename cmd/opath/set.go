package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/midbel/cli"
	"github.com/tidwall/sjson"
)

var setCmd = cli.Command{
	Name:    "set",
	Summary: "set the value at the location a path query denotes",
	Handler: &SetCmd{},
}

type SetCmd struct {
	Format  string
	OutFile string
	Create  bool
	Raw     bool
	Vars    []string
}

func (s *SetCmd) Run(args []string) error {
	set := flag.NewFlagSet("set", flag.ContinueOnError)
	set.StringVar(&s.Format, "format", "", "input document format (json, yaml, xml)")
	set.StringVar(&s.OutFile, "f", "", "write the updated document to the given file instead of stdout")
	set.BoolVar(&s.Create, "create", false, "create missing intermediate locations")
	set.BoolVar(&s.Raw, "raw", false, "rewrite json in place for simple dotted paths, without evaluating")
	set.Func("var", "define a variable as name=value", func(str string) error {
		s.Vars = append(s.Vars, str)
		return nil
	})
	if err := set.Parse(args); err != nil {
		return err
	}
	var (
		path  = set.Arg(0)
		value = set.Arg(1)
		file  = set.Arg(2)
	)
	format := detectFormat(file, s.Format)
	if s.Raw {
		if format != formatJSON {
			return fmt.Errorf("raw update needs a json document")
		}
		return s.rawUpdate(path, value, file)
	}
	ctx, root, err := makeContext(file, format, s.Vars)
	if err != nil {
		return err
	}
	if s.Create {
		_, err = ctx.CreatePathAndSetValue(path, parseValue(value))
	} else {
		err = ctx.SetValue(path, parseValue(value))
	}
	if err != nil {
		return err
	}
	return saveFile(root, s.OutFile, format)
}

// rawUpdate rewrites the document text directly. The path is the sjson
// dotted form, not a query: no predicates, no axes.
func (s *SetCmd) rawUpdate(path, value, file string) error {
	buf, err := readFile(file)
	if err != nil {
		return err
	}
	dotted := strings.ReplaceAll(strings.Trim(path, "/"), "/", ".")
	out, err := sjson.Set(string(buf), dotted, parseValue(value))
	if err != nil {
		return err
	}
	if s.OutFile == "" {
		fmt.Fprintln(os.Stdout, out)
		return nil
	}
	return os.WriteFile(s.OutFile, []byte(out), 0o644)
}
