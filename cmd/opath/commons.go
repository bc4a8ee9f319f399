package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/tidwall/gjson"

	"github.com/midbel/opath/dom"
	"github.com/midbel/opath/xpath"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatXML  = "xml"
)

// detectFormat picks the document format from the explicit flag when
// given, the file extension otherwise. JSON is the fallback.
func detectFormat(file, format string) string {
	if format != "" {
		return format
	}
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		return formatYAML
	case ".xml":
		return formatXML
	default:
		return formatJSON
	}
}

// loadFile decodes the document into the value the query engine will
// traverse. XML documents come wrapped in a holder so that the document
// container stays transparent to paths.
func loadFile(file, format string) (any, error) {
	switch format {
	case formatXML:
		h := dom.HoldFile(file)
		if _, err := h.Document(); err != nil {
			return nil, err
		}
		return h, nil
	case formatYAML:
		buf, err := readFile(file)
		if err != nil {
			return nil, err
		}
		var value any
		if err := yaml.Unmarshal(buf, &value); err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		return value, nil
	case formatJSON:
		buf, err := readFile(file)
		if err != nil {
			return nil, err
		}
		if !gjson.ValidBytes(buf) {
			return nil, fmt.Errorf("%s: invalid json document", file)
		}
		return gjson.ParseBytes(buf).Value(), nil
	default:
		return nil, fmt.Errorf("%s: unsupported format", format)
	}
}

func saveFile(root any, file, format string) error {
	var w io.Writer = os.Stdout
	if file != "" {
		f, err := os.Create(file)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	switch format {
	case formatXML:
		h, ok := root.(*dom.DocumentHolder)
		if !ok {
			return fmt.Errorf("xml document expected")
		}
		doc, err := h.Document()
		if err != nil {
			return err
		}
		return dom.Write(w, doc)
	case formatYAML:
		buf, err := yaml.Marshal(root)
		if err != nil {
			return err
		}
		_, err = w.Write(buf)
		return err
	case formatJSON:
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		return e.Encode(root)
	default:
		return fmt.Errorf("%s: unsupported format", format)
	}
}

func readFile(file string) ([]byte, error) {
	r, err := openFile(file)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func openFile(file string) (io.ReadCloser, error) {
	u, err := url.Parse(file)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "http", "https":
		res, err := http.Get(u.String())
		if err != nil {
			return nil, err
		}
		if res.StatusCode != http.StatusOK {
			res.Body.Close()
			return nil, fmt.Errorf("fail to retrieve remote file")
		}
		return res.Body, nil
	default:
		return os.Open(file)
	}
}

// parseValue interprets a command line value: valid json scalars and
// composites keep their type, anything else stays a string.
func parseValue(str string) any {
	if gjson.Valid(str) {
		return gjson.Parse(str).Value()
	}
	return str
}

func makeContext(file, format string, vars []string) (*xpath.Context, any, error) {
	root, err := loadFile(file, format)
	if err != nil {
		return nil, nil, err
	}
	ctx := xpath.New(root)
	for _, v := range vars {
		name, value, ok := strings.Cut(v, "=")
		if !ok {
			return nil, nil, fmt.Errorf("%s: variable expected as name=value", v)
		}
		ctx.DefineVariable(name, parseValue(value))
	}
	return ctx, root, nil
}

func displayValue(value any) string {
	switch value := value.(type) {
	case nil:
		return "null"
	case string:
		return value
	case *dom.Document, *dom.Element:
		n, ok := value.(dom.Node)
		if !ok {
			return ""
		}
		return strings.TrimSpace(n.Value())
	default:
		buf, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(buf)
	}
}
