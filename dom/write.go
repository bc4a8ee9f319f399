package dom

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const prolog = `<?xml version="1.0" encoding="UTF-8"?>`

// Write serializes the document with one level of indentation per
// element depth. Text content is escaped, attributes are written in
// declaration order.
func Write(w io.Writer, doc *Document) error {
	ws := bufio.NewWriter(w)
	fmt.Fprintln(ws, prolog)
	for _, n := range doc.Nodes {
		if err := writeNode(ws, n, 0); err != nil {
			return err
		}
	}
	return ws.Flush()
}

func WriteString(doc *Document) (string, error) {
	var str strings.Builder
	if err := Write(&str, doc); err != nil {
		return "", err
	}
	return str.String(), nil
}

func writeNode(w *bufio.Writer, node Node, depth int) error {
	switch node := node.(type) {
	case *Element:
		return writeElement(w, node, depth)
	case *Text:
		indent(w, depth)
		if err := escape(w, node.Content); err != nil {
			return err
		}
		fmt.Fprintln(w)
		return nil
	case *Comment:
		indent(w, depth)
		fmt.Fprintf(w, "<!--%s-->", node.Content)
		fmt.Fprintln(w)
		return nil
	case *Instruction:
		indent(w, depth)
		fmt.Fprintf(w, "<?%s %s?>", node.Target, node.Content)
		fmt.Fprintln(w)
		return nil
	default:
		return fmt.Errorf("%w: unexpected node type %s", ErrElement, node.Type())
	}
}

func writeElement(w *bufio.Writer, el *Element, depth int) error {
	indent(w, depth)
	fmt.Fprintf(w, "<%s", el.QName.QualifiedName())
	for _, a := range el.Attrs {
		fmt.Fprintf(w, " %s=%q", a.QName.QualifiedName(), a.Content)
	}
	if len(el.Nodes) == 0 {
		fmt.Fprintln(w, "/>")
		return nil
	}
	if text, ok := onlyText(el); ok {
		fmt.Fprint(w, ">")
		if err := escape(w, text); err != nil {
			return err
		}
		fmt.Fprintf(w, "</%s>", el.QName.QualifiedName())
		fmt.Fprintln(w)
		return nil
	}
	fmt.Fprintln(w, ">")
	for _, n := range el.Nodes {
		if err := writeNode(w, n, depth+1); err != nil {
			return err
		}
	}
	indent(w, depth)
	fmt.Fprintf(w, "</%s>", el.QName.QualifiedName())
	fmt.Fprintln(w)
	return nil
}

func onlyText(el *Element) (string, bool) {
	if len(el.Nodes) != 1 {
		return "", false
	}
	t, ok := el.Nodes[0].(*Text)
	if !ok {
		return "", false
	}
	return t.Content, true
}

func indent(w *bufio.Writer, depth int) {
	for i := 0; i < depth; i++ {
		w.WriteString("  ")
	}
}

func escape(w *bufio.Writer, str string) error {
	return xml.EscapeText(w, []byte(str))
}
