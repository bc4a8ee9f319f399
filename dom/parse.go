package dom

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrSyntax = errors.New("invalid document")

// Parse builds a document from an XML stream. Whitespace-only text
// between elements is discarded.
func Parse(r io.Reader) (*Document, error) {
	var (
		doc     = NewDocument()
		dec     = xml.NewDecoder(r)
		current *Element
	)
	append_ := func(node Node) error {
		if current != nil {
			current.Append(node)
			return nil
		}
		return doc.Append(node)
	}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrSyntax, err)
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			el := NewElement(convertName(tok.Name))
			for _, a := range tok.Attr {
				el.SetAttribute(convertName(a.Name), a.Value)
			}
			if err := append_(el); err != nil {
				return nil, err
			}
			current = el
		case xml.EndElement:
			if current == nil {
				return nil, ErrSyntax
			}
			current, _ = current.Parent().(*Element)
		case xml.CharData:
			str := string(tok)
			if strings.TrimSpace(str) == "" {
				continue
			}
			if err := append_(NewText(str)); err != nil {
				return nil, err
			}
		case xml.Comment:
			if err := append_(NewComment(string(tok))); err != nil {
				return nil, err
			}
		case xml.ProcInst:
			if tok.Target == "xml" {
				continue
			}
			if err := append_(NewInstruction(tok.Target, string(tok.Inst))); err != nil {
				return nil, err
			}
		}
	}
	if current != nil {
		return nil, fmt.Errorf("%w: unexpected end of document", ErrSyntax)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: missing root element", ErrSyntax)
	}
	return doc, nil
}

func ParseString(str string) (*Document, error) {
	return Parse(strings.NewReader(str))
}

func convertName(name xml.Name) QName {
	q := ParseName(name.Local)
	q.Uri = name.Space
	return q
}
