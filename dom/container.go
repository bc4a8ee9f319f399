package dom

import (
	"fmt"
	"io"
	"os"
)

// DocumentHolder parses a document on first access and keeps the result
// for the lifetime of the holder. A parse failure is remembered and
// reported on every later access.
type DocumentHolder struct {
	open func() (io.ReadCloser, error)

	doc  *Document
	err  error
	done bool
}

func HoldFile(file string) *DocumentHolder {
	return &DocumentHolder{
		open: func() (io.ReadCloser, error) {
			return os.Open(file)
		},
	}
}

func HoldDocument(doc *Document) *DocumentHolder {
	return &DocumentHolder{
		doc:  doc,
		done: true,
	}
}

func (h *DocumentHolder) Contents() any {
	doc, err := h.Document()
	if err != nil {
		return nil
	}
	return doc
}

func (h *DocumentHolder) SetContents(value any) error {
	doc, ok := value.(*Document)
	if !ok {
		return fmt.Errorf("%w: document expected", ErrElement)
	}
	h.doc = doc
	h.err = nil
	h.done = true
	return nil
}

func (h *DocumentHolder) Document() (*Document, error) {
	if h.done {
		return h.doc, h.err
	}
	h.done = true
	r, err := h.open()
	if err != nil {
		h.err = err
		return nil, err
	}
	defer r.Close()
	h.doc, h.err = Parse(r)
	return h.doc, h.err
}
