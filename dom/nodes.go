package dom

import (
	"errors"
	"strings"
)

var (
	ErrElement = errors.New("element expected")
	ErrRoot    = errors.New("document already has a root element")
)

type NodeType int8

const (
	TypeDocument NodeType = 1 << iota
	TypeElement
	TypeAttribute
	TypeText
	TypeComment
	TypeInstruction
)

func (t NodeType) String() string {
	switch t {
	case TypeDocument:
		return "document"
	case TypeElement:
		return "element"
	case TypeAttribute:
		return "attribute"
	case TypeText:
		return "text"
	case TypeComment:
		return "comment"
	case TypeInstruction:
		return "pi"
	default:
		return "<>"
	}
}

type QName struct {
	Space string
	Name  string
	Uri   string
}

func LocalName(name string) QName {
	return QName{
		Name: name,
	}
}

func ParseName(str string) QName {
	var q QName
	if x := strings.Index(str, ":"); x >= 0 {
		q.Space = str[:x]
		str = str[x+1:]
	}
	q.Name = str
	return q
}

func (q QName) Zero() bool {
	return q.Name == ""
}

func (q QName) QualifiedName() string {
	if q.Space == "" {
		return q.Name
	}
	return q.Space + ":" + q.Name
}

type Node interface {
	Type() NodeType
	Name() QName
	Value() string
	Parent() Node
	Position() int
	Leaf() bool

	setParent(Node)
	setPosition(int)
}

type Document struct {
	Nodes []Node
}

func NewDocument() *Document {
	var doc Document
	return &doc
}

func (d *Document) Type() NodeType {
	return TypeDocument
}

func (d *Document) Name() QName {
	var q QName
	return q
}

func (d *Document) Value() string {
	root := d.Root()
	if root == nil {
		return ""
	}
	return root.Value()
}

func (d *Document) Parent() Node {
	return nil
}

func (d *Document) Position() int {
	return 0
}

func (d *Document) Leaf() bool {
	return len(d.Nodes) == 0
}

func (d *Document) Root() *Element {
	for _, n := range d.Nodes {
		if el, ok := n.(*Element); ok {
			return el
		}
	}
	return nil
}

func (d *Document) Append(node Node) error {
	if node.Type() == TypeElement && d.Root() != nil {
		return ErrRoot
	}
	node.setParent(d)
	node.setPosition(len(d.Nodes))
	d.Nodes = append(d.Nodes, node)
	return nil
}

func (d *Document) setParent(Node)  {}
func (d *Document) setPosition(int) {}

type Element struct {
	QName
	Attrs []Attribute
	Nodes []Node

	parent   Node
	position int
}

func NewElement(name QName) *Element {
	return &Element{
		QName: name,
	}
}

func (e *Element) Type() NodeType {
	return TypeElement
}

func (e *Element) Name() QName {
	return e.QName
}

func (e *Element) Parent() Node {
	return e.parent
}

func (e *Element) Position() int {
	return e.position
}

func (e *Element) Leaf() bool {
	return len(e.Nodes) == 0
}

// Value returns the concatenated text content of the element subtree.
func (e *Element) Value() string {
	var str strings.Builder
	for _, n := range e.Nodes {
		switch n := n.(type) {
		case *Text:
			str.WriteString(n.Content)
		case *Element:
			str.WriteString(n.Value())
		}
	}
	return str.String()
}

func (e *Element) Append(node Node) {
	node.setParent(e)
	node.setPosition(len(e.Nodes))
	e.Nodes = append(e.Nodes, node)
}

func (e *Element) SetAttribute(name QName, value string) {
	for i := range e.Attrs {
		if e.Attrs[i].QName == name {
			e.Attrs[i].Content = value
			return
		}
	}
	attr := Attribute{
		QName:    name,
		Content:  value,
		parent:   e,
		position: len(e.Attrs),
	}
	e.Attrs = append(e.Attrs, attr)
}

func (e *Element) Attribute(name QName) (string, bool) {
	for i := range e.Attrs {
		if e.Attrs[i].QName == name {
			return e.Attrs[i].Content, true
		}
	}
	return "", false
}

// Namespaces reports the prefix/uri pairs declared on this element.
func (e *Element) Namespaces() []Attribute {
	var list []Attribute
	for i := range e.Attrs {
		if e.Attrs[i].Space == "xmlns" || (e.Attrs[i].Space == "" && e.Attrs[i].QName.Name == "xmlns") {
			list = append(list, e.Attrs[i])
		}
	}
	return list
}

func (e *Element) setParent(node Node) {
	e.parent = node
}

func (e *Element) setPosition(pos int) {
	e.position = pos
}

type Attribute struct {
	QName
	Content string

	parent   Node
	position int
}

func NewAttribute(name QName, value string) *Attribute {
	return &Attribute{
		QName:   name,
		Content: value,
	}
}

func (a *Attribute) Type() NodeType {
	return TypeAttribute
}

func (a *Attribute) Name() QName {
	return a.QName
}

func (a *Attribute) Value() string {
	return a.Content
}

func (a *Attribute) Parent() Node {
	return a.parent
}

func (a *Attribute) Position() int {
	return a.position
}

func (a *Attribute) Leaf() bool {
	return true
}

func (a *Attribute) setParent(node Node) {
	a.parent = node
}

func (a *Attribute) setPosition(pos int) {
	a.position = pos
}

type Text struct {
	Content string

	parent   Node
	position int
}

func NewText(content string) *Text {
	return &Text{
		Content: content,
	}
}

func (t *Text) Type() NodeType {
	return TypeText
}

func (t *Text) Name() QName {
	var q QName
	return q
}

func (t *Text) Value() string {
	return t.Content
}

func (t *Text) Parent() Node {
	return t.parent
}

func (t *Text) Position() int {
	return t.position
}

func (t *Text) Leaf() bool {
	return true
}

func (t *Text) setParent(node Node) {
	t.parent = node
}

func (t *Text) setPosition(pos int) {
	t.position = pos
}

type Comment struct {
	Content string

	parent   Node
	position int
}

func NewComment(content string) *Comment {
	return &Comment{
		Content: content,
	}
}

func (c *Comment) Type() NodeType {
	return TypeComment
}

func (c *Comment) Name() QName {
	var q QName
	return q
}

func (c *Comment) Value() string {
	return c.Content
}

func (c *Comment) Parent() Node {
	return c.parent
}

func (c *Comment) Position() int {
	return c.position
}

func (c *Comment) Leaf() bool {
	return true
}

func (c *Comment) setParent(node Node) {
	c.parent = node
}

func (c *Comment) setPosition(pos int) {
	c.position = pos
}

type Instruction struct {
	Target  string
	Content string

	parent   Node
	position int
}

func NewInstruction(target, content string) *Instruction {
	return &Instruction{
		Target:  target,
		Content: content,
	}
}

func (i *Instruction) Type() NodeType {
	return TypeInstruction
}

func (i *Instruction) Name() QName {
	return LocalName(i.Target)
}

func (i *Instruction) Value() string {
	return i.Content
}

func (i *Instruction) Parent() Node {
	return i.parent
}

func (i *Instruction) Position() int {
	return i.position
}

func (i *Instruction) Leaf() bool {
	return true
}

func (i *Instruction) setParent(node Node) {
	i.parent = node
}

func (i *Instruction) setPosition(pos int) {
	i.position = pos
}
