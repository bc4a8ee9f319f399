package graph

import "strings"

// QName is a qualified member name: a local name with an optional
// namespace prefix. Prefix resolution to a namespace uri happens when a
// name test is built, not here.
type QName struct {
	Space string
	Name  string
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
	return q.Name == "" && q.Space == ""
}

func (q QName) QualifiedName() string {
	if q.Space == "" {
		return q.Name
	}
	return q.Space + ":" + q.Name
}

func (q QName) String() string {
	return q.QualifiedName()
}
