package monograph

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// node is a minimal XML tree sufficient for the monograph walk: element
// name, attributes in document order, child elements, and accumulated
// character data. Grounded on the teacher's ccda parser/generator pair
// (internal/platform/ccda/parser.go decodes into Go structs; generator.go
// serialises structs back to XML with a small emitter) — here the same
// two-directional shape is expressed as one small tree type rather than
// generated structs, since the monograph's element set is heterogeneous
// (mixed p/table/img) and only known at spec-design time, not compile time.
type node struct {
	name     string
	attrs    []xml.Attr
	children []*node
	text     string
}

func (n *node) attr(key string) string {
	for _, a := range n.attrs {
		if a.Name.Local == key {
			return a.Value
		}
	}
	return ""
}

func setAttr(n *node, key, value string) {
	for i, a := range n.attrs {
		if a.Name.Local == key {
			n.attrs[i].Value = value
			return
		}
	}
	n.attrs = append(n.attrs, xml.Attr{Name: xml.Name{Local: key}, Value: value})
}

func findChild(n *node, name string) *node {
	for _, c := range n.children {
		if strings.EqualFold(c.name, name) {
			return c
		}
	}
	return nil
}

func childrenNamed(n *node, name string) []*node {
	var out []*node
	for _, c := range n.children {
		if strings.EqualFold(c.name, name) {
			out = append(out, c)
		}
	}
	return out
}

// parseTree parses cleaned (already entity-sanitized) XML and returns its
// root element.
func parseTree(cleaned string) (*node, error) {
	dec := xml.NewDecoder(strings.NewReader(cleaned))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity

	var stack []*node
	var root *node

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("monograph: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{name: t.Name.Local, attrs: append([]xml.Attr(nil), t.Attr...)}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			} else if root == nil {
				root = n
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			stack[len(stack)-1].text += string(t)
		}
	}

	if root == nil {
		return nil, fmt.Errorf("monograph: empty document")
	}
	return root, nil
}

// serializeNode renders n and its subtree back to XML text. Attribute
// order is preserved since attrs is a plain slice copied from the decoded
// token; per spec §9 ("must ensure serialisation preserves attribute order
// and does not re-escape already-escaped entities") values are written
// verbatim rather than through xml.Marshal's own escaper.
func serializeNode(n *node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

func writeNode(b *strings.Builder, n *node) {
	b.WriteByte('<')
	b.WriteString(n.name)
	for _, a := range n.attrs {
		fmt.Fprintf(b, ` %s="%s"`, a.Name.Local, a.Value)
	}
	if len(n.children) == 0 && n.text == "" {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')
	b.WriteString(n.text)
	for _, c := range n.children {
		writeNode(b, c)
	}
	b.WriteString("</")
	b.WriteString(n.name)
	b.WriteByte('>')
}
