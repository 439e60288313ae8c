package dom

import "strings"

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// OuterHTML serializes the element and its subtree.
func (e *Element) OuterHTML() string {
	var b strings.Builder
	writeNode(&b, e)
	return b.String()
}

// InnerHTML serializes the element's children.
func (e *Element) InnerHTML() string {
	var b strings.Builder
	for _, c := range e.children {
		writeNode(&b, c)
	}
	return b.String()
}

func writeNode(b *strings.Builder, n Node) {
	switch v := n.(type) {
	case *Text:
		b.WriteString(escapeHTML(v.Data))
	case *Element:
		b.WriteByte('<')
		b.WriteString(v.Tag)
		for _, a := range v.Attributes() {
			b.WriteByte(' ')
			b.WriteString(a.Name)
			if a.Value != "" {
				b.WriteString(`="`)
				b.WriteString(escapeAttr(a.Value))
				b.WriteByte('"')
			}
		}
		b.WriteByte('>')
		if IsVoidElement(v.Tag) {
			return
		}
		for _, c := range v.children {
			writeNode(b, c)
		}
		b.WriteString("</")
		b.WriteString(v.Tag)
		b.WriteByte('>')
	}
}
