package dom

import (
	"fmt"
	"strings"
)

var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// TextContent returns the concatenation of all descendant text nodes,
// depth-first, matching the real DOM's textContent getter.
func (d *Document) TextContent(id uint64) string {
	n := d.node(id)
	if n == nil {
		return ""
	}
	if n.Type == TextNode {
		return n.TextData
	}
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(d.TextContent(c))
	}
	return b.String()
}

// SetTextContent replaces id's children with a single text node.
func (d *Document) SetTextContent(id uint64, text string) {
	n := d.node(id)
	for _, c := range n.Children {
		d.node(c).Parent = 0
	}
	n.Children = nil
	if text == "" {
		return
	}
	tid := d.NewTextNode(text)
	d.node(tid).Parent = id
	n.Children = append(n.Children, tid)
}

// InnerHTML serializes id's children to an HTML string.
func (d *Document) InnerHTML(id uint64) string {
	n := d.node(id)
	if n == nil {
		return ""
	}
	var b strings.Builder
	for _, c := range n.Children {
		d.serializeNode(&b, c)
	}
	return b.String()
}

// OuterHTML serializes id and its subtree.
func (d *Document) OuterHTML(id uint64) string {
	var b strings.Builder
	d.serializeNode(&b, id)
	return b.String()
}

func (d *Document) serializeNode(b *strings.Builder, id uint64) {
	n := d.node(id)
	if n == nil {
		return
	}
	if n.Type == TextNode {
		b.WriteString(escapeText(n.TextData))
		return
	}
	b.WriteByte('<')
	b.WriteString(n.Tag)
	for _, k := range n.AttributeNames() {
		v, _ := n.GetAttribute(k)
		fmt.Fprintf(b, ` %s="%s"`, k, escapeAttr(v))
	}
	b.WriteByte('>')
	if voidTags[n.Tag] {
		return
	}
	for _, c := range n.Children {
		d.serializeNode(b, c)
	}
	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteByte('>')
}

// SetInnerHTML replaces id's children with the parsed fragment; any inline
// <script> text in the fragment is returned (and, per §6, executed by the
// caller exactly like scripts found in from_html) rather than retained as
// a live node.
func (d *Document) SetInnerHTML(id uint64, html string) ([]string, error) {
	n := d.node(id)
	for _, c := range n.Children {
		d.node(c).Parent = 0
	}
	n.Children = nil
	var scripts []string
	if err := d.parseInto(id, html, &scripts); err != nil {
		return nil, err
	}
	return scripts, nil
}

func escapeText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

func escapeAttr(s string) string {
	r := strings.NewReplacer("&", "&amp;", `"`, "&quot;")
	return r.Replace(s)
}
