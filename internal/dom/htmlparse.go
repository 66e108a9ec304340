package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// LoadFragment parses an HTML fragment (as accepted by from_html, §6) into
// document body content, returning the inline <script> bodies found in
// source order. Grounded on golang.org/x/net/html's fragment-parsing API,
// the standard way Go code not already committed to a full browser engine
// turns HTML text into a node tree.
func (d *Document) LoadFragment(src string) (scripts []string, err error) {
	if err := d.parseInto(d.BodyID, src, &scripts); err != nil {
		return nil, err
	}
	return scripts, nil
}

func parseFragmentNodes(src string) ([]*html.Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	return html.ParseFragment(strings.NewReader(src), context)
}

// parseInto parses src and appends the resulting nodes under parent,
// appending any inline <script> bodies encountered to *scripts.
func (d *Document) parseInto(parent uint64, src string, scripts *[]string) error {
	nodes, err := parseFragmentNodes(src)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		d.importNode(n, parent, scripts)
	}
	return nil
}

// importNode recursively copies an x/net/html node into the document tree,
// collecting <script> text content into *scripts rather than modelling
// script elements as live DOM nodes (this harness executes script bodies
// directly at load time; it does not re-run injected script tags).
func (d *Document) importNode(n *html.Node, parent uint64, scripts *[]string) {
	switch n.Type {
	case html.ElementNode:
		if n.DataAtom == atom.Script {
			var sb strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					sb.WriteString(c.Data)
				}
			}
			*scripts = append(*scripts, sb.String())
			return
		}
		id := d.newElement(n.Data, parent)
		el := d.node(id)
		for _, a := range n.Attr {
			el.SetAttribute(a.Key, a.Val)
		}
		d.node(parent).Children = append(d.node(parent).Children, id)
		applyDefaultFormState(el)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			d.importNode(c, id, scripts)
		}
	case html.TextNode:
		text := n.Data
		if strings.TrimSpace(text) == "" && n.Parent != nil && blockLevel(n.Parent.Data) {
			return
		}
		id := d.NewTextNode(text)
		d.node(id).Parent = parent
		d.node(parent).Children = append(d.node(parent).Children, id)
	case html.DocumentNode, html.DoctypeNode, html.CommentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			d.importNode(c, parent, scripts)
		}
	}
}

// applyDefaultFormState seeds the convenience scalar fields from whatever
// attributes the fragment declared, mirroring initial IDL-attribute
// reflection from content attributes.
func applyDefaultFormState(el *Node) {
	switch el.Tag {
	case "input", "textarea":
		if v, ok := el.GetAttribute("value"); ok {
			el.Value = v
		}
		if _, ok := el.GetAttribute("checked"); ok {
			el.Checked = true
		}
		if _, ok := el.GetAttribute("disabled"); ok {
			el.Disabled = true
		}
		if _, ok := el.GetAttribute("readonly"); ok {
			el.ReadOnly = true
		}
		if _, ok := el.GetAttribute("required"); ok {
			el.Required = true
		}
		el.SelectionStart = len([]rune(el.Value))
		el.SelectionEnd = el.SelectionStart
		el.SelectionDirection = "none"
	case "option":
		if _, ok := el.GetAttribute("selected"); ok {
			el.Checked = true
		}
	case "button":
		if _, ok := el.GetAttribute("disabled"); ok {
			el.Disabled = true
		}
	}
	if v, ok := el.GetAttribute("style"); ok {
		for _, decl := range strings.Split(v, ";") {
			decl = strings.TrimSpace(decl)
			if decl == "" {
				continue
			}
			parts := strings.SplitN(decl, ":", 2)
			if len(parts) != 2 {
				continue
			}
			prop := strings.TrimSpace(parts[0])
			val := strings.TrimSpace(parts[1])
			el.Style[prop] = val
			el.styleKeys = append(el.styleKeys, prop)
		}
	}
}

var blockTags = map[string]bool{
	"html": true, "head": true, "body": true, "table": true, "tbody": true,
	"thead": true, "tfoot": true, "tr": true, "ul": true, "ol": true, "select": true,
}

func blockLevel(tag string) bool { return blockTags[tag] }
