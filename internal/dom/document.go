// Package dom implements §4.4: the DOM-facing operation layer. It owns the
// node tree (§3 "DOM state") behind opaque ids, since the evaluator only
// ever holds a [value.Node]/[value.NodeList] handle into it.
package dom

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// NodeType distinguishes element and text nodes; this harness does not
// model comments or other node types.
type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

// Node is one element or text node owned by a [Document].
type Node struct {
	ID       uint64
	Type     NodeType
	Tag      string // lowercase tag name, element nodes only
	Parent   uint64 // 0 = no parent
	Children []uint64

	attrKeys []string
	attrs    map[string]string

	TextData string // TextNode content, or cached text for element serialization helpers

	// Form-control state.
	Value                 string
	Checked               bool
	Indeterminate         bool
	Disabled              bool
	ReadOnly              bool
	Required              bool
	CustomValidityMessage string
	SelectionStart        int
	SelectionEnd          int
	SelectionDirection    string // "forward" | "backward" | "none"
	Files                 []string

	Style   map[string]string
	styleKeys []string

	Expando map[string]any // per-node expando store for unknown script properties

	doc *Document
}

// Document owns the whole node tree plus the process-wide DOM-adjacent
// state (active element) the event engine and evaluator consult.
type Document struct {
	nodes   map[uint64]*Node
	nextID  uint64
	RootID  uint64 // <html>
	HeadID  uint64
	BodyID  uint64

	ActiveElement uint64 // 0 = none (document body or nothing)
}

// NewDocument builds an empty document with html/head/body scaffolding.
func NewDocument() *Document {
	d := &Document{nodes: make(map[uint64]*Node)}
	d.RootID = d.newElement("html", 0)
	d.HeadID = d.newElement("head", d.RootID)
	d.BodyID = d.newElement("body", d.RootID)
	d.node(d.RootID).Children = []uint64{d.HeadID, d.BodyID}
	d.node(d.HeadID).Parent = d.RootID
	d.node(d.BodyID).Parent = d.RootID
	d.ActiveElement = d.BodyID
	return d
}

func (d *Document) allocID() uint64 {
	d.nextID++
	return d.nextID
}

// NewUUID mirrors the language's crypto.randomUUID() mock; kept on Document
// so tests can substitute a document without touching global state.
func (d *Document) NewUUID() string { return uuid.NewString() }

func (d *Document) newElement(tag string, parent uint64) uint64 {
	id := d.allocID()
	d.nodes[id] = &Node{
		ID: id, Type: ElementNode, Tag: strings.ToLower(tag), Parent: parent,
		attrs: make(map[string]string), Style: make(map[string]string),
		Expando: make(map[string]any), doc: d,
		SelectionDirection: "none",
	}
	return id
}

// NewElement creates a detached element node (not yet attached to the tree).
func (d *Document) NewElement(tag string) uint64 { return d.newElement(tag, 0) }

// NewTextNode creates a detached text node.
func (d *Document) NewTextNode(text string) uint64 {
	id := d.allocID()
	d.nodes[id] = &Node{ID: id, Type: TextNode, TextData: text, Expando: make(map[string]any), doc: d}
	return id
}

// Node returns the node by id, or nil if unknown (callers treat this as a
// ScriptRuntime "no such node" error).
func (d *Document) Node(id uint64) *Node { return d.nodes[id] }

func (d *Document) node(id uint64) *Node { return d.nodes[id] }

// ErrNoSuchNode formats the standard "missing node" message.
func ErrNoSuchNode(id uint64) error { return fmt.Errorf("no such node: %d", id) }

// GetAttribute/SetAttribute/RemoveAttribute implement the attribute store.

func (n *Node) GetAttribute(name string) (string, bool) {
	v, ok := n.attrs[strings.ToLower(name)]
	return v, ok
}

func (n *Node) SetAttribute(name, value string) {
	name = strings.ToLower(name)
	if _, ok := n.attrs[name]; !ok {
		n.attrKeys = append(n.attrKeys, name)
	}
	n.attrs[name] = value
	n.onAttributeChanged(name)
}

func (n *Node) RemoveAttribute(name string) {
	name = strings.ToLower(name)
	if _, ok := n.attrs[name]; !ok {
		return
	}
	delete(n.attrs, name)
	for i, k := range n.attrKeys {
		if k == name {
			n.attrKeys = append(n.attrKeys[:i], n.attrKeys[i+1:]...)
			break
		}
	}
	n.onAttributeChanged(name)
}

func (n *Node) HasAttribute(name string) bool {
	_, ok := n.attrs[strings.ToLower(name)]
	return ok
}

func (n *Node) AttributeNames() []string {
	out := make([]string, len(n.attrKeys))
	copy(out, n.attrKeys)
	return out
}

// onAttributeChanged keeps the scalar convenience fields (Value, Checked,
// ...) in sync when script mutates the backing attribute directly, mirroring
// real DOM content/IDL attribute reflection.
func (n *Node) onAttributeChanged(name string) {
	switch name {
	case "checked":
		if n.Tag == "input" {
			_, ok := n.GetAttribute("checked")
			n.Checked = ok
		}
	case "disabled":
		_, ok := n.GetAttribute("disabled")
		n.Disabled = ok
	case "readonly":
		_, ok := n.GetAttribute("readonly")
		n.ReadOnly = ok
	case "required":
		_, ok := n.GetAttribute("required")
		n.Required = ok
	case "value":
		if n.Tag == "input" || n.Tag == "textarea" {
			if v, ok := n.GetAttribute("value"); ok && n.Value == "" {
				n.Value = v
			}
		}
	}
}

// Id returns the element's id attribute, or "".
func (n *Node) Id() string {
	v, _ := n.GetAttribute("id")
	return v
}

// Name returns the element's name attribute, or "".
func (n *Node) Name() string {
	v, _ := n.GetAttribute("name")
	return v
}

// InputType returns the input's type attribute, defaulting to "text".
func (n *Node) InputType() string {
	if n.Tag != "input" {
		return ""
	}
	if v, ok := n.GetAttribute("type"); ok && v != "" {
		return strings.ToLower(v)
	}
	return "text"
}

// ClassList returns the whitespace-separated class tokens in source order.
func (n *Node) ClassList() []string {
	v, _ := n.GetAttribute("class")
	return strings.Fields(v)
}

func (n *Node) setClassList(tokens []string) {
	n.SetAttribute("class", strings.Join(tokens, " "))
}

func (n *Node) ClassListAdd(token string) {
	toks := n.ClassList()
	for _, t := range toks {
		if t == token {
			return
		}
	}
	toks = append(toks, token)
	n.setClassList(toks)
}

func (n *Node) ClassListRemove(token string) {
	toks := n.ClassList()
	out := toks[:0]
	for _, t := range toks {
		if t != token {
			out = append(out, t)
		}
	}
	n.setClassList(out)
}

func (n *Node) ClassListToggle(token string, force *bool) bool {
	has := n.ClassListContains(token)
	want := !has
	if force != nil {
		want = *force
	}
	if want {
		n.ClassListAdd(token)
	} else {
		n.ClassListRemove(token)
	}
	return want
}

func (n *Node) ClassListContains(token string) bool {
	for _, t := range n.ClassList() {
		if t == token {
			return true
		}
	}
	return false
}

// Dataset returns the dataset entries, keyed by camelCase (converted from
// data-kebab-case attribute names).
func (n *Node) Dataset() map[string]string {
	out := map[string]string{}
	for _, k := range n.attrKeys {
		if strings.HasPrefix(k, "data-") {
			out[kebabToCamel(k[len("data-"):])] = n.attrs[k]
		}
	}
	return out
}

func (n *Node) SetDatasetKey(camelKey, value string) {
	n.SetAttribute("data-"+camelToKebab(camelKey), value)
}

func kebabToCamel(s string) string {
	parts := strings.Split(s, "-")
	var b strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 {
			b.WriteString(p)
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	return b.String()
}

func camelToKebab(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// StyleKeysOrdered returns style declarations as an ordered key slice, for
// deterministic serialization of the style attribute.
func (n *Node) StyleKeysOrdered() []string {
	out := make([]string, len(n.styleKeys))
	copy(out, n.styleKeys)
	return out
}

func (n *Node) SetStyleProperty(prop, val string) {
	if _, ok := n.Style[prop]; !ok {
		n.styleKeys = append(n.styleKeys, prop)
	}
	if val == "" {
		delete(n.Style, prop)
		for i, k := range n.styleKeys {
			if k == prop {
				n.styleKeys = append(n.styleKeys[:i], n.styleKeys[i+1:]...)
				break
			}
		}
	} else {
		n.Style[prop] = val
	}
	n.syncStyleAttribute()
}

func (n *Node) syncStyleAttribute() {
	var parts []string
	for _, k := range n.styleKeys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, n.Style[k]))
	}
	n.attrs["style"] = strings.Join(parts, "; ")
}

// sortedKeys is a small helper for deterministic iteration where source
// order isn't semantically required (e.g. debugging dumps).
func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
