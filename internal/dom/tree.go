package dom

// Tree mutation helpers (§4.4 "child-tree mutation"): append/insert/remove/
// replace, all maintaining the Parent/Children invariants on both sides.

func (d *Document) detach(id uint64) {
	n := d.node(id)
	if n == nil || n.Parent == 0 {
		return
	}
	parent := d.node(n.Parent)
	for i, c := range parent.Children {
		if c == id {
			parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
			break
		}
	}
	n.Parent = 0
}

// AppendChild appends child to parent's children, detaching it from any
// prior parent first.
func (d *Document) AppendChild(parentID, childID uint64) {
	d.detach(childID)
	parent := d.node(parentID)
	parent.Children = append(parent.Children, childID)
	d.node(childID).Parent = parentID
}

// Prepend inserts children at the front of parent's children, in order.
func (d *Document) Prepend(parentID uint64, childIDs ...uint64) {
	for i := len(childIDs) - 1; i >= 0; i-- {
		d.detach(childIDs[i])
	}
	parent := d.node(parentID)
	parent.Children = append(append([]uint64{}, childIDs...), parent.Children...)
	for _, c := range childIDs {
		d.node(c).Parent = parentID
	}
}

// Append appends children to parent, in order.
func (d *Document) Append(parentID uint64, childIDs ...uint64) {
	for _, c := range childIDs {
		d.AppendChild(parentID, c)
	}
}

// InsertBefore inserts newID immediately before refID under the same parent
// as refID.
func (d *Document) InsertBefore(refID, newID uint64) {
	ref := d.node(refID)
	if ref == nil || ref.Parent == 0 {
		return
	}
	d.detach(newID)
	parent := d.node(ref.Parent)
	idx := indexOf(parent.Children, refID)
	parent.Children = insertAt(parent.Children, idx, newID)
	d.node(newID).Parent = ref.Parent
}

// Before inserts newIDs immediately before n, preserving their order.
func (d *Document) Before(refID uint64, newIDs ...uint64) {
	for _, n := range newIDs {
		d.InsertBefore(refID, n)
	}
}

// After inserts newIDs immediately after refID, preserving their order.
func (d *Document) After(refID uint64, newIDs ...uint64) {
	ref := d.node(refID)
	if ref == nil || ref.Parent == 0 {
		return
	}
	prev := refID
	for _, n := range newIDs {
		d.detach(n)
		parent := d.node(ref.Parent)
		at := indexOf(parent.Children, prev) + 1
		parent.Children = insertAt(parent.Children, at, n)
		d.node(n).Parent = ref.Parent
		prev = n
	}
}

// Remove detaches id from its parent. Descendant nodes stay allocated
// (simplest correct behaviour; the harness never runs long enough for this
// to matter as a leak) so lingering handles held by script remain valid.
func (d *Document) Remove(id uint64) { d.detach(id) }

// ReplaceWith replaces oldID with newIDs in its parent's child list.
func (d *Document) ReplaceWith(oldID uint64, newIDs ...uint64) {
	old := d.node(oldID)
	if old == nil || old.Parent == 0 {
		return
	}
	parentID := old.Parent
	d.After(oldID, newIDs...)
	d.detach(oldID)
	_ = parentID
}

func indexOf(s []uint64, v uint64) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

func insertAt(s []uint64, idx uint64OrInt, v uint64) []uint64 {
	i := int(idx)
	if i < 0 {
		i = 0
	}
	if i > len(s) {
		i = len(s)
	}
	out := make([]uint64, 0, len(s)+1)
	out = append(out, s[:i]...)
	out = append(out, v)
	out = append(out, s[i:]...)
	return out
}

type uint64OrInt = int

// Descendants returns every descendant of id in document (pre-order, DFS)
// order, used by querySelectorAll and the active-element/label lookups.
func (d *Document) Descendants(id uint64) []uint64 {
	var out []uint64
	var walk func(uint64)
	walk = func(cur uint64) {
		n := d.node(cur)
		if n == nil {
			return
		}
		for _, c := range n.Children {
			out = append(out, c)
			walk(c)
		}
	}
	walk(id)
	return out
}

// GetElementById does a DFS from the document root.
func (d *Document) GetElementById(id string) (uint64, bool) {
	for _, nid := range append([]uint64{d.RootID}, d.Descendants(d.RootID)...) {
		if n := d.node(nid); n != nil && n.Type == ElementNode && n.Id() == id {
			return nid, true
		}
	}
	return 0, false
}

// Closest walks id and its ancestors, returning the first matching element.
func (d *Document) Closest(id uint64, sel string) (uint64, bool) {
	m, err := compileSelector(sel)
	if err != nil {
		return 0, false
	}
	for cur := id; cur != 0; cur = d.node(cur).Parent {
		n := d.node(cur)
		if n.Type == ElementNode && m.match(d, cur) {
			return cur, true
		}
	}
	return 0, false
}

// Matches reports whether id's element matches sel.
func (d *Document) Matches(id uint64, sel string) bool {
	m, err := compileSelector(sel)
	if err != nil {
		return false
	}
	return m.match(d, id)
}

// QuerySelector returns the first descendant of root matching sel.
func (d *Document) QuerySelector(root uint64, sel string) (uint64, bool) {
	m, err := compileSelector(sel)
	if err != nil {
		return 0, false
	}
	for _, id := range d.Descendants(root) {
		if d.node(id).Type == ElementNode && m.match(d, id) {
			return id, true
		}
	}
	return 0, false
}

// QuerySelectorAll returns every descendant of root matching sel.
func (d *Document) QuerySelectorAll(root uint64, sel string) []uint64 {
	m, err := compileSelector(sel)
	if err != nil {
		return nil
	}
	var out []uint64
	for _, id := range d.Descendants(root) {
		if d.node(id).Type == ElementNode && m.match(d, id) {
			out = append(out, id)
		}
	}
	return out
}
