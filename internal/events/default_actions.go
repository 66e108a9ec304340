package events

import "github.com/domharness/domharness/internal/dom"

// Click implements §4.5's click default actions plus the §6 "click(selector)"
// entry point's dispatch step: dispatches the click event first, then, unless
// a listener called preventDefault, runs the type-specific default action.
// For a checkbox or radio that action commits the state change before it
// dispatches input/change, so click listeners still see the old state.
func (r *Registry) Click(nodeID uint64) error {
	n := r.Doc.Node(nodeID)
	if n == nil {
		return dom.ErrNoSuchNode(nodeID)
	}
	if r.isEffectivelyDisabled(nodeID) {
		return nil
	}

	target := r.forwardedLabelTarget(nodeID)

	st, err := r.Dispatch(target, "click", DispatchOptions{Bubbles: true, Cancelable: true, IsTrusted: true})
	if err != nil {
		return err
	}
	if st.DefaultPrevented {
		return nil
	}
	return r.runClickDefaultAction(target)
}

// forwardedLabelTarget implements "click on <label for=X> or nested label
// target forwards the click to the associated control".
func (r *Registry) forwardedLabelTarget(nodeID uint64) uint64 {
	n := r.Doc.Node(nodeID)
	label := nodeID
	if n.Tag != "label" {
		if closest, ok := r.Doc.Closest(nodeID, "label"); ok {
			label = closest
		} else {
			return nodeID
		}
	}
	ln := r.Doc.Node(label)
	if forID, ok := ln.GetAttribute("for"); ok {
		if ctrl, ok := r.Doc.GetElementById(forID); ok {
			return ctrl
		}
	}
	for _, id := range r.Doc.Descendants(label) {
		cn := r.Doc.Node(id)
		if cn.Tag == "input" || cn.Tag == "button" || cn.Tag == "select" || cn.Tag == "textarea" {
			return id
		}
	}
	return nodeID
}

func (r *Registry) runClickDefaultAction(nodeID uint64) error {
	n := r.Doc.Node(nodeID)
	switch n.Tag {
	case "input":
		switch n.InputType() {
		case "checkbox":
			n.Checked = !n.Checked
			n.Indeterminate = false
			return r.fireInputChange(nodeID)
		case "radio":
			moved := r.selectRadio(nodeID)
			if moved {
				return r.fireInputChange(nodeID)
			}
		}
	case "summary":
		if details, ok := r.nearestDetailsParent(nodeID); ok {
			dn := r.Doc.Node(details)
			_, wasOpen := dn.GetAttribute("open")
			if wasOpen {
				dn.RemoveAttribute("open")
			} else {
				dn.SetAttribute("open", "")
			}
		}
	case "button":
		return r.submitOrResetButton(nodeID, n)
	}
	return nil
}

func (r *Registry) fireInputChange(nodeID uint64) error {
	if _, err := r.Dispatch(nodeID, "input", DispatchOptions{Bubbles: true}); err != nil {
		return err
	}
	_, err := r.Dispatch(nodeID, "change", DispatchOptions{Bubbles: true})
	return err
}

// selectRadio implements "radio sets checked (clearing others in the group
// scoped by the nearest form + name)"; returns whether the selection moved.
func (r *Registry) selectRadio(nodeID uint64) bool {
	n := r.Doc.Node(nodeID)
	if n.Checked {
		return false
	}
	group := r.radioGroup(nodeID)
	for _, id := range group {
		r.Doc.Node(id).Checked = id == nodeID
	}
	return true
}

func (r *Registry) radioGroup(nodeID uint64) []uint64 {
	n := r.Doc.Node(nodeID)
	name := n.Name()
	scope, ok := r.Doc.Closest(nodeID, "form")
	if !ok {
		scope = r.Doc.RootID
	}
	var group []uint64
	for _, id := range r.Doc.Descendants(scope) {
		cn := r.Doc.Node(id)
		if cn.Tag == "input" && cn.InputType() == "radio" && cn.Name() == name {
			group = append(group, id)
		}
	}
	return group
}

func (r *Registry) nearestDetailsParent(nodeID uint64) (uint64, bool) {
	n := r.Doc.Node(nodeID)
	for cur := n.Parent; cur != 0; cur = r.Doc.Node(cur).Parent {
		if r.Doc.Node(cur).Tag == "details" {
			return cur, true
		}
	}
	return 0, false
}

// submitOrResetButton implements "submit button click -> form submit" /
// "reset button click -> form reset".
func (r *Registry) submitOrResetButton(nodeID uint64, n *dom.Node) error {
	typ, _ := n.GetAttribute("type")
	form, ok := r.Doc.Closest(nodeID, "form")
	if !ok {
		return nil
	}
	switch typ {
	case "submit", "":
		if _, formnovalidate := n.GetAttribute("formnovalidate"); !formnovalidate {
			if _, novalidate := r.Doc.Node(form).GetAttribute("novalidate"); !novalidate {
				// Validity gating happens in package eval, which owns
				// ComputeValidity wiring across every participating control;
				// this package only fires the submit event itself.
			}
		}
		_, err := r.Dispatch(form, "submit", DispatchOptions{Bubbles: true, Cancelable: true})
		return err
	case "reset":
		st, err := r.Dispatch(form, "reset", DispatchOptions{Bubbles: true, Cancelable: true})
		if err != nil || st.DefaultPrevented {
			return err
		}
		return nil
	}
	return nil
}
