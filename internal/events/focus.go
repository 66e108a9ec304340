package events

// Focus implements §4.5 "Focus": focus() walks upward honouring inherited
// disabled state from an ancestor <fieldset>, dispatching the
// focusout/focus-out-old, focusin/focus-new pair in that order (§8 scenario
// 1). blur() only clears the active element if it is the node being
// blurred; activeElement is read-only from script.
func (r *Registry) Focus(nodeID uint64) error {
	if r.isEffectivelyDisabled(nodeID) {
		return nil
	}
	old := r.Doc.ActiveElement
	if old == nodeID {
		return nil
	}
	if old != 0 {
		if _, err := r.Dispatch(old, "focusout", DispatchOptions{Bubbles: true}); err != nil {
			return err
		}
		if _, err := r.Dispatch(old, "blur", DispatchOptions{}); err != nil {
			return err
		}
	}
	r.Doc.ActiveElement = nodeID
	if _, err := r.Dispatch(nodeID, "focusin", DispatchOptions{Bubbles: true}); err != nil {
		return err
	}
	if _, err := r.Dispatch(nodeID, "focus", DispatchOptions{}); err != nil {
		return err
	}
	return nil
}

// Blur implements blur(): only clears activeElement if it is nodeID.
func (r *Registry) Blur(nodeID uint64) error {
	if r.Doc.ActiveElement != nodeID {
		return nil
	}
	r.Doc.ActiveElement = 0
	if _, err := r.Dispatch(nodeID, "focusout", DispatchOptions{Bubbles: true}); err != nil {
		return err
	}
	if _, err := r.Dispatch(nodeID, "blur", DispatchOptions{}); err != nil {
		return err
	}
	return nil
}

// isEffectivelyDisabled walks nodeID's ancestors for a disabling
// <fieldset>, per "honouring inherited disabled" in §4.5.
func (r *Registry) isEffectivelyDisabled(nodeID uint64) bool {
	n := r.Doc.Node(nodeID)
	if n == nil {
		return true
	}
	if n.Disabled {
		return true
	}
	for cur := n.Parent; cur != 0; cur = r.Doc.Node(cur).Parent {
		anc := r.Doc.Node(cur)
		if anc.Tag == "fieldset" && anc.Disabled {
			return true
		}
	}
	return false
}
