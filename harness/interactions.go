package harness

import (
	"fmt"
	"strings"

	"github.com/domharness/domharness/internal/events"
)

// crlfStrippedTypes are the input types whose value normalises by removing
// CR/LF before being committed (§6 type_text: "strip CR/LF for
// password/tel/email").
var crlfStrippedTypes = map[string]bool{
	"password": true,
	"tel":      true,
	"email":    true,
}

func normalizeTypedValue(inputType, text string) string {
	if crlfStrippedTypes[inputType] {
		text = strings.ReplaceAll(text, "\r\n", "")
		text = strings.ReplaceAll(text, "\r", "")
		text = strings.ReplaceAll(text, "\n", "")
	}
	return text
}

// TypeText implements §6's type_text(selector, text): set the input value
// (respecting type-specific normalisation), fire input and change; for
// radio/checkbox behaves like click instead.
func (h *Harness) TypeText(selector, text string) error {
	if err := h.checkOpen(); err != nil {
		return err
	}
	id, err := h.resolve(selector)
	if err != nil {
		return err
	}
	n := h.doc.Node(id)
	if n.Tag != "input" && n.Tag != "textarea" {
		return fmt.Errorf("%w: %q is a %s", ErrNotFormControl, selector, n.Tag)
	}
	switch n.InputType() {
	case "radio", "checkbox":
		if err := h.events.Click(id); err != nil {
			return wrapScriptErr(err)
		}
		return wrapScriptErr(h.timers.DrainMicrotasks())
	}
	n.Value = normalizeTypedValue(n.InputType(), text)
	if _, err := h.events.Dispatch(id, "input", events.DispatchOptions{Bubbles: true}); err != nil {
		return wrapScriptErr(err)
	}
	if _, err := h.events.Dispatch(id, "change", events.DispatchOptions{Bubbles: true}); err != nil {
		return wrapScriptErr(err)
	}
	return wrapScriptErr(h.timers.DrainMicrotasks())
}

// SetInputFiles implements §6's set_input_files diagnostic helper: assigns
// the given paths to a file input's FileList-equivalent and fires change.
func (h *Harness) SetInputFiles(selector string, paths ...string) error {
	if err := h.checkOpen(); err != nil {
		return err
	}
	id, err := h.resolve(selector)
	if err != nil {
		return err
	}
	n := h.doc.Node(id)
	if n.Tag != "input" || n.InputType() != "file" {
		return fmt.Errorf("%w: %q is not a file input", ErrNotFormControl, selector)
	}
	n.Files = append([]string(nil), paths...)
	if _, err := h.events.Dispatch(id, "input", events.DispatchOptions{Bubbles: true}); err != nil {
		return wrapScriptErr(err)
	}
	if _, err := h.events.Dispatch(id, "change", events.DispatchOptions{Bubbles: true}); err != nil {
		return wrapScriptErr(err)
	}
	return wrapScriptErr(h.timers.DrainMicrotasks())
}

// AssertText implements the assert_text diagnostic helper: compares the
// resolved element's textContent against want.
func (h *Harness) AssertText(selector, want string) error {
	if err := h.checkOpen(); err != nil {
		return err
	}
	id, err := h.resolve(selector)
	if err != nil {
		return err
	}
	got := h.doc.TextContent(id)
	if got != want {
		return fmt.Errorf("assert_text %q: got %q, want %q", selector, got, want)
	}
	return nil
}

// AssertValue implements the assert_value diagnostic helper: compares the
// resolved form control's value against want.
func (h *Harness) AssertValue(selector, want string) error {
	if err := h.checkOpen(); err != nil {
		return err
	}
	id, err := h.resolve(selector)
	if err != nil {
		return err
	}
	n := h.doc.Node(id)
	if n.Value != want {
		return fmt.Errorf("assert_value %q: got %q, want %q", selector, n.Value, want)
	}
	return nil
}

// AssertChecked implements the assert_checked diagnostic helper: compares
// the resolved checkbox/radio's checked state against want.
func (h *Harness) AssertChecked(selector string, want bool) error {
	if err := h.checkOpen(); err != nil {
		return err
	}
	id, err := h.resolve(selector)
	if err != nil {
		return err
	}
	n := h.doc.Node(id)
	if n.Checked != want {
		return fmt.Errorf("assert_checked %q: got %v, want %v", selector, n.Checked, want)
	}
	return nil
}
