package dom

import (
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
)

// Validity mirrors the ValidityState flag set (§4.4 "Input validity").
type Validity struct {
	ValueMissing    bool
	TypeMismatch    bool
	PatternMismatch bool
	TooLong         bool
	TooShort        bool
	RangeUnderflow  bool
	RangeOverflow   bool
	StepMismatch    bool
	BadInput        bool
	CustomError     bool
}

func (v Validity) Valid() bool {
	return !(v.ValueMissing || v.TypeMismatch || v.PatternMismatch || v.TooLong ||
		v.TooShort || v.RangeUnderflow || v.RangeOverflow || v.StepMismatch ||
		v.BadInput || v.CustomError)
}

// ComputeValidity implements §4.4's input validation algorithm for <input>
// and <textarea> elements; other elements are always valid.
func (d *Document) ComputeValidity(id uint64) Validity {
	n := d.node(id)
	var v Validity
	if n == nil || (n.Tag != "input" && n.Tag != "textarea") {
		return v
	}
	if n.CustomValidityMessage != "" {
		v.CustomError = true
		return v
	}
	typ := n.InputType()
	val := n.Value

	if n.Required && isBlankForValidity(typ, val) {
		v.ValueMissing = true
	}

	switch typ {
	case "email":
		if val != "" {
			if ok, _ := emailPattern.MatchString(val); !ok {
				v.TypeMismatch = true
			}
		}
	case "url":
		if val != "" {
			if ok, _ := urlPattern.MatchString(val); !ok {
				v.TypeMismatch = true
			}
		}
	}

	if pat, ok := n.GetAttribute("pattern"); ok && pat != "" && val != "" {
		re, err := regexp2.Compile("^(?:"+pat+")$", 0)
		if err == nil {
			ok, _ := re.MatchString(val)
			if !ok {
				v.PatternMismatch = true
			}
		}
	}

	if ml, ok := intAttr(n, "maxlength"); ok && ml >= 0 && len([]rune(val)) > ml {
		v.TooLong = true
	}
	if ml, ok := intAttr(n, "minlength"); ok && ml >= 0 && val != "" && len([]rune(val)) < ml {
		v.TooShort = true
	}

	if isNumericInput(typ) && val != "" {
		num, err := strconv.ParseFloat(val, 64)
		if err != nil {
			v.BadInput = true
		} else {
			if min, ok := floatAttr(n, "min"); ok && num < min {
				v.RangeUnderflow = true
			}
			if max, ok := floatAttr(n, "max"); ok && num > max {
				v.RangeOverflow = true
			}
			if step, ok := floatAttr(n, "step"); ok && step > 0 {
				base := 0.0
				if min, ok := floatAttr(n, "min"); ok {
					base = min
				}
				diff := (num - base) / step
				if !isCloseToInt(diff) {
					v.StepMismatch = true
				}
			}
		}
	}

	return v
}

func isBlankForValidity(typ, val string) bool {
	if typ == "checkbox" || typ == "radio" {
		return false // checkedness drives required-ness, not handled here
	}
	return val == ""
}

func isNumericInput(typ string) bool {
	return typ == "number" || typ == "range"
}

func intAttr(n *Node, name string) (int, bool) {
	v, ok := n.GetAttribute(name)
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return i, true
}

func floatAttr(n *Node, name string) (float64, bool) {
	v, ok := n.GetAttribute(name)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func isCloseToInt(f float64) bool {
	r := f - float64(int64(f+0.5*sign(f)))
	return r < 1e-9 && r > -1e-9
}

func sign(f float64) float64 {
	if f < 0 {
		return -1
	}
	return 1
}

var emailPattern = mustRegexp(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
var urlPattern = mustRegexp(`^[a-zA-Z][a-zA-Z0-9+.\-]*://\S+$`)

func mustRegexp(pat string) *regexp2.Regexp {
	re, err := regexp2.Compile(pat, 0)
	if err != nil {
		panic(err)
	}
	return re
}

// StepUp/StepDown adjust a numeric input's value by n steps (§4.4).
func (n *Node) StepUp(steps int) {
	n.stepBy(steps)
}

func (n *Node) StepDown(steps int) {
	n.stepBy(-steps)
}

func (n *Node) stepBy(steps int) {
	step := 1.0
	if s, ok := floatAttr(n, "step"); ok {
		step = s
	}
	cur := 0.0
	if n.Value != "" {
		if f, err := strconv.ParseFloat(n.Value, 64); err == nil {
			cur = f
		}
	}
	next := cur + step*float64(steps)
	n.Value = strconv.FormatFloat(next, 'g', -1, 64)
}
