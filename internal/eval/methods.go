package eval

import (
	"math"
	"sort"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/domharness/domharness/internal/value"
)

// dispatchBuiltinMethod implements the built-in prototype/namespace method
// surface (§4.3's "closed set of built-ins"): Array/String/Map/Set instance
// methods, Promise instance methods, and the Math/JSON/console/Object
// namespace objects. Returning handled=false lets evalCall fall through to a
// plain property lookup + call (e.g. a user-stored function value).
func (it *Interp) dispatchBuiltinMethod(recv value.Value, name string, args []value.Value) (value.Value, bool, error) {
	switch r := recv.(type) {
	case *value.Array:
		return it.dispatchArrayMethod(r, name, args)
	case value.String:
		return dispatchStringMethod(r, name, args)
	case *value.MapObject:
		return dispatchMapMethod(it, r, name, args)
	case *value.SetObject:
		return dispatchSetMethod(it, r, name, args)
	case value.Promise:
		return it.dispatchPromiseMethod(r, name, args)
	case *MathValue:
		return dispatchMathMethod(name, args)
	case *JSONValue:
		return dispatchJSONMethod(name, args)
	case *ConsoleValue:
		return r.it.dispatchConsoleMethod(name, args)
	case value.Constructor:
		return it.dispatchStaticMethod(r, name, args)
	case *value.Object:
		return dispatchObjectInstanceMethod(r, name, args)
	case *value.RegExp:
		return dispatchRegExpMethod(r, name, args)
	}
	return nil, false, nil
}

// --- Array ---

func (it *Interp) dispatchArrayMethod(a *value.Array, name string, args []value.Value) (value.Value, bool, error) {
	switch name {
	case "push":
		a.Items = append(a.Items, args...)
		return value.Number(int64(len(a.Items))), true, nil
	case "pop":
		if len(a.Items) == 0 {
			return value.UndefinedValue, true, nil
		}
		last := a.Items[len(a.Items)-1]
		a.Items = a.Items[:len(a.Items)-1]
		return last, true, nil
	case "shift":
		if len(a.Items) == 0 {
			return value.UndefinedValue, true, nil
		}
		first := a.Items[0]
		a.Items = a.Items[1:]
		return first, true, nil
	case "unshift":
		a.Items = append(append([]value.Value(nil), args...), a.Items...)
		return value.Number(int64(len(a.Items))), true, nil
	case "slice":
		start, end := sliceBounds(len(a.Items), args)
		out := append([]value.Value(nil), a.Items[start:end]...)
		return value.NewArray(out...), true, nil
	case "splice":
		return arraySplice(a, args), true, nil
	case "concat":
		out := append([]value.Value(nil), a.Items...)
		for _, arg := range args {
			if other, ok := arg.(*value.Array); ok {
				out = append(out, other.Items...)
			} else {
				out = append(out, arg)
			}
		}
		return value.NewArray(out...), true, nil
	case "join":
		sep := ","
		if len(args) > 0 {
			sep = value.ToDisplayString(args[0])
		}
		parts := make([]string, len(a.Items))
		for i, item := range a.Items {
			switch item.(type) {
			case value.Null, value.Undefined:
				parts[i] = ""
			default:
				parts[i] = value.ToDisplayString(item)
			}
		}
		return value.String(strings.Join(parts, sep)), true, nil
	case "reverse":
		for i, j := 0, len(a.Items)-1; i < j; i, j = i+1, j-1 {
			a.Items[i], a.Items[j] = a.Items[j], a.Items[i]
		}
		return a, true, nil
	case "sort":
		return a, true, it.arraySort(a, args)
	case "indexOf":
		target := argOr(args, 0, value.UndefinedValue)
		for i, item := range a.Items {
			if value.StrictEqual(item, target) {
				return value.Number(int64(i)), true, nil
			}
		}
		return value.Number(-1), true, nil
	case "lastIndexOf":
		target := argOr(args, 0, value.UndefinedValue)
		for i := len(a.Items) - 1; i >= 0; i-- {
			if value.StrictEqual(a.Items[i], target) {
				return value.Number(int64(i)), true, nil
			}
		}
		return value.Number(-1), true, nil
	case "includes":
		target := argOr(args, 0, value.UndefinedValue)
		for _, item := range a.Items {
			if value.StrictEqual(item, target) {
				return value.Bool(true), true, nil
			}
		}
		return value.Bool(false), true, nil
	case "flat":
		depth := argIntOr(args, 0, 1)
		return value.NewArray(flatten(a.Items, depth)...), true, nil
	case "fill":
		v := argOr(args, 0, value.UndefinedValue)
		start, end := sliceBounds(len(a.Items), args[min(1, len(args)):])
		for i := start; i < end; i++ {
			a.Items[i] = v
		}
		return a, true, nil
	case "map", "filter", "forEach", "find", "findIndex", "some", "every", "reduce", "reduceRight":
		return it.arrayHigherOrder(a, name, args)
	}
	return nil, false, nil
}

func sliceBounds(n int, args []value.Value) (int, int) {
	start, end := 0, n
	if len(args) > 0 {
		start = normalizeIndex(int(value.ToNumeric(args[0])), n)
	}
	if len(args) > 1 {
		if _, isUndef := args[1].(value.Undefined); !isUndef {
			end = normalizeIndex(int(value.ToNumeric(args[1])), n)
		}
	}
	if end < start {
		end = start
	}
	return start, end
}

func normalizeIndex(i, n int) int {
	if i < 0 {
		i += n
	}
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

func arraySplice(a *value.Array, args []value.Value) value.Value {
	n := len(a.Items)
	start := 0
	if len(args) > 0 {
		start = normalizeIndex(int(value.ToNumeric(args[0])), n)
	}
	deleteCount := n - start
	if len(args) > 1 {
		dc := int(value.ToNumeric(args[1]))
		if dc < 0 {
			dc = 0
		}
		if dc > n-start {
			dc = n - start
		}
		deleteCount = dc
	}
	removed := append([]value.Value(nil), a.Items[start:start+deleteCount]...)
	var inserted []value.Value
	if len(args) > 2 {
		inserted = args[2:]
	}
	tail := append([]value.Value(nil), a.Items[start+deleteCount:]...)
	a.Items = append(append(a.Items[:start:start], inserted...), tail...)
	return value.NewArray(removed...)
}

func flatten(items []value.Value, depth int) []value.Value {
	var out []value.Value
	for _, item := range items {
		if arr, ok := item.(*value.Array); ok && depth > 0 {
			out = append(out, flatten(arr.Items, depth-1)...)
		} else {
			out = append(out, item)
		}
	}
	return out
}

func (it *Interp) arraySort(a *value.Array, args []value.Value) error {
	var cmpErr error
	cmp := argOr(args, 0, value.UndefinedValue)
	less := func(i, j int) bool {
		if cmpErr != nil {
			return false
		}
		if it.Callable(cmp) {
			res, err := it.CallValue(cmp, value.UndefinedValue, []value.Value{a.Items[i], a.Items[j]})
			if err != nil {
				cmpErr = err
				return false
			}
			return value.ToNumeric(res) < 0
		}
		return value.ToDisplayString(a.Items[i]) < value.ToDisplayString(a.Items[j])
	}
	sort.SliceStable(a.Items, less)
	return cmpErr
}

func (it *Interp) arrayHigherOrder(a *value.Array, name string, args []value.Value) (value.Value, bool, error) {
	fn := argOr(args, 0, value.UndefinedValue)
	if !it.Callable(fn) {
		return nil, true, &ScriptError{Message: name + " callback is not a function"}
	}
	thisArg := argOr(args, 1, value.UndefinedValue)
	call := func(item value.Value, i int) (value.Value, error) {
		return it.CallValue(fn, thisArg, []value.Value{item, value.Number(int64(i)), a})
	}
	switch name {
	case "forEach":
		for i, item := range a.Items {
			if _, err := call(item, i); err != nil {
				return nil, true, err
			}
		}
		return value.UndefinedValue, true, nil
	case "map":
		out := make([]value.Value, len(a.Items))
		for i, item := range a.Items {
			v, err := call(item, i)
			if err != nil {
				return nil, true, err
			}
			out[i] = v
		}
		return value.NewArray(out...), true, nil
	case "filter":
		var out []value.Value
		for i, item := range a.Items {
			v, err := call(item, i)
			if err != nil {
				return nil, true, err
			}
			if value.Truthy(v) {
				out = append(out, item)
			}
		}
		return value.NewArray(out...), true, nil
	case "find":
		for i, item := range a.Items {
			v, err := call(item, i)
			if err != nil {
				return nil, true, err
			}
			if value.Truthy(v) {
				return item, true, nil
			}
		}
		return value.UndefinedValue, true, nil
	case "findIndex":
		for i, item := range a.Items {
			v, err := call(item, i)
			if err != nil {
				return nil, true, err
			}
			if value.Truthy(v) {
				return value.Number(int64(i)), true, nil
			}
		}
		return value.Number(-1), true, nil
	case "some":
		for i, item := range a.Items {
			v, err := call(item, i)
			if err != nil {
				return nil, true, err
			}
			if value.Truthy(v) {
				return value.Bool(true), true, nil
			}
		}
		return value.Bool(false), true, nil
	case "every":
		for i, item := range a.Items {
			v, err := call(item, i)
			if err != nil {
				return nil, true, err
			}
			if !value.Truthy(v) {
				return value.Bool(false), true, nil
			}
		}
		return value.Bool(true), true, nil
	case "reduce", "reduceRight":
		items := a.Items
		order := make([]int, len(items))
		for i := range order {
			if name == "reduceRight" {
				order[i] = len(items) - 1 - i
			} else {
				order[i] = i
			}
		}
		var acc value.Value
		start := 0
		if len(args) > 1 {
			acc = args[1]
		} else {
			if len(order) == 0 {
				return nil, true, &ScriptError{Message: "Reduce of empty array with no initial value"}
			}
			acc = items[order[0]]
			start = 1
		}
		for _, idx := range order[start:] {
			v, err := it.CallValue(fn, value.UndefinedValue, []value.Value{acc, items[idx], value.Number(int64(idx)), a})
			if err != nil {
				return nil, true, err
			}
			acc = v
		}
		return acc, true, nil
	}
	return nil, false, nil
}

// --- String ---

func dispatchStringMethod(s value.String, name string, args []value.Value) (value.Value, bool, error) {
	str := string(s)
	rs := []rune(str)
	switch name {
	case "slice", "substring":
		start, end := sliceBounds(len(rs), args)
		if name == "substring" {
			if start > end {
				start, end = end, start
			}
		}
		return value.String(string(rs[start:end])), true, nil
	case "charAt":
		i := argIntOr(args, 0, 0)
		if i < 0 || i >= len(rs) {
			return value.String(""), true, nil
		}
		return value.String(string(rs[i])), true, nil
	case "charCodeAt":
		i := argIntOr(args, 0, 0)
		if i < 0 || i >= len(rs) {
			return value.Float(math.NaN()), true, nil
		}
		return value.Number(int64(rs[i])), true, nil
	case "indexOf":
		return value.Number(int64(runeIndex(rs, argStr(args, 0), false))), true, nil
	case "lastIndexOf":
		return value.Number(int64(runeIndex(rs, argStr(args, 0), true))), true, nil
	case "includes":
		return value.Bool(strings.Contains(str, argStr(args, 0))), true, nil
	case "startsWith":
		return value.Bool(strings.HasPrefix(str, argStr(args, 0))), true, nil
	case "endsWith":
		return value.Bool(strings.HasSuffix(str, argStr(args, 0))), true, nil
	case "split":
		if len(args) == 0 {
			return value.NewArray(value.String(str)), true, nil
		}
		if re, ok := args[0].(*value.RegExp); ok {
			parts, err := re.Compiled.Split(str)
			if err != nil {
				return nil, true, &ScriptError{Message: "invalid regular expression: " + err.Error()}
			}
			out := make([]value.Value, len(parts))
			for i, p := range parts {
				out[i] = value.String(p)
			}
			return value.NewArray(out...), true, nil
		}
		sep := argStr(args, 0)
		var parts []string
		if sep == "" {
			for _, r := range rs {
				parts = append(parts, string(r))
			}
		} else {
			parts = strings.Split(str, sep)
		}
		out := make([]value.Value, len(parts))
		for i, p := range parts {
			out[i] = value.String(p)
		}
		return value.NewArray(out...), true, nil
	case "toUpperCase":
		return value.String(strings.ToUpper(str)), true, nil
	case "toLowerCase":
		return value.String(strings.ToLower(str)), true, nil
	case "trim":
		return value.String(strings.TrimSpace(str)), true, nil
	case "trimStart":
		return value.String(strings.TrimLeft(str, " \t\n\r")), true, nil
	case "trimEnd":
		return value.String(strings.TrimRight(str, " \t\n\r")), true, nil
	case "replace", "replaceAll":
		if re, ok := argOr(args, 0, value.UndefinedValue).(*value.RegExp); ok {
			count := 1
			if name == "replaceAll" || strings.Contains(re.Flags, "g") {
				count = -1
			}
			out, err := re.Compiled.Replace(str, argStr(args, 1), -1, count)
			if err != nil {
				return nil, true, &ScriptError{Message: "invalid regular expression: " + err.Error()}
			}
			return value.String(out), true, nil
		}
		if name == "replace" {
			return value.String(strings.Replace(str, argStr(args, 0), argStr(args, 1), 1)), true, nil
		}
		return value.String(strings.ReplaceAll(str, argStr(args, 0), argStr(args, 1))), true, nil
	case "repeat":
		n := argIntOr(args, 0, 0)
		if n < 0 {
			return nil, true, &ScriptError{Message: "invalid count value"}
		}
		return value.String(strings.Repeat(str, n)), true, nil
	case "padStart":
		return value.String(padString(str, args, true)), true, nil
	case "padEnd":
		return value.String(padString(str, args, false)), true, nil
	case "concat":
		out := str
		for _, a := range args {
			out += value.ToDisplayString(a)
		}
		return value.String(out), true, nil
	case "at":
		i := argIntOr(args, 0, 0)
		if i < 0 {
			i += len(rs)
		}
		if i < 0 || i >= len(rs) {
			return value.UndefinedValue, true, nil
		}
		return value.String(string(rs[i])), true, nil
	case "toString":
		return s, true, nil
	}
	return nil, false, nil
}

func runeIndex(rs []rune, needle string, last bool) int {
	s := string(rs)
	if last {
		idx := strings.LastIndex(s, needle)
		if idx < 0 {
			return -1
		}
		return len([]rune(s[:idx]))
	}
	idx := strings.Index(s, needle)
	if idx < 0 {
		return -1
	}
	return len([]rune(s[:idx]))
}

func padString(str string, args []value.Value, start bool) string {
	target := argIntOr(args, 0, 0)
	pad := " "
	if len(args) > 1 {
		pad = value.ToDisplayString(args[1])
	}
	rs := []rune(str)
	if pad == "" || len(rs) >= target {
		return str
	}
	need := target - len(rs)
	var b strings.Builder
	for len([]rune(b.String())) < need {
		b.WriteString(pad)
	}
	fill := []rune(b.String())
	if len(fill) > need {
		fill = fill[:need]
	}
	if start {
		return string(fill) + str
	}
	return str + string(fill)
}

// --- Map / Set ---

func dispatchMapMethod(it *Interp, m *value.MapObject, name string, args []value.Value) (value.Value, bool, error) {
	switch name {
	case "get":
		if i := mapIndexOf(m, argOr(args, 0, value.UndefinedValue)); i >= 0 {
			return m.Pairs[i].Val, true, nil
		}
		return value.UndefinedValue, true, nil
	case "set":
		k := argOr(args, 0, value.UndefinedValue)
		v := argOr(args, 1, value.UndefinedValue)
		if i := mapIndexOf(m, k); i >= 0 {
			m.Pairs[i].Val = v
		} else {
			m.Pairs = append(m.Pairs, value.MapPair{Key: k, Val: v})
		}
		return m, true, nil
	case "has":
		return value.Bool(mapIndexOf(m, argOr(args, 0, value.UndefinedValue)) >= 0), true, nil
	case "delete":
		i := mapIndexOf(m, argOr(args, 0, value.UndefinedValue))
		if i < 0 {
			return value.Bool(false), true, nil
		}
		m.Pairs = append(m.Pairs[:i], m.Pairs[i+1:]...)
		return value.Bool(true), true, nil
	case "clear":
		m.Pairs = nil
		return value.UndefinedValue, true, nil
	case "forEach":
		fn := argOr(args, 0, value.UndefinedValue)
		for _, p := range append([]value.MapPair(nil), m.Pairs...) {
			if _, err := it.CallValue(fn, value.UndefinedValue, []value.Value{p.Val, p.Key, m}); err != nil {
				return nil, true, err
			}
		}
		return value.UndefinedValue, true, nil
	case "keys":
		out := make([]value.Value, len(m.Pairs))
		for i, p := range m.Pairs {
			out[i] = p.Key
		}
		return value.NewArray(out...), true, nil
	case "values":
		out := make([]value.Value, len(m.Pairs))
		for i, p := range m.Pairs {
			out[i] = p.Val
		}
		return value.NewArray(out...), true, nil
	case "entries":
		out := make([]value.Value, len(m.Pairs))
		for i, p := range m.Pairs {
			out[i] = value.NewArray(p.Key, p.Val)
		}
		return value.NewArray(out...), true, nil
	}
	return nil, false, nil
}

func mapIndexOf(m *value.MapObject, key value.Value) int {
	for i, p := range m.Pairs {
		if value.StrictEqual(p.Key, key) {
			return i
		}
	}
	return -1
}

func dispatchSetMethod(it *Interp, s *value.SetObject, name string, args []value.Value) (value.Value, bool, error) {
	switch name {
	case "add":
		v := argOr(args, 0, value.UndefinedValue)
		if setIndexOf(s, v) < 0 {
			s.Items = append(s.Items, v)
		}
		return s, true, nil
	case "has":
		return value.Bool(setIndexOf(s, argOr(args, 0, value.UndefinedValue)) >= 0), true, nil
	case "delete":
		i := setIndexOf(s, argOr(args, 0, value.UndefinedValue))
		if i < 0 {
			return value.Bool(false), true, nil
		}
		s.Items = append(s.Items[:i], s.Items[i+1:]...)
		return value.Bool(true), true, nil
	case "clear":
		s.Items = nil
		return value.UndefinedValue, true, nil
	case "forEach":
		fn := argOr(args, 0, value.UndefinedValue)
		for _, v := range append([]value.Value(nil), s.Items...) {
			if _, err := it.CallValue(fn, value.UndefinedValue, []value.Value{v, v, s}); err != nil {
				return nil, true, err
			}
		}
		return value.UndefinedValue, true, nil
	case "values", "keys":
		return value.NewArray(append([]value.Value(nil), s.Items...)...), true, nil
	}
	return nil, false, nil
}

func setIndexOf(s *value.SetObject, v value.Value) int {
	for i, item := range s.Items {
		if value.StrictEqual(item, v) {
			return i
		}
	}
	return -1
}

// --- Promise instance methods ---

func (it *Interp) dispatchPromiseMethod(p value.Promise, name string, args []value.Value) (value.Value, bool, error) {
	switch name {
	case "then":
		return it.promiseThen(p, argOr(args, 0, value.UndefinedValue), argOr(args, 1, value.UndefinedValue)), true, nil
	case "catch":
		return it.promiseThen(p, value.UndefinedValue, argOr(args, 0, value.UndefinedValue)), true, nil
	case "finally":
		return it.promiseFinally(p, argOr(args, 0, value.UndefinedValue)), true, nil
	}
	return nil, false, nil
}

// --- Math ---

func dispatchMathMethod(name string, args []value.Value) (value.Value, bool, error) {
	n := func(i int) float64 { return value.ToNumeric(argOr(args, i, value.UndefinedValue)) }
	switch name {
	case "floor":
		return value.Float(math.Floor(n(0))), true, nil
	case "ceil":
		return value.Float(math.Ceil(n(0))), true, nil
	case "round":
		return value.Float(math.Floor(n(0) + 0.5)), true, nil
	case "trunc":
		return value.Float(math.Trunc(n(0))), true, nil
	case "abs":
		return value.Float(math.Abs(n(0))), true, nil
	case "sqrt":
		return value.Float(math.Sqrt(n(0))), true, nil
	case "cbrt":
		return value.Float(math.Cbrt(n(0))), true, nil
	case "pow":
		return value.Float(math.Pow(n(0), n(1))), true, nil
	case "log":
		return value.Float(math.Log(n(0))), true, nil
	case "log2":
		return value.Float(math.Log2(n(0))), true, nil
	case "log10":
		return value.Float(math.Log10(n(0))), true, nil
	case "exp":
		return value.Float(math.Exp(n(0))), true, nil
	case "sign":
		v := n(0)
		switch {
		case v > 0:
			return value.Float(1), true, nil
		case v < 0:
			return value.Float(-1), true, nil
		default:
			return value.Float(v), true, nil
		}
	case "max":
		if len(args) == 0 {
			return value.Float(math.Inf(-1)), true, nil
		}
		m := math.Inf(-1)
		for i := range args {
			m = math.Max(m, n(i))
		}
		return value.Float(m), true, nil
	case "min":
		if len(args) == 0 {
			return value.Float(math.Inf(1)), true, nil
		}
		m := math.Inf(1)
		for i := range args {
			m = math.Min(m, n(i))
		}
		return value.Float(m), true, nil
	case "random":
		return value.Float(0.5), true, nil
	case "hypot":
		sum := 0.0
		for i := range args {
			sum += n(i) * n(i)
		}
		return value.Float(math.Sqrt(sum)), true, nil
	}
	return nil, false, nil
}

// --- JSON ---

func dispatchJSONMethod(name string, args []value.Value) (value.Value, bool, error) {
	switch name {
	case "stringify":
		var indent string
		if len(args) > 2 {
			switch v := args[2].(type) {
			case value.Number:
				indent = strings.Repeat(" ", int(v))
			case value.String:
				indent = string(v)
			}
		}
		s, ok := jsonStringify(argOr(args, 0, value.UndefinedValue), indent, "")
		if !ok {
			return value.UndefinedValue, true, nil
		}
		return value.String(s), true, nil
	case "parse":
		v, err := jsonParse(argStr(args, 0))
		if err != nil {
			return nil, true, &ScriptError{Message: "invalid JSON: " + err.Error()}
		}
		return v, true, nil
	}
	return nil, false, nil
}

// --- console ---

func (it *Interp) dispatchConsoleMethod(name string, args []value.Value) (value.Value, bool, error) {
	switch name {
	case "log", "warn", "error", "info", "debug":
		if it.Console != nil {
			it.Console(name, args)
		}
		return value.UndefinedValue, true, nil
	}
	return nil, false, nil
}

// --- Object instance methods (hasOwnProperty etc.) ---

func dispatchObjectInstanceMethod(o *value.Object, name string, args []value.Value) (value.Value, bool, error) {
	switch name {
	case "hasOwnProperty":
		_, ok := o.Get(argStr(args, 0))
		return value.Bool(ok), true, nil
	case "toString":
		return value.String("[object Object]"), true, nil
	}
	return nil, false, nil
}

// --- RegExp ---

func dispatchRegExpMethod(re *value.RegExp, name string, args []value.Value) (value.Value, bool, error) {
	switch name {
	case "test":
		m, err := regexMatchFrom(re, argStr(args, 0))
		if err != nil {
			return nil, true, &ScriptError{Message: "invalid regular expression: " + err.Error()}
		}
		return value.Bool(m != nil), true, nil
	case "exec":
		m, err := regexMatchFrom(re, argStr(args, 0))
		if err != nil {
			return nil, true, &ScriptError{Message: "invalid regular expression: " + err.Error()}
		}
		if m == nil {
			return value.NullValue, true, nil
		}
		return regexMatchResult(m), true, nil
	case "toString":
		return value.String("/" + re.Source + "/" + re.Flags), true, nil
	}
	return nil, false, nil
}

// regexMatchFrom runs re against s, honouring lastIndex for the global/sticky
// flags the way exec()/test() advance it on every call, and resetting it to 0
// on a failed match (value.RegExp.LastIndex exists precisely for this).
func regexMatchFrom(re *value.RegExp, s string) (*regexp2.Match, error) {
	global := strings.ContainsAny(re.Flags, "gy")
	startAt := 0
	if global {
		startAt = re.LastIndex
	}
	m, err := re.Compiled.FindStringMatchStartingAt(s, startAt)
	if err != nil {
		return nil, err
	}
	if global {
		if m == nil {
			re.LastIndex = 0
		} else {
			re.LastIndex = m.Index + m.Length
		}
	}
	return m, nil
}

// regexMatchResult builds exec()'s result array: the full match followed by
// each capture group (undefined for a group that did not participate).
func regexMatchResult(m *regexp2.Match) value.Value {
	groups := m.Groups()
	out := make([]value.Value, 0, len(groups))
	for _, g := range groups {
		if len(g.Captures) == 0 {
			out = append(out, value.UndefinedValue)
			continue
		}
		out = append(out, value.String(g.String()))
	}
	return value.NewArray(out...)
}

// --- Constructor static methods (Array.isArray, Object.keys, Promise.resolve, ...) ---

func (it *Interp) dispatchStaticMethod(ctor value.Constructor, name string, args []value.Value) (value.Value, bool, error) {
	switch ctor.Name {
	case "Array":
		switch name {
		case "isArray":
			_, ok := argOr(args, 0, value.UndefinedValue).(*value.Array)
			return value.Bool(ok), true, nil
		case "from":
			items := iterableItems(argOr(args, 0, value.UndefinedValue))
			if len(args) > 1 && it.Callable(args[1]) {
				out := make([]value.Value, len(items))
				for i, item := range items {
					v, err := it.CallValue(args[1], value.UndefinedValue, []value.Value{item, value.Number(int64(i))})
					if err != nil {
						return nil, true, err
					}
					out[i] = v
				}
				return value.NewArray(out...), true, nil
			}
			return value.NewArray(items...), true, nil
		case "of":
			return value.NewArray(args...), true, nil
		}
	case "Object":
		switch name {
		case "keys":
			if o, ok := argOr(args, 0, value.UndefinedValue).(*value.Object); ok {
				out := make([]value.Value, 0, len(o.Keys()))
				for _, k := range o.Keys() {
					out = append(out, value.String(k))
				}
				return value.NewArray(out...), true, nil
			}
			return value.NewArray(), true, nil
		case "values":
			if o, ok := argOr(args, 0, value.UndefinedValue).(*value.Object); ok {
				out := make([]value.Value, 0, len(o.Keys()))
				for _, k := range o.Keys() {
					v, _ := o.Get(k)
					out = append(out, v)
				}
				return value.NewArray(out...), true, nil
			}
			return value.NewArray(), true, nil
		case "entries":
			if o, ok := argOr(args, 0, value.UndefinedValue).(*value.Object); ok {
				out := make([]value.Value, 0, len(o.Keys()))
				for _, k := range o.Keys() {
					v, _ := o.Get(k)
					out = append(out, value.NewArray(value.String(k), v))
				}
				return value.NewArray(out...), true, nil
			}
			return value.NewArray(), true, nil
		case "assign":
			target, ok := argOr(args, 0, value.UndefinedValue).(*value.Object)
			if !ok {
				target = value.NewObject()
			}
			for _, src := range args[min(1, len(args)):] {
				if so, ok := src.(*value.Object); ok {
					for _, k := range so.Keys() {
						v, _ := so.Get(k)
						target.Set(k, v)
					}
				}
			}
			return target, true, nil
		case "freeze":
			return argOr(args, 0, value.UndefinedValue), true, nil
		}
	case "Promise":
		switch name {
		case "resolve":
			id := it.Proms.New().ID
			it.Proms.Resolve(id, argOr(args, 0, value.UndefinedValue), it.isThenable, it.callForPromise)
			return value.Promise{ID: id}, true, nil
		case "reject":
			id := it.Proms.New().ID
			it.Proms.Reject(id, argOr(args, 0, value.UndefinedValue))
			return value.Promise{ID: id}, true, nil
		case "all":
			return it.promiseAll(args), true, nil
		case "allSettled":
			return it.promiseAllSettled(args), true, nil
		case "race":
			return it.promiseRace(args), true, nil
		case "any":
			return it.promiseAny(args), true, nil
		}
	case "Number":
		switch name {
		case "isInteger":
			f := value.ToNumeric(argOr(args, 0, value.UndefinedValue))
			return value.Bool(!math.IsNaN(f) && !math.IsInf(f, 0) && f == math.Trunc(f)), true, nil
		case "isFinite":
			f := value.ToNumeric(argOr(args, 0, value.UndefinedValue))
			return value.Bool(!math.IsNaN(f) && !math.IsInf(f, 0)), true, nil
		case "isNaN":
			f, ok := argOr(args, 0, value.UndefinedValue).(value.Float)
			return value.Bool(ok && math.IsNaN(float64(f))), true, nil
		}
	}
	return nil, false, nil
}
