package eval

import (
	"github.com/domharness/domharness/internal/value"
)

// callConstructor implements both `new Ctor(...)` and a bare `Ctor(...)`
// call for the closed set of constructible built-ins (§4.3); the two forms
// share behavior for every built-in here (none distinguishes `new` from a
// plain call the way a user-defined constructor function would, since
// user-defined classes/constructor functions are a Non-goal).
func (it *Interp) callConstructor(ctor value.Constructor, args []value.Value) (value.Value, error) {
	switch ctor.Name {
	case "Array":
		if len(args) == 1 {
			if n, ok := args[0].(value.Number); ok {
				return value.NewArray(make([]value.Value, n)...), nil
			}
		}
		return value.NewArray(args...), nil
	case "Object":
		o := value.NewObject()
		if len(args) == 1 {
			if src, ok := args[0].(*value.Object); ok {
				for _, k := range src.Keys() {
					v, _ := src.Get(k)
					o.Set(k, v)
				}
			}
		}
		return o, nil
	case "Map":
		m := value.NewMap()
		if len(args) > 0 {
			for _, pair := range iterableItems(args[0]) {
				if arr, ok := pair.(*value.Array); ok && len(arr.Items) == 2 {
					m.Pairs = append(m.Pairs, value.MapPair{Key: arr.Items[0], Val: arr.Items[1]})
				}
			}
		}
		return m, nil
	case "Set":
		s := value.NewSet()
		if len(args) > 0 {
			for _, item := range iterableItems(args[0]) {
				if !containsStrict(s.Items, item) {
					s.Items = append(s.Items, item)
				}
			}
		}
		return s, nil
	case "WeakMap":
		return value.NewMap(), nil
	case "WeakSet":
		return value.NewSet(), nil
	case "Promise":
		return it.newUserPromise(args)
	case "Date":
		return newDate(args), nil
	case "RegExp":
		pattern, flags := "", ""
		if len(args) > 0 {
			pattern = value.ToDisplayString(args[0])
		}
		if len(args) > 1 {
			flags = value.ToDisplayString(args[1])
		}
		return it.compileRegex(pattern, flags)
	case "String":
		if len(args) == 0 {
			return value.String(""), nil
		}
		return value.String(value.ToDisplayString(args[0])), nil
	case "Number":
		if len(args) == 0 {
			return value.Number(0), nil
		}
		return value.Float(value.ToNumeric(args[0])), nil
	case "Boolean":
		if len(args) == 0 {
			return value.Bool(false), nil
		}
		return value.Bool(value.Truthy(args[0])), nil
	case "Error", "TypeError", "RangeError", "AggregateError":
		o := value.NewObject()
		msg := ""
		if len(args) > 0 {
			msg = value.ToDisplayString(args[0])
		}
		o.Set("message", value.String(msg))
		o.Set("name", value.String(ctor.Name))
		return o, nil
	}
	return nil, &ScriptError{Message: "unknown constructor " + ctor.Name}
}

func containsStrict(items []value.Value, v value.Value) bool {
	for _, it := range items {
		if value.StrictEqual(it, v) {
			return true
		}
	}
	return false
}

// newUserPromise implements `new Promise(executor)`: the executor runs
// synchronously with resolve/reject capability functions (§4.7).
func (it *Interp) newUserPromise(args []value.Value) (value.Value, error) {
	id := it.Proms.New().ID
	if len(args) == 0 || !it.Callable(args[0]) {
		return value.Promise{ID: id}, nil
	}
	resolveFn := value.PromiseCapabilityFunc(func(a []value.Value) {
		it.Proms.Resolve(id, arg0Value(a), it.isThenable, it.callForPromise)
	})
	rejectFn := value.PromiseCapabilityFunc(func(a []value.Value) {
		it.Proms.Reject(id, arg0Value(a))
	})
	if _, err := it.CallValue(args[0], value.UndefinedValue, []value.Value{resolveFn, rejectFn}); err != nil {
		it.Proms.Reject(id, ToThrown(err))
	}
	return value.Promise{ID: id}, nil
}

func arg0Value(args []value.Value) value.Value {
	if len(args) == 0 {
		return value.UndefinedValue
	}
	return args[0]
}

func newDate(args []value.Value) *value.Date {
	if len(args) == 0 {
		return &value.Date{EpochMs: 0}
	}
	if len(args) == 1 {
		return &value.Date{EpochMs: value.ToNumeric(args[0])}
	}
	return &value.Date{EpochMs: 0}
}
