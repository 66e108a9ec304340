package eval

import (
	"math/big"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/domharness/domharness/internal/value"
)

// parseBigIntLit parses a `123n` literal's digit text (no trailing `n`,
// already stripped by the lexer) into a BigInt value.
func parseBigIntLit(text string) (value.BigInt, error) {
	n, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return value.BigInt{}, &ScriptError{Message: "invalid BigInt literal: " + text}
	}
	return value.BigInt{V: n}, nil
}

// compileRegex mirrors dom/validity.go's mustRegexp pattern, translating the
// language's flag letters into regexp2's option bitset.
func compileRegex(pattern, flags string) (value.Value, error) {
	opts := regexp2.None
	if strings.Contains(flags, "i") {
		opts |= regexp2.IgnoreCase
	}
	if strings.Contains(flags, "s") {
		opts |= regexp2.Singleline
	}
	if strings.Contains(flags, "m") {
		opts |= regexp2.Multiline
	}
	re, err := regexp2.Compile(pattern, opts)
	if err != nil {
		return nil, &ScriptError{Message: "invalid regular expression: " + err.Error()}
	}
	return &value.RegExp{Source: pattern, Flags: flags, Compiled: re}, nil
}

func (it *Interp) compileRegex(pattern, flags string) (value.Value, error) {
	return compileRegex(pattern, flags)
}
