package value

import (
	"errors"
	"math"
	"math/big"
)

// ErrBigIntMix is returned by arithmetic/bitwise/comparison ops that see a
// mix of BigInt and non-BigInt operands (other than the loose-equality
// special case handled separately).
var ErrBigIntMix = errors.New("cannot mix BigInt and other types")

type bigIntParser struct{}

// parse accepts a decimal integer literal (optionally signed) as a BigInt
// source; used by BigInt's loose-equality-to-string rule.
func (bigIntParser) parse(s string) (*big.Int, bool) {
	n := new(big.Int)
	_, ok := n.SetString(s, 10)
	return n, ok
}

func bigFloatOf(n *big.Int) *big.Float {
	return new(big.Float).SetInt(n)
}

// Add implements §4.2 addition.
func Add(a, b Value) (Value, error) {
	if _, ok := a.(*Symbol); ok {
		return nil, errors.New("cannot convert a Symbol value to a string")
	}
	if _, ok := b.(*Symbol); ok {
		return nil, errors.New("cannot convert a Symbol value to a string")
	}
	_, aStr := a.(String)
	_, bStr := b.(String)
	if aStr || bStr {
		return String(ToDisplayString(a) + ToDisplayString(b)), nil
	}
	aBig, aIsBig := a.(BigInt)
	bBig, bIsBig := b.(BigInt)
	if aIsBig || bIsBig {
		if !aIsBig || !bIsBig {
			return nil, ErrBigIntMix
		}
		return BigInt{V: new(big.Int).Add(aBig.V, bBig.V)}, nil
	}
	if an, ok := a.(Number); ok {
		if bn, ok := b.(Number); ok {
			sum := int64(an) + int64(bn)
			if (sum > int64(an)) == (int64(bn) > 0) || bn == 0 {
				return Number(sum), nil
			}
		}
	}
	return Float(ToNumeric(a) + ToNumeric(b)), nil
}

// RequireSameBigIntness fails if exactly one of a, b is a BigInt, for
// binary arithmetic/comparison/bitwise ops other than Add and loose-equal.
func RequireSameBigIntness(a, b Value) error {
	_, aBig := a.(BigInt)
	_, bBig := b.(BigInt)
	if aBig != bBig {
		return ErrBigIntMix
	}
	return nil
}

// BigIntExponent requires a non-negative exponent for BigInt `**`.
func BigIntExponent(exp *big.Int) error {
	if exp.Sign() < 0 {
		return errors.New("BigInt exponent must be non-negative")
	}
	return nil
}

// IsNaNValue reports whether v coerces to NaN under numeric coercion and is
// itself a Float (used by places that need to special-case NaN identity).
func IsNaNValue(v Value) bool {
	f, ok := v.(Float)
	return ok && math.IsNaN(float64(f))
}
