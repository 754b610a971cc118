// Licensed to the Apache Software Foundation (ASF) under one or more
// contributor license agreements.  See the NOTICE file distributed with
// this work for additional information regarding copyright ownership.
// The ASF licenses this file to You under the Apache License, Version 2.0
// (the "License"); you may not use this file except in compliance with
// the License.  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package numeric

import (
	"math"
	"math/big"
	"math/cmplx"

	"github.com/apache/beam-ntype/pkg/ntype/core/descriptor"
	"github.com/apache/beam-ntype/internal/errors"
)

// Host values are canonical descriptor literals: int64 or *big.Int
// integers, *big.Rat ratios, float32 single floats, float64 double floats,
// complex64 and complex128 complex floats.

// tier is the representation of a host number, narrowest first.
type tier int

const (
	tierRational tier = iota
	tierSingle
	tierDouble
	tierComplexSingle
	tierComplexDouble
	tierNone
)

func tierOf(v any) tier {
	switch v.(type) {
	case int64, *big.Int, *big.Rat:
		return tierRational
	case float32:
		return tierSingle
	case float64:
		return tierDouble
	case complex64:
		return tierComplexSingle
	case complex128:
		return tierComplexDouble
	default:
		return tierNone
	}
}

// contagion returns the representation of the result of arithmetic on a
// and b.
func contagion(a, b tier) tier {
	if a == tierNone || b == tierNone {
		return tierNone
	}
	complex := a >= tierComplexSingle || b >= tierComplexSingle
	double := a == tierDouble || b == tierDouble || a == tierComplexDouble || b == tierComplexDouble
	switch {
	case complex && double:
		return tierComplexDouble
	case complex:
		return tierComplexSingle
	case double:
		return tierDouble
	case a == tierSingle || b == tierSingle:
		return tierSingle
	default:
		return tierRational
	}
}

func notNumber(v any) error {
	return errors.Errorf("%v is not a number", descriptor.String(v))
}

func toRat(v any) *big.Rat {
	switch x := v.(type) {
	case int64:
		return new(big.Rat).SetInt64(x)
	case *big.Int:
		return new(big.Rat).SetInt(x)
	case *big.Rat:
		return x
	}
	return nil
}

func toFloat64(v any) float64 {
	switch x := v.(type) {
	case int64:
		return float64(x)
	case *big.Int, *big.Rat:
		f, _ := toRat(x).Float64()
		return f
	case float32:
		return float64(x)
	case float64:
		return x
	}
	return math.NaN()
}

func toComplex128(v any) complex128 {
	switch x := v.(type) {
	case complex64:
		return complex128(x)
	case complex128:
		return x
	}
	return complex(toFloat64(v), 0)
}

// coerce converts v to representation t. Complex numbers do not convert
// to reals.
func coerce(v any, t tier) (any, error) {
	from := tierOf(v)
	if from == tierNone {
		return nil, notNumber(v)
	}
	if from >= tierComplexSingle && t < tierComplexSingle {
		return nil, errors.Errorf("cannot coerce %v to a real", descriptor.String(v))
	}
	switch t {
	case tierRational:
		if from != tierRational {
			return nil, errors.Errorf("cannot coerce %v to a rational", descriptor.String(v))
		}
		return v, nil
	case tierSingle:
		return checkFloat(float32(toFloat64(v)))
	case tierDouble:
		return checkFloat(toFloat64(v))
	case tierComplexSingle:
		return checkFloat(complex64(toComplex128(v)))
	default:
		return checkFloat(toComplex128(v))
	}
}

// checkFloat rejects the results of floating point traps.
func checkFloat(v any) (any, error) {
	var bad bool
	switch x := v.(type) {
	case float32:
		bad = math.IsInf(float64(x), 0) || math.IsNaN(float64(x))
	case float64:
		bad = math.IsInf(x, 0) || math.IsNaN(x)
	case complex64:
		bad = cmplx.IsInf(complex128(x)) || cmplx.IsNaN(complex128(x))
	case complex128:
		bad = cmplx.IsInf(x) || cmplx.IsNaN(x)
	}
	if bad {
		return nil, errors.New("floating point overflow or invalid operation")
	}
	return v, nil
}

var errDivisionByZero = errors.New("division by zero")

func isZero(v any) bool {
	switch x := v.(type) {
	case int64:
		return x == 0
	case *big.Int:
		return x.Sign() == 0
	case *big.Rat:
		return x.Sign() == 0
	case float32:
		return x == 0
	case float64:
		return x == 0
	case complex64:
		return x == 0
	case complex128:
		return x == 0
	}
	return false
}

// arith applies a binary arithmetic operator, one of + - * /, with the
// contagion of its operands.
func arith(op byte, a, b any) (any, error) {
	t := contagion(tierOf(a), tierOf(b))
	if t == tierNone {
		if tierOf(a) == tierNone {
			return nil, notNumber(a)
		}
		return nil, notNumber(b)
	}
	if op == '/' && isZero(b) {
		return nil, errDivisionByZero
	}
	a, err := coerce(a, t)
	if err != nil {
		return nil, err
	}
	b, err = coerce(b, t)
	if err != nil {
		return nil, err
	}
	switch t {
	case tierRational:
		x, y := toRat(a), toRat(b)
		r := new(big.Rat)
		switch op {
		case '+':
			r.Add(x, y)
		case '-':
			r.Sub(x, y)
		case '*':
			r.Mul(x, y)
		case '/':
			r.Quo(x, y)
		}
		return descriptor.Canonical(r), nil
	case tierSingle:
		x, y := a.(float32), b.(float32)
		return checkFloat(applyOp(op, x, y))
	case tierDouble:
		x, y := a.(float64), b.(float64)
		return checkFloat(applyOp(op, x, y))
	case tierComplexSingle:
		x, y := a.(complex64), b.(complex64)
		return checkFloat(applyOp(op, x, y))
	default:
		x, y := a.(complex128), b.(complex128)
		return checkFloat(applyOp(op, x, y))
	}
}

type floating interface {
	float32 | float64 | complex64 | complex128
}

func applyOp[T floating](op byte, x, y T) T {
	switch op {
	case '+':
		return x + y
	case '-':
		return x - y
	case '*':
		return x * y
	default:
		return x / y
	}
}

func negate(v any) (any, error) {
	switch x := v.(type) {
	case int64:
		if x == math.MinInt64 {
			return new(big.Int).Neg(big.NewInt(x)), nil
		}
		return -x, nil
	case *big.Int:
		return descriptor.Canonical(new(big.Int).Neg(x)), nil
	case *big.Rat:
		return new(big.Rat).Neg(x), nil
	case float32:
		return -x, nil
	case float64:
		return -x, nil
	case complex64:
		return -x, nil
	case complex128:
		return -x, nil
	}
	return nil, notNumber(v)
}

// transcendental applies f, computed in double precision, in the float
// representation of v: rationals compute in single floats. A real argument
// with a complex result yields a complex of the same precision.
func transcendental(v any, f func(complex128) complex128) (any, error) {
	t := tierOf(v)
	switch t {
	case tierNone:
		return nil, notNumber(v)
	case tierRational:
		t = tierSingle
	}
	r := f(toComplex128(v))
	if t < tierComplexSingle && imag(r) != 0 {
		t += tierComplexSingle - tierSingle
	}
	var ret any
	switch t {
	case tierSingle:
		ret = float32(real(r))
	case tierDouble:
		ret = real(r)
	case tierComplexSingle:
		ret = complex64(r)
	default:
		ret = r
	}
	return checkFloat(ret)
}

func sqrt(v any) (any, error) {
	return transcendental(v, cmplx.Sqrt)
}

func logarithm(v any) (any, error) {
	if isZero(v) {
		return nil, errDivisionByZero
	}
	return transcendental(v, cmplx.Log)
}

func abs(v any) (any, error) {
	switch x := v.(type) {
	case int64, *big.Int, *big.Rat:
		r := new(big.Rat).Abs(toRat(x))
		return descriptor.Canonical(r), nil
	case float32:
		return float32(math.Abs(float64(x))), nil
	case float64:
		return math.Abs(x), nil
	case complex64:
		return checkFloat(float32(cmplx.Abs(complex128(x))))
	case complex128:
		return checkFloat(cmplx.Abs(x))
	}
	return nil, notNumber(v)
}

func signum(v any) (any, error) {
	switch x := v.(type) {
	case int64, *big.Int, *big.Rat:
		return int64(toRat(x).Sign()), nil
	case float32:
		switch {
		case x > 0:
			return float32(1), nil
		case x < 0:
			return float32(-1), nil
		}
		return x, nil
	case float64:
		switch {
		case x > 0:
			return 1.0, nil
		case x < 0:
			return -1.0, nil
		}
		return x, nil
	case complex64:
		if x == 0 {
			return x, nil
		}
		return x / complex(float32(cmplx.Abs(complex128(x))), 0), nil
	case complex128:
		if x == 0 {
			return x, nil
		}
		return x / complex(cmplx.Abs(x), 0), nil
	}
	return nil, notNumber(v)
}

// floor returns the quotient of a and b rounded toward negative infinity
// and the remainder a - q*b, in the contagion of a and b.
func floor(a, b any) ([]any, error) {
	t := contagion(tierOf(a), tierOf(b))
	switch {
	case t == tierNone:
		return nil, errors.Errorf("floor of %v and %v", descriptor.String(a), descriptor.String(b))
	case t >= tierComplexSingle:
		return nil, errors.Errorf("floor of complex %v", descriptor.String(a))
	case isZero(b):
		return nil, errDivisionByZero
	}
	if t == tierRational {
		x, y := toRat(a), toRat(b)
		quo := new(big.Rat).Quo(x, y)
		q := new(big.Int).Div(quo.Num(), quo.Denom())
		r := new(big.Rat).Sub(x, new(big.Rat).Mul(new(big.Rat).SetInt(q), y))
		return []any{descriptor.Canonical(q), descriptor.Canonical(r)}, nil
	}
	x, y := toFloat64(a), toFloat64(b)
	if t == tierSingle {
		x, y = float64(float32(x)), float64(float32(y))
	}
	qf := math.Floor(x / y)
	if math.IsInf(qf, 0) || math.IsNaN(qf) {
		return nil, errors.New("floating point overflow or invalid operation")
	}
	q, _ := big.NewFloat(qf).Int(nil)
	r := x - qf*y
	if t == tierSingle {
		return []any{descriptor.Canonical(q), float32(r)}, nil
	}
	return []any{descriptor.Canonical(q), r}, nil
}

// less compares two reals exactly: floats compare by their rational value.
func less(a, b any) (any, error) {
	exact := func(v any) (*big.Rat, error) {
		switch tierOf(v) {
		case tierRational:
			return toRat(v), nil
		case tierSingle, tierDouble:
			f := toFloat64(v)
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, errors.Errorf("cannot compare %v", descriptor.String(v))
			}
			return new(big.Rat).SetFloat64(f), nil
		}
		return nil, errors.Errorf("%v is not a real", descriptor.String(v))
	}
	x, err := exact(a)
	if err != nil {
		return nil, err
	}
	y, err := exact(b)
	if err != nil {
		return nil, err
	}
	if x.Cmp(y) < 0 {
		return descriptor.T, nil
	}
	return descriptor.Nil, nil
}
