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

package typex

import (
	"fmt"
	"math"
	"math/big"

	"github.com/apache/beam-ntype/pkg/ntype/core/descriptor"
)

// ParseError reports a type descriptor with malformed grammar. Descriptors
// that are well formed but not modeled by the lattice are not errors; they
// parse to an imprecise enclosing primitive.
type ParseError struct {
	Descriptor descriptor.Descriptor
	Msg        string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed type descriptor %v: %v", descriptor.String(e.Descriptor), e.Msg)
}

func parseErrorf(d descriptor.Descriptor, format string, args ...any) error {
	return &ParseError{Descriptor: d, Msg: fmt.Sprintf(format, args...)}
}

type atomicClass struct {
	p       Primitive
	precise bool
}

// atomicClasses maps class names to primitives. Every primitive named by a
// symbol is included at init.
var atomicClasses = map[descriptor.Symbol]atomicClass{
	"KEYWORD":           {Symbol, false},
	"BOOLEAN":           {Symbol, false},
	"BASE-CHAR":         {Character, false},
	"STANDARD-CHAR":     {Character, false},
	"BIGNUM":            {Integer, false},
	"SHORT-FLOAT":       {SingleFloat, true},
	"LONG-FLOAT":        {DoubleFloat, true},
	"COMPILED-FUNCTION": {Function, false},
	"SIMPLE-ARRAY":      {Array, false},
	"VECTOR":            {Array, false},
	"SIMPLE-VECTOR":     {ArrayT, false},
	"SIMPLE-STRING":     {String, false},
	"BASE-STRING":       {String, false},
	"BIT-VECTOR":        {ArrayBit, false},
	"SIMPLE-BIT-VECTOR": {ArrayBit, false},
	"ATOM":              {Universal, false},
	"SEQUENCE":          {Universal, false},
}

func init() {
	for _, p := range Primitives() {
		if s, ok := p.Descriptor().(descriptor.Symbol); ok {
			atomicClasses[s] = atomicClass{p, true}
		}
	}
}

// parse converts d without consulting the intern table. Sub-descriptors go
// through in.
func (in *Interner) parse(d descriptor.Descriptor) (Ntype, bool, error) {
	switch x := d.(type) {
	case descriptor.Symbol:
		if c, ok := atomicClasses[x]; ok {
			return c.p, c.precise, nil
		}
		if x == descriptor.Wildcard {
			return Universal, true, nil
		}
		// An unknown class, such as a structure name.
		return Universal, false, nil
	case descriptor.List:
		if len(x) == 0 {
			return Empty, true, nil
		}
		head, ok := x.Head()
		if !ok {
			return nil, false, parseErrorf(d, "head %v is not a symbol", descriptor.String(x[0]))
		}
		return in.parseCompound(x, head, x.Params())
	default:
		return nil, false, parseErrorf(d, "%T is not a type descriptor", d)
	}
}

func (in *Interner) parseCompound(d descriptor.List, head descriptor.Symbol, params []descriptor.Descriptor) (Ntype, bool, error) {
	switch head {
	case "EQL":
		if len(params) != 1 {
			return nil, false, parseErrorf(d, "EQL takes 1 parameter, got %d", len(params))
		}
		return NewEql(params[0]), true, nil

	case "MEMBER":
		var ret Ntype = Empty
		precise := true
		for _, v := range params {
			var p bool
			ret, p = Union(ret, NewEql(v))
			precise = precise && p
		}
		return ret, precise, nil

	case "COMPLEX":
		if len(params) > 1 {
			return nil, false, parseErrorf(d, "COMPLEX takes at most 1 parameter, got %d", len(params))
		}
		if len(params) == 0 || descriptor.IsWildcard(params[0]) {
			return Complex, true, nil
		}
		part, precise, err := in.FromDescriptor(params[0])
		if err != nil {
			return nil, false, err
		}
		return complexOf(part, precise)

	case "ARRAY", "SIMPLE-ARRAY":
		if len(params) > 2 {
			return nil, false, parseErrorf(d, "%v takes at most 2 parameters, got %d", head, len(params))
		}
		dims := descriptor.Descriptor(descriptor.Wildcard)
		if len(params) == 2 {
			dims = params[1]
		}
		if err := checkDims(d, dims); err != nil {
			return nil, false, err
		}
		nt, precise, err := in.arrayOf(params)
		if err != nil {
			return nil, false, err
		}
		return nt, precise && head == "ARRAY" && descriptor.IsWildcard(dims), nil

	case "VECTOR", "SIMPLE-VECTOR", "STRING", "SIMPLE-STRING", "BASE-STRING", "BIT-VECTOR", "SIMPLE-BIT-VECTOR":
		max := 1
		if head == "VECTOR" {
			max = 2
		}
		if len(params) > max {
			return nil, false, parseErrorf(d, "%v takes at most %d parameters, got %d", head, max, len(params))
		}
		if len(params) == max {
			if err := checkDimension(d, params[max-1]); err != nil {
				return nil, false, err
			}
		}
		if head != "VECTOR" {
			return atomicClasses[head].p, false, nil
		}
		nt, _, err := in.arrayOf(params[:min(len(params), 1)])
		if err != nil {
			return nil, false, err
		}
		// Rank is not modeled.
		return nt, false, nil

	case "CONS":
		if len(params) > 2 {
			return nil, false, parseErrorf(d, "CONS takes at most 2 parameters, got %d", len(params))
		}
		precise := true
		for _, p := range params {
			nt, _, err := in.FromDescriptor(p)
			if err != nil {
				return nil, false, err
			}
			if Equal(nt, Empty) {
				return Empty, true, nil
			}
			if !Equal(nt, Universal) {
				precise = false
			}
		}
		return Cons, precise, nil

	case "FUNCTION":
		if len(params) > 2 {
			return nil, false, parseErrorf(d, "FUNCTION takes at most 2 parameters, got %d", len(params))
		}
		if len(params) > 0 {
			switch args := params[0].(type) {
			case descriptor.List:
			case descriptor.Symbol:
				if args != descriptor.Wildcard && args != descriptor.Nil {
					return nil, false, parseErrorf(d, "bad argument list %v", args)
				}
			default:
				return nil, false, parseErrorf(d, "bad argument list %v", descriptor.String(args))
			}
		}
		if len(params) > 1 {
			if _, _, err := in.values(params[1]); err != nil {
				return nil, false, err
			}
		}
		precise := true
		for _, p := range params {
			precise = precise && descriptor.IsWildcard(p)
		}
		return Function, precise, nil

	case "VALUES":
		v, precise, err := in.values(d)
		if err != nil {
			return nil, false, err
		}
		precise = precise && len(v.Required) == 1 && len(v.Optional) == 0 && v.Rest == nil
		return v.NthValue(0), precise, nil

	case "INTEGER":
		if len(params) > 2 {
			return nil, false, parseErrorf(d, "INTEGER takes at most 2 parameters, got %d", len(params))
		}
		lo, hi, err := integerBounds(d, params)
		if err != nil {
			return nil, false, err
		}
		nt, precise := integerRange(lo, hi)
		return nt, precise, nil

	case "SIGNED-BYTE", "UNSIGNED-BYTE":
		if len(params) > 1 {
			return nil, false, parseErrorf(d, "%v takes at most 1 parameter, got %d", head, len(params))
		}
		var width int64 = -1
		if len(params) == 1 && !descriptor.IsWildcard(params[0]) {
			n, ok := params[0].(int64)
			if !ok || n <= 0 {
				return nil, false, parseErrorf(d, "width %v is not a positive integer", descriptor.String(params[0]))
			}
			width = n
		}
		return byteRange(head == "SIGNED-BYTE", width)

	case "MOD":
		if len(params) != 1 {
			return nil, false, parseErrorf(d, "MOD takes 1 parameter, got %d", len(params))
		}
		n, ok := toBigInt(params[0])
		if !ok || n.Sign() <= 0 {
			return nil, false, parseErrorf(d, "modulus %v is not a positive integer", descriptor.String(params[0]))
		}
		nt, precise := integerRange(big.NewInt(0), new(big.Int).Sub(n, big.NewInt(1)))
		return nt, precise, nil

	case "FLOAT", "SINGLE-FLOAT", "DOUBLE-FLOAT", "SHORT-FLOAT", "LONG-FLOAT", "RATIONAL", "REAL":
		if len(params) > 2 {
			return nil, false, parseErrorf(d, "%v takes at most 2 parameters, got %d", head, len(params))
		}
		c := atomicClasses[head]
		return realRange(d, c.p, c.precise, params)

	case "OR":
		var ret Ntype = Empty
		precise := true
		for _, p := range params {
			nt, p2, err := in.FromDescriptor(p)
			if err != nil {
				return nil, false, err
			}
			var p3 bool
			ret, p3 = Union(ret, nt)
			precise = precise && p2 && p3
		}
		return ret, precise, nil

	case "AND":
		var ret Ntype = Universal
		precise := true
		for _, p := range params {
			nt, p2, err := in.FromDescriptor(p)
			if err != nil {
				return nil, false, err
			}
			var p3 bool
			ret, p3 = Intersection(ret, nt)
			precise = precise && p2 && p3
		}
		return ret, precise, nil

	case "NOT":
		if len(params) != 1 {
			return nil, false, parseErrorf(d, "NOT takes 1 parameter, got %d", len(params))
		}
		nt, precise, err := in.FromDescriptor(params[0])
		if err != nil {
			return nil, false, err
		}
		// The complement of an over-approximation is an under-approximation,
		// so only a precise operand can be complemented.
		if !precise || !isPrimitive(nt) {
			return Universal, false, nil
		}
		p, exact := cover(maskAll &^ nt.(Primitive).mask())
		return p, exact, nil

	case "SATISFIES":
		if len(params) != 1 {
			return nil, false, parseErrorf(d, "SATISFIES takes 1 parameter, got %d", len(params))
		}
		if _, ok := params[0].(descriptor.Symbol); !ok {
			return nil, false, parseErrorf(d, "predicate %v is not a symbol", descriptor.String(params[0]))
		}
		return Universal, false, nil
	}

	// Parameterized forms of unknown classes.
	return Universal, false, nil
}

func complexOf(part Ntype, precise bool) (Ntype, bool, error) {
	m := maskOf(part)
	var c atomMask
	if m&maskRational != 0 {
		c |= atomComplexRational
	}
	if m&atomSingleFloat != 0 {
		c |= atomComplexSingle
	}
	if m&atomDoubleFloat != 0 {
		c |= atomComplexDouble
	}
	p, exact := cover(c)
	precise = precise && exact && m&^maskReal == 0 &&
		(m&maskRational == 0 || m&maskRational == maskRational)
	return p, precise, nil
}

func (in *Interner) arrayOf(params []descriptor.Descriptor) (Ntype, bool, error) {
	if len(params) == 0 || descriptor.IsWildcard(params[0]) {
		return Array, true, nil
	}
	elt, precise, err := in.FromDescriptor(params[0])
	if err != nil {
		return nil, false, err
	}
	p, ok := upgradedArray(elt)
	return p, precise && ok, nil
}

func checkDims(d descriptor.Descriptor, dims descriptor.Descriptor) error {
	switch x := dims.(type) {
	case descriptor.List:
		for _, dim := range x {
			if err := checkDimension(d, dim); err != nil {
				return err
			}
		}
		return nil
	case descriptor.Symbol:
		if x == descriptor.Wildcard || x == descriptor.Nil {
			return nil
		}
	case int64:
		if x >= 0 {
			return nil
		}
	}
	return parseErrorf(d, "bad dimensions %v", descriptor.String(dims))
}

func checkDimension(d descriptor.Descriptor, dim descriptor.Descriptor) error {
	if descriptor.IsWildcard(dim) {
		return nil
	}
	if n, ok := dim.(int64); ok && n >= 0 {
		return nil
	}
	return parseErrorf(d, "bad dimension %v", descriptor.String(dim))
}

func toBigInt(v descriptor.Descriptor) (*big.Int, bool) {
	switch x := v.(type) {
	case int64:
		return big.NewInt(x), true
	case *big.Int:
		return x, true
	}
	return nil, false
}

func toRat(v descriptor.Descriptor) (*big.Rat, bool) {
	switch x := v.(type) {
	case int64:
		return new(big.Rat).SetInt64(x), true
	case *big.Int:
		return new(big.Rat).SetInt(x), true
	case *big.Rat:
		return x, true
	case float32:
		return new(big.Rat).SetFloat64(float64(x)), !math.IsInf(float64(x), 0) && !math.IsNaN(float64(x))
	case float64:
		return new(big.Rat).SetFloat64(x), !math.IsInf(x, 0) && !math.IsNaN(x)
	}
	return nil, false
}

// bound is one end of a range. A nil value is unbounded.
type bound struct {
	v         *big.Rat
	exclusive bool
}

func parseBound(d, b descriptor.Descriptor, integral bool) (bound, error) {
	if descriptor.IsWildcard(b) {
		return bound{}, nil
	}
	ret := bound{}
	if l, ok := b.(descriptor.List); ok {
		if len(l) != 1 {
			return bound{}, parseErrorf(d, "bad exclusive bound %v", descriptor.String(b))
		}
		ret.exclusive = true
		b = l[0]
	}
	if integral {
		n, ok := toBigInt(b)
		if !ok {
			return bound{}, parseErrorf(d, "bound %v is not an integer", descriptor.String(b))
		}
		ret.v = new(big.Rat).SetInt(n)
		return ret, nil
	}
	q, ok := toRat(b)
	if !ok {
		return bound{}, parseErrorf(d, "bound %v is not a finite real", descriptor.String(b))
	}
	ret.v = q
	return ret, nil
}

func integerBounds(d descriptor.Descriptor, params []descriptor.Descriptor) (lo, hi *big.Int, err error) {
	var bs [2]bound
	for i, p := range params {
		if bs[i], err = parseBound(d, p, true); err != nil {
			return nil, nil, err
		}
	}
	if bs[0].v != nil {
		lo = new(big.Int).Set(bs[0].v.Num())
		if bs[0].exclusive {
			lo.Add(lo, big.NewInt(1))
		}
	}
	if bs[1].v != nil {
		hi = new(big.Int).Set(bs[1].v.Num())
		if bs[1].exclusive {
			hi.Sub(hi, big.NewInt(1))
		}
	}
	return lo, hi, nil
}

var (
	minFixnum = big.NewInt(math.MinInt64)
	maxFixnum = big.NewInt(math.MaxInt64)
	bigZero   = big.NewInt(0)
	bigOne    = big.NewInt(1)
	big255    = big.NewInt(255)
)

// integerRange returns the ntype of the integers in [lo, hi], where a nil
// bound is unbounded.
func integerRange(lo, hi *big.Int) (Ntype, bool) {
	if lo != nil && hi != nil {
		switch lo.Cmp(hi) {
		case 1:
			return Empty, true
		case 0:
			return NewEql(new(big.Int).Set(lo)), true
		}
	}
	within := func(a, b *big.Int) bool {
		return (lo == nil || lo.Cmp(b) <= 0) && (hi == nil || hi.Cmp(a) >= 0)
	}

	var m atomMask
	if within(bigZero, bigOne) {
		m |= atomBit
	}
	if within(big.NewInt(2), big255) {
		m |= atomByte
	}
	if within(minFixnum, big.NewInt(-1)) || within(big.NewInt(256), maxFixnum) {
		m |= atomFixnum
	}
	if lo == nil || hi == nil || lo.Cmp(minFixnum) < 0 || hi.Cmp(maxFixnum) > 0 {
		m |= atomBignum
	}
	p, _ := cover(m)

	var exact bool
	switch p {
	case Bit:
		exact = lo != nil && hi != nil && lo.Sign() == 0 && hi.Cmp(bigOne) == 0
	case UnsignedByte8:
		exact = lo != nil && hi != nil && lo.Sign() == 0 && hi.Cmp(big255) == 0
	case Fixnum:
		exact = lo != nil && hi != nil && lo.Cmp(minFixnum) == 0 && hi.Cmp(maxFixnum) == 0
	case Integer:
		exact = lo == nil && hi == nil
	}
	return p, exact
}

func byteRange(signed bool, width int64) (Ntype, bool, error) {
	if width < 0 {
		if signed {
			return Integer, true, nil
		}
		nt, precise := integerRange(big.NewInt(0), nil)
		return nt, precise, nil
	}
	if signed {
		half := new(big.Int).Lsh(bigOne, uint(width-1))
		lo := new(big.Int).Neg(half)
		hi := new(big.Int).Sub(half, bigOne)
		nt, precise := integerRange(lo, hi)
		return nt, precise, nil
	}
	hi := new(big.Int).Sub(new(big.Int).Lsh(bigOne, uint(width)), bigOne)
	nt, precise := integerRange(big.NewInt(0), hi)
	return nt, precise, nil
}

// realRange handles the bounded forms of the real classes. Bounds narrow
// the class without changing its primitive, so any bound is imprecise
// unless it empties the range.
func realRange(d descriptor.Descriptor, p Primitive, precise bool, params []descriptor.Descriptor) (Ntype, bool, error) {
	var bs [2]bound
	for i, b := range params {
		var err error
		if bs[i], err = parseBound(d, b, false); err != nil {
			return nil, false, err
		}
	}
	lo, hi := bs[0], bs[1]
	if lo.v == nil && hi.v == nil {
		return p, precise, nil
	}
	if lo.v != nil && hi.v != nil {
		switch c := lo.v.Cmp(hi.v); {
		case c > 0, c == 0 && (lo.exclusive || hi.exclusive):
			return Empty, true, nil
		case c == 0 && p == Rational:
			return NewEql(new(big.Rat).Set(lo.v)), true, nil
		}
	}
	return p, false, nil
}
