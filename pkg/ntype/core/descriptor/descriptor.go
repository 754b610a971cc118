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

// Package descriptor contains the external, symbolic form of types: the
// type descriptors callers author, such as
//
//	DOUBLE-FLOAT
//	(EQL 3)
//	(ARRAY (COMPLEX SINGLE-FLOAT) (* 3))
//	(VALUES INTEGER &OPTIONAL REAL)
//
// A Descriptor is a Symbol, a List whose first element is the head symbol,
// or a literal value appearing inside an EQL or MEMBER form. Descriptors are
// immutable; the core never mutates one it was handed.
package descriptor

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Descriptor is a symbolic type description or a literal value.
type Descriptor interface{}

// Symbol is an atom. Symbol names are canonically upper case.
type Symbol string

// List is a compound descriptor: a head symbol followed by parameters. The
// empty list reads as NIL.
type List []Descriptor

// Character is a character literal.
type Character rune

// Well known symbols.
const (
	Nil      Symbol = "NIL"
	T        Symbol = "T"
	Wildcard Symbol = "*"
)

var upper = cases.Upper(language.Und)

// Sym returns the canonical symbol for name.
func Sym(name string) Symbol {
	return Symbol(upper.String(name))
}

// L builds a compound descriptor with the given head.
func L(head string, params ...Descriptor) List {
	l := make(List, 0, len(params)+1)
	l = append(l, Sym(head))
	return append(l, params...)
}

// Head returns the head symbol of a compound descriptor.
func (l List) Head() (Symbol, bool) {
	if len(l) == 0 {
		return "", false
	}
	s, ok := l[0].(Symbol)
	return s, ok
}

// Params returns the parameters of a compound descriptor.
func (l List) Params() []Descriptor {
	if len(l) == 0 {
		return nil
	}
	return l[1:]
}

// IsWildcard reports whether d is the * wildcard.
func IsWildcard(d Descriptor) bool {
	s, ok := d.(Symbol)
	return ok && s == Wildcard
}

// Canonical normalizes a literal value: Go integers become int64 (or
// *big.Int when they do not fit), integral ratios become integers, and the
// empty list becomes NIL. Values that are already canonical are returned
// unchanged.
func Canonical(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint:
		return canonicalUint(uint64(x))
	case uint64:
		return canonicalUint(x)
	case *big.Int:
		if x.IsInt64() {
			return x.Int64()
		}
		return x
	case *big.Rat:
		if x.IsInt() {
			return Canonical(new(big.Int).Set(x.Num()))
		}
		return x
	case bool:
		if x {
			return T
		}
		return Nil
	case List:
		if len(x) == 0 {
			return Nil
		}
		return x
	case nil:
		return Nil
	default:
		return v
	}
}

func canonicalUint(u uint64) any {
	if u <= math.MaxInt64 {
		return int64(u)
	}
	return new(big.Int).SetUint64(u)
}

// Eql reports whether two literal values are the same object in the sense
// of EQL: numbers of the same representation and value, identical
// characters, symbols and strings. Floats are compared by their bits, so
// 0.0 and -0.0 differ while a NaN equals itself.
func Eql(a, b any) bool {
	a, b = Canonical(a), Canonical(b)
	switch x := a.(type) {
	case int64:
		y, ok := b.(int64)
		return ok && x == y
	case *big.Int:
		y, ok := b.(*big.Int)
		return ok && x.Cmp(y) == 0
	case *big.Rat:
		y, ok := b.(*big.Rat)
		return ok && x.Cmp(y) == 0
	case float32:
		y, ok := b.(float32)
		return ok && math.Float32bits(x) == math.Float32bits(y)
	case float64:
		y, ok := b.(float64)
		return ok && math.Float64bits(x) == math.Float64bits(y)
	case complex64:
		y, ok := b.(complex64)
		return ok && Eql(real(x), real(y)) && Eql(imag(x), imag(y))
	case complex128:
		y, ok := b.(complex128)
		return ok && Eql(real(x), real(y)) && Eql(imag(x), imag(y))
	case Character:
		y, ok := b.(Character)
		return ok && x == y
	case Symbol:
		y, ok := b.(Symbol)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	default:
		return Key(a) == Key(b)
	}
}

// Equal reports whether two descriptors are structurally equal.
func Equal(a, b Descriptor) bool {
	return Key(a) == Key(b)
}

// Key returns the structural key of a descriptor. Two descriptors have
// equal keys exactly when they are structurally equal: every atom is
// tagged with its kind, and symbols and strings carry their length, so a
// symbol never shares a key with a number or with a list of symbols.
func Key(d Descriptor) string {
	var b strings.Builder
	writeKey(&b, d)
	return b.String()
}

func writeKey(b *strings.Builder, d Descriptor) {
	switch x := Canonical(d).(type) {
	case Symbol:
		fmt.Fprintf(b, "s%d:%s", len(x), string(x))
	case List:
		b.WriteByte('(')
		for _, elm := range x {
			writeKey(b, elm)
		}
		b.WriteByte(')')
	case int64:
		fmt.Fprintf(b, "i%d;", x)
	case *big.Int:
		fmt.Fprintf(b, "i%s;", x.String())
	case *big.Rat:
		fmt.Fprintf(b, "r%s;", x.RatString())
	case float32:
		fmt.Fprintf(b, "f%08x;", math.Float32bits(x))
	case float64:
		fmt.Fprintf(b, "d%016x;", math.Float64bits(x))
	case complex64:
		fmt.Fprintf(b, "F%08x,%08x;", math.Float32bits(real(x)), math.Float32bits(imag(x)))
	case complex128:
		fmt.Fprintf(b, "D%016x,%016x;", math.Float64bits(real(x)), math.Float64bits(imag(x)))
	case Character:
		fmt.Fprintf(b, "c%d;", rune(x))
	case string:
		fmt.Fprintf(b, "q%d:%s", len(x), x)
	default:
		s := fmt.Sprintf("%T %v", x, x)
		fmt.Fprintf(b, "o%d:%s", len(s), s)
	}
}
