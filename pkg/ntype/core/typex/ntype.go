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

// Package typex contains the approximate type lattice: the canonical
// element type Ntype, its algebra, the multiple-value extension Values, and
// the conversion from type descriptors.
//
// An Ntype is either a Primitive, one of a small fixed set of built-in
// classes, or an *Eql, a singleton holding one concrete value. Lattice
// operations never fail. Instead each returns a precision flag, which is
// false when the result is a conservative over-approximation of the exact
// answer. A false answer from Subtypep paired with a false flag means
// "unknown", not "no".
package typex

import (
	"math/big"
	"reflect"

	"github.com/apache/beam-ntype/pkg/ntype/core/descriptor"
)

// Ntype is an element of the approximate type lattice. Ntypes are immutable
// and safe to share between goroutines.
type Ntype interface {
	// Primitive returns the smallest primitive containing the ntype.
	Primitive() Primitive
	// Descriptor returns a type descriptor for the ntype.
	Descriptor() descriptor.Descriptor
	String() string

	isNtype()
}

// Eql is the ntype of exactly one value.
type Eql struct {
	value any
	atom  atomMask
	prim  Primitive
}

// NewEql returns the ntype whose only member is v. NIL has the primitive
// Null as its singleton ntype.
func NewEql(v any) Ntype {
	v = descriptor.Canonical(v)
	atom := atomOf(v)
	if atom == atomNull {
		return Null
	}
	p, _ := cover(atom)
	return &Eql{value: v, atom: atom, prim: p}
}

// Value returns the member of the singleton.
func (e *Eql) Value() any { return e.value }

// Primitive returns the primitive classification of the value.
func (e *Eql) Primitive() Primitive { return e.prim }

// Descriptor returns (EQL value).
func (e *Eql) Descriptor() descriptor.Descriptor {
	return descriptor.List{descriptor.Symbol("EQL"), e.value}
}

func (e *Eql) String() string {
	return descriptor.String(e.Descriptor())
}

func (*Eql) isNtype() {}

// The boolean pseudo-ntypes.
var (
	True  = NewEql(descriptor.T)
	False Ntype = Null
)

// Classify returns the primitive classification of a value: the smallest
// primitive containing it.
func Classify(v any) Primitive {
	p, _ := cover(atomOf(descriptor.Canonical(v)))
	return p
}

// atomOf returns the atom of a canonical value.
func atomOf(v any) atomMask {
	switch x := v.(type) {
	case descriptor.Symbol:
		if x == descriptor.Nil {
			return atomNull
		}
		return atomSymbol
	case descriptor.Character:
		return atomCharacter
	case int64:
		switch {
		case x == 0 || x == 1:
			return atomBit
		case x >= 2 && x <= 255:
			return atomByte
		default:
			return atomFixnum
		}
	case *big.Int:
		return atomBignum
	case *big.Rat:
		return atomRatio
	case float32:
		return atomSingleFloat
	case float64:
		return atomDoubleFloat
	case complex64:
		return atomComplexSingle
	case complex128:
		return atomComplexDouble
	case string:
		return atomArrayCharacter
	case descriptor.List:
		return atomCons
	case []byte:
		return atomArrayByte
	case []float32:
		return atomArraySingle
	case []float64:
		return atomArrayDouble
	case []complex64:
		return atomArrayComplexSingle
	case []complex128:
		return atomArrayComplexDouble
	case []descriptor.Character:
		return atomArrayCharacter
	case []any:
		return atomArrayT
	}
	if v != nil && reflect.TypeOf(v).Kind() == reflect.Func {
		return atomFunction
	}
	return atomOther
}

// ConstantValue returns the only member of nt, if nt is a singleton.
func ConstantValue(nt Ntype) (any, bool) {
	switch x := nt.(type) {
	case *Eql:
		return x.value, true
	case Primitive:
		if x == Null {
			return descriptor.Nil, true
		}
	}
	return nil, false
}

// Equal reports whether two ntypes denote the same lattice element.
func Equal(a, b Ntype) bool {
	switch x := a.(type) {
	case Primitive:
		y, ok := b.(Primitive)
		return ok && x == y
	case *Eql:
		y, ok := b.(*Eql)
		return ok && (x == y || descriptor.Eql(x.value, y.value))
	}
	return false
}

// Descriptor returns a type descriptor for nt. The descriptor may be wider
// than the one nt was parsed from, since the lattice merges distinct
// descriptors into one element.
func Descriptor(nt Ntype) descriptor.Descriptor {
	return nt.Descriptor()
}

func maskOf(nt Ntype) atomMask {
	switch x := nt.(type) {
	case Primitive:
		return x.mask()
	case *Eql:
		return x.atom
	}
	return maskAll
}
