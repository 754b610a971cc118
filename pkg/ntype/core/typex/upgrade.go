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
	"github.com/apache/beam-ntype/pkg/ntype/core/descriptor"
)

// Array storage classes. An array stores its elements in the narrowest
// class, in this order, whose element set includes the declared element
// type; every other element type is stored as T.
var storageClasses = []struct {
	elt   atomMask
	array Primitive
}{
	{atomBit, ArrayBit},
	{atomBit | atomByte, ArrayUnsignedByte8},
	{atomSingleFloat, ArraySingleFloat},
	{atomDoubleFloat, ArrayDoubleFloat},
	{atomComplexSingle, ArrayComplexSingleFloat},
	{atomComplexDouble, ArrayComplexDoubleFloat},
	{atomCharacter, String},
	{maskAll, ArrayT},
}

// elementTypes lists each array atom with the element primitive of its
// storage class, in storage class order.
var elementTypes = []struct {
	array atomMask
	elt   Primitive
}{
	{atomArrayBit, Bit},
	{atomArrayByte, UnsignedByte8},
	{atomArraySingle, SingleFloat},
	{atomArrayDouble, DoubleFloat},
	{atomArrayComplexSingle, ComplexSingleFloat},
	{atomArrayComplexDouble, ComplexDoubleFloat},
	{atomArrayCharacter, Character},
	{atomArrayT, Universal},
}

// elementOf returns the element primitive stored by the array atom a.
func elementOf(a atomMask) Primitive {
	for _, e := range elementTypes {
		if e.array == a {
			return e.elt
		}
	}
	return Universal
}

// upgradedArray returns the array primitive storing elements of ntype elt.
// It is false when elt is empty, for which the storage class is not
// modeled.
func upgradedArray(elt Ntype) (Primitive, bool) {
	m := maskOf(elt)
	if m == 0 {
		return Array, false
	}
	for _, c := range storageClasses {
		if m&^c.elt == 0 {
			return c.array, true
		}
	}
	return ArrayT, true
}

// ArrayElementNtype returns the element ntype of arrays of ntype nt: the
// union of the element types of every storage class nt admits. It is
// precise when nt admits arrays of exactly one storage class.
func ArrayElementNtype(nt Ntype) (Ntype, bool) {
	m := maskOf(nt) & maskArray
	var elts atomMask
	n := 0
	for _, e := range elementTypes {
		if m&e.array != 0 {
			elts |= e.elt.mask()
			n++
		}
	}
	ret, _ := cover(elts)
	return ret, n <= 1 && maskOf(nt)&^maskArray == 0
}

// UpgradedArrayElementNtype returns the element ntype an array declared
// with element descriptor d actually stores.
func UpgradedArrayElementNtype(d descriptor.Descriptor) (Ntype, bool, error) {
	if descriptor.IsWildcard(d) {
		return Universal, false, nil
	}
	elt, precise, err := FromDescriptor(d)
	if err != nil {
		return nil, false, err
	}
	p, ok := upgradedArray(elt)
	if !ok {
		return Universal, false, nil
	}
	return elementOf(p.mask()), precise, nil
}

// ComplexPartNtype returns the ntype of the real and imaginary parts of
// complex numbers of ntype nt. A complex rational has integer parts when
// its imaginary part is nonzero, so rational parts are reported.
func ComplexPartNtype(nt Ntype) (Ntype, bool) {
	if e, ok := nt.(*Eql); ok {
		switch v := e.value.(type) {
		case complex64:
			return Union(NewEql(real(v)), NewEql(imag(v)))
		case complex128:
			return Union(NewEql(real(v)), NewEql(imag(v)))
		}
	}
	m := maskOf(nt)
	var parts atomMask
	if m&atomComplexRational != 0 {
		parts |= maskRational
	}
	if m&atomComplexSingle != 0 {
		parts |= atomSingleFloat
	}
	if m&atomComplexDouble != 0 {
		parts |= atomDoubleFloat
	}
	p, exact := cover(parts)
	return p, exact && m&^maskComplex == 0
}

// UpgradedComplexPartNtype returns the part ntype a complex declared with
// part descriptor d actually stores: rational, single-float or
// double-float, or real when d spans several of them.
func UpgradedComplexPartNtype(d descriptor.Descriptor) (Ntype, bool, error) {
	if descriptor.IsWildcard(d) {
		return Real, true, nil
	}
	part, precise, err := FromDescriptor(d)
	if err != nil {
		return nil, false, err
	}
	m := maskOf(part) & maskReal
	for _, p := range []Primitive{Empty, Rational, SingleFloat, DoubleFloat} {
		if m&^p.mask() == 0 {
			return p, precise, nil
		}
	}
	return Real, precise, nil
}
