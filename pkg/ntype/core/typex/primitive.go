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
	"math/bits"

	"github.com/apache/beam-ntype/pkg/ntype/core/descriptor"
)

// atomMask is a set of atoms. Atoms are pairwise disjoint classes of values
// that together cover every value; each primitive is a fixed union of
// atoms, which makes the primitive algebra exact set arithmetic on masks.
type atomMask uint32

const (
	atomNull             atomMask = 1 << iota // NIL
	atomSymbol                                // symbols other than NIL
	atomCharacter                             //
	atomBit                                   // integers 0 and 1
	atomByte                                  // integers 2 to 255
	atomFixnum                                // other integers in [-2^63, 2^63)
	atomBignum                                // integers outside of [-2^63, 2^63)
	atomRatio                                 //
	atomSingleFloat                           //
	atomDoubleFloat                           //
	atomComplexRational                       //
	atomComplexSingle                         //
	atomComplexDouble                         //
	atomCons                                  //
	atomFunction                              //
	atomArrayBit                              //
	atomArrayByte                             //
	atomArraySingle                           //
	atomArrayDouble                           //
	atomArrayComplexSingle                    //
	atomArrayComplexDouble                    //
	atomArrayCharacter                        //
	atomArrayT                                //
	atomOther                                 // structures, hash tables, streams, ...

	atomLimit = iota
)

const (
	maskInteger  = atomBit | atomByte | atomFixnum | atomBignum
	maskRational = maskInteger | atomRatio
	maskFloat    = atomSingleFloat | atomDoubleFloat
	maskReal     = maskRational | maskFloat
	maskComplex  = atomComplexRational | atomComplexSingle | atomComplexDouble
	maskNumber   = maskReal | maskComplex
	maskArray    = atomArrayBit | atomArrayByte | atomArraySingle | atomArrayDouble |
		atomArrayComplexSingle | atomArrayComplexDouble | atomArrayCharacter | atomArrayT
	maskAll = atomMask(1)<<atomLimit - 1
)

// Primitive is one of the fixed, densely indexed built-in classes. Empty and
// Universal are the bottom and top of the lattice.
type Primitive uint8

// The primitive classes, in index order.
const (
	Empty Primitive = iota
	Null
	Symbol
	Character
	Bit
	UnsignedByte8
	Fixnum
	Integer
	Ratio
	Rational
	SingleFloat
	DoubleFloat
	Float
	Real
	ComplexRational
	ComplexSingleFloat
	ComplexDoubleFloat
	Complex
	Number
	Cons
	List
	Function
	ArrayBit
	ArrayUnsignedByte8
	ArraySingleFloat
	ArrayDoubleFloat
	ArrayComplexSingleFloat
	ArrayComplexDoubleFloat
	String
	ArrayT
	Array
	Universal

	// PrimitiveLimit is the number of primitives. Every primitive index is
	// in [0, PrimitiveLimit).
	PrimitiveLimit = int(Universal) + 1
)

type primitiveInfo struct {
	mask atomMask
	desc descriptor.Descriptor
}

var primitives = [PrimitiveLimit]primitiveInfo{
	Empty:                   {0, descriptor.Nil},
	Null:                    {atomNull, descriptor.Sym("null")},
	Symbol:                  {atomNull | atomSymbol, descriptor.Sym("symbol")},
	Character:               {atomCharacter, descriptor.Sym("character")},
	Bit:                     {atomBit, descriptor.Sym("bit")},
	UnsignedByte8:           {atomBit | atomByte, descriptor.L("unsigned-byte", int64(8))},
	Fixnum:                  {atomBit | atomByte | atomFixnum, descriptor.Sym("fixnum")},
	Integer:                 {maskInteger, descriptor.Sym("integer")},
	Ratio:                   {atomRatio, descriptor.Sym("ratio")},
	Rational:                {maskRational, descriptor.Sym("rational")},
	SingleFloat:             {atomSingleFloat, descriptor.Sym("single-float")},
	DoubleFloat:             {atomDoubleFloat, descriptor.Sym("double-float")},
	Float:                   {maskFloat, descriptor.Sym("float")},
	Real:                    {maskReal, descriptor.Sym("real")},
	ComplexRational:         {atomComplexRational, descriptor.L("complex", descriptor.Sym("rational"))},
	ComplexSingleFloat:      {atomComplexSingle, descriptor.L("complex", descriptor.Sym("single-float"))},
	ComplexDoubleFloat:      {atomComplexDouble, descriptor.L("complex", descriptor.Sym("double-float"))},
	Complex:                 {maskComplex, descriptor.Sym("complex")},
	Number:                  {maskNumber, descriptor.Sym("number")},
	Cons:                    {atomCons, descriptor.Sym("cons")},
	List:                    {atomNull | atomCons, descriptor.Sym("list")},
	Function:                {atomFunction, descriptor.Sym("function")},
	ArrayBit:                {atomArrayBit, descriptor.L("array", descriptor.Sym("bit"))},
	ArrayUnsignedByte8:      {atomArrayByte, descriptor.L("array", descriptor.L("unsigned-byte", int64(8)))},
	ArraySingleFloat:        {atomArraySingle, descriptor.L("array", descriptor.Sym("single-float"))},
	ArrayDoubleFloat:        {atomArrayDouble, descriptor.L("array", descriptor.Sym("double-float"))},
	ArrayComplexSingleFloat: {atomArrayComplexSingle, descriptor.L("array", descriptor.L("complex", descriptor.Sym("single-float")))},
	ArrayComplexDoubleFloat: {atomArrayComplexDouble, descriptor.L("array", descriptor.L("complex", descriptor.Sym("double-float")))},
	String:                  {atomArrayCharacter, descriptor.Sym("string")},
	ArrayT:                  {atomArrayT, descriptor.L("array", descriptor.T)},
	Array:                   {maskArray, descriptor.Sym("array")},
	Universal:               {maskAll, descriptor.T},
}

// Primitives returns all primitives in index order.
func Primitives() []Primitive {
	ret := make([]Primitive, PrimitiveLimit)
	for i := range ret {
		ret[i] = Primitive(i)
	}
	return ret
}

// Primitive returns p itself.
func (p Primitive) Primitive() Primitive { return p }

// Descriptor returns the type descriptor of p.
func (p Primitive) Descriptor() descriptor.Descriptor {
	return primitives[p].desc
}

func (p Primitive) String() string {
	if int(p) >= PrimitiveLimit {
		return fmt.Sprintf("Primitive(%d)", int(p))
	}
	return descriptor.String(primitives[p].desc)
}

func (p Primitive) mask() atomMask {
	return primitives[p].mask
}

func (Primitive) isNtype() {}

// cover returns the smallest primitive whose atoms include m, and whether it
// contains exactly the atoms of m. Universal covers every mask.
func cover(m atomMask) (Primitive, bool) {
	best := Universal
	for i := 0; i < PrimitiveLimit; i++ {
		pm := primitives[i].mask
		if m&^pm != 0 {
			continue
		}
		if bits.OnesCount32(uint32(pm)) < bits.OnesCount32(uint32(primitives[best].mask)) {
			best = Primitive(i)
		}
	}
	return best, primitives[best].mask == m
}
