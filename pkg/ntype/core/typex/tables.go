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

// Precomputed PrimitiveLimit x PrimitiveLimit tables of the primitive
// algebra. They are built once, in init, from the atom masks.

type tableEntry struct {
	p       Primitive
	precise bool
}

var (
	unionTable        [PrimitiveLimit][PrimitiveLimit]tableEntry
	intersectionTable [PrimitiveLimit][PrimitiveLimit]tableEntry
	contagionTable    [PrimitiveLimit][PrimitiveLimit]tableEntry
	subtypeTable      [PrimitiveLimit][PrimitiveLimit]bool
)

// Numeric contagion.
//
// Binary arithmetic promotes its operands to a common representation. The
// tiers, from narrowest to widest:
//
//	integer < rational < single-float < double-float
//	(complex rational) < (complex single-float) < (complex double-float)
//
// The per-atom rule, symmetric in its operands:
//
//	a \ b            integer   ratio     single    double    c-rational   c-single   c-double
//	integer          integer   rational  single    double    rational|cr  c-single   c-double
//	ratio                      rational  single    double    rational|cr  c-single   c-double
//	single                               single    double    c-single     c-single   c-double
//	double                                         double    c-double     c-double   c-double
//	c-rational                                               rational|cr  c-single   c-double
//	c-single                                                              c-single   c-double
//	c-double                                                                         c-double
//
// Two integers may yield any integer and two rationals any rational, since
// the result of (/ 4 2) is an integer. A complex rational result whose
// imaginary part is zero is a rational, hence rational|cr. Mixing exactness
// is a lossy promotion to the float of the other operand; a real combined
// with a complex yields a complex of the contagion of the parts. Non-number
// atoms contribute nothing: arithmetic on them signals, so it has no
// result. The contagion of two primitives is the union of the per-atom
// results over all atom pairs, covered by the smallest primitive.

type tier int

const (
	tierNone tier = iota
	tierInteger
	tierRatio
	tierSingle
	tierDouble
	tierComplexRational
	tierComplexSingle
	tierComplexDouble
)

func tierOf(a atomMask) tier {
	switch {
	case a&maskInteger != 0:
		return tierInteger
	case a == atomRatio:
		return tierRatio
	case a == atomSingleFloat:
		return tierSingle
	case a == atomDoubleFloat:
		return tierDouble
	case a == atomComplexRational:
		return tierComplexRational
	case a == atomComplexSingle:
		return tierComplexSingle
	case a == atomComplexDouble:
		return tierComplexDouble
	default:
		return tierNone
	}
}

// atomContagion implements the per-atom table above.
func atomContagion(a, b atomMask) atomMask {
	ta, tb := tierOf(a), tierOf(b)
	if ta == tierNone || tb == tierNone {
		return 0
	}
	if ta > tb {
		ta, tb = tb, ta
	}
	switch {
	case tb <= tierRatio:
		if tb == tierInteger {
			return maskInteger
		}
		return maskRational
	case tb <= tierDouble:
		if tb == tierSingle {
			return atomSingleFloat
		}
		return atomDoubleFloat
	case tb == tierComplexRational:
		switch ta {
		case tierSingle:
			return atomComplexSingle
		case tierDouble:
			return atomComplexDouble
		default:
			return maskRational | atomComplexRational
		}
	case tb == tierComplexSingle:
		if ta == tierDouble {
			return atomComplexDouble
		}
		return atomComplexSingle
	default:
		return atomComplexDouble
	}
}

func init() {
	for i := 0; i < PrimitiveLimit; i++ {
		for j := 0; j < PrimitiveLimit; j++ {
			a, b := primitives[i].mask, primitives[j].mask

			p, exact := cover(a | b)
			unionTable[i][j] = tableEntry{p, exact}

			p, exact = cover(a & b)
			intersectionTable[i][j] = tableEntry{p, exact}

			subtypeTable[i][j] = a&^b == 0

			var c atomMask
			for x := atomMask(1); x <= a; x <<= 1 {
				if a&x == 0 {
					continue
				}
				for y := atomMask(1); y <= b; y <<= 1 {
					if b&y != 0 {
						c |= atomContagion(x, y)
					}
				}
			}
			p, exact = cover(c)
			contagionTable[i][j] = tableEntry{p, exact}
		}
	}
}
