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

// Union returns the least upper bound of a and b. The result is precise
// when it contains exactly the members of a and b.
func Union(a, b Ntype) (Ntype, bool) {
	if pa, ok := a.(Primitive); ok {
		if pb, ok := b.(Primitive); ok {
			e := unionTable[pa][pb]
			return e.p, e.precise
		}
	}
	if Equal(a, b) {
		return a, true
	}
	ma, mb := maskOf(a), maskOf(b)
	switch {
	case ma == 0 && isPrimitive(a):
		return b, true
	case mb == 0 && isPrimitive(b):
		return a, true
	}
	ea, aEql := a.(*Eql)
	eb, bEql := b.(*Eql)
	switch {
	case aEql && bEql:
		if isBitPair(ea.value, eb.value) {
			return Bit, true
		}
	case aEql:
		if ma&^mb == 0 {
			return b, true
		}
	case bEql:
		if mb&^ma == 0 {
			return a, true
		}
	}
	p, _ := cover(ma | mb)
	return p, false
}

// isBitPair reports whether x and y are 0 and 1 in some order.
func isBitPair(x, y any) bool {
	i, ok := x.(int64)
	j, ok2 := y.(int64)
	return ok && ok2 && i+j == 1 && (i == 0 || j == 0)
}

func isPrimitive(nt Ntype) bool {
	_, ok := nt.(Primitive)
	return ok
}

// Intersection returns the greatest lower bound of a and b. Intersections
// involving a singleton are always precise.
func Intersection(a, b Ntype) (Ntype, bool) {
	ea, aEql := a.(*Eql)
	eb, bEql := b.(*Eql)
	switch {
	case aEql && bEql:
		if Equal(ea, eb) {
			return a, true
		}
		return Empty, true
	case aEql:
		if ea.atom&^maskOf(b) == 0 {
			return a, true
		}
		return Empty, true
	case bEql:
		if eb.atom&^maskOf(a) == 0 {
			return b, true
		}
		return Empty, true
	}
	e := intersectionTable[a.(Primitive)][b.(Primitive)]
	return e.p, e.precise
}

// Subtypep reports whether every member of a is a member of b. The second
// result is false when the answer could not be decided, in which case the
// first is false as well; Subtypep never claims true without proof.
func Subtypep(a, b Ntype) (bool, bool) {
	switch x := a.(type) {
	case Primitive:
		switch y := b.(type) {
		case Primitive:
			return subtypeTable[x][y], true
		case *Eql:
			// No non-empty primitive is a singleton: the only one-member
			// primitive is Null, and (eql nil) is represented by it.
			return x == Empty, true
		}
	case *Eql:
		switch y := b.(type) {
		case Primitive:
			return x.atom&^y.mask() == 0, true
		case *Eql:
			return Equal(x, y), true
		}
	}
	return false, false
}

// SubtypepC2 compares a and b in one step. It returns (true, true) when a
// is a subtype of b, (false, true) when a and b are disjoint, and
// (false, false) when they overlap without a being a subtype of b.
func SubtypepC2(a, b Ntype) (bool, bool) {
	if ok, precise := Subtypep(a, b); ok && precise {
		return true, true
	}
	if Disjointp(a, b) {
		return false, true
	}
	return false, false
}

// Disjointp reports whether a and b certainly have no common member.
func Disjointp(a, b Ntype) bool {
	i, precise := Intersection(a, b)
	return precise && Equal(i, Empty)
}

// Contagion returns the ntype of the result of a binary arithmetic
// operation on operands of ntypes a and b, following the promotion table
// documented in tables.go. Singletons promote to their primitive first.
func Contagion(a, b Ntype) (Ntype, bool) {
	e := contagionTable[a.Primitive()][b.Primitive()]
	return e.p, e.precise
}

// UnionAll folds Union over nts. The union of nothing is Empty.
func UnionAll(nts ...Ntype) (Ntype, bool) {
	var ret Ntype = Empty
	precise := true
	for _, nt := range nts {
		var p bool
		ret, p = Union(ret, nt)
		precise = precise && p
	}
	return ret, precise
}

// IntersectionAll folds Intersection over nts. The intersection of nothing
// is Universal.
func IntersectionAll(nts ...Ntype) (Ntype, bool) {
	var ret Ntype = Universal
	precise := true
	for _, nt := range nts {
		var p bool
		ret, p = Intersection(ret, nt)
		precise = precise && p
	}
	return ret, precise
}
