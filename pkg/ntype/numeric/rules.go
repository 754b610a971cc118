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
	"github.com/apache/beam-ntype/pkg/ntype/core/fndb"
	"github.com/apache/beam-ntype/pkg/ntype/core/typex"
	"github.com/apache/beam-ntype/internal/errors"
)

// floatTier is a float representation with its own primitive operations,
// named by prefix: double-float+, complex-single-float-sin, ...
type floatTier struct {
	prim   typex.Primitive
	prefix string
	host   tier
}

var (
	singleFloat        = floatTier{typex.SingleFloat, "single-float", tierSingle}
	doubleFloat        = floatTier{typex.DoubleFloat, "double-float", tierDouble}
	complexSingleFloat = floatTier{typex.ComplexSingleFloat, "complex-single-float", tierComplexSingle}
	complexDoubleFloat = floatTier{typex.ComplexDoubleFloat, "complex-double-float", tierComplexDouble}

	realTiers    = []floatTier{singleFloat, doubleFloat}
	complexTiers = []floatTier{complexSingleFloat, complexDoubleFloat}
	allTiers     = []floatTier{singleFloat, doubleFloat, complexSingleFloat, complexDoubleFloat}
)

// coercion returns the name of the operation converting numbers to t.
func (t floatTier) coercion() string {
	return "coerce-to-" + t.prefix
}

var tiersByPrim = map[typex.Primitive]floatTier{
	typex.SingleFloat:        singleFloat,
	typex.DoubleFloat:        doubleFloat,
	typex.ComplexSingleFloat: complexSingleFloat,
	typex.ComplexDoubleFloat: complexDoubleFloat,
}

// coerceArg converts w to the representation target, unless it already
// has it. Only float representations have coercions; asking for another
// one fails the site.
func coerceArg(s fndb.Site, w fndb.Wrapper, target typex.Primitive) fndb.Wrapper {
	if ok, _ := typex.Subtypep(s.NtypeOf(w), target); ok {
		return w
	}
	t, ok := tiersByPrim[target]
	if !ok {
		s.Fail(errors.Errorf("%v: no coercion of %v to %v", s.Name(), s.NtypeOf(w), target))
		return nil
	}
	return s.Call(t.coercion(), w)
}

type branch = typex.Case[fndb.Wrapper]

// nonNumbers aborts when no operand can be a number. The generic call then
// signals at run time.
var nonNumbers = typex.When(typex.Empty, typex.Abort[fndb.Wrapper])

// emit returns a branch body calling op on the arguments converted to
// target.
func emit(s fndb.Site, op string, target typex.Primitive, args ...fndb.Wrapper) func() (fndb.Wrapper, bool) {
	return func() (fndb.Wrapper, bool) {
		conv := make([]fndb.Wrapper, len(args))
		for i, arg := range args {
			conv[i] = coerceArg(s, arg, target)
		}
		return s.Call(op, conv...), true
	}
}

// binaryRule dispatches a binary arithmetic operator on the contagion of
// its operands, with integer leaves when integers are closed under op.
func binaryRule(op string, integers bool) fndb.SpecializerRule {
	return func(s fndb.Site) (fndb.Wrapper, bool) {
		args := s.Args()
		c, _ := typex.Contagion(s.Ntype(0), s.Ntype(1))

		cases := []branch{nonNumbers}
		if integers {
			cases = append(cases, typex.When(typex.Integer, emit(s, "integer"+op, typex.Integer, args...)))
		}
		for _, t := range allTiers {
			cases = append(cases, typex.When(t.prim, emit(s, t.prefix+op, t.prim, args...)))
		}
		return typex.Subtypecase(c, nil, cases...)
	}
}

// unary describes the primitive operations of a unary function.
type unary struct {
	name string
	// integers have an integer leaf, integer-<name>.
	integers bool
	// rationals compute in single floats.
	rationals bool
	tiers     []floatTier
}

func (u unary) leaf(t floatTier) string {
	return t.prefix + "-" + u.name
}

func (u unary) rule() fndb.SpecializerRule {
	return func(s fndb.Site) (fndb.Wrapper, bool) {
		x := s.Args()[0]
		cases := []branch{nonNumbers}
		if u.integers {
			cases = append(cases, typex.When(typex.Integer, emit(s, "integer-"+u.name, typex.Integer, x)))
		}
		if u.rationals {
			cases = append(cases, typex.When(typex.Rational, emit(s, u.leaf(singleFloat), typex.SingleFloat, x)))
		}
		for _, t := range u.tiers {
			cases = append(cases, typex.When(t.prim, emit(s, u.leaf(t), t.prim, x)))
		}
		return typex.Subtypecase(s.Ntype(0), nil, cases...)
	}
}

// floorRule divides by 1 when called with one argument.
func floorRule(s fndb.Site) (fndb.Wrapper, bool) {
	args := append([]fndb.Wrapper(nil), s.Args()...)
	divisor := one
	if len(args) == 1 {
		args = append(args, s.Literal(int64(1)))
	} else {
		divisor = s.Ntype(1)
	}
	c, _ := typex.Contagion(s.Ntype(0), divisor)

	cases := []branch{nonNumbers}
	for _, t := range realTiers {
		cases = append(cases, typex.When(t.prim, emit(s, t.prefix+"-floor", t.prim, args...)))
	}
	return typex.Subtypecase(c, nil, cases...)
}

// lessRule compares floats of one representation without conversion:
// comparisons of mixed operands are exact, not in floating point.
func lessRule(s fndb.Site) (fndb.Wrapper, bool) {
	cases := []branch{nonNumbers}
	for _, t := range realTiers {
		t := t
		cases = append(cases, typex.When(t.prim, func() (fndb.Wrapper, bool) {
			return typex.Subtypecase(s.Ntype(1), nil,
				typex.When(t.prim, func() (fndb.Wrapper, bool) {
					return s.Call(t.prefix+"<", s.Args()...), true
				}))
		}))
	}
	return typex.Subtypecase(s.Ntype(0), nil, cases...)
}
