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
)

// classes are the number classes result types are computed over.
var classes = []typex.Primitive{
	typex.Integer,
	typex.Ratio,
	typex.SingleFloat,
	typex.DoubleFloat,
	typex.ComplexRational,
	typex.ComplexSingleFloat,
	typex.ComplexDoubleFloat,
}

// mapClasses returns the union of f over the number classes nt
// intersects. Non-numbers contribute nothing: operations on them signal.
func mapClasses(nt typex.Ntype, f func(typex.Primitive) typex.Ntype) typex.Ntype {
	var ret typex.Ntype = typex.Empty
	for _, c := range classes {
		if !typex.Disjointp(nt, c) {
			ret, _ = typex.Union(ret, f(c))
		}
	}
	return ret
}

func unaryResult(f func(typex.Primitive) typex.Ntype) fndb.ResultFunc {
	return func(args []typex.Ntype) typex.Values {
		return typex.SingleValue(mapClasses(args[0], f))
	}
}

func sameClass(c typex.Primitive) typex.Ntype { return c }

// floatClass is the class of irrational functions of c: rationals become
// single floats, complex rationals complex single floats.
func floatClass(c typex.Primitive) typex.Ntype {
	switch c {
	case typex.Integer, typex.Ratio:
		return typex.SingleFloat
	case typex.ComplexRational:
		return typex.ComplexSingleFloat
	}
	return c
}

// rootClass is floatClass for functions with complex results on part of
// the reals.
func rootClass(c typex.Primitive) typex.Ntype {
	f := floatClass(c).(typex.Primitive)
	switch f {
	case typex.SingleFloat:
		nt, _ := typex.Union(f, typex.ComplexSingleFloat)
		return nt
	case typex.DoubleFloat:
		nt, _ := typex.Union(f, typex.ComplexDoubleFloat)
		return nt
	}
	return f
}

// absClass is the class of magnitudes. The magnitude of a complex
// rational is rational when exact, such as |3+4i|, and a single float
// otherwise.
func absClass(c typex.Primitive) typex.Ntype {
	switch c {
	case typex.ComplexRational:
		nt, _ := typex.Union(typex.Rational, typex.SingleFloat)
		return nt
	case typex.ComplexSingleFloat:
		return typex.SingleFloat
	case typex.ComplexDoubleFloat:
		return typex.DoubleFloat
	}
	return c
}

func signumClass(c typex.Primitive) typex.Ntype {
	switch c {
	case typex.Integer, typex.Ratio:
		return typex.Fixnum
	}
	return floatClass(c)
}

// arithResult is the contagion of the operands. Dividing integers yields
// a rational.
func arithResult(division bool) fndb.ResultFunc {
	return func(args []typex.Ntype) typex.Values {
		c, _ := typex.Contagion(args[0], args[1])
		if division && !typex.Disjointp(c, typex.Integer) {
			c, _ = typex.Union(c, typex.Rational)
		}
		return typex.SingleValue(c)
	}
}

var one = typex.NewEql(int64(1))

// floorResult is an integer quotient and a real remainder in the
// contagion of the operands.
func floorResult(args []typex.Ntype) typex.Values {
	divisor := one
	if len(args) > 1 {
		divisor = args[1]
	}
	rem, _ := typex.Contagion(args[0], divisor)
	rem, _ = typex.Intersection(rem, typex.Real)
	return typex.Values{Required: []typex.Ntype{typex.Integer, rem}}
}

// boolean is the ntype of T and NIL.
var boolean, _ = typex.Union(typex.True, typex.False)
