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
)

// Partial derivatives. Each is built from generic operations, so the
// derivative of a specialized call is itself specialized for the
// argument ntypes.

func constant(v any) fndb.DifferentiatorRule {
	return func(s fndb.Site, _ int) (fndb.Wrapper, error) {
		return s.Literal(v), nil
	}
}

func unaryDerivative(f func(s fndb.Site, x fndb.Wrapper) fndb.Wrapper) fndb.DifferentiatorRule {
	return func(s fndb.Site, _ int) (fndb.Wrapper, error) {
		return f(s, s.Args()[0]), s.Err()
	}
}

func dMinus(s fndb.Site, i int) (fndb.Wrapper, error) {
	if i == 0 {
		return s.Literal(int64(1)), nil
	}
	return s.Literal(int64(-1)), nil
}

func dTimes(s fndb.Site, i int) (fndb.Wrapper, error) {
	return s.Args()[1-i], nil
}

// dDivide: d(a/b)/da = 1/b, d(a/b)/db = -a/b^2.
func dDivide(s fndb.Site, i int) (fndb.Wrapper, error) {
	a, b := s.Args()[0], s.Args()[1]
	if i == 0 {
		return s.Call("/", s.Literal(int64(1)), b), s.Err()
	}
	return s.Call("negate", s.Call("/", a, s.Call("*", b, b))), s.Err()
}

var derivatives = map[string]fndb.DifferentiatorRule{
	"+":      constant(int64(1)),
	"-":      dMinus,
	"*":      dTimes,
	"/":      dDivide,
	"negate": constant(int64(-1)),
	"sin": unaryDerivative(func(s fndb.Site, x fndb.Wrapper) fndb.Wrapper {
		return s.Call("cos", x)
	}),
	"cos": unaryDerivative(func(s fndb.Site, x fndb.Wrapper) fndb.Wrapper {
		return s.Call("negate", s.Call("sin", x))
	}),
	"tan": unaryDerivative(func(s fndb.Site, x fndb.Wrapper) fndb.Wrapper {
		c := s.Call("cos", x)
		return s.Call("/", s.Literal(int64(1)), s.Call("*", c, c))
	}),
	"exp": unaryDerivative(func(s fndb.Site, x fndb.Wrapper) fndb.Wrapper {
		return s.Call("exp", x)
	}),
	"log": unaryDerivative(func(s fndb.Site, x fndb.Wrapper) fndb.Wrapper {
		return s.Call("/", s.Literal(int64(1)), x)
	}),
	"sqrt": unaryDerivative(func(s fndb.Site, x fndb.Wrapper) fndb.Wrapper {
		return s.Call("/", s.Literal(int64(1)), s.Call("*", s.Literal(int64(2)), s.Call("sqrt", x)))
	}),
	"abs": unaryDerivative(func(s fndb.Site, x fndb.Wrapper) fndb.Wrapper {
		return s.Call("signum", x)
	}),
	"signum": constant(int64(0)),
}
