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

// Package numeric registers the generic numeric operations of the tower
// and the representation-specific primitives they specialize to.
//
// Generic operations: the binary + - * /, negate, sin, cos, tan, exp, log,
// sqrt, abs, signum, floor (two values) and <. Each has a host
// implementation used for folding, a result type derived from its
// argument ntypes, a specializer rule, and, except floor and <, a
// differentiator rule.
//
// Primitives are named by representation: integer+, double-float*,
// single-float-sin, complex-double-float-sqrt, double-float-floor,
// double-float<, and the coercions coerce-to-single-float,
// coerce-to-double-float, coerce-to-complex-single-float and
// coerce-to-complex-double-float.
package numeric

import (
	"math/cmplx"

	"github.com/apache/beam-ntype/pkg/ntype/core/fndb"
	"github.com/apache/beam-ntype/pkg/ntype/core/typex"
)

const pure = fndb.Foldable | fndb.Movable

var unaries = []unary{
	{name: "negate", integers: true, tiers: allTiers},
	{name: "sin", rationals: true, tiers: allTiers},
	{name: "cos", rationals: true, tiers: allTiers},
	{name: "tan", rationals: true, tiers: allTiers},
	{name: "exp", rationals: true, tiers: allTiers},
	{name: "log", tiers: complexTiers},
	{name: "sqrt", tiers: complexTiers},
	{name: "abs", integers: true, tiers: allTiers},
	{name: "signum"},
}

var unaryHosts = map[string]func(any) (any, error){
	"negate": negate,
	"sin":    func(v any) (any, error) { return transcendental(v, cmplx.Sin) },
	"cos":    func(v any) (any, error) { return transcendental(v, cmplx.Cos) },
	"tan":    func(v any) (any, error) { return transcendental(v, cmplx.Tan) },
	"exp":    func(v any) (any, error) { return transcendental(v, cmplx.Exp) },
	"log":    logarithm,
	"sqrt":   sqrt,
	"abs":    abs,
	"signum": signum,
}

var unaryClasses = map[string]func(typex.Primitive) typex.Ntype{
	"negate": sameClass,
	"sin":    floatClass,
	"cos":    floatClass,
	"tan":    floatClass,
	"exp":    floatClass,
	"log":    rootClass,
	"sqrt":   rootClass,
	"abs":    absClass,
	"signum": signumClass,
}

// Records returns the records of every numeric operation.
func Records() []fndb.FnRecord {
	var recs []fndb.FnRecord

	for _, op := range []string{"+", "-", "*", "/"} {
		op := op
		host := binaryHost(op[0])
		recs = append(recs, fndb.FnRecord{
			Name:           op,
			Arity:          fndb.Exactly(2),
			Properties:     pure,
			Specializer:    binaryRule(op, op != "/"),
			Differentiator: derivatives[op],
			Result:         arithResult(op == "/"),
			Function:       host,
		})
		if op != "/" {
			recs = append(recs, fndb.FnRecord{
				Name:           "integer" + op,
				Arity:          fndb.Exactly(2),
				Properties:     pure,
				Differentiator: derivatives[op],
				Result:         fndb.ReturnsNtype(typex.Integer),
				Function:       host,
			})
		}
		for _, t := range allTiers {
			recs = append(recs, fndb.FnRecord{
				Name:           t.prefix + op,
				Arity:          fndb.Exactly(2),
				Properties:     pure,
				Differentiator: derivatives[op],
				Result:         fndb.ReturnsNtype(t.prim),
				Function:       coerced(t.host, host),
			})
		}
	}

	for _, u := range unaries {
		host := unaryHost(unaryHosts[u.name])
		class := unaryClasses[u.name]
		rec := fndb.FnRecord{
			Name:           u.name,
			Arity:          fndb.Exactly(1),
			Properties:     pure,
			Differentiator: derivatives[u.name],
			Result:         unaryResult(class),
			Function:       host,
		}
		if u.integers || u.rationals || len(u.tiers) > 0 {
			rec.Specializer = u.rule()
		}
		recs = append(recs, rec)

		if u.integers {
			recs = append(recs, fndb.FnRecord{
				Name:           "integer-" + u.name,
				Arity:          fndb.Exactly(1),
				Properties:     pure,
				Differentiator: derivatives[u.name],
				Result:         unaryResult(class),
				Function:       host,
			})
		}
		for _, t := range u.tiers {
			recs = append(recs, fndb.FnRecord{
				Name:           u.leaf(t),
				Arity:          fndb.Exactly(1),
				Properties:     pure,
				Differentiator: derivatives[u.name],
				Result:         fndb.ReturnsNtype(class(t.prim)),
				Function:       coerced(t.host, host),
			})
		}
	}

	recs = append(recs, fndb.FnRecord{
		Name:        "floor",
		Arity:       fndb.Arity{Min: 1, Max: 2},
		Properties:  pure,
		Specializer: floorRule,
		Result:      floorResult,
		Function:    floorHost,
	})
	for _, t := range realTiers {
		recs = append(recs, fndb.FnRecord{
			Name:       t.prefix + "-floor",
			Arity:      fndb.Exactly(2),
			Properties: pure,
			Result:     fndb.Returns(typex.Values{Required: []typex.Ntype{typex.Integer, t.prim}}),
			Function:   coerced(t.host, floorHost),
		})
	}

	lessHost := func(args []any) ([]any, error) {
		v, err := less(args[0], args[1])
		if err != nil {
			return nil, err
		}
		return []any{v}, nil
	}
	recs = append(recs, fndb.FnRecord{
		Name:        "<",
		Arity:       fndb.Exactly(2),
		Properties:  pure,
		Specializer: lessRule,
		Result:      fndb.ReturnsNtype(boolean),
		Function:    lessHost,
	})
	for _, t := range realTiers {
		recs = append(recs, fndb.FnRecord{
			Name:       t.prefix + "<",
			Arity:      fndb.Exactly(2),
			Properties: pure,
			Result:     fndb.ReturnsNtype(boolean),
			Function:   lessHost,
		})
	}

	for _, t := range allTiers {
		t := t
		recs = append(recs, fndb.FnRecord{
			Name:           t.coercion(),
			Arity:          fndb.Exactly(1),
			Properties:     pure,
			Differentiator: constant(int64(1)),
			Result:         fndb.ReturnsNtype(t.prim),
			Function: func(args []any) ([]any, error) {
				v, err := coerce(args[0], t.host)
				if err != nil {
					return nil, err
				}
				return []any{v}, nil
			},
		})
	}
	return recs
}

// Register adds every numeric operation to reg.
func Register(reg *fndb.Registry) error {
	for _, rec := range Records() {
		if err := reg.Register(rec); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a frozen registry of the numeric operations.
func NewRegistry() *fndb.Registry {
	reg := fndb.NewRegistry()
	if err := Register(reg); err != nil {
		panic(err)
	}
	reg.Freeze()
	return reg
}

func binaryHost(op byte) fndb.HostFunc {
	return func(args []any) ([]any, error) {
		v, err := arith(op, args[0], args[1])
		if err != nil {
			return nil, err
		}
		return []any{v}, nil
	}
}

func unaryHost(f func(any) (any, error)) fndb.HostFunc {
	return func(args []any) ([]any, error) {
		v, err := f(args[0])
		if err != nil {
			return nil, err
		}
		return []any{v}, nil
	}
}

func floorHost(args []any) ([]any, error) {
	if len(args) == 1 {
		return floor(args[0], int64(1))
	}
	return floor(args[0], args[1])
}

// coerced converts every argument to representation t before calling f.
func coerced(t tier, f fndb.HostFunc) fndb.HostFunc {
	return func(args []any) ([]any, error) {
		conv := make([]any, len(args))
		for i, arg := range args {
			v, err := coerce(arg, t)
			if err != nil {
				return nil, err
			}
			conv[i] = v
		}
		return f(conv)
	}
}
