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

package form

import (
	"github.com/apache/beam-ntype/pkg/ntype/core/descriptor"
	"github.com/apache/beam-ntype/pkg/ntype/core/fndb"
	"github.com/apache/beam-ntype/pkg/ntype/core/typex"
)

// Strategy builds expression trees. It implements fndb.Strategy and
// fndb.Decomposer.
type Strategy struct{}

var (
	_ fndb.Strategy   = Strategy{}
	_ fndb.Decomposer = Strategy{}
)

// WrapConstant returns a literal.
func (Strategy) WrapConstant(v any) fndb.Wrapper {
	return &Literal{Value: descriptor.Canonical(v)}
}

// WrapFunction returns a call.
func (Strategy) WrapFunction(fn string, args []fndb.Wrapper, result typex.Values) fndb.Wrapper {
	return &Call{Op: fn, Args: exprs(args), Result: result}
}

// NthValueNtype returns the ntype of the nth value of an expression.
func (Strategy) NthValueNtype(w fndb.Wrapper, n int) typex.Ntype {
	return w.(Expr).Values().NthValue(n)
}

// Constant returns the value of a literal. Variables and calls are never
// constant, whatever their declared type.
func (Strategy) Constant(w fndb.Wrapper) (any, bool) {
	if l, ok := w.(*Literal); ok {
		return l.Value, true
	}
	return nil, false
}

// Decompose returns the operation and arguments of a call.
func (Strategy) Decompose(w fndb.Wrapper) (string, []fndb.Wrapper, bool) {
	c, ok := w.(*Call)
	if !ok {
		return "", nil, false
	}
	return c.Op, Wrappers(c.Args), true
}

// SameVariable reports whether w and v are variables of the same name.
func (Strategy) SameVariable(w, v fndb.Wrapper) bool {
	x, ok := w.(*Variable)
	y, ok2 := v.(*Variable)
	return ok && ok2 && x.Name == y.Name
}

// Wrappers converts expressions to wrappers.
func Wrappers(xs []Expr) []fndb.Wrapper {
	ret := make([]fndb.Wrapper, len(xs))
	for i, x := range xs {
		ret[i] = x
	}
	return ret
}

func exprs(ws []fndb.Wrapper) []Expr {
	ret := make([]Expr, len(ws))
	for i, w := range ws {
		ret[i] = w.(Expr)
	}
	return ret
}

// Specializer is the part of a specialize.Engine used by Specialize.
type Specializer interface {
	Specialize(fn string, args []fndb.Wrapper) (fndb.Wrapper, error)
}

// Specialize rebuilds x bottom up, specializing every call. The engine
// must build its wrappers with Strategy.
func Specialize(s Specializer, x Expr) (Expr, error) {
	c, ok := x.(*Call)
	if !ok {
		return x, nil
	}
	args := make([]fndb.Wrapper, len(c.Args))
	for i, arg := range c.Args {
		w, err := Specialize(s, arg)
		if err != nil {
			return nil, err
		}
		args[i] = w
	}
	w, err := s.Specialize(c.Op, args)
	if err != nil {
		return nil, err
	}
	return w.(Expr), nil
}
