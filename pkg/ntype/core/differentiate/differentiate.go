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

// Package differentiate derives symbolic derivatives of calls from the
// differentiator rules of a function database.
//
// A rule gives the partial derivative of an operation with respect to one
// argument, as code built from the call's arguments. The engine combines
// partials with the derivatives of the arguments by the chain rule,
//
//	d f(a, b) = df/da * da + df/db * db
//
// and builds every product and sum through a specialize.Engine, so the
// result is folded and narrowed like any other specialized code.
package differentiate

import (
	"context"
	"fmt"

	"github.com/apache/beam-ntype/pkg/ntype/core/descriptor"
	"github.com/apache/beam-ntype/pkg/ntype/core/fndb"
	"github.com/apache/beam-ntype/pkg/ntype/core/specialize"
	"github.com/apache/beam-ntype/internal/errors"
	"github.com/apache/beam-ntype/pkg/ntype/log"
)

// NotDifferentiableError reports an operation without a differentiator
// rule. There is no generic derivative to fall back on; callers decide
// what to do instead.
type NotDifferentiableError struct {
	Name  string
	Index int
}

func (e *NotDifferentiableError) Error() string {
	return fmt.Sprintf("%v is not differentiable with respect to argument %d", e.Name, e.Index)
}

// Option configures an Engine.
type Option func(*Engine)

// WithOperators sets the operations used to sum and multiply terms of the
// chain rule. They default to + and *.
func WithOperators(add, mul string) Option {
	return func(e *Engine) {
		e.add, e.mul = add, mul
	}
}

// Engine differentiates calls. It shares the registry and strategy of its
// specializer.
type Engine struct {
	spec     *specialize.Engine
	add, mul string
}

// New returns an engine building derivatives through spec.
func New(spec *specialize.Engine, opts ...Option) *Engine {
	e := &Engine{spec: spec, add: "+", mul: "*"}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Differentiate returns the partial derivative of fn applied to args with
// respect to args[index].
func (e *Engine) Differentiate(fn string, args []fndb.Wrapper, index int) (fndb.Wrapper, error) {
	rec := e.spec.Registry().Ensure(fn)
	if err := rec.CheckArity(len(args)); err != nil {
		return nil, errors.WithContextf(err, "differentiating %v", fn)
	}
	if index < 0 || index >= len(args) {
		return nil, errors.Errorf("differentiating %v: argument index %d out of range [0, %d)", fn, index, len(args))
	}
	if rec.Differentiator == nil {
		return nil, &NotDifferentiableError{Name: fn, Index: index}
	}

	s := e.spec.NewSite(fn, args)
	w, err := rec.Differentiator(s, index)
	if err == nil {
		err = s.Err()
	}
	if err != nil {
		return nil, errors.WithContextf(err, "differentiating %v with respect to argument %d", fn, index)
	}
	return w, nil
}

// Chain returns the derivative of fn applied to args, given the
// derivatives of the arguments. A nil or zero argument derivative marks
// an argument that does not depend on the variable; its partial is never
// computed.
func (e *Engine) Chain(fn string, args, dargs []fndb.Wrapper) (fndb.Wrapper, error) {
	if len(dargs) != len(args) {
		return nil, errors.Errorf("differentiating %v: %d argument derivatives for %d arguments", fn, len(dargs), len(args))
	}
	var terms []fndb.Wrapper
	for i, da := range dargs {
		if da == nil || e.isConstant(da, 0) {
			continue
		}
		partial, err := e.Differentiate(fn, args, i)
		if err != nil {
			return nil, err
		}
		term, err := e.product(partial, da)
		if err != nil {
			return nil, err
		}
		if term != nil {
			terms = append(terms, term)
		}
	}
	return e.sum(terms)
}

// DifferentiateForm returns the derivative of the code w with respect to
// the variable v. The engine's strategy must implement fndb.Decomposer.
func (e *Engine) DifferentiateForm(w, v fndb.Wrapper) (fndb.Wrapper, error) {
	d, ok := e.spec.Strategy().(fndb.Decomposer)
	if !ok {
		return nil, errors.Errorf("differentiating code: strategy %T cannot decompose code", e.spec.Strategy())
	}
	return e.form(d, w, v, 0)
}

func (e *Engine) form(d fndb.Decomposer, w, v fndb.Wrapper, depth int) (fndb.Wrapper, error) {
	if depth > e.spec.MaxDepth() {
		return nil, &specialize.DepthError{Name: "derivative", Depth: e.spec.MaxDepth()}
	}
	if d.SameVariable(w, v) {
		return e.literal(1), nil
	}
	fn, args, ok := d.Decompose(w)
	if !ok {
		return e.literal(0), nil
	}
	dargs := make([]fndb.Wrapper, len(args))
	for i, arg := range args {
		da, err := e.form(d, arg, v, depth+1)
		if err != nil {
			return nil, err
		}
		dargs[i] = da
	}
	return e.Chain(fn, args, dargs)
}

// product multiplies a partial by an argument derivative, eliding exact
// ones. It returns nil for a zero partial.
func (e *Engine) product(partial, da fndb.Wrapper) (fndb.Wrapper, error) {
	switch {
	case e.isConstant(partial, 0):
		return nil, nil
	case e.isConstant(da, 1):
		return partial, nil
	case e.isConstant(partial, 1):
		return da, nil
	}
	return e.spec.Specialize(e.mul, []fndb.Wrapper{partial, da})
}

func (e *Engine) sum(terms []fndb.Wrapper) (fndb.Wrapper, error) {
	if len(terms) == 0 {
		return e.literal(0), nil
	}
	acc := terms[0]
	for _, t := range terms[1:] {
		w, err := e.spec.Specialize(e.add, []fndb.Wrapper{acc, t})
		if err != nil {
			return nil, err
		}
		acc = w
	}
	log.Debugf(context.Background(), "Summed %d chain rule terms", len(terms))
	return acc, nil
}

func (e *Engine) literal(n int64) fndb.Wrapper {
	return e.spec.Strategy().WrapConstant(n)
}

// isConstant reports whether w is the constant exact integer n, as told by
// the strategy. Float zeros are kept: they carry a representation. Code
// that merely has a singleton type is kept too, since it may have effects.
func (e *Engine) isConstant(w fndb.Wrapper, n int64) bool {
	v, ok := e.spec.Strategy().Constant(w)
	return ok && descriptor.Eql(v, n)
}
