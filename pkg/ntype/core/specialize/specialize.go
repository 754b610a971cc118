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

// Package specialize rewrites calls of generic operations into the
// narrowest applicable concrete operations, given the ntypes of their
// arguments.
//
// For each call the engine consults the operation's record in a
// fndb.Registry: calls of foldable operations on constants are evaluated
// on the spot, calls with a specializer rule are narrowed by the rule, and
// everything else becomes a call of the operation itself, typed by the
// record's declared result. Whether an argument is constant is up to the
// Strategy; a singleton values type alone never makes code constant.
package specialize

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/apache/beam-ntype/pkg/ntype/core/fndb"
	"github.com/apache/beam-ntype/pkg/ntype/core/typex"
	"github.com/apache/beam-ntype/internal/errors"
	"github.com/apache/beam-ntype/pkg/ntype/log"
)

// DefaultMaxDepth is the default bound on the nesting of rule calls.
const DefaultMaxDepth = 256

// DepthError reports a specialization nested deeper than the engine's
// depth ceiling, usually rules calling each other in a cycle.
type DepthError struct {
	Name  string
	Depth int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("specializing %v: nesting exceeds depth %d", e.Name, e.Depth)
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxDepth sets the depth ceiling. Values below 1 are ignored.
func WithMaxDepth(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxDepth = n
		}
	}
}

// Engine specializes calls. It holds no state besides its configuration
// and counters, and is safe for concurrent use as long as its Strategy is.
type Engine struct {
	reg      *fndb.Registry
	strategy fndb.Strategy
	maxDepth int

	calls, folds, rules, aborts, fallbacks atomic.Int64
}

// New returns an engine specializing calls of the operations in reg, with
// code built through s.
func New(reg *fndb.Registry, s fndb.Strategy, opts ...Option) *Engine {
	e := &Engine{reg: reg, strategy: s, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the registry consulted by the engine.
func (e *Engine) Registry() *fndb.Registry { return e.reg }

// Strategy returns the strategy building the engine's wrappers.
func (e *Engine) Strategy() fndb.Strategy { return e.strategy }

// MaxDepth returns the depth ceiling.
func (e *Engine) MaxDepth() int { return e.maxDepth }

// Specialize returns code computing fn applied to args. The values type of
// the result always includes every value the call can return.
func (e *Engine) Specialize(fn string, args []fndb.Wrapper) (fndb.Wrapper, error) {
	w, err := e.specialize(fn, args, 0)
	if err != nil {
		return nil, errors.WithContextf(err, "specializing %v", fn)
	}
	return w, nil
}

func (e *Engine) specialize(fn string, args []fndb.Wrapper, depth int) (fndb.Wrapper, error) {
	if depth > e.maxDepth {
		return nil, &DepthError{Name: fn, Depth: e.maxDepth}
	}
	e.calls.Add(1)

	rec := e.reg.Ensure(fn)
	if err := rec.CheckArity(len(args)); err != nil {
		return nil, err
	}

	if w, ok := e.fold(rec, args); ok {
		e.folds.Add(1)
		return w, nil
	}
	if w, ok := e.settle(rec, args); ok {
		e.folds.Add(1)
		return w, nil
	}

	if rec.Specializer != nil {
		s := &Site{e: e, name: fn, args: args, depth: depth}
		w, ok := rec.Specializer(s)
		if s.err != nil {
			return nil, s.err
		}
		if ok && w != nil {
			e.rules.Add(1)
			return w, nil
		}
		e.aborts.Add(1)
	}

	e.fallbacks.Add(1)
	return e.strategy.WrapFunction(fn, args, rec.ResultValues(e.ntypes(args))), nil
}

// fold evaluates a call of a foldable operation on constant arguments.
// Only calls returning exactly one value are folded; a host error leaves
// the call to run, and fail, at run time.
func (e *Engine) fold(rec *fndb.FnRecord, args []fndb.Wrapper) (fndb.Wrapper, bool) {
	if !rec.CanFold() {
		return nil, false
	}
	vals, ok := e.constants(args)
	if !ok {
		return nil, false
	}
	out, err := rec.Function(vals)
	if err != nil {
		log.Debugf(context.Background(), "Not folding %v%v: %v", rec.Name, vals, err)
		return nil, false
	}
	if len(out) != 1 {
		return nil, false
	}
	return e.strategy.WrapConstant(out[0]), true
}

// settle replaces a call of a movable operation on constant arguments by
// its value when the declared result admits a single value. Calls of
// operations that are not movable are always kept, since running them
// may be observable.
func (e *Engine) settle(rec *fndb.FnRecord, args []fndb.Wrapper) (fndb.Wrapper, bool) {
	if !rec.Properties.Has(fndb.Movable) {
		return nil, false
	}
	if _, ok := e.constants(args); !ok {
		return nil, false
	}
	vt := rec.ResultValues(e.ntypes(args))
	if len(vt.Required) != 1 || len(vt.Optional) != 0 || vt.Rest != nil {
		return nil, false
	}
	v, ok := typex.ConstantValue(vt.Required[0])
	if !ok {
		return nil, false
	}
	return e.strategy.WrapConstant(v), true
}

// constants returns the literal values of args, if they are all constant.
func (e *Engine) constants(args []fndb.Wrapper) ([]any, bool) {
	vals := make([]any, len(args))
	for i, arg := range args {
		v, ok := e.strategy.Constant(arg)
		if !ok {
			return nil, false
		}
		vals[i] = v
	}
	return vals, true
}

func (e *Engine) ntypes(args []fndb.Wrapper) []typex.Ntype {
	ret := make([]typex.Ntype, len(args))
	for i, arg := range args {
		ret[i] = e.strategy.NthValueNtype(arg, 0)
	}
	return ret
}

// NewSite returns a site for a call of fn on args, for rules run outside
// of Specialize.
func (e *Engine) NewSite(fn string, args []fndb.Wrapper) *Site {
	return &Site{e: e, name: fn, args: args}
}

// Stats counts the outcomes of specializations.
type Stats struct {
	// Calls is the number of calls specialized, nested ones included.
	Calls int64
	// Folds is the number of calls evaluated at analysis time.
	Folds int64
	// Rules is the number of calls narrowed by a rule.
	Rules int64
	// Aborts is the number of rules that gave up.
	Aborts int64
	// Fallbacks is the number of generic calls emitted.
	Fallbacks int64
}

// Stats returns the engine's counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Calls:     e.calls.Load(),
		Folds:     e.folds.Load(),
		Rules:     e.rules.Load(),
		Aborts:    e.aborts.Load(),
		Fallbacks: e.fallbacks.Load(),
	}
}
