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

// Package fndb contains the function database: the registry of operation
// records consulted by the specializer and the differentiator, and the
// interfaces through which those engines and their rules manipulate
// caller-owned code.
package fndb

import (
	"github.com/apache/beam-ntype/pkg/ntype/core/typex"
)

// Wrapper is a caller-owned piece of code annotated with the ntypes of the
// values it computes. The engines never inspect a wrapper; they hand it
// back to the Strategy that produced it.
type Wrapper interface{}

// Strategy builds and describes wrappers. It is the entire extension point
// of the engines, which makes them independent of how a caller represents
// code.
type Strategy interface {
	// WrapConstant returns a wrapper for the literal v. Its first value
	// ntype must be (eql v).
	WrapConstant(v any) Wrapper
	// WrapFunction returns a wrapper for a call of fn on args that returns
	// values of the given values type.
	WrapFunction(fn string, args []Wrapper, result typex.Values) Wrapper
	// NthValueNtype returns the ntype of the nth value computed by w.
	NthValueNtype(w Wrapper, n int) typex.Ntype
	// Constant returns the literal w evaluates to, if w is a constant.
	// Only constants may be evaluated early or dropped, so code with
	// effects must never report one, whatever its values type.
	Constant(w Wrapper) (any, bool)
}

// Decomposer is optionally implemented by a Strategy whose wrappers can be
// taken apart again. It enables differentiation of whole expressions.
type Decomposer interface {
	// Decompose returns the operation and arguments of a call wrapper. It
	// returns false for leaves: constants and variables.
	Decompose(w Wrapper) (fn string, args []Wrapper, ok bool)
	// SameVariable reports whether w and v are the same variable.
	SameVariable(w, v Wrapper) bool
}

// Site is a call being rewritten by a rule.
//
// Call and Constant build new code for the rewritten call. Errors raised
// while doing so are sticky: after the first one, Call returns nil and the
// engine reports the error once the rule returns.
type Site interface {
	// Name returns the operation being rewritten.
	Name() string
	// Args returns the argument wrappers of the call.
	Args() []Wrapper
	// Ntype returns the first value ntype of argument i.
	Ntype(i int) typex.Ntype
	// Constant returns the literal value of argument i, if it is constant.
	Constant(i int) (any, bool)
	// NtypeOf returns the first value ntype of any wrapper.
	NtypeOf(w Wrapper) typex.Ntype

	// Call returns the specialized call of fn on args.
	Call(fn string, args ...Wrapper) Wrapper
	// Literal returns a constant wrapper for v.
	Literal(v any) Wrapper
	// Fail records err as the outcome of the rule.
	Fail(err error)
	// Err returns the first error recorded at the site.
	Err() error
}

// SpecializerRule rewrites a call to a narrower implementation. It returns
// false to abort, in which case the engine emits the generic call. Rules
// are normally built from typex.Subtypecase trees over the argument
// ntypes.
type SpecializerRule func(s Site) (Wrapper, bool)

// DifferentiatorRule returns the partial derivative of the call at s with
// respect to argument index, as a function of the arguments.
type DifferentiatorRule func(s Site, index int) (Wrapper, error)

// HostFunc evaluates an operation on literal arguments. It is used for
// constant folding and by reference evaluators.
type HostFunc func(args []any) ([]any, error)

// ResultFunc returns the values type of a call given the first value
// ntypes of its arguments. It must over-approximate the values the call
// can return.
type ResultFunc func(args []typex.Ntype) typex.Values

// Returns declares a fixed result values type.
func Returns(v typex.Values) ResultFunc {
	return func([]typex.Ntype) typex.Values { return v }
}

// ReturnsNtype declares a fixed single result ntype.
func ReturnsNtype(nt typex.Ntype) ResultFunc {
	return Returns(typex.SingleValue(nt))
}
