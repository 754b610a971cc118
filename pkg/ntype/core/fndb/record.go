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

package fndb

import (
	"fmt"
	"strings"

	"github.com/apache/beam-ntype/pkg/ntype/core/typex"
)

// Unbounded is the Max of an arity without an upper bound.
const Unbounded = -1

// Arity bounds the number of arguments an operation accepts.
type Arity struct {
	Min, Max int
}

// Exactly returns the arity of n arguments.
func Exactly(n int) Arity { return Arity{n, n} }

// AtLeast returns the arity of n or more arguments.
func AtLeast(n int) Arity { return Arity{n, Unbounded} }

// Check returns an *ArityError if n arguments are not accepted.
func (a Arity) Check(n int) error {
	if n < a.Min || (a.Max != Unbounded && n > a.Max) {
		return &ArityError{Arity: a, Got: n}
	}
	return nil
}

func (a Arity) String() string {
	switch {
	case a.Max == Unbounded:
		return fmt.Sprintf("at least %d", a.Min)
	case a.Min == a.Max:
		return fmt.Sprintf("%d", a.Min)
	default:
		return fmt.Sprintf("%d to %d", a.Min, a.Max)
	}
}

// ArityError reports a call with an argument count outside the arity of
// the operation. Calls are never truncated or padded.
type ArityError struct {
	Name  string
	Arity Arity
	Got   int
}

func (e *ArityError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("wrong number of arguments: got %d, want %v", e.Got, e.Arity)
	}
	return fmt.Sprintf("wrong number of arguments to %v: got %d, want %v", e.Name, e.Got, e.Arity)
}

// Properties is a set of facts about an operation.
type Properties uint8

const (
	// Foldable operations are pure, deterministic and safe to evaluate at
	// analysis time on constant arguments.
	Foldable Properties = 1 << iota
	// Movable operations have no observable side effects and may be
	// reordered or duplicated.
	Movable
)

// Has reports whether p includes every property of q.
func (p Properties) Has(q Properties) bool {
	return p&q == q
}

func (p Properties) String() string {
	var names []string
	if p.Has(Foldable) {
		names = append(names, "foldable")
	}
	if p.Has(Movable) {
		names = append(names, "movable")
	}
	return "{" + strings.Join(names, ",") + "}"
}

// FnRecord describes one operation. Records are immutable once
// registered; registering the same name again replaces the whole record.
type FnRecord struct {
	Name       string
	Arity      Arity
	Properties Properties

	// Specializer, if set, narrows calls of the operation.
	Specializer SpecializerRule
	// Differentiator, if set, computes partial derivatives of calls.
	Differentiator DifferentiatorRule
	// Result describes the values of a call that is not narrowed. If nil,
	// any number of values of any type is assumed.
	Result ResultFunc
	// Function evaluates the operation on literals. Required for folding.
	Function HostFunc
}

// ResultValues returns the values type of a call of the operation on
// arguments of the given ntypes.
func (r *FnRecord) ResultValues(args []typex.Ntype) typex.Values {
	if r.Result == nil {
		return typex.AnyValues
	}
	return r.Result(args)
}

// CheckArity returns an *ArityError naming the operation if it does not
// accept n arguments.
func (r *FnRecord) CheckArity(n int) error {
	if err := r.Arity.Check(n); err != nil {
		err.(*ArityError).Name = r.Name
		return err
	}
	return nil
}

// CanFold reports whether calls on constant arguments may be evaluated at
// analysis time.
func (r *FnRecord) CanFold() bool {
	return r.Properties.Has(Foldable) && r.Function != nil
}

// opaque returns the default record of an operation nothing is known about.
func opaque(name string) *FnRecord {
	return &FnRecord{Name: name, Arity: AtLeast(0)}
}
