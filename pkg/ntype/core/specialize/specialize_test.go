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

package specialize

import (
	"sync"
	"testing"

	"github.com/apache/beam-ntype/pkg/ntype/core/fndb"
	"github.com/apache/beam-ntype/pkg/ntype/core/form"
	"github.com/apache/beam-ntype/pkg/ntype/core/typex"
	"github.com/apache/beam-ntype/internal/errors"
	"github.com/google/go-cmp/cmp"
)

func add(args []any) ([]any, error) {
	return []any{args[0].(int64) + args[1].(int64)}, nil
}

var errBoom = errors.New("boom")

// newRegistry returns an isolated registry of test operations.
func newRegistry() *fndb.Registry {
	reg := fndb.NewRegistry()
	reg.MustRegister(
		fndb.FnRecord{
			Name:       "add",
			Arity:      fndb.Exactly(2),
			Properties: fndb.Foldable | fndb.Movable,
			Result:     fndb.ReturnsNtype(typex.Integer),
			Function:   add,
			Specializer: func(s fndb.Site) (fndb.Wrapper, bool) {
				return typex.Subtypecase(s.Ntype(0), nil,
					typex.When(typex.Fixnum, func() (fndb.Wrapper, bool) {
						return s.Call("fixnum-add", s.Args()...), true
					}),
					typex.When(typex.Integer, func() (fndb.Wrapper, bool) {
						return s.Call("integer-add", s.Args()...), true
					}),
				)
			},
		},
		fndb.FnRecord{Name: "fixnum-add", Arity: fndb.Exactly(2), Result: fndb.ReturnsNtype(typex.Fixnum)},
		fndb.FnRecord{Name: "integer-add", Arity: fndb.Exactly(2), Result: fndb.ReturnsNtype(typex.Integer)},
		fndb.FnRecord{Name: "pure-add", Arity: fndb.Exactly(2), Properties: fndb.Movable, Function: add},
		fndb.FnRecord{
			Name:       "fails",
			Arity:      fndb.Exactly(1),
			Properties: fndb.Foldable,
			Function:   func([]any) ([]any, error) { return nil, errBoom },
		},
		fndb.FnRecord{
			Name:       "pair",
			Arity:      fndb.Exactly(1),
			Properties: fndb.Foldable,
			Function:   func(args []any) ([]any, error) { return []any{args[0], args[0]}, nil },
		},
		fndb.FnRecord{Name: "tick", Arity: fndb.Exactly(0), Result: fndb.ReturnsNtype(three)},
		fndb.FnRecord{Name: "three", Arity: fndb.Exactly(0), Properties: fndb.Movable, Result: fndb.ReturnsNtype(three)},
		fndb.FnRecord{Name: "id", Arity: fndb.Exactly(1), Properties: fndb.Movable, Result: fndb.ReturnsNtype(three)},
		fndb.FnRecord{
			Name:  "loop",
			Arity: fndb.Exactly(1),
			Specializer: func(s fndb.Site) (fndb.Wrapper, bool) {
				return s.Call("loop", s.Args()...), true
			},
		},
		fndb.FnRecord{
			Name:  "sticky",
			Arity: fndb.Exactly(1),
			Specializer: func(s fndb.Site) (fndb.Wrapper, bool) {
				s.Fail(errBoom)
				if w := s.Call("fixnum-add", s.Args()[0], s.Args()[0]); w != nil {
					return w, true
				}
				return s.Literal(int64(0)), true
			},
		},
	)
	reg.Freeze()
	return reg
}

var three = typex.NewEql(int64(3))

func variable(name string, nt typex.Ntype) fndb.Wrapper {
	return &form.Variable{Name: name, Ntype: nt}
}

func literal(v any) fndb.Wrapper {
	return form.Strategy{}.WrapConstant(v)
}

func TestSpecialize(t *testing.T) {
	tests := []struct {
		name string
		fn   string
		args []fndb.Wrapper
		want string
		nt   typex.Ntype
	}{
		{"fold", "add", []fndb.Wrapper{literal(2), literal(3)}, "5", typex.NewEql(int64(5))},
		{"first branch wins", "add", []fndb.Wrapper{variable("x", typex.Fixnum), literal(1)}, "(fixnum-add x 1)", typex.Fixnum},
		{"second branch", "add", []fndb.Wrapper{variable("x", typex.Integer), literal(1)}, "(integer-add x 1)", typex.Integer},
		{"abort", "add", []fndb.Wrapper{variable("x", typex.Real), literal(1)}, "(add x 1)", typex.Integer},
		{"not foldable", "pure-add", []fndb.Wrapper{literal(2), literal(3)}, "(pure-add 2 3)", typex.Universal},
		{"host error", "fails", []fndb.Wrapper{literal(2)}, "(fails 2)", typex.Universal},
		{"multiple values", "pair", []fndb.Wrapper{literal(2)}, "(pair 2)", typex.Universal},
		{"unregistered", "frob", []fndb.Wrapper{literal(2), variable("x", typex.Fixnum)}, "(frob 2 x)", typex.Universal},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			e := New(newRegistry(), form.Strategy{})
			w, err := e.Specialize(test.fn, test.args)
			if err != nil {
				t.Fatalf("Specialize(%v) failed: %v", test.fn, err)
			}
			x := w.(form.Expr)
			if x.String() != test.want {
				t.Errorf("Specialize(%v, %v) = %v, want %v", test.fn, test.args, x, test.want)
			}
			if nt := x.Values().NthValue(0); !typex.Equal(nt, test.nt) {
				t.Errorf("Specialize(%v, %v) returns %v, want %v", test.fn, test.args, nt, test.nt)
			}
		})
	}
}

// tick returns an unspecialized call of an operation with effects whose
// only possible value is 3.
func tick() fndb.Wrapper {
	return &form.Call{Op: "tick", Result: typex.SingleValue(three)}
}

func TestSpecialize_KeepsEffects(t *testing.T) {
	tests := []struct {
		name  string
		fn    string
		args  []fndb.Wrapper
		want  string
		folds int64
	}{
		{"not movable", "tick", nil, "(tick)", 0},
		{"argument not movable", "add", []fndb.Wrapper{tick(), literal(1)}, "(fixnum-add (tick) 1)", 0},
		{"declared singleton", "add", []fndb.Wrapper{variable("x", three), literal(1)}, "(fixnum-add x 1)", 0},
		{"movable singleton", "three", nil, "3", 1},
		{"movable on constant", "id", []fndb.Wrapper{literal(7)}, "3", 1},
		{"movable on effects", "id", []fndb.Wrapper{tick()}, "(id (tick))", 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			e := New(newRegistry(), form.Strategy{})
			w, err := e.Specialize(test.fn, test.args)
			if err != nil {
				t.Fatalf("Specialize(%v) failed: %v", test.fn, err)
			}
			if got := w.(form.Expr).String(); got != test.want {
				t.Errorf("Specialize(%v, %v) = %v, want %v", test.fn, test.args, got, test.want)
			}
			if got := e.Stats().Folds; got != test.folds {
				t.Errorf("Specialize(%v, %v) folded %d calls, want %d", test.fn, test.args, got, test.folds)
			}
		})
	}
}

func TestSpecialize_Errors(t *testing.T) {
	e := New(newRegistry(), form.Strategy{}, WithMaxDepth(8))
	x := variable("x", typex.Fixnum)

	var ae *fndb.ArityError
	if _, err := e.Specialize("add", []fndb.Wrapper{x}); !errors.As(err, &ae) {
		t.Errorf("Specialize(add, x) = %v, want an ArityError", err)
	} else if d := cmp.Diff(&fndb.ArityError{Name: "add", Arity: fndb.Exactly(2), Got: 1}, ae); d != "" {
		t.Errorf("ArityError diff (-want, +got):\n%v", d)
	}

	var de *DepthError
	if _, err := e.Specialize("loop", []fndb.Wrapper{x}); !errors.As(err, &de) {
		t.Errorf("Specialize(loop) = %v, want a DepthError", err)
	} else if de.Depth != 8 {
		t.Errorf("DepthError.Depth = %d, want 8", de.Depth)
	}

	if _, err := e.Specialize("sticky", []fndb.Wrapper{x}); !errors.Is(err, errBoom) {
		t.Errorf("Specialize(sticky) = %v, want %v", err, errBoom)
	}
}

func TestSite(t *testing.T) {
	e := New(newRegistry(), form.Strategy{})
	s := e.NewSite("add", []fndb.Wrapper{variable("x", typex.Fixnum), literal(4)})

	if s.Name() != "add" || len(s.Args()) != 2 {
		t.Errorf("NewSite(add) = %v %v", s.Name(), s.Args())
	}
	if nt := s.Ntype(0); nt != typex.Fixnum {
		t.Errorf("Ntype(0) = %v, want fixnum", nt)
	}
	if _, ok := s.Constant(0); ok {
		t.Errorf("Constant(0) of a variable succeeded")
	}
	if v, ok := s.Constant(1); !ok || v != int64(4) {
		t.Errorf("Constant(1) = %v, %v, want 4", v, ok)
	}
	if got := s.Call("add", s.Args()[1], s.Literal(int64(1))).(form.Expr).String(); got != "5" {
		t.Errorf("Call(add, 4, 1) = %v, want 5", got)
	}

	s.Fail(errBoom)
	s.Fail(errors.New("second"))
	if !errors.Is(s.Err(), errBoom) {
		t.Errorf("Err() = %v, want the first failure", s.Err())
	}
	if w := s.Call("add", s.Args()...); w != nil {
		t.Errorf("Call after Fail = %v, want nil", w)
	}
}

func TestStats(t *testing.T) {
	e := New(newRegistry(), form.Strategy{})
	x := variable("x", typex.Fixnum)
	calls := [][]fndb.Wrapper{
		{literal(1), literal(2)},
		{x, x},
		{variable("r", typex.Real), x},
	}
	for _, args := range calls {
		if _, err := e.Specialize("add", args); err != nil {
			t.Fatalf("Specialize(add) failed: %v", err)
		}
	}
	// The rule's nested call of fixnum-add counts as a call and a fallback.
	want := Stats{Calls: 4, Folds: 1, Rules: 1, Aborts: 1, Fallbacks: 2}
	if d := cmp.Diff(want, e.Stats()); d != "" {
		t.Errorf("Stats() diff (-want, +got):\n%v", d)
	}
}

func TestOptions(t *testing.T) {
	if got := New(nil, form.Strategy{}).MaxDepth(); got != DefaultMaxDepth {
		t.Errorf("MaxDepth() = %d, want %d", got, DefaultMaxDepth)
	}
	if got := New(nil, form.Strategy{}, WithMaxDepth(0)).MaxDepth(); got != DefaultMaxDepth {
		t.Errorf("WithMaxDepth(0): MaxDepth() = %d, want %d", got, DefaultMaxDepth)
	}
	if got := New(nil, form.Strategy{}, WithMaxDepth(3)).MaxDepth(); got != 3 {
		t.Errorf("WithMaxDepth(3): MaxDepth() = %d, want 3", got)
	}
}

func TestSpecialize_Concurrent(t *testing.T) {
	e := New(newRegistry(), form.Strategy{})
	x := variable("x", typex.Integer)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w, err := e.Specialize("add", []fndb.Wrapper{x, literal(int64(i))})
			if err != nil {
				t.Errorf("Specialize failed: %v", err)
				return
			}
			if got := w.(form.Expr).(*form.Call).Op; got != "integer-add" {
				t.Errorf("Specialize(add x %d) calls %v, want integer-add", i, got)
			}
		}(i)
	}
	wg.Wait()
	if got := e.Stats().Calls; got != 32 {
		t.Errorf("Stats().Calls = %d, want 32", got)
	}
}
