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
	"testing"

	"github.com/apache/beam-ntype/pkg/ntype/core/descriptor"
	"github.com/apache/beam-ntype/pkg/ntype/core/fndb"
	"github.com/apache/beam-ntype/pkg/ntype/core/typex"
	"github.com/google/go-cmp/cmp"
)

func TestRead(t *testing.T) {
	tests := []struct {
		text string
		want string
		vars []string
		ops  []string
	}{
		{"x", "x", []string{"x"}, nil},
		{"42", "42", nil, nil},
		{"nil", "NIL", nil, nil},
		{"'(1 2)", "(1 2)", nil, nil},
		{"(SIN X)", "(sin x)", []string{"x"}, []string{"sin"}},
		{"(+ (the double-float x) (* 2 y))", "(+ x (* 2 y))", []string{"x", "y"}, []string{"+", "*"}},
		{"(f x x 1.5d0)", "(f x x 1.5d0)", []string{"x"}, []string{"f"}},
	}
	for _, test := range tests {
		x, err := Read(test.text)
		if err != nil {
			t.Errorf("Read(%q) failed: %v", test.text, err)
			continue
		}
		if got := x.String(); got != test.want {
			t.Errorf("Read(%q) = %v, want %v", test.text, got, test.want)
		}
		var vars []string
		for _, v := range Variables(x) {
			vars = append(vars, v.Name)
		}
		if d := cmp.Diff(test.vars, vars); d != "" {
			t.Errorf("Variables(%v) diff (-want, +got):\n%v", x, d)
		}
		if d := cmp.Diff(test.ops, Ops(x)); d != "" {
			t.Errorf("Ops(%v) diff (-want, +got):\n%v", x, d)
		}
	}
}

func TestRead_The(t *testing.T) {
	x := MustRead("(the (integer 0 255) n)")
	v, ok := x.(*Variable)
	if !ok {
		t.Fatalf("Read(the) = %T, want a variable", x)
	}
	if v.Name != "n" || v.Ntype != typex.UnsignedByte8 {
		t.Errorf("Read(the) = %v of %v, want n of (unsigned-byte 8)", v.Name, v.Ntype)
	}
	if got := v.Values(); !got.Equal(typex.SingleValue(typex.UnsignedByte8)) {
		t.Errorf("Values() = %v, want a single (unsigned-byte 8)", got)
	}
}

func TestRead_Errors(t *testing.T) {
	for _, text := range []string{
		"(sin x",
		"((lambda (x) x) 1)",
		"(quote)",
		"(the integer)",
		"(the integer 1)",
		"(the (eql) x)",
	} {
		if x, err := Read(text); err == nil {
			t.Errorf("Read(%q) = %v, want an error", text, x)
		}
	}
}

func TestStrategy(t *testing.T) {
	var s Strategy
	lit := s.WrapConstant(int32(3))
	if got := s.NthValueNtype(lit, 0); !typex.Equal(got, typex.NewEql(int64(3))) {
		t.Errorf("NthValueNtype(3, 0) = %v, want (eql 3)", got)
	}
	if v, ok := s.Constant(lit); !ok || v != int64(3) {
		t.Errorf("Constant(3) = %v, %v, want 3", v, ok)
	}
	three := typex.SingleValue(typex.NewEql(int64(3)))
	for _, w := range []fndb.Wrapper{
		&Variable{Name: "k", Ntype: typex.NewEql(int64(3))},
		&Call{Op: "tick", Result: three},
	} {
		if v, ok := s.Constant(w); ok {
			t.Errorf("Constant(%v) = %v, want no constant", w, v)
		}
	}

	x := &Variable{Name: "x", Ntype: typex.DoubleFloat}
	result := typex.Values{Required: []typex.Ntype{typex.Integer, typex.DoubleFloat}}
	call := s.WrapFunction("floor", []fndb.Wrapper{x, lit}, result)
	if got := s.NthValueNtype(call, 1); got != typex.DoubleFloat {
		t.Errorf("NthValueNtype(call, 1) = %v, want double-float", got)
	}
	if got := s.NthValueNtype(call, 2); got != typex.Null {
		t.Errorf("NthValueNtype(call, 2) = %v, want null", got)
	}

	fn, args, ok := s.Decompose(call)
	if !ok || fn != "floor" || len(args) != 2 || args[0] != fndb.Wrapper(x) {
		t.Errorf("Decompose(%v) = %v %v %v", call, fn, args, ok)
	}
	if _, _, ok := s.Decompose(x); ok {
		t.Errorf("Decompose(x) succeeded, want a leaf")
	}
	if !s.SameVariable(x, &Variable{Name: "x"}) || s.SameVariable(x, lit) {
		t.Errorf("SameVariable compares the wrong things")
	}
}

// rename is a Specializer prefixing every operation with my-.
type rename struct{}

func (rename) Specialize(fn string, args []fndb.Wrapper) (fndb.Wrapper, error) {
	return Strategy{}.WrapFunction("my-"+fn, args, typex.SingleValue(typex.Number)), nil
}

func TestSpecialize_Walk(t *testing.T) {
	x := MustRead("(f (g x) 1 (h))")
	got, err := Specialize(rename{}, x)
	if err != nil {
		t.Fatalf("Specialize failed: %v", err)
	}
	if want := "(my-f (my-g x) 1 (my-h))"; got.String() != want {
		t.Errorf("Specialize(%v) = %v, want %v", x, got, want)
	}
	if leaf, _ := Specialize(rename{}, MustRead("x")); leaf.String() != "x" {
		t.Errorf("Specialize(x) = %v, want x", leaf)
	}
}

func TestEval(t *testing.T) {
	reg := fndb.NewRegistry()
	reg.MustRegister(
		fndb.FnRecord{Name: "add", Arity: fndb.Exactly(2), Function: func(args []any) ([]any, error) {
			return []any{args[0].(int64) + args[1].(int64)}, nil
		}},
		fndb.FnRecord{Name: "both", Arity: fndb.Exactly(1), Function: func(args []any) ([]any, error) {
			return []any{args[0], args[0]}, nil
		}},
		fndb.FnRecord{Name: "nothing", Arity: fndb.Exactly(0), Function: func([]any) ([]any, error) {
			return nil, nil
		}},
		fndb.FnRecord{Name: "opaque", Arity: fndb.AtLeast(0)},
	)

	tests := []struct {
		text string
		want []any
	}{
		{"(add x 2)", []any{int64(7)}},
		{"(add (both x) (both 1))", []any{int64(6)}},
		{"(both (add x x))", []any{int64(10), int64(10)}},
		{"(both (nothing))", []any{descriptor.Nil, descriptor.Nil}},
	}
	env := map[string]any{"x": 5}
	for _, test := range tests {
		got, err := Eval(reg, MustRead(test.text), env)
		if err != nil {
			t.Errorf("Eval(%v) failed: %v", test.text, err)
			continue
		}
		if d := cmp.Diff(test.want, got); d != "" {
			t.Errorf("Eval(%v) diff (-want, +got):\n%v", test.text, d)
		}
	}

	for _, text := range []string{"(add y 1)", "(add 1)", "(opaque)", "(missing 1)"} {
		if _, err := Eval(reg, MustRead(text), env); err == nil {
			t.Errorf("Eval(%v) succeeded, want an error", text)
		}
	}
}
