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
	"math"
	"math/big"
	"testing"

	"github.com/apache/beam-ntype/pkg/ntype/core/descriptor"
	"github.com/apache/beam-ntype/internal/errors"
)

func TestArith(t *testing.T) {
	tests := []struct {
		op   byte
		a, b any
		want any
	}{
		{'+', int64(2), int64(3), int64(5)},
		{'-', int64(2), int64(3), int64(-1)},
		{'*', int64(math.MaxInt64), int64(2), new(big.Int).Mul(big.NewInt(math.MaxInt64), big.NewInt(2))},
		{'/', int64(4), int64(2), int64(2)},
		{'/', int64(1), int64(3), big.NewRat(1, 3)},
		{'+', big.NewRat(1, 2), big.NewRat(1, 2), int64(1)},
		{'+', int64(1), float32(0.5), float32(1.5)},
		{'*', float32(2), 0.25, 0.5},
		{'+', big.NewRat(1, 2), 1.0, 1.5},
		{'+', int64(1), complex64(1i), complex64(1 + 1i)},
		{'*', complex64(2), 1.5, complex128(3)},
		{'-', 1.0, complex128(1i), complex128(1 - 1i)},
	}
	for _, test := range tests {
		got, err := arith(test.op, test.a, test.b)
		if err != nil {
			t.Errorf("arith(%c, %v, %v) failed: %v", test.op, test.a, test.b, err)
			continue
		}
		if !descriptor.Eql(got, test.want) {
			t.Errorf("arith(%c, %v, %v) = %v (%T), want %v (%T)", test.op, test.a, test.b, got, got, test.want, test.want)
		}
	}
}

func TestArith_Errors(t *testing.T) {
	tests := []struct {
		op   byte
		a, b any
	}{
		{'/', int64(1), int64(0)},
		{'/', 1.0, 0.0},
		{'+', int64(1), descriptor.Sym("a")},
		{'+', "one", int64(1)},
		{'*', math.MaxFloat64, 2.0},
	}
	for _, test := range tests {
		if got, err := arith(test.op, test.a, test.b); err == nil {
			t.Errorf("arith(%c, %v, %v) = %v, want an error", test.op, test.a, test.b, got)
		}
	}
	if _, err := arith('/', int64(1), int64(0)); !errors.Is(err, errDivisionByZero) {
		t.Errorf("arith(/, 1, 0) = %v, want %v", err, errDivisionByZero)
	}
}

func TestUnaryHosts(t *testing.T) {
	tests := []struct {
		name string
		f    func(any) (any, error)
		v    any
		want any
	}{
		{"negate", negate, int64(math.MinInt64), new(big.Int).Neg(big.NewInt(math.MinInt64))},
		{"negate", negate, big.NewRat(1, 2), big.NewRat(-1, 2)},
		{"negate", negate, float32(1), float32(-1)},
		{"sin", unaryHosts["sin"], int64(0), float32(0)},
		{"exp", unaryHosts["exp"], 0.0, 1.0},
		{"cos", unaryHosts["cos"], 0.0, 1.0},
		{"exp", unaryHosts["exp"], complex128(0), complex128(1)},
		{"sqrt", sqrt, int64(4), float32(2)},
		{"sqrt", sqrt, -4.0, complex128(2i)},
		{"sqrt", sqrt, float32(-1), complex64(1i)},
		{"log", logarithm, 1.0, 0.0},
		{"abs", abs, int64(-3), int64(3)},
		{"abs", abs, big.NewRat(-1, 2), big.NewRat(1, 2)},
		{"abs", abs, complex128(3 + 4i), 5.0},
		{"abs", abs, complex64(3 + 4i), float32(5)},
		{"signum", signum, big.NewRat(-1, 2), int64(-1)},
		{"signum", signum, 0.0, 0.0},
		{"signum", signum, float32(7), float32(1)},
		{"signum", signum, complex128(2i), complex128(1i)},
	}
	for _, test := range tests {
		got, err := test.f(test.v)
		if err != nil {
			t.Errorf("%v(%v) failed: %v", test.name, test.v, err)
			continue
		}
		if !descriptor.Eql(got, test.want) {
			t.Errorf("%v(%v) = %v (%T), want %v (%T)", test.name, test.v, got, got, test.want, test.want)
		}
	}
	if _, err := logarithm(int64(0)); err == nil {
		t.Errorf("log(0) succeeded, want an error")
	}
	if _, err := unaryHosts["exp"](1000.0); err == nil {
		t.Errorf("exp(1000d0) succeeded, want an overflow error")
	}
}

func TestFloor(t *testing.T) {
	tests := []struct {
		a, b     any
		quo, rem any
	}{
		{int64(7), int64(2), int64(3), int64(1)},
		{int64(-7), int64(2), int64(-4), int64(1)},
		{int64(7), int64(-2), int64(-4), int64(-1)},
		{big.NewRat(7, 2), int64(1), int64(3), big.NewRat(1, 2)},
		{7.5, 2.0, int64(3), 1.5},
		{float32(-0.5), int64(1), int64(-1), float32(0.5)},
	}
	for _, test := range tests {
		got, err := floor(test.a, test.b)
		if err != nil {
			t.Errorf("floor(%v, %v) failed: %v", test.a, test.b, err)
			continue
		}
		if len(got) != 2 || !descriptor.Eql(got[0], test.quo) || !descriptor.Eql(got[1], test.rem) {
			t.Errorf("floor(%v, %v) = %v, want [%v %v]", test.a, test.b, got, test.quo, test.rem)
		}
	}
	for _, args := range [][2]any{{int64(1), int64(0)}, {complex128(1), 1.0}, {descriptor.Nil, int64(1)}} {
		if _, err := floor(args[0], args[1]); err == nil {
			t.Errorf("floor(%v, %v) succeeded, want an error", args[0], args[1])
		}
	}
}

func TestLess(t *testing.T) {
	tests := []struct {
		a, b any
		want descriptor.Symbol
	}{
		{int64(1), int64(2), descriptor.T},
		{int64(2), int64(1), descriptor.Nil},
		{big.NewRat(1, 3), 0.3333333333333333, descriptor.Nil},
		{0.3333333333333333, big.NewRat(1, 3), descriptor.T},
		{float32(0.1), 0.1, descriptor.Nil},
		{int64(1), int64(1), descriptor.Nil},
	}
	for _, test := range tests {
		got, err := less(test.a, test.b)
		if err != nil {
			t.Errorf("less(%v, %v) failed: %v", test.a, test.b, err)
			continue
		}
		if got != test.want {
			t.Errorf("less(%v, %v) = %v, want %v", test.a, test.b, got, test.want)
		}
	}
	if _, err := less(complex128(1), int64(2)); err == nil {
		t.Errorf("less of a complex succeeded, want an error")
	}
}

func TestCoerce(t *testing.T) {
	if got, err := coerce(big.NewRat(1, 4), tierSingle); err != nil || got != float32(0.25) {
		t.Errorf("coerce(1/4, single) = %v, %v, want 0.25f0", got, err)
	}
	if got, err := coerce(int64(2), tierComplexDouble); err != nil || got != complex128(2) {
		t.Errorf("coerce(2, complex double) = %v, %v, want #C(2d0 0d0)", got, err)
	}
	if _, err := coerce(complex64(1i), tierDouble); err == nil {
		t.Errorf("coerce of a complex to a real succeeded, want an error")
	}
	if _, err := coerce(1.0, tierRational); err == nil {
		t.Errorf("coerce of a float to a rational succeeded, want an error")
	}
}
