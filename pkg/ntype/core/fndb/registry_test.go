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
	"sync"
	"testing"

	"github.com/apache/beam-ntype/pkg/ntype/core/typex"
	"github.com/apache/beam-ntype/internal/errors"
	"github.com/apache/beam-ntype/pkg/ntype/log"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestArity_Check(t *testing.T) {
	tests := []struct {
		arity Arity
		n     int
		ok    bool
	}{
		{Exactly(2), 2, true},
		{Exactly(2), 1, false},
		{Exactly(2), 3, false},
		{AtLeast(1), 1, true},
		{AtLeast(1), 100, true},
		{AtLeast(1), 0, false},
		{Arity{1, 2}, 2, true},
		{Arity{1, 2}, 3, false},
	}
	for _, test := range tests {
		err := test.arity.Check(test.n)
		if (err == nil) != test.ok {
			t.Errorf("%v.Check(%d) = %v, want ok=%v", test.arity, test.n, err, test.ok)
		}
		var ae *ArityError
		if err != nil && !errors.As(err, &ae) {
			t.Errorf("%v.Check(%d) = %v, want an *ArityError", test.arity, test.n, err)
		}
	}
}

func TestFnRecord_CheckArity(t *testing.T) {
	rec := &FnRecord{Name: "sin", Arity: Exactly(1)}
	err := rec.CheckArity(2)
	var ae *ArityError
	if !errors.As(err, &ae) {
		t.Fatalf("CheckArity(2) = %v, want an *ArityError", err)
	}
	if d := cmp.Diff(&ArityError{Name: "sin", Arity: Exactly(1), Got: 2}, ae); d != "" {
		t.Errorf("CheckArity(2) diff (-want, +got):\n%v", d)
	}
}

func TestRegistry_Ensure(t *testing.T) {
	reg := NewRegistry()
	rec := reg.Ensure("no-such-op")
	if rec == nil {
		t.Fatal("Ensure returned nil")
	}
	if rec.Name != "no-such-op" || rec.Properties != 0 || rec.Specializer != nil || rec.Differentiator != nil {
		t.Errorf("Ensure(no-such-op) = %+v, want an opaque record", rec)
	}
	if err := rec.CheckArity(7); err != nil {
		t.Errorf("opaque CheckArity(7) = %v, want nil", err)
	}
	if got := rec.ResultValues(nil); !got.Equal(typex.AnyValues) {
		t.Errorf("opaque ResultValues = %v, want %v", got, typex.AnyValues)
	}
	if reg.Len() != 0 {
		t.Errorf("Ensure registered the default record: Len() = %d", reg.Len())
	}
}

func TestRegistry_RegisterLookup(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log.SetLogger(log.NewZapFromLogger(zap.New(core)))
	defer log.SetLogger(&log.Standard{Level: log.SevInfo})

	reg := NewRegistry()
	reg.MustRegister(
		FnRecord{Name: "sin", Arity: Exactly(1), Properties: Foldable | Movable},
		FnRecord{Name: "+", Arity: Exactly(2)},
	)
	if logs.Len() != 0 {
		t.Errorf("fresh registrations logged %d entries", logs.Len())
	}

	rec, ok := reg.Lookup("sin")
	if !ok || !rec.Properties.Has(Foldable|Movable) {
		t.Fatalf("Lookup(sin) = %+v, %v", rec, ok)
	}

	if err := reg.Register(FnRecord{Name: "sin", Arity: Exactly(1)}); err != nil {
		t.Fatalf("re-Register(sin) failed: %v", err)
	}
	if rec, _ := reg.Lookup("sin"); rec.Properties != 0 {
		t.Errorf("re-Register(sin) did not replace the record: %+v", rec)
	}
	if got := logs.FilterMessage("Operation sin already registered. Overwriting.").Len(); got != 1 {
		t.Errorf("overwrite warnings = %d, want 1", got)
	}

	if d := cmp.Diff([]string{"+", "sin"}, reg.Names()); d != "" {
		t.Errorf("Names() diff (-want, +got):\n%v", d)
	}
}

func TestRegistry_Invalid(t *testing.T) {
	reg := NewRegistry()
	for _, rec := range []FnRecord{
		{Arity: Exactly(1)},
		{Name: "bad", Arity: Arity{2, 1}},
		{Name: "bad", Arity: Arity{-1, 1}},
	} {
		if err := reg.Register(rec); err == nil {
			t.Errorf("Register(%+v) succeeded, want error", rec)
		}
	}
}

func TestRegistry_Freeze(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(FnRecord{Name: "sin", Arity: Exactly(1)})
	reg.Freeze()
	if !reg.Frozen() {
		t.Fatal("Frozen() = false after Freeze")
	}
	err := reg.Register(FnRecord{Name: "cos", Arity: Exactly(1)})
	if !errors.Is(err, ErrFrozen) {
		t.Errorf("Register after Freeze = %v, want ErrFrozen", err)
	}
	if _, ok := reg.Lookup("sin"); !ok {
		t.Errorf("Lookup(sin) failed after Freeze")
	}
}

func TestRegistry_ConcurrentLookup(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(FnRecord{Name: "sin", Arity: Exactly(1)})
	reg.Freeze()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if _, ok := reg.Lookup("sin"); !ok {
					t.Error("Lookup(sin) failed")
					return
				}
				reg.Ensure("cos")
			}
		}()
	}
	wg.Wait()
}

func TestProperties_String(t *testing.T) {
	tests := []struct {
		p    Properties
		want string
	}{
		{0, "{}"},
		{Foldable, "{foldable}"},
		{Foldable | Movable, "{foldable,movable}"},
	}
	for _, test := range tests {
		if got := test.p.String(); got != test.want {
			t.Errorf("%d.String() = %q, want %q", test.p, got, test.want)
		}
	}
}
