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

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apache/beam-ntype/pkg/ntype/core/fndb"
	"github.com/apache/beam-ntype/pkg/ntype/core/typex"
	"github.com/apache/beam-ntype/pkg/ntype/log"
	"github.com/google/go-cmp/cmp"
)

const sample = `
log:
  level: debug
  json: true
max_depth: 64
operations:
  - name: dot
    min_args: 2
    max_args: 2
    properties: [movable]
    result: double-float
  - name: frob
    result: (values integer &optional symbol)
  - name: sink
`

func TestLoad(t *testing.T) {
	c, err := Load([]byte(sample))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Severity() != log.SevDebug || !c.Log.JSON || c.MaxDepth != 64 {
		t.Errorf("Load = %+v, want debug json logging and depth 64", c)
	}

	recs, err := c.Records()
	if err != nil {
		t.Fatalf("Records failed: %v", err)
	}
	var names []string
	for _, rec := range recs {
		names = append(names, rec.Name)
	}
	if d := cmp.Diff([]string{"dot", "frob", "sink"}, names); d != "" {
		t.Errorf("Records names diff (-want, +got):\n%v", d)
	}

	dot := recs[0]
	if dot.Arity != fndb.Exactly(2) || dot.Properties != fndb.Movable {
		t.Errorf("dot = %v %v, want exactly 2 arguments and movable", dot.Arity, dot.Properties)
	}
	if got := dot.ResultValues(nil); !got.Equal(typex.SingleValue(typex.DoubleFloat)) {
		t.Errorf("dot returns %v, want double-float", got)
	}
	frob := recs[1].ResultValues(nil)
	want := typex.Values{Required: []typex.Ntype{typex.Integer}, Optional: []typex.Ntype{typex.Symbol}}
	if !frob.Equal(want) {
		t.Errorf("frob returns %v, want %v", frob, want)
	}
	sink := recs[2]
	if sink.Arity != fndb.AtLeast(0) || !sink.ResultValues(nil).Equal(typex.AnyValues) {
		t.Errorf("sink = %v returning %v, want any arguments and values", sink.Arity, sink.ResultValues(nil))
	}
}

func TestLoad_Default(t *testing.T) {
	c, err := Load(nil)
	if err != nil {
		t.Fatalf("Load(nil) failed: %v", err)
	}
	if d := cmp.Diff(Default(), c); d != "" {
		t.Errorf("Load(nil) diff (-want, +got):\n%v", d)
	}
	if c.Severity() != log.SevInfo {
		t.Errorf("Severity() = %v, want info", c.Severity())
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		yaml string
		want string
	}{
		{"max_depht: 3", "max_depht"},
		{"max_depth: -1", "negative"},
		{"operations: [{name: a}, {name: a}]", `"a" declared 2 times`},
		{"operations: [{min_args: 1}]", "without a name"},
		{"operations: [{name: a, min_args: 3, max_args: 2}]", "bad arity"},
		{"operations: [{name: a, properties: [foldable]}]", "cannot be foldable"},
		{"operations: [{name: a, properties: [pure]}]", "unknown property"},
		{"operations: [{name: a, result: (integer}]", "result of a"},
		{"operations: [{name: a, result: (eql)}]", "result of a"},
	}
	for _, test := range tests {
		_, err := Load([]byte(test.yaml))
		if err == nil {
			t.Errorf("Load(%q) succeeded, want an error", test.yaml)
			continue
		}
		if !strings.Contains(err.Error(), test.want) {
			t.Errorf("Load(%q) = %v, want an error mentioning %q", test.yaml, err, test.want)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ntype.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err != nil {
		t.Errorf("LoadFile(%v) failed: %v", path, err)
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("LoadFile of a missing file succeeded, want an error")
	}
}
