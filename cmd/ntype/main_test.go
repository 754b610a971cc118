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

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, "output: %v", out)
	return out
}

func TestParse(t *testing.T) {
	assert.Equal(t, "(UNSIGNED-BYTE 8)\texact", mustRun(t, "parse", "(integer 0 255)"))
	assert.Equal(t, "FIXNUM\tapproximate", mustRun(t, "parse", "(integer 0 1000)"))
	assert.Equal(t, "(VALUES INTEGER &OPTIONAL DOUBLE-FLOAT)\texact",
		mustRun(t, "parse", "--values", "(values integer &optional double-float)"))

	_, err := run(t, "parse", "(integer")
	assert.Error(t, err)
	_, err = run(t, "parse")
	assert.Error(t, err)
}

func TestParse_JSON(t *testing.T) {
	out := mustRun(t, "--format", "json", "parse", "double-float")
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, true, got["precise"])
	assert.Contains(t, got, "ntype")

	_, err := run(t, "--format", "xml", "parse", "double-float")
	assert.Error(t, err)
}

func TestLattice(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"union", "fixnum", "integer"}, "INTEGER\texact"},
		{[]string{"intersection", "fixnum", "double-float"}, "NIL\texact"},
		{[]string{"contagion", "integer", "double-float"}, "DOUBLE-FLOAT\texact"},
		{[]string{"subtypep", "fixnum", "integer"}, "true\texact"},
		{[]string{"subtypep", "integer", "fixnum"}, "false\texact"},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, mustRun(t, test.args...), "ntype %v", test.args)
	}
	_, err := run(t, "union", "fixnum")
	assert.Error(t, err)
	_, err = run(t, "union", "fixnum", "(eql)")
	assert.Error(t, err)
}

func TestSpecialize(t *testing.T) {
	out := mustRun(t, "specialize", "(+ (the double-float x) (the integer y))", "(+ 2 3)")
	assert.Equal(t, "(double-float+ x (coerce-to-double-float y))\t(VALUES DOUBLE-FLOAT)\n5\t(VALUES (EQL 5))", out)

	_, err := run(t, "specialize", "(sin 1 2)")
	assert.Error(t, err)
}

func TestDifferentiate(t *testing.T) {
	out := mustRun(t, "differentiate", "--var", "x", "(cos (cos (the double-float x)))")
	assert.True(t, strings.HasPrefix(out,
		"(double-float* (double-float-negate (double-float-sin (double-float-cos x))) (double-float-negate (double-float-sin x)))\t"), out)

	assert.True(t, strings.HasPrefix(mustRun(t, "differentiate", "-v", "X", "(+ (the double-float x) (the double-float x))"), "2\t"))

	_, err := run(t, "differentiate", "(floor (the double-float x))")
	assert.Error(t, err)
}

func TestFunctions(t *testing.T) {
	out := mustRun(t, "functions", "--prefix", "coerce-to-double")
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2, out)
	assert.Equal(t, []string{"NAME", "ARITY", "PROPERTIES", "RULE", "DERIVATIVE"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"coerce-to-double-float", "1", "{foldable,movable}", "no", "yes"}, strings.Fields(lines[1]))

	out = mustRun(t, "--format", "json", "functions", "--prefix", "<")
	var got struct {
		Functions []map[string]any `json:"functions"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Functions, 1)
	assert.Equal(t, "<", got.Functions[0]["name"])
	assert.Equal(t, true, got.Functions[0]["rule"])
	assert.Equal(t, false, got.Functions[0]["derivative"])
}

func TestStats(t *testing.T) {
	out := mustRun(t, "stats", "(+ 2 3)", "(sin (the double-float x))")
	assert.Contains(t, out, "calls")
	assert.Contains(t, out, "interned types")

	out = mustRun(t, "--format", "json", "stats", "(+ 2 3)")
	var got map[string]float64
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 1.0, got["calls"])
	assert.Equal(t, 1.0, got["folds"])
	assert.Greater(t, got["operations"], 50.0)
}

func TestConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ntype.yaml")
	cfg := `
max_depth: 32
operations:
  - name: dot
    min_args: 2
    max_args: 2
    properties: [movable]
    result: double-float
`
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))

	out := mustRun(t, "--config", path, "specialize", "(sin (dot a b))")
	assert.True(t, strings.HasPrefix(out, "(double-float-sin (dot a b))\t"), out)

	_, err := run(t, "--config", path, "specialize", "(dot a)")
	assert.Error(t, err)

	_, err = run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "functions")
	assert.Error(t, err)
}
