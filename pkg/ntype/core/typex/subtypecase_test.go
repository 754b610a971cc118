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

package typex

import (
	"testing"
)

func TestSubtypecase(t *testing.T) {
	branch := func(name string) func() (string, bool) {
		return func() (string, bool) { return name, true }
	}
	tests := []struct {
		name   string
		nt     Ntype
		cases  []Case[string]
		want   string
		wantOK bool
	}{
		{
			name:   "first match wins",
			nt:     NewEql(int64(3)),
			cases:  []Case[string]{When(Fixnum, branch("fixnum")), When(Integer, branch("integer"))},
			want:   "fixnum",
			wantOK: true,
		},
		{
			name:   "declaration order",
			nt:     NewEql(int64(3)),
			cases:  []Case[string]{When(Integer, branch("integer")), When(Fixnum, branch("fixnum"))},
			want:   "integer",
			wantOK: true,
		},
		{
			name:   "exclusion guard",
			nt:     Symbol,
			cases:  []Case[string]{Unless(Number, branch("not number")), When(Universal, branch("t"))},
			want:   "not number",
			wantOK: true,
		},
		{
			name:   "exclusion guard skipped on overlap",
			nt:     Universal,
			cases:  []Case[string]{Unless(Number, branch("not number")), When(Universal, branch("t"))},
			want:   "t",
			wantOK: true,
		},
		{
			name:   "fallback",
			nt:     Real,
			cases:  []Case[string]{When(Integer, branch("integer")), When(Float, branch("float"))},
			want:   "fallback",
			wantOK: true,
		},
		{
			name:   "abort",
			nt:     DoubleFloat,
			cases:  []Case[string]{When(Float, Abort[string]), When(DoubleFloat, branch("double-float"))},
			wantOK: false,
		},
	}
	for _, test := range tests {
		got, ok := Subtypecase(test.nt, branch("fallback"), test.cases...)
		if got != test.want || ok != test.wantOK {
			t.Errorf("%v: Subtypecase(%v) = (%q, %v), want (%q, %v)", test.name, test.nt, got, ok, test.want, test.wantOK)
		}
	}
}

func TestSubtypecase_NilFallbackAborts(t *testing.T) {
	calls := 0
	_, ok := Subtypecase[int](Character, nil, When(Number, func() (int, bool) {
		calls++
		return 1, true
	}))
	if ok || calls != 0 {
		t.Errorf("Subtypecase(CHARACTER) = (_, %v) after %d calls, want (_, false) after 0", ok, calls)
	}
}
