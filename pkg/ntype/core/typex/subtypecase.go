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

// Policy decides when a subtypecase branch fires.
type Policy int

const (
	// Subtype fires when the dispatched ntype is certainly a subtype of the
	// branch ntype.
	Subtype Policy = iota
	// Disjoint fires when the dispatched ntype certainly has no member in
	// common with the branch ntype. It expresses exclusion guards such as
	// (not number).
	Disjoint
)

func (p Policy) String() string {
	switch p {
	case Subtype:
		return "Subtype"
	case Disjoint:
		return "Disjoint"
	default:
		return "Policy(?)"
	}
}

// Case is one branch of a Subtypecase. Body returns ok=false to abort the
// whole dispatch.
type Case[R any] struct {
	Ntype  Ntype
	Policy Policy
	Body   func() (R, bool)
}

// When returns a branch firing when the dispatched ntype is a subtype of nt.
func When[R any](nt Ntype, body func() (R, bool)) Case[R] {
	return Case[R]{Ntype: nt, Policy: Subtype, Body: body}
}

// Unless returns a branch firing when the dispatched ntype is disjoint
// from nt.
func Unless[R any](nt Ntype, body func() (R, bool)) Case[R] {
	return Case[R]{Ntype: nt, Policy: Disjoint, Body: body}
}

// Abort is a branch body that gives up.
func Abort[R any]() (R, bool) {
	var zero R
	return zero, false
}

func (c Case[R]) fires(nt Ntype) bool {
	switch c.Policy {
	case Subtype:
		ok, precise := Subtypep(nt, c.Ntype)
		return ok && precise
	case Disjoint:
		return Disjointp(nt, c.Ntype)
	default:
		return false
	}
}

// Subtypecase runs the body of the first case, in order, that fires for
// nt, or fallback if none does. A nil fallback aborts. The boolean result
// is false when the selected body aborted; the caller then takes its
// generic path.
func Subtypecase[R any](nt Ntype, fallback func() (R, bool), cases ...Case[R]) (R, bool) {
	for _, c := range cases {
		if c.fires(nt) {
			return c.Body()
		}
	}
	if fallback == nil {
		return Abort[R]()
	}
	return fallback()
}
