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
	"strings"

	"github.com/apache/beam-ntype/pkg/ntype/core/descriptor"
)

// Values describes every value an operation returns: a fixed prefix of
// required values, then optional values, then an unbounded tail of Rest
// values. A nil Rest means no more than NonRestCount values are returned.
type Values struct {
	Required []Ntype
	Optional []Ntype
	Rest     Ntype
}

// AnyValues is (values &rest t): any number of values of any type.
var AnyValues = Values{Rest: Universal}

// SingleValue returns the values type of exactly one value of ntype nt.
func SingleValue(nt Ntype) Values {
	return Values{Required: []Ntype{nt}}
}

// MinimumCount returns the number of values always returned.
func (v Values) MinimumCount() int {
	return len(v.Required)
}

// NonRestCount returns the number of required and optional values.
func (v Values) NonRestCount() int {
	return len(v.Required) + len(v.Optional)
}

// NthValue returns the ntype of the nth value, counting from 0. Values that
// are not returned read as NIL, so positions past the end are Null.
func (v Values) NthValue(n int) Ntype {
	switch {
	case n < len(v.Required):
		return v.Required[n]
	case n < v.NonRestCount():
		return v.Optional[n-len(v.Required)]
	case v.Rest != nil:
		return v.Rest
	default:
		return Null
	}
}

// at returns the ntype of the nth value, and false if the values type never
// has an nth value.
func (v Values) at(n int) (Ntype, bool) {
	if n >= v.NonRestCount() && v.Rest == nil {
		return nil, false
	}
	return v.NthValue(n), true
}

// IsSingle reports whether v is the canonical single-value case.
func (v Values) IsSingle() bool {
	return len(v.Required) == 1 && len(v.Optional) == 0 && v.Rest == nil
}

// Equal reports whether v and o describe the same values element-wise.
func (v Values) Equal(o Values) bool {
	if len(v.Required) != len(o.Required) || len(v.Optional) != len(o.Optional) {
		return false
	}
	for i := range v.Required {
		if !Equal(v.Required[i], o.Required[i]) {
			return false
		}
	}
	for i := range v.Optional {
		if !Equal(v.Optional[i], o.Optional[i]) {
			return false
		}
	}
	if v.Rest == nil || o.Rest == nil {
		return v.Rest == nil && o.Rest == nil
	}
	return Equal(v.Rest, o.Rest)
}

// Subtypep reports whether every value sequence described by v is also
// described by o, with the same certainty convention as Subtypep.
func (v Values) Subtypep(o Values) (bool, bool) {
	if v.MinimumCount() < o.MinimumCount() {
		return false, true
	}
	if v.Rest != nil && o.Rest == nil {
		return false, true
	}
	n := max(v.NonRestCount(), o.NonRestCount()) + 1
	for i := 0; i < n; i++ {
		x, ok := v.at(i)
		if !ok {
			break
		}
		y, ok := o.at(i)
		if !ok {
			return false, true
		}
		sub, precise := Subtypep(x, y)
		if !sub {
			return false, precise
		}
	}
	return true, true
}

// UnionValues returns a values type describing every value sequence of any
// of vs. Positions required by all of vs stay required; later positions
// any of vs may return become optional; the rest is the union of the
// rests. The result is precise when all of vs have the same shape and
// every pointwise union is precise.
func UnionValues(vs ...Values) (Values, bool) {
	if len(vs) == 0 {
		return Values{}, true
	}
	minReq, maxNonRest := vs[0].MinimumCount(), 0
	precise := true
	for _, v := range vs {
		minReq = min(minReq, v.MinimumCount())
		maxNonRest = max(maxNonRest, v.NonRestCount())
		if v.MinimumCount() != vs[0].MinimumCount() || v.NonRestCount() != vs[0].NonRestCount() ||
			(v.Rest == nil) != (vs[0].Rest == nil) {
			precise = false
		}
	}

	var ret Values
	for i := 0; i < maxNonRest; i++ {
		var nt Ntype = Empty
		for _, v := range vs {
			if x, ok := v.at(i); ok {
				var p bool
				nt, p = Union(nt, x)
				precise = precise && p
			}
		}
		if i < minReq {
			ret.Required = append(ret.Required, nt)
		} else {
			ret.Optional = append(ret.Optional, nt)
		}
	}
	for _, v := range vs {
		if v.Rest == nil {
			continue
		}
		if ret.Rest == nil {
			ret.Rest = v.Rest
			continue
		}
		var p bool
		ret.Rest, p = Union(ret.Rest, v.Rest)
		precise = precise && p
	}
	return ret, precise
}

// Descriptor returns (VALUES required... &OPTIONAL optional... &REST rest).
func (v Values) Descriptor() descriptor.Descriptor {
	ret := descriptor.List{descriptor.Symbol("VALUES")}
	for _, nt := range v.Required {
		ret = append(ret, nt.Descriptor())
	}
	if len(v.Optional) > 0 {
		ret = append(ret, lambdaOptional)
		for _, nt := range v.Optional {
			ret = append(ret, nt.Descriptor())
		}
	}
	if v.Rest != nil {
		ret = append(ret, lambdaRest, v.Rest.Descriptor())
	}
	return ret
}

func (v Values) String() string {
	return descriptor.String(v.Descriptor())
}

const (
	lambdaOptional      descriptor.Symbol = "&OPTIONAL"
	lambdaRest          descriptor.Symbol = "&REST"
	lambdaAllowOtherKey descriptor.Symbol = "&ALLOW-OTHER-KEYS"
)

// ValuesFromDescriptor converts a (VALUES ...) descriptor, or a plain type
// descriptor standing for a single value, to a values type.
func ValuesFromDescriptor(d descriptor.Descriptor) (Values, bool, error) {
	return defaultInterner.values(d)
}

func (in *Interner) values(d descriptor.Descriptor) (Values, bool, error) {
	l, ok := d.(descriptor.List)
	if head, _ := l.Head(); !ok || head != "VALUES" {
		if descriptor.IsWildcard(d) {
			return AnyValues, true, nil
		}
		nt, precise, err := in.FromDescriptor(d)
		if err != nil {
			return Values{}, false, err
		}
		return SingleValue(nt), precise, nil
	}

	var ret Values
	precise := true
	section := descriptor.Symbol("")
	params := l.Params()
	for i := 0; i < len(params); i++ {
		p := params[i]
		if s, ok := p.(descriptor.Symbol); ok && strings.HasPrefix(string(s), "&") {
			switch {
			case s == lambdaAllowOtherKey:
				continue
			case s == lambdaOptional && section == "":
				section = s
				continue
			case s == lambdaRest && section != lambdaRest:
				if i+1 >= len(params) {
					return Values{}, false, parseErrorf(d, "&REST without a type")
				}
				nt, p2, err := in.FromDescriptor(params[i+1])
				if err != nil {
					return Values{}, false, err
				}
				ret.Rest, precise = nt, precise && p2
				section = s
				i++
				continue
			}
			return Values{}, false, parseErrorf(d, "misplaced %v", s)
		}
		if section == lambdaRest {
			return Values{}, false, parseErrorf(d, "more than one &REST type")
		}
		nt, p2, err := in.FromDescriptor(p)
		if err != nil {
			return Values{}, false, err
		}
		precise = precise && p2
		if section == lambdaOptional {
			ret.Optional = append(ret.Optional, nt)
		} else {
			ret.Required = append(ret.Required, nt)
		}
	}
	return ret, precise, nil
}
