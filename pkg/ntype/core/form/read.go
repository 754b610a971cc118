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
	"github.com/apache/beam-ntype/pkg/ntype/core/descriptor"
	"github.com/apache/beam-ntype/pkg/ntype/core/typex"
	"github.com/apache/beam-ntype/internal/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lower = cases.Lower(language.Und)

// Read reads an expression. Symbols are variables of any type, unless
// declared with (the <type> <name>); lists are calls, whose operation
// names are lower cased; everything else is a literal. Calls are not
// specialized and may return any values.
func Read(text string) (Expr, error) {
	d, err := descriptor.Read(text)
	if err != nil {
		return nil, errors.Wrapf(err, "reading expression %q", text)
	}
	return FromDescriptor(d)
}

// MustRead is Read for expressions known to be well formed.
func MustRead(text string) Expr {
	x, err := Read(text)
	if err != nil {
		panic(err)
	}
	return x
}

// FromDescriptor converts a read s-expression to an expression.
func FromDescriptor(d descriptor.Descriptor) (Expr, error) {
	switch x := d.(type) {
	case descriptor.Symbol:
		if x == descriptor.Nil || x == descriptor.T {
			return &Literal{Value: x}, nil
		}
		return &Variable{Name: lower.String(string(x)), Ntype: typex.Universal}, nil
	case descriptor.List:
		head, ok := x.Head()
		if !ok {
			return nil, errors.Errorf("bad expression %v: operator is not a symbol", descriptor.String(d))
		}
		params := x.Params()
		switch head {
		case "QUOTE":
			if len(params) != 1 {
				return nil, errors.Errorf("bad expression %v", descriptor.String(d))
			}
			return &Literal{Value: descriptor.Canonical(params[0])}, nil
		case "THE":
			return readThe(d, params)
		}
		args := make([]Expr, len(params))
		for i, p := range params {
			arg, err := FromDescriptor(p)
			if err != nil {
				return nil, err
			}
			args[i] = arg
		}
		return &Call{Op: lower.String(string(head)), Args: args, Result: typex.AnyValues}, nil
	default:
		return &Literal{Value: descriptor.Canonical(d)}, nil
	}
}

func readThe(d descriptor.Descriptor, params []descriptor.Descriptor) (Expr, error) {
	if len(params) != 2 {
		return nil, errors.Errorf("bad expression %v: THE takes a type and a variable", descriptor.String(d))
	}
	name, ok := params[1].(descriptor.Symbol)
	if !ok {
		return nil, errors.Errorf("bad expression %v: only variables can be declared", descriptor.String(d))
	}
	nt, _, err := typex.FromDescriptor(params[0])
	if err != nil {
		return nil, errors.WithContextf(err, "declaring %v", name)
	}
	return &Variable{Name: lower.String(string(name)), Ntype: nt}, nil
}
