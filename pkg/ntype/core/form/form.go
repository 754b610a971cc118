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

// Package form is a reference representation of code for the engines:
// expression trees whose nodes carry the values type they compute. It
// implements fndb.Strategy and fndb.Decomposer, reads and prints
// expressions such as
//
//	(sin (* 2 (the double-float x)))
//
// and evaluates them against the host functions of a registry.
package form

import (
	"strings"

	"github.com/apache/beam-ntype/pkg/ntype/core/descriptor"
	"github.com/apache/beam-ntype/pkg/ntype/core/typex"
)

// Expr is an expression tree node.
type Expr interface {
	// Values returns the values type of the expression.
	Values() typex.Values
	String() string
}

// Literal is a constant.
type Literal struct {
	Value any
}

// Values returns (values (eql v)).
func (l *Literal) Values() typex.Values {
	return typex.SingleValue(typex.NewEql(l.Value))
}

func (l *Literal) String() string {
	return descriptor.String(l.Value)
}

// Variable is a free variable of declared ntype.
type Variable struct {
	Name  string
	Ntype typex.Ntype
}

// Values returns the single value of the declared ntype.
func (v *Variable) Values() typex.Values {
	return typex.SingleValue(v.Ntype)
}

func (v *Variable) String() string {
	return v.Name
}

// Call is an operation applied to arguments.
type Call struct {
	Op     string
	Args   []Expr
	Result typex.Values
}

// Values returns the declared result of the call.
func (c *Call) Values() typex.Values {
	return c.Result
}

func (c *Call) String() string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(c.Op)
	for _, arg := range c.Args {
		b.WriteByte(' ')
		b.WriteString(arg.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Walk calls f on x and its subexpressions, parents first.
func Walk(x Expr, f func(Expr)) {
	f(x)
	if c, ok := x.(*Call); ok {
		for _, arg := range c.Args {
			Walk(arg, f)
		}
	}
}

// Ops returns the operations called in x, parents first.
func Ops(x Expr) []string {
	var ops []string
	Walk(x, func(x Expr) {
		if c, ok := x.(*Call); ok {
			ops = append(ops, c.Op)
		}
	})
	return ops
}

// Variables returns the distinct variables of x in order of appearance.
func Variables(x Expr) []*Variable {
	var vars []*Variable
	seen := make(map[string]bool)
	Walk(x, func(x Expr) {
		if v, ok := x.(*Variable); ok && !seen[v.Name] {
			seen[v.Name] = true
			vars = append(vars, v)
		}
	})
	return vars
}
