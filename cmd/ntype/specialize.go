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
	"fmt"
	"strings"

	"github.com/apache/beam-ntype/pkg/ntype/core/descriptor"
	"github.com/apache/beam-ntype/pkg/ntype/core/form"
	"github.com/apache/beam-ntype/pkg/ntype/core/typex"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/types/known/structpb"
)

func (a *app) specializeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "specialize <expression>...",
		Short: "Specialize generic operations in an expression",
		Long: `Specialize every call of a generic operation in the expression, given the
types of its variables, declared with (the <type> <name>). Undeclared
variables may have any type.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, text := range args {
				x, err := a.specialize(text)
				if err != nil {
					return err
				}
				if err := a.printExpr(cmd, x); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (a *app) differentiateCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "differentiate --var <name> <expression>",
		Short: "Differentiate an expression",
		Long: `Specialize the expression, then differentiate it with respect to the
variable. Operations without a derivative are errors.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := a.specialize(args[0])
			if err != nil {
				return err
			}
			v := &form.Variable{Name: strings.ToLower(name), Ntype: typex.Universal}
			d, err := a.diff.DifferentiateForm(x, v)
			if err != nil {
				return err
			}
			return a.printExpr(cmd, d.(form.Expr))
		},
	}
	cmd.Flags().StringVarP(&name, "var", "v", "x", "Variable to differentiate with respect to")
	return cmd
}

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <expression>...",
		Short: "Specialize expressions and report engine counters",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, text := range args {
				if _, err := a.specialize(text); err != nil {
					return err
				}
			}
			s := a.spec.Stats()
			rows := []struct {
				name string
				n    int64
			}{
				{"calls", s.Calls},
				{"folds", s.Folds},
				{"rules", s.Rules},
				{"aborts", s.Aborts},
				{"fallbacks", s.Fallbacks},
				{"operations", int64(a.reg.Len())},
				{"interned types", int64(typex.Len())},
			}
			var b strings.Builder
			fields := map[string]*structpb.Value{}
			for i, r := range rows {
				if i > 0 {
					b.WriteByte('\n')
				}
				fmt.Fprintf(&b, "%-15s %v", r.name, humanize.Comma(r.n))
				fields[strings.ReplaceAll(r.name, " ", "_")] = structpb.NewNumberValue(float64(r.n))
			}
			return a.print(cmd, b.String(), fields)
		},
	}
}

func (a *app) specialize(text string) (form.Expr, error) {
	x, err := form.Read(text)
	if err != nil {
		return nil, err
	}
	return form.Specialize(a.spec, x)
}

func (a *app) printExpr(cmd *cobra.Command, x form.Expr) error {
	vals := x.Values()
	pb, err := descriptor.ToProto(vals.Descriptor())
	if err != nil {
		return err
	}
	return a.print(cmd, fmt.Sprintf("%v\t%v", x, vals), map[string]*structpb.Value{
		"form":   structpb.NewStringValue(x.String()),
		"values": pb,
	})
}
