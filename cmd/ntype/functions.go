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
	"text/tabwriter"

	"github.com/spf13/cobra"
	"google.golang.org/protobuf/types/known/structpb"
)

func (a *app) functionsCmd() *cobra.Command {
	var prefix string
	cmd := &cobra.Command{
		Use:   "functions",
		Short: "List the registered operations",
		Long: `List the registered operations with their arity and properties, and
whether they have a specializer rule or a derivative.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var b strings.Builder
			w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tARITY\tPROPERTIES\tRULE\tDERIVATIVE")
			var list []any
			for _, name := range a.reg.Names() {
				if !strings.HasPrefix(name, prefix) {
					continue
				}
				rec, _ := a.reg.Lookup(name)
				rule, derivative := rec.Specializer != nil, rec.Differentiator != nil
				fmt.Fprintf(w, "%v\t%v\t%v\t%v\t%v\n", name, rec.Arity, rec.Properties, yesNo(rule), yesNo(derivative))
				list = append(list, map[string]any{
					"name":       name,
					"arity":      rec.Arity.String(),
					"properties": rec.Properties.String(),
					"rule":       rule,
					"derivative": derivative,
				})
			}
			w.Flush()

			fns, err := structpb.NewList(list)
			if err != nil {
				return err
			}
			return a.print(cmd, strings.TrimSuffix(b.String(), "\n"), map[string]*structpb.Value{
				"functions": structpb.NewListValue(fns),
			})
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "Only list operations whose name starts with prefix")
	return cmd
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
