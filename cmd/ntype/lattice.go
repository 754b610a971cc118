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

	"github.com/apache/beam-ntype/pkg/ntype/core/descriptor"
	"github.com/apache/beam-ntype/pkg/ntype/core/typex"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/types/known/structpb"
)

type binaryOp func(a, b typex.Ntype) (typex.Ntype, bool)

var (
	union        binaryOp = typex.Union
	intersection binaryOp = typex.Intersection
	contagion    binaryOp = typex.Contagion
)

func (a *app) parseCmd() *cobra.Command {
	var values bool
	cmd := &cobra.Command{
		Use:   "parse <descriptor>",
		Short: "Convert a type descriptor to its ntype",
		Long: `Convert a type descriptor to the ntype representing it, and print the
ntype's own descriptor with whether the conversion was exact.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := descriptor.Read(args[0])
			if err != nil {
				return err
			}
			if values {
				v, precise, err := typex.ValuesFromDescriptor(d)
				if err != nil {
					return err
				}
				return a.printDescriptor(cmd, "values", v.Descriptor(), precise)
			}
			nt, precise, err := typex.FromDescriptor(d)
			if err != nil {
				return err
			}
			return a.printDescriptor(cmd, "ntype", nt.Descriptor(), precise)
		},
	}
	cmd.Flags().BoolVar(&values, "values", false, "Parse a (values ...) descriptor")
	return cmd
}

func (a *app) latticeCmd(name, short string, op binaryOp) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <descriptor> <descriptor>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, y, err := parsePair(args)
			if err != nil {
				return err
			}
			nt, precise := op(x, y)
			return a.printDescriptor(cmd, "ntype", nt.Descriptor(), precise)
		},
	}
}

func (a *app) subtypepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subtypep <descriptor> <descriptor>",
		Short: "Test whether a type is a subtype of another",
		Long: `Test whether the first type is a subtype of the second. An approximate
false means the answer is unknown.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, y, err := parsePair(args)
			if err != nil {
				return err
			}
			ok, precise := typex.Subtypep(x, y)
			return a.print(cmd, fmt.Sprintf("%v\t%v", ok, exactness(precise)), map[string]*structpb.Value{
				"subtype": structpb.NewBoolValue(ok),
				"precise": structpb.NewBoolValue(precise),
			})
		},
	}
}

func parsePair(args []string) (typex.Ntype, typex.Ntype, error) {
	x, _, err := typex.Parse(args[0])
	if err != nil {
		return nil, nil, err
	}
	y, _, err := typex.Parse(args[1])
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

func (a *app) printDescriptor(cmd *cobra.Command, key string, d descriptor.Descriptor, precise bool) error {
	pb, err := descriptor.ToProto(d)
	if err != nil {
		return err
	}
	return a.print(cmd, fmt.Sprintf("%v\t%v", descriptor.String(d), exactness(precise)), map[string]*structpb.Value{
		key:       pb,
		"precise": structpb.NewBoolValue(precise),
	})
}
