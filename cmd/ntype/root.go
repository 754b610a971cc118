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
	"context"
	"fmt"

	"github.com/apache/beam-ntype/pkg/ntype/core/differentiate"
	"github.com/apache/beam-ntype/pkg/ntype/core/fndb"
	"github.com/apache/beam-ntype/pkg/ntype/core/form"
	"github.com/apache/beam-ntype/pkg/ntype/core/specialize"
	"github.com/apache/beam-ntype/internal/config"
	"github.com/apache/beam-ntype/internal/errors"
	"github.com/apache/beam-ntype/pkg/ntype/log"
	"github.com/apache/beam-ntype/pkg/ntype/numeric"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// app is the state shared by the commands. It is built by setup before
// any command runs.
type app struct {
	configPath string
	logLevel   string
	format     string

	cfg  *config.Config
	reg  *fndb.Registry
	spec *specialize.Engine
	diff *differentiate.Engine
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "ntype",
		Short: "Approximate numeric type reasoning",
		Long: `ntype reasons about the types of numeric code.

Available commands:
  parse          - Convert a type descriptor to its ntype
  union          - Union of two types
  intersection   - Intersection of two types
  subtypep       - Test whether a type is a subtype of another
  contagion      - Result type of arithmetic on two types
  specialize     - Specialize generic operations in an expression
  differentiate  - Differentiate an expression
  functions      - List the registered operations
  stats          - Specialize expressions and report engine counters`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error), overriding the configuration")
	root.PersistentFlags().StringVarP(&a.format, "format", "f", "text", "Output format: text or json")

	root.AddCommand(
		a.parseCmd(),
		a.latticeCmd("union", "Union of two types", union),
		a.latticeCmd("intersection", "Intersection of two types", intersection),
		a.latticeCmd("contagion", "Result type of arithmetic on two types", contagion),
		a.subtypepCmd(),
		a.specializeCmd(),
		a.differentiateCmd(),
		a.functionsCmd(),
		a.statsCmd(),
	)
	return root
}

func (a *app) setup() error {
	switch a.format {
	case "text", "json":
	default:
		return errors.Errorf("unknown output format %q", a.format)
	}

	cfg := config.Default()
	if a.configPath != "" {
		var err error
		if cfg, err = config.LoadFile(a.configPath); err != nil {
			return err
		}
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	z, err := log.NewZap(cfg.Severity(), cfg.Log.JSON)
	if err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	log.SetLogger(z)
	if a.configPath != "" {
		log.Infof(context.Background(), "Loaded %v: %d declared operations", a.configPath, len(cfg.Operations))
	}

	reg := fndb.NewRegistry()
	if err := numeric.Register(reg); err != nil {
		return err
	}
	recs, err := cfg.Records()
	if err != nil {
		return err
	}
	for _, rec := range recs {
		if err := reg.Register(rec); err != nil {
			return err
		}
	}
	reg.Freeze()
	log.Debugf(context.Background(), "Registered %d operations", reg.Len())

	a.cfg = cfg
	a.reg = reg
	a.spec = specialize.New(reg, form.Strategy{}, specialize.WithMaxDepth(cfg.MaxDepth))
	a.diff = differentiate.New(a.spec)
	return nil
}

// print writes text, or fields as a JSON object with --format=json.
func (a *app) print(cmd *cobra.Command, text string, fields map[string]*structpb.Value) error {
	if a.format != "json" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), text)
		return err
	}
	b, err := protojson.Marshal(&structpb.Struct{Fields: fields})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return err
}

func exactness(precise bool) string {
	if precise {
		return "exact"
	}
	return "approximate"
}
