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

// Package config handles the YAML configuration of the ntype tool:
//
//	log:
//	  level: debug
//	  json: false
//	max_depth: 128
//	operations:
//	  - name: dot
//	    min_args: 2
//	    max_args: 2
//	    properties: [movable]
//	    result: double-float
//
// Operations declare additional opaque operations: they are never
// specialized or differentiated, but calls of them are typed by result, a
// type or (values ...) descriptor.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apache/beam-ntype/pkg/ntype/core/descriptor"
	"github.com/apache/beam-ntype/pkg/ntype/core/fndb"
	"github.com/apache/beam-ntype/pkg/ntype/core/typex"
	"github.com/apache/beam-ntype/internal/errors"
	"github.com/apache/beam-ntype/pkg/ntype/log"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// Config is the whole configuration file.
type Config struct {
	Log        Log         `yaml:"log"`
	MaxDepth   int         `yaml:"max_depth"`
	Operations []Operation `yaml:"operations"`
}

// Log configures logging.
type Log struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Operation declares an opaque operation.
type Operation struct {
	Name    string `yaml:"name"`
	MinArgs int    `yaml:"min_args"`
	// MaxArgs is unbounded when absent.
	MaxArgs    *int     `yaml:"max_args"`
	Properties []string `yaml:"properties"`
	// Result is a type descriptor. Absent means any values.
	Result string `yaml:"result"`
}

// Default returns the configuration used without a configuration file.
func Default() *Config {
	return &Config{Log: Log{Level: "info"}}
}

// Load decodes and validates a YAML configuration. Unknown fields are
// errors; an empty configuration is the default one.
func Load(in []byte) (*Config, error) {
	c := Default()
	d := yaml.NewDecoder(bytes.NewReader(in))
	d.KnownFields(true)
	if err := d.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "decoding yaml config")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile loads the configuration file at path.
func LoadFile(path string) (*Config, error) {
	in, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Load(in)
	if err != nil {
		return nil, errors.WithContextf(err, "loading config %v", path)
	}
	return c, nil
}

// Severity returns the configured log level.
func (c *Config) Severity() log.Severity {
	return log.ParseSeverity(c.Log.Level)
}

// Validate checks the configuration for errors, reporting all of them.
func (c *Config) Validate() error {
	var problems []string
	if c.MaxDepth < 0 {
		problems = append(problems, fmt.Sprintf("max_depth %d is negative", c.MaxDepth))
	}
	counts := map[string]int{}
	for i, op := range c.Operations {
		counts[op.Name]++
		if _, err := op.Record(); err != nil {
			problems = append(problems, fmt.Sprintf("operation %d: %v", i, err))
		}
	}
	dups := maps.Keys(counts)
	slices.Sort(dups)
	for _, name := range dups {
		if counts[name] > 1 {
			problems = append(problems, fmt.Sprintf("operation %q declared %d times", name, counts[name]))
		}
	}
	if len(problems) > 0 {
		return errors.Errorf("invalid config:\n\t%v", strings.Join(problems, "\n\t"))
	}
	return nil
}

// Records returns the records of the declared operations.
func (c *Config) Records() ([]fndb.FnRecord, error) {
	recs := make([]fndb.FnRecord, 0, len(c.Operations))
	for _, op := range c.Operations {
		rec, err := op.Record()
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// Record returns the function database record of the operation.
func (op Operation) Record() (fndb.FnRecord, error) {
	if op.Name == "" {
		return fndb.FnRecord{}, errors.New("operation without a name")
	}
	rec := fndb.FnRecord{Name: op.Name, Arity: fndb.AtLeast(op.MinArgs)}
	if op.MaxArgs != nil {
		rec.Arity.Max = *op.MaxArgs
	}
	if rec.Arity.Min < 0 || (rec.Arity.Max != fndb.Unbounded && rec.Arity.Max < rec.Arity.Min) {
		return fndb.FnRecord{}, errors.Errorf("%v: bad arity %v", op.Name, rec.Arity)
	}
	for _, p := range op.Properties {
		switch strings.ToLower(p) {
		case "foldable":
			// Without a host function there is nothing to fold with.
			return fndb.FnRecord{}, errors.Errorf("%v: declared operations cannot be foldable", op.Name)
		case "movable":
			rec.Properties |= fndb.Movable
		default:
			return fndb.FnRecord{}, errors.Errorf("%v: unknown property %q", op.Name, p)
		}
	}
	if op.Result != "" {
		d, err := descriptor.Read(op.Result)
		if err != nil {
			return fndb.FnRecord{}, errors.WithContextf(err, "result of %v", op.Name)
		}
		vals, _, err := typex.ValuesFromDescriptor(d)
		if err != nil {
			return fndb.FnRecord{}, errors.WithContextf(err, "result of %v", op.Name)
		}
		rec.Result = fndb.Returns(vals)
	}
	return rec, nil
}
