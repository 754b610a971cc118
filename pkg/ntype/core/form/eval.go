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
	"github.com/apache/beam-ntype/pkg/ntype/core/fndb"
	"github.com/apache/beam-ntype/internal/errors"
)

// Eval evaluates x with the host functions registered in reg, binding
// variables from env. It returns every value of x.
func Eval(reg *fndb.Registry, x Expr, env map[string]any) ([]any, error) {
	switch x := x.(type) {
	case *Literal:
		return []any{x.Value}, nil
	case *Variable:
		v, ok := env[x.Name]
		if !ok {
			return nil, errors.Errorf("unbound variable %v", x.Name)
		}
		return []any{descriptor.Canonical(v)}, nil
	case *Call:
		rec, ok := reg.Lookup(x.Op)
		if !ok || rec.Function == nil {
			return nil, errors.Errorf("no host function for %v", x.Op)
		}
		if err := rec.CheckArity(len(x.Args)); err != nil {
			return nil, err
		}
		args := make([]any, len(x.Args))
		for i, arg := range x.Args {
			vals, err := Eval(reg, arg, env)
			if err != nil {
				return nil, err
			}
			args[i] = descriptor.Nil
			if len(vals) > 0 {
				args[i] = vals[0]
			}
		}
		out, err := rec.Function(args)
		if err != nil {
			return nil, errors.WithContextf(err, "evaluating %v", x)
		}
		return out, nil
	default:
		return nil, errors.Errorf("unknown expression %T", x)
	}
}
