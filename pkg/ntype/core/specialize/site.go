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

package specialize

import (
	"github.com/apache/beam-ntype/pkg/ntype/core/fndb"
	"github.com/apache/beam-ntype/pkg/ntype/core/typex"
)

// Site is the fndb.Site handed to rules by an Engine. Nested calls are
// specialized one level deeper than the site.
type Site struct {
	e     *Engine
	name  string
	args  []fndb.Wrapper
	depth int
	err   error
}

// Name returns the operation being rewritten.
func (s *Site) Name() string { return s.name }

// Args returns the argument wrappers.
func (s *Site) Args() []fndb.Wrapper { return s.args }

// Ntype returns the first value ntype of argument i.
func (s *Site) Ntype(i int) typex.Ntype {
	return s.e.strategy.NthValueNtype(s.args[i], 0)
}

// NtypeOf returns the first value ntype of w.
func (s *Site) NtypeOf(w fndb.Wrapper) typex.Ntype {
	return s.e.strategy.NthValueNtype(w, 0)
}

// Constant returns the literal value of argument i, if it is constant.
func (s *Site) Constant(i int) (any, bool) {
	return s.e.strategy.Constant(s.args[i])
}

// Call specializes fn applied to args. After an error it does nothing and
// returns nil.
func (s *Site) Call(fn string, args ...fndb.Wrapper) fndb.Wrapper {
	if s.err != nil {
		return nil
	}
	w, err := s.e.specialize(fn, args, s.depth+1)
	if err != nil {
		s.err = err
		return nil
	}
	return w
}

// Literal returns a constant wrapper for v.
func (s *Site) Literal(v any) fndb.Wrapper {
	return s.e.strategy.WrapConstant(v)
}

// Fail records err, unless an error was recorded before.
func (s *Site) Fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

// Err returns the first recorded error.
func (s *Site) Err() error { return s.err }
