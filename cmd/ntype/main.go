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

// ntype is a command line front end to the approximate numeric type
// lattice and the specialization and differentiation engines.
//
// Examples:
//
//	ntype parse "(integer 0 255)"
//	ntype union fixnum "(eql 1/2)"
//	ntype specialize "(+ (the double-float x) (the integer y))"
//	ntype differentiate --var x "(cos (cos (the double-float x)))"
//	ntype functions
package main

import (
	"context"

	"github.com/apache/beam-ntype/pkg/ntype/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Exitf(context.Background(), "%v", err)
	}
}
