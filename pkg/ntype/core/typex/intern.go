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

package typex

import (
	"sync"
	"sync/atomic"

	"github.com/apache/beam-ntype/pkg/ntype/core/descriptor"
	"github.com/apache/beam-ntype/internal/errors"
	"golang.org/x/sync/singleflight"
)

// Interner memoizes descriptor conversion by structural key. Structurally
// equal descriptors convert to the identical Ntype, and the table holds at
// most one entry per key: concurrent conversions of the same key share one
// computation. Malformed descriptors are not cached.
type Interner struct {
	entries sync.Map // string -> *internEntry
	group   singleflight.Group
	size    atomic.Int64
}

type internEntry struct {
	nt      Ntype
	precise bool
}

// NewInterner returns an empty intern table.
func NewInterner() *Interner {
	return &Interner{}
}

var defaultInterner = NewInterner()

// FromDescriptor converts d to its ntype through the process-wide intern
// table. The boolean is false when the ntype over-approximates d. Malformed
// descriptors return a *ParseError.
func FromDescriptor(d descriptor.Descriptor) (Ntype, bool, error) {
	return defaultInterner.FromDescriptor(d)
}

// MustFromDescriptor is FromDescriptor for descriptors known to be well
// formed. It panics on a parse error.
func MustFromDescriptor(d descriptor.Descriptor) Ntype {
	nt, _, err := FromDescriptor(d)
	if err != nil {
		panic(err)
	}
	return nt
}

// Parse reads a descriptor from text and converts it.
func Parse(text string) (Ntype, bool, error) {
	d, err := descriptor.Read(text)
	if err != nil {
		return nil, false, errors.Wrapf(err, "reading type %q", text)
	}
	return FromDescriptor(d)
}

// MustParse is Parse for text known to be a well formed descriptor.
func MustParse(text string) Ntype {
	nt, _, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return nt
}

// Len returns the number of entries of the process-wide intern table.
func Len() int {
	return defaultInterner.Len()
}

// FromDescriptor converts d to its ntype, memoized in the table.
func (in *Interner) FromDescriptor(d descriptor.Descriptor) (Ntype, bool, error) {
	key := descriptor.Key(d)
	if e, ok := in.entries.Load(key); ok {
		e := e.(*internEntry)
		return e.nt, e.precise, nil
	}
	v, err, _ := in.group.Do(key, func() (any, error) {
		if e, ok := in.entries.Load(key); ok {
			return e, nil
		}
		nt, precise, err := in.parse(d)
		if err != nil {
			return nil, err
		}
		e, loaded := in.entries.LoadOrStore(key, &internEntry{nt: nt, precise: precise})
		if !loaded {
			in.size.Add(1)
		}
		return e, nil
	})
	if err != nil {
		return nil, false, err
	}
	e := v.(*internEntry)
	return e.nt, e.precise, nil
}

// Len returns the number of descriptors in the table.
func (in *Interner) Len() int {
	return int(in.size.Load())
}
