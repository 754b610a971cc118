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

package fndb

import (
	"context"
	"sync"

	"github.com/apache/beam-ntype/internal/errors"
	"github.com/apache/beam-ntype/pkg/ntype/log"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ErrFrozen is returned by Register after Freeze.
var ErrFrozen = errors.New("registry is frozen")

// Registry maps operation names to records. Records are registered during
// a setup phase ended by Freeze; afterwards the registry is read only.
// A Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	records map[string]*FnRecord
	frozen  bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{records: make(map[string]*FnRecord)}
}

// Register adds rec, replacing any record with the same name.
func (r *Registry) Register(rec FnRecord) error {
	if rec.Name == "" {
		return errors.New("registering an operation without a name")
	}
	if rec.Arity.Min < 0 || (rec.Arity.Max != Unbounded && rec.Arity.Max < rec.Arity.Min) {
		return errors.Errorf("registering %v: invalid arity %+v", rec.Name, rec.Arity)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return errors.WithContextf(ErrFrozen, "registering %v", rec.Name)
	}
	if _, exists := r.records[rec.Name]; exists {
		log.Warnf(context.Background(), "Operation %v already registered. Overwriting.", rec.Name)
	}
	r.records[rec.Name] = &rec
	return nil
}

// MustRegister is Register for setup code that cannot continue on error.
func (r *Registry) MustRegister(recs ...FnRecord) {
	for _, rec := range recs {
		if err := r.Register(rec); err != nil {
			panic(err)
		}
	}
}

// Lookup returns the record registered under name. The record must not be
// modified.
func (r *Registry) Lookup(name string) (*FnRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[name]
	return rec, ok
}

// Ensure returns the record registered under name, or a default record
// for an opaque operation: any arity, no properties, no rules, any
// values. The default record is not added to the registry.
func (r *Registry) Ensure(name string) *FnRecord {
	if rec, ok := r.Lookup(name); ok {
		return rec
	}
	return opaque(name)
}

// Freeze ends the setup phase.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Frozen reports whether Freeze was called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := maps.Keys(r.records)
	r.mu.RUnlock()

	slices.Sort(names)
	return names
}

// Len returns the number of registered operations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
