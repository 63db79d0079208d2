// Copyright 2024 The Orbit Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package caching

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache is the contract against the distributed key-value store. All
// mappers are written against this interface so that the Redis client
// can be swapped for the in-process implementation in tests or in
// single-node deployments.
//
// A missing key is never an error: value reads report presence through
// the ok return. Errors are reserved for the client itself failing and
// propagate uncaught to the caller (fail-fast).
type Cache interface {
	// Get returns the value stored at key, if any.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set stores value at key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the given keys. Deleting an absent key is a no-op.
	Delete(ctx context.Context, keys ...string) error
	// MultiGet performs one bulk fetch and returns only the values that
	// were found, keyed by their full cache key.
	MultiGet(ctx context.Context, keys []string) (map[string][]byte, error)

	// GetList returns the id list stored at key, if any.
	GetList(ctx context.Context, key string) (ids []int64, ok bool, err error)
	// SetList replaces the id list stored at key.
	SetList(ctx context.Context, key string, ids []int64) error
	// AddToTopOfList inserts id at the head of the list, removing any
	// previous occurrence of id first and trimming the tail so that the
	// list never exceeds maximum entries. A maximum of zero or less
	// leaves the list unbounded.
	AddToTopOfList(ctx context.Context, key string, id int64, maximum int) error
	// RemoveFromList removes all occurrences of id. Removing from an
	// absent list is a no-op and does not create the list.
	RemoveFromList(ctx context.Context, key string, id int64) error

	// AddToSet adds member to the unordered set at key.
	AddToSet(ctx context.Context, key string, member int64) error
	// RemoveFromSet removes member from the set at key, if present.
	RemoveFromSet(ctx context.Context, key string, member int64) error
	// GetSet returns the members of the set at key, if any.
	GetSet(ctx context.Context, key string) (members []int64, ok bool, err error)
}

var cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "orbit",
	Subsystem: "caching",
	Name:      "hits_total",
}, []string{"impl"})

var cacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "orbit",
	Subsystem: "caching",
	Name:      "misses_total",
}, []string{"impl"})
