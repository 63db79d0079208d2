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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestMultiGetPartialSplitsFoundAndUnhandled(t *testing.T) {
	ctx := context.Background()
	cache, err := NewMemoryCache(128)
	require.NoError(t, err)

	prefix := KeyPrefix("TestView:")
	// 2 of 5 requested ids are cached.
	require.NoError(t, SetJSON(ctx, cache, prefix.Key(1), testView{ID: 1, Name: "one"}))
	require.NoError(t, SetJSON(ctx, cache, prefix.Key(3), testView{ID: 3, Name: "three"}))

	response, err := MultiGetPartial[int64, testView](ctx, cache, []int64{1, 2, 3, 4, 5}, prefix.Key)
	require.NoError(t, err)

	assert.Len(t, response.Found, 2)
	assert.Equal(t, "one", response.Found[1].Name)
	assert.Equal(t, "three", response.Found[3].Name)
	assert.True(t, response.HasUnhandled())
	// Unhandled carries the original, untransformed suffixes.
	assert.Equal(t, []int64{2, 4, 5}, response.Unhandled)
}

func TestMultiGetPartialAllFound(t *testing.T) {
	ctx := context.Background()
	cache, err := NewMemoryCache(128)
	require.NoError(t, err)

	prefix := KeyPrefix("TestView:")
	require.NoError(t, SetJSON(ctx, cache, prefix.Key(7), testView{ID: 7, Name: "seven"}))

	response, err := MultiGetPartial[int64, testView](ctx, cache, []int64{7}, prefix.Key)
	require.NoError(t, err)
	assert.Len(t, response.Found, 1)
	assert.False(t, response.HasUnhandled())
}

func TestMultiGetPartialEmptyInput(t *testing.T) {
	ctx := context.Background()
	cache, err := NewMemoryCache(128)
	require.NoError(t, err)

	response, err := MultiGetPartial[int64, testView](ctx, cache, nil, KeyPrefix("TestView:").Key)
	require.NoError(t, err)
	assert.Empty(t, response.Found)
	assert.False(t, response.HasUnhandled())
}
