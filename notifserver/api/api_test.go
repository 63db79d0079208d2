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

package api

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchRecipients(t *testing.T) {
	batch := NewNotificationBatch()
	batch.AddRecipient(CommentToCommentedPost, 9)

	require.Len(t, batch.Recipients, 1)
	assert.Equal(t, []int64{9}, batch.Recipients[CommentToCommentedPost])

	batch.SetRecipients(CommentToCommentedPost, 3, 4)
	assert.Equal(t, []int64{3, 4}, batch.Recipients[CommentToCommentedPost])
}

func TestBatchResolveProperties(t *testing.T) {
	ctx := context.Background()
	batch := NewNotificationBatch()
	batch.SetProperty("subject", "hello")
	batch.SetDeferredProperty("actor", "person", 42)
	batch.SetDeferredProperty("author", "person", 42)
	batch.SetDeferredProperty("group", "group", 7)

	loads := map[string]int{}
	loaders := map[string]PropertyLoader{
		"person": func(_ context.Context, identity int64) (any, error) {
			loads["person"]++
			return identity * 10, nil
		},
		"group": func(_ context.Context, identity int64) (any, error) {
			loads["group"]++
			return identity * 100, nil
		},
	}
	require.NoError(t, batch.ResolveProperties(ctx, loaders))

	// The two references to person 42 resolve through a single load.
	assert.Equal(t, 1, loads["person"])
	assert.Equal(t, 1, loads["group"])
	assert.Equal(t, "hello", batch.PropertyValue("subject"))
	assert.Equal(t, int64(420), batch.PropertyValue("actor"))
	assert.Equal(t, int64(420), batch.PropertyValue("author"))
	assert.Equal(t, int64(700), batch.PropertyValue("group"))
	for _, prop := range batch.Properties {
		assert.False(t, prop.IsDeferred())
	}
}

func TestBatchResolveWithoutLoaderFails(t *testing.T) {
	batch := NewNotificationBatch()
	batch.SetDeferredProperty("actor", "person", 1)

	err := batch.ResolveProperties(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "person")
}
