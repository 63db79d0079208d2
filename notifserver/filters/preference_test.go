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

package filters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitsocial/orbit/notifserver/api"
)

type fakePreferenceSource struct {
	suppressed []int64
	queries    int
}

func (f *fakePreferenceSource) GetSuppressedRecipients(_ context.Context, _ []int64, _ api.NotificationType, _ api.Channel) ([]int64, error) {
	f.queries++
	return f.suppressed, nil
}

func TestPreferenceFilterDropsSuppressed(t *testing.T) {
	source := &fakePreferenceSource{suppressed: []int64{2, 4}}
	filter := &PreferenceFilter{DB: source}

	kept, err := filter.Filter(context.Background(), api.FollowPerson, api.ChannelEmail, []int64{1, 2, 3, 4, 5})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, 5}, kept)
	assert.Equal(t, 1, source.queries)
}

func TestPreferenceFilterKeepsAllWhenNoneSuppressed(t *testing.T) {
	filter := &PreferenceFilter{DB: &fakePreferenceSource{}}

	kept, err := filter.Filter(context.Background(), api.FollowPerson, api.ChannelInApp, []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, kept)
}

func TestPreferenceFilterEmptyInputSkipsQuery(t *testing.T) {
	source := &fakePreferenceSource{}
	filter := &PreferenceFilter{DB: source}

	kept, err := filter.Filter(context.Background(), api.FollowPerson, api.ChannelAlert, nil)
	require.NoError(t, err)
	assert.Empty(t, kept)
	assert.Zero(t, source.queries)
}
