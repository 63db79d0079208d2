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

package translators

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitsocial/orbit/internal/eventutil"
	"github.com/orbitsocial/orbit/notifserver/api"
	streamtypes "github.com/orbitsocial/orbit/streamserver/types"
)

type fakeEntitySource struct {
	coordinators map[int64][]int64
	activities   map[int64]*streamtypes.ActivityModelView
	commenters   map[int64][]int64
}

func (f *fakeEntitySource) GetPerson(_ context.Context, personID int64) (*streamtypes.PersonModelView, error) {
	return &streamtypes.PersonModelView{ID: personID}, nil
}

func (f *fakeEntitySource) GetGroup(_ context.Context, groupID int64) (*streamtypes.DomainGroupModelView, error) {
	return &streamtypes.DomainGroupModelView{ID: groupID}, nil
}

func (f *fakeEntitySource) GetActivity(_ context.Context, activityID int64) (*streamtypes.ActivityModelView, error) {
	return f.activities[activityID], nil
}

func (f *fakeEntitySource) GetGroupCoordinators(_ context.Context, groupID int64) ([]int64, error) {
	return f.coordinators[groupID], nil
}

func (f *fakeEntitySource) GetCommenterIDs(_ context.Context, activityID int64) ([]int64, error) {
	return f.commenters[activityID], nil
}

func TestFollowPersonTranslator(t *testing.T) {
	ctx := context.Background()
	translator := &FollowPersonTranslator{}

	batch, err := translator.Translate(ctx, &eventutil.NotificationRequest{
		EventType:     "FOLLOW_PERSON",
		ActorID:       1,
		DestinationID: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, batch.Recipients[api.FollowPerson])
	assert.True(t, batch.Properties["actor"].IsDeferred())

	// Following yourself notifies nobody.
	batch, err = translator.Translate(ctx, &eventutil.NotificationRequest{
		ActorID:       1,
		DestinationID: 1,
	})
	require.NoError(t, err)
	assert.Empty(t, batch.Recipients)
}

func TestFollowGroupTranslatorSkipsActor(t *testing.T) {
	translator := &FollowGroupTranslator{Source: &fakeEntitySource{
		coordinators: map[int64][]int64{10: {1, 5, 6}},
	}}

	batch, err := translator.Translate(context.Background(), &eventutil.NotificationRequest{
		EventType:     "FOLLOW_GROUP",
		ActorID:       5,
		DestinationID: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 6}, batch.Recipients[api.FollowGroup])
}

func TestCommentTranslatorSplitsAuthorAndCommenters(t *testing.T) {
	source := &fakeEntitySource{
		activities: map[int64]*streamtypes.ActivityModelView{
			100: {ID: 100, ActorPersonID: 2, Verb: "post"},
		},
		commenters: map[int64][]int64{100: {2, 3, 4, 9}},
	}
	translator := &CommentTranslator{Source: source}

	batch, err := translator.Translate(context.Background(), &eventutil.NotificationRequest{
		EventType:     "COMMENT",
		ActorID:       3,
		DestinationID: 100,
	})
	require.NoError(t, err)
	// The post author gets the personal-post type; other commenters get
	// the commented-post type. The commenting actor gets neither.
	assert.Equal(t, []int64{2}, batch.Recipients[api.CommentToPersonalPost])
	assert.Equal(t, []int64{4, 9}, batch.Recipients[api.CommentToCommentedPost])
}

func TestCommentTranslatorAuthorCommentingOwnPost(t *testing.T) {
	source := &fakeEntitySource{
		activities: map[int64]*streamtypes.ActivityModelView{
			100: {ID: 100, ActorPersonID: 2, Verb: "post"},
		},
		commenters: map[int64][]int64{100: {2}},
	}
	translator := &CommentTranslator{Source: source}

	batch, err := translator.Translate(context.Background(), &eventutil.NotificationRequest{
		ActorID:       2,
		DestinationID: 100,
	})
	require.NoError(t, err)
	assert.Empty(t, batch.Recipients)
}

func TestLikeTranslator(t *testing.T) {
	source := &fakeEntitySource{
		activities: map[int64]*streamtypes.ActivityModelView{
			100: {ID: 100, ActorPersonID: 2},
		},
	}
	translator := &LikeTranslator{Source: source}

	batch, err := translator.Translate(context.Background(), &eventutil.NotificationRequest{
		ActorID:       7,
		DestinationID: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, batch.Recipients[api.LikeActivity])

	// Liking your own activity notifies nobody.
	batch, err = translator.Translate(context.Background(), &eventutil.NotificationRequest{
		ActorID:       2,
		DestinationID: 100,
	})
	require.NoError(t, err)
	assert.Empty(t, batch.Recipients)
}

func TestPostToPersonalStreamTranslator(t *testing.T) {
	translator := &PostToPersonalStreamTranslator{}

	batch, err := translator.Translate(context.Background(), &eventutil.NotificationRequest{
		ActorID:       1,
		DestinationID: 8,
		ActivityID:    55,
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{8}, batch.Recipients[api.PostToPersonalStream])
	assert.Equal(t, api.Deferred("activity", 55), batch.Properties["activity"])
}
