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

package internal

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitsocial/orbit/internal/eventutil"
	"github.com/orbitsocial/orbit/notifserver/api"
	"github.com/orbitsocial/orbit/notifserver/filters"
	"github.com/orbitsocial/orbit/notifserver/notifiers"
	"github.com/orbitsocial/orbit/notifserver/translators"
)

type fakeTranslator struct {
	batch *api.NotificationBatch
	err   error
}

func (f *fakeTranslator) Translate(_ context.Context, _ *eventutil.NotificationRequest) (*api.NotificationBatch, error) {
	return f.batch, f.err
}

type recordingNotifier struct {
	channel api.Channel
	sent    []*api.Notification
	err     error
}

func (n *recordingNotifier) Channel() api.Channel { return n.channel }

func (n *recordingNotifier) Notify(_ context.Context, notification *api.Notification) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, notification)
	return nil
}

type dropAllFilter struct{}

func (dropAllFilter) Filter(_ context.Context, _ api.NotificationType, _ api.Channel, _ []int64) ([]int64, error) {
	return nil, nil
}

type recordingPublisher struct {
	requests []*eventutil.UserActionRequest
}

func (p *recordingPublisher) RequestUserAction(_ context.Context, req *eventutil.UserActionRequest) error {
	p.requests = append(p.requests, req)
	return nil
}

func followBatch(recipientIDs ...int64) *api.NotificationBatch {
	batch := api.NewNotificationBatch()
	batch.SetRecipients(api.FollowPerson, recipientIDs...)
	return batch
}

func TestPipelineDispatchesAndPublishesFollowUp(t *testing.T) {
	notifier := &recordingNotifier{channel: api.ChannelInApp}
	publisher := &recordingPublisher{}
	pipeline := &Pipeline{
		Translators: translators.Registry{"FOLLOW_PERSON": &fakeTranslator{batch: followBatch(9)}},
		Notifiers:   []notifiers.Notifier{notifier},
		Publisher:   publisher,
	}

	require.NoError(t, pipeline.Process(context.Background(), &eventutil.NotificationRequest{
		EventType: "FOLLOW_PERSON",
		ActorID:   4,
	}))

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, int64(9), notifier.sent[0].RecipientID)
	assert.Equal(t, int64(4), notifier.sent[0].ActorID)
	assert.Equal(t, "", notifier.sent[0].URL)

	require.Len(t, publisher.requests, 1)
	assert.Equal(t, "refreshNotificationCount", publisher.requests[0].ActionKey)
	assert.Equal(t, int64(9), publisher.requests[0].PersonID)
}

func TestPipelineMissingTranslatorIsFatal(t *testing.T) {
	pipeline := &Pipeline{Translators: translators.Registry{}}

	err := pipeline.Process(context.Background(), &eventutil.NotificationRequest{EventType: "NO_SUCH_EVENT"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoTranslator))
}

func TestPipelineFilteredRecipientsGetNothing(t *testing.T) {
	notifier := &recordingNotifier{channel: api.ChannelEmail}
	publisher := &recordingPublisher{}
	pipeline := &Pipeline{
		Translators: translators.Registry{"FOLLOW_PERSON": &fakeTranslator{batch: followBatch(9)}},
		Filters:     []filters.RecipientFilter{dropAllFilter{}},
		Notifiers:   []notifiers.Notifier{notifier},
		Publisher:   publisher,
	}

	require.NoError(t, pipeline.Process(context.Background(), &eventutil.NotificationRequest{
		EventType: "FOLLOW_PERSON",
	}))

	assert.Empty(t, notifier.sent)
	assert.Empty(t, publisher.requests)
}

func TestPipelineIsolatesNotifierFailures(t *testing.T) {
	failing := &recordingNotifier{channel: api.ChannelEmail, err: errors.New("smtp down")}
	working := &recordingNotifier{channel: api.ChannelInApp}
	publisher := &recordingPublisher{}
	pipeline := &Pipeline{
		Translators: translators.Registry{"FOLLOW_PERSON": &fakeTranslator{batch: followBatch(9)}},
		Notifiers:   []notifiers.Notifier{failing, working},
		Publisher:   publisher,
	}

	// A failing channel does not stop delivery on the others.
	require.NoError(t, pipeline.Process(context.Background(), &eventutil.NotificationRequest{
		EventType: "FOLLOW_PERSON",
	}))

	assert.Empty(t, failing.sent)
	require.Len(t, working.sent, 1)
	require.Len(t, publisher.requests, 1)
}

func TestPipelineEmptyBatchIsNoOp(t *testing.T) {
	notifier := &recordingNotifier{channel: api.ChannelInApp}
	pipeline := &Pipeline{
		Translators: translators.Registry{"FOLLOW_PERSON": &fakeTranslator{batch: api.NewNotificationBatch()}},
		Notifiers:   []notifiers.Notifier{notifier},
	}

	require.NoError(t, pipeline.Process(context.Background(), &eventutil.NotificationRequest{
		EventType: "FOLLOW_PERSON",
	}))
	assert.Empty(t, notifier.sent)
}

func TestPipelineActivityURL(t *testing.T) {
	notifier := &recordingNotifier{channel: api.ChannelInApp}
	batch := api.NewNotificationBatch()
	batch.SetRecipients(api.LikeActivity, 2)
	pipeline := &Pipeline{
		Translators: translators.Registry{"LIKE_ACTIVITY": &fakeTranslator{batch: batch}},
		Notifiers:   []notifiers.Notifier{notifier},
	}

	require.NoError(t, pipeline.Process(context.Background(), &eventutil.NotificationRequest{
		EventType:  "LIKE_ACTIVITY",
		ActivityID: 77,
	}))
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "/activity/77", notifier.sent[0].URL)
}
