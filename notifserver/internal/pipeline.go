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
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/orbitsocial/orbit/internal/eventutil"
	"github.com/orbitsocial/orbit/notifserver/api"
	"github.com/orbitsocial/orbit/notifserver/filters"
	"github.com/orbitsocial/orbit/notifserver/notifiers"
	"github.com/orbitsocial/orbit/notifserver/translators"
)

// ErrNoTranslator marks a request whose event type has no registered
// translator. Fatal for that request, never retried.
var ErrNoTranslator = errors.New("no translator registered")

// FollowUpPublisher enqueues the asynchronous follow-up action a
// delivered notification can trigger.
type FollowUpPublisher interface {
	RequestUserAction(ctx context.Context, req *eventutil.UserActionRequest) error
}

// Pipeline runs a notification request end to end: translate, resolve
// deferred properties, filter recipients per channel, dispatch to each
// notifier and publish follow-up requests for recipients that received
// at least one delivery.
type Pipeline struct {
	Translators translators.Registry
	Loaders     map[string]api.PropertyLoader
	Filters     []filters.RecipientFilter
	Notifiers   []notifiers.Notifier
	Publisher   FollowUpPublisher
}

// Process handles one request. A missing translator is a fatal error
// for the request and is not retried. Notifier failures are isolated
// per channel: logged, counted and skipped.
func (p *Pipeline) Process(ctx context.Context, req *eventutil.NotificationRequest) error {
	translator, ok := p.Translators[req.EventType]
	if !ok {
		return fmt.Errorf("%w for event type %q", ErrNoTranslator, req.EventType)
	}
	batch, err := translator.Translate(ctx, req)
	if err != nil {
		return fmt.Errorf("translating %q: %w", req.EventType, err)
	}
	if len(batch.Recipients) == 0 {
		return nil
	}
	if err := batch.ResolveProperties(ctx, p.Loaders); err != nil {
		return err
	}

	notified := make(map[int64]struct{})
	for notificationType, recipientIDs := range batch.Recipients {
		for _, notifier := range p.Notifiers {
			allowed, err := p.filter(ctx, notificationType, notifier.Channel(), recipientIDs)
			if err != nil {
				return err
			}
			for _, recipientID := range allowed {
				notification := &api.Notification{
					Type:        notificationType,
					RecipientID: recipientID,
					ActorID:     req.ActorID,
					ActivityID:  req.ActivityID,
					Properties:  batch.Properties,
					URL:         notificationURL(req),
				}
				if err := notifier.Notify(ctx, notification); err != nil {
					log.WithError(err).WithFields(log.Fields{
						"channel":      notifier.Channel(),
						"type":         notificationType,
						"recipient_id": recipientID,
					}).Error("notification dispatch failed")
					notifiers.NotificationsFailed.WithLabelValues(string(notifier.Channel())).Inc()
					continue
				}
				notifiers.NotificationsDispatched.WithLabelValues(string(notifier.Channel())).Inc()
				notified[recipientID] = struct{}{}
			}
		}
	}

	if p.Publisher == nil {
		return nil
	}
	for recipientID := range notified {
		if err := p.Publisher.RequestUserAction(ctx, &eventutil.UserActionRequest{
			ActionKey: "refreshNotificationCount",
			PersonID:  recipientID,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) filter(ctx context.Context, t api.NotificationType, channel api.Channel, recipientIDs []int64) ([]int64, error) {
	allowed := recipientIDs
	for _, filter := range p.Filters {
		var err error
		if allowed, err = filter.Filter(ctx, t, channel, allowed); err != nil {
			return nil, err
		}
		if len(allowed) == 0 {
			return nil, nil
		}
	}
	return allowed, nil
}

func notificationURL(req *eventutil.NotificationRequest) string {
	if req.ActivityID != 0 {
		return fmt.Sprintf("/activity/%d", req.ActivityID)
	}
	return ""
}
