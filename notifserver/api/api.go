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
	"fmt"
)

// NotificationType identifies the kind of notification being sent.
type NotificationType string

const (
	FollowPerson           NotificationType = "FOLLOW_PERSON"
	FollowGroup            NotificationType = "FOLLOW_GROUP"
	PostToPersonalStream   NotificationType = "POST_TO_PERSONAL_STREAM"
	PostToGroupStream      NotificationType = "POST_TO_GROUP_STREAM"
	CommentToPersonalPost  NotificationType = "COMMENT_TO_PERSONAL_POST"
	CommentToCommentedPost NotificationType = "COMMENT_TO_COMMENTED_POST"
	CommentToSavedPost     NotificationType = "COMMENT_TO_SAVED_POST"
	LikeActivity           NotificationType = "LIKE_ACTIVITY"
)

// Channel is a delivery channel for notifications.
type Channel string

const (
	ChannelEmail Channel = "EMAIL"
	ChannelInApp Channel = "IN_APP"
	ChannelAlert Channel = "ALERT"
)

// PropertyLoader resolves a deferred property by identity. Loaders are
// registered per type name and called at most once per distinct
// (type, identity) pair per batch.
type PropertyLoader func(ctx context.Context, identity int64) (any, error)

// Property is a batch property: either a concrete value or a deferred
// reference resolved later by the loader registered for its type.
type Property struct {
	Value    any
	Type     string
	Identity int64
}

// Concrete wraps an already-known value.
func Concrete(value any) Property {
	return Property{Value: value}
}

// Deferred references a value to be resolved by the loader registered
// for the given type name.
func Deferred(propertyType string, identity int64) Property {
	return Property{Type: propertyType, Identity: identity}
}

// IsDeferred reports whether the property still needs resolution.
func (p Property) IsDeferred() bool {
	return p.Value == nil && p.Type != ""
}

// NotificationBatch is the transient product of a translator: the
// recipients per notification type plus a property bag used to render
// the notifications. It is consumed once by the pipeline and then
// discarded, never persisted.
type NotificationBatch struct {
	Recipients map[NotificationType][]int64
	Properties map[string]Property
}

func NewNotificationBatch() *NotificationBatch {
	return &NotificationBatch{
		Recipients: make(map[NotificationType][]int64),
		Properties: make(map[string]Property),
	}
}

// SetRecipients replaces the recipient list for a type.
func (b *NotificationBatch) SetRecipients(t NotificationType, recipientIDs ...int64) {
	b.Recipients[t] = recipientIDs
}

// AddRecipient appends a single recipient for a type.
func (b *NotificationBatch) AddRecipient(t NotificationType, recipientID int64) {
	b.Recipients[t] = append(b.Recipients[t], recipientID)
}

// SetProperty stores a concrete property value.
func (b *NotificationBatch) SetProperty(name string, value any) {
	b.Properties[name] = Concrete(value)
}

// SetDeferredProperty stores a reference resolved later by the loader
// registered for propertyType.
func (b *NotificationBatch) SetDeferredProperty(name, propertyType string, identity int64) {
	b.Properties[name] = Deferred(propertyType, identity)
}

// ResolveProperties replaces every deferred property with the loader
// result. Identical (type, identity) pairs are loaded once and shared.
func (b *NotificationBatch) ResolveProperties(ctx context.Context, loaders map[string]PropertyLoader) error {
	type ref struct {
		propertyType string
		identity     int64
	}
	resolved := make(map[ref]any)
	for name, prop := range b.Properties {
		if !prop.IsDeferred() {
			continue
		}
		r := ref{prop.Type, prop.Identity}
		value, ok := resolved[r]
		if !ok {
			loader, ok := loaders[prop.Type]
			if !ok {
				return fmt.Errorf("no property loader registered for type %q", prop.Type)
			}
			var err error
			if value, err = loader(ctx, prop.Identity); err != nil {
				return fmt.Errorf("resolving property %q: %w", name, err)
			}
			resolved[r] = value
		}
		b.Properties[name] = Concrete(value)
	}
	return nil
}

// PropertyValue returns the concrete value of a property, or nil if the
// property is absent or still deferred.
func (b *NotificationBatch) PropertyValue(name string) any {
	return b.Properties[name].Value
}

// Notification is one rendered, per-recipient notification handed to
// the notifiers.
type Notification struct {
	Type        NotificationType
	RecipientID int64
	ActorID     int64
	ActivityID  int64
	Properties  map[string]Property
	// URL links the notification to the entity it concerns, relative
	// to the application base URL.
	URL string
}
