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

	"github.com/orbitsocial/orbit/internal/eventutil"
	"github.com/orbitsocial/orbit/notifserver/api"
	streamtypes "github.com/orbitsocial/orbit/streamserver/types"
)

// EntitySource is the slice of entity data translators and property
// loaders need. The monolith backs it with the streamserver's cache
// loaders.
type EntitySource interface {
	GetPerson(ctx context.Context, personID int64) (*streamtypes.PersonModelView, error)
	GetGroup(ctx context.Context, groupID int64) (*streamtypes.DomainGroupModelView, error)
	GetActivity(ctx context.Context, activityID int64) (*streamtypes.ActivityModelView, error)
	GetGroupCoordinators(ctx context.Context, groupID int64) ([]int64, error)
	GetCommenterIDs(ctx context.Context, activityID int64) ([]int64, error)
}

// Translator turns a triggering domain event into a NotificationBatch.
// A batch with no recipients is valid and results in no dispatches.
type Translator interface {
	Translate(ctx context.Context, req *eventutil.NotificationRequest) (*api.NotificationBatch, error)
}

// Registry maps event types to their translators. A request whose
// event type has no registered translator is a fatal error for that
// request; it is not retried.
type Registry map[string]Translator

// without filters id out of ids, preserving order.
func without(ids []int64, id int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
