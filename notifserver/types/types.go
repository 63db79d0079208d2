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

package types

import "github.com/orbitsocial/orbit/notifserver/api"

// InAppNotification is a persisted per-recipient notification row with
// read tracking.
type InAppNotification struct {
	ID              int64                `json:"id"`
	RecipientID     int64                `json:"recipient_id"`
	Type            api.NotificationType `json:"type"`
	ActorID         int64                `json:"actor_id"`
	ActivityID      int64                `json:"activity_id,omitempty"`
	Message         string               `json:"message"`
	URL             string               `json:"url,omitempty"`
	Read            bool                 `json:"read"`
	CreatedTimeMilli int64               `json:"created_time_milli"`
}

// Alert is a persisted application alert. Unread counts per person are
// additionally cached under UnreadAlertCountByPerson.
type Alert struct {
	ID               int64                `json:"id"`
	RecipientID      int64                `json:"recipient_id"`
	Type             api.NotificationType `json:"type"`
	Message          string               `json:"message"`
	URL              string               `json:"url,omitempty"`
	Read             bool                 `json:"read"`
	CreatedTimeMilli int64                `json:"created_time_milli"`
}
