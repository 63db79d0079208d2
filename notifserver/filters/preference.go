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

	"github.com/orbitsocial/orbit/notifserver/api"
)

// RecipientFilter reduces the recipient set for one channel before
// dispatch. Filters compose; a recipient dropped by any filter is not
// notified on that channel.
type RecipientFilter interface {
	Filter(ctx context.Context, t api.NotificationType, channel api.Channel, recipientIDs []int64) ([]int64, error)
}

type preferenceSource interface {
	GetSuppressedRecipients(ctx context.Context, personIDs []int64, notificationType api.NotificationType, channel api.Channel) ([]int64, error)
}

// PreferenceFilter drops recipients who suppressed the notification
// type on the channel. One bulk query covers the whole recipient set.
type PreferenceFilter struct {
	DB preferenceSource
}

func (f *PreferenceFilter) Filter(ctx context.Context, t api.NotificationType, channel api.Channel, recipientIDs []int64) ([]int64, error) {
	if len(recipientIDs) == 0 {
		return nil, nil
	}
	suppressed, err := f.DB.GetSuppressedRecipients(ctx, recipientIDs, t, channel)
	if err != nil {
		return nil, err
	}
	if len(suppressed) == 0 {
		return recipientIDs, nil
	}
	drop := make(map[int64]struct{}, len(suppressed))
	for _, id := range suppressed {
		drop[id] = struct{}{}
	}
	kept := make([]int64, 0, len(recipientIDs))
	for _, id := range recipientIDs {
		if _, ok := drop[id]; !ok {
			kept = append(kept, id)
		}
	}
	return kept, nil
}
