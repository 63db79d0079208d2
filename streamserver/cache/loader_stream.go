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

package cache

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/orbitsocial/orbit/internal/caching"
	"github.com/orbitsocial/orbit/streamserver/storage"
	"github.com/orbitsocial/orbit/streamserver/types"
)

// StreamLoader bulk-populates the bounded activity id lists backing
// every composite stream feed, newest first, trimmed to the configured
// maximum.
type StreamLoader struct {
	DB      storage.Database
	Cache   caching.Cache
	Maximum int
}

func (l *StreamLoader) Load(ctx context.Context) error {
	streams, err := l.DB.GetAllCompositeStreams(ctx)
	if err != nil {
		return fmt.Errorf("querying composite streams: %w", err)
	}
	for _, stream := range streams {
		if err := stream.ScopeType.Validate(); err != nil {
			return err
		}
		ids, err := l.DB.GetRecentActivityIDsByStreamScope(ctx, stream.ScopeID, l.Maximum)
		if err != nil {
			return fmt.Errorf("querying activities for stream %d: %w", stream.ID, err)
		}
		if err := l.Cache.SetList(ctx, caching.ActivitiesByCompositeStream.Key(stream.ID), ids); err != nil {
			return err
		}
	}
	logrus.WithField("streams", len(streams)).Info("Loaded composite streams into cache")
	return nil
}

// GetActivities resolves a composite stream feed to activity views,
// reading the id list and the per-activity entries through the cache.
func (l *StreamLoader) GetActivities(ctx context.Context, streamID int64) ([]types.ActivityModelView, error) {
	ids, found, err := l.Cache.GetList(ctx, caching.ActivitiesByCompositeStream.Key(streamID))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	mapper := NewBulkViewMapper[types.ActivityModelView](
		l.Cache, caching.ActivityByID,
		func(a types.ActivityModelView) int64 { return a.ID },
		l.DB.GetActivitiesByIDs,
	)
	return mapper.Get(ctx, ids)
}
