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

package notifiers

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/orbitsocial/orbit/notifserver/api"
)

// Notifier delivers a notification over one channel. A notifier error
// is isolated per channel: the pipeline logs and counts it and carries
// on with the remaining channels.
type Notifier interface {
	Channel() api.Channel
	Notify(ctx context.Context, n *api.Notification) error
}

var (
	NotificationsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "orbit",
			Subsystem: "notifserver",
			Name:      "notifications_dispatched_total",
			Help:      "Notifications successfully handed to a channel.",
		},
		[]string{"channel"},
	)
	NotificationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "orbit",
			Subsystem: "notifserver",
			Name:      "notifications_failed_total",
			Help:      "Notifications a channel failed to deliver.",
		},
		[]string{"channel"},
	)
)
