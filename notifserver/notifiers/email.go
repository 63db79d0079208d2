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
	"fmt"

	"github.com/orbitsocial/orbit/notifserver/api"
	streamtypes "github.com/orbitsocial/orbit/streamserver/types"
)

// AddressResolver turns a person id into an email address.
type AddressResolver func(ctx context.Context, personID int64) (string, error)

// EmailNotifier renders a per-type email template and hands it to the
// mailer. A notification type with no registered builder is a fatal
// error for that request.
type EmailNotifier struct {
	Builders map[api.NotificationType]*TemplateEmailBuilder
	Mailer   Mailer
	Resolve  AddressResolver
	// Settings are exposed to templates under the settings. prefix,
	// e.g. settings.baseurl.
	Settings map[string]string
}

func (n *EmailNotifier) Channel() api.Channel {
	return api.ChannelEmail
}

func (n *EmailNotifier) Notify(ctx context.Context, notification *api.Notification) error {
	builder, ok := n.Builders[notification.Type]
	if !ok {
		return fmt.Errorf("no email builder registered for notification type %q", notification.Type)
	}
	address, err := n.Resolve(ctx, notification.RecipientID)
	if err != nil {
		return err
	}
	ectx := &EmailContext{
		Invocation: map[string]string{"url": notification.URL},
		Settings:   n.Settings,
	}
	if actor, ok := notification.Properties["actor"].Value.(*streamtypes.PersonModelView); ok {
		ectx.Actor = actor
	}
	if activity, ok := notification.Properties["activity"].Value.(*streamtypes.ActivityModelView); ok {
		ectx.Activity = activity
	}
	email := builder.Build(ectx)
	email.To = []string{address}
	return n.Mailer.Send(email)
}
