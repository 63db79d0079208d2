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

package notifserver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"github.com/orbitsocial/orbit/internal/caching"
	"github.com/orbitsocial/orbit/notifserver/api"
	"github.com/orbitsocial/orbit/notifserver/consumers"
	"github.com/orbitsocial/orbit/notifserver/filters"
	"github.com/orbitsocial/orbit/notifserver/internal"
	"github.com/orbitsocial/orbit/notifserver/notifiers"
	"github.com/orbitsocial/orbit/notifserver/producers"
	"github.com/orbitsocial/orbit/notifserver/storage"
	"github.com/orbitsocial/orbit/notifserver/translators"
	"github.com/orbitsocial/orbit/setup/config"
	"github.com/orbitsocial/orbit/setup/jetstream"
	"github.com/orbitsocial/orbit/setup/process"
)

// NotifServer is the notification pipeline component.
type NotifServer struct {
	DB       storage.Database
	Pipeline *internal.Pipeline
	Alerts   *notifiers.AlertNotifier
}

// NewInternalAPI wires the translator registry, property loaders,
// preference filter and the channel notifiers, then starts the request
// consumer. The email channel only runs when an SMTP host is
// configured.
func NewInternalAPI(
	process *process.ProcessContext,
	cfg *config.NotifServer,
	cacheClient caching.Cache,
	js nats.JetStreamContext,
	source translators.EntitySource,
) *NotifServer {
	db, err := storage.NewDatabase(cfg.DatabaseOpts())
	if err != nil {
		logrus.WithError(err).Panicf("failed to connect to notifserver db")
	}

	registry := translators.Registry{
		string(api.FollowPerson):          &translators.FollowPersonTranslator{},
		string(api.FollowGroup):           &translators.FollowGroupTranslator{Source: source},
		string(api.PostToPersonalStream):  &translators.PostToPersonalStreamTranslator{},
		string(api.PostToGroupStream):     &translators.PostToGroupStreamTranslator{Source: source},
		string(api.CommentToPersonalPost): &translators.CommentTranslator{Source: source},
		string(api.LikeActivity):          &translators.LikeTranslator{Source: source},
	}

	loaders := map[string]api.PropertyLoader{
		"person": func(ctx context.Context, identity int64) (any, error) {
			return source.GetPerson(ctx, identity)
		},
		"group": func(ctx context.Context, identity int64) (any, error) {
			return source.GetGroup(ctx, identity)
		},
		"activity": func(ctx context.Context, identity int64) (any, error) {
			return source.GetActivity(ctx, identity)
		},
	}

	alerts := &notifiers.AlertNotifier{DB: db, Cache: cacheClient}
	channelNotifiers := []notifiers.Notifier{
		&notifiers.InAppNotifier{DB: db},
		alerts,
	}
	if cfg.Email.Host != "" {
		mailer, err := notifiers.NewSMTPMailer(&cfg.Email)
		if err != nil {
			logrus.WithError(err).Panicf("failed to connect to SMTP host")
		}
		channelNotifiers = append(channelNotifiers, &notifiers.EmailNotifier{
			Builders: loadEmailBuilders(cfg.Email.TemplatesPath, cfg.BaseURL),
			Mailer:   mailer,
			Resolve: func(ctx context.Context, personID int64) (string, error) {
				person, err := source.GetPerson(ctx, personID)
				if err != nil {
					return "", err
				}
				if person.Email == "" {
					return "", fmt.Errorf("person %d has no email address", personID)
				}
				return person.Email, nil
			},
			Settings: map[string]string{"baseurl": cfg.BaseURL},
		})
	}

	pipeline := &internal.Pipeline{
		Translators: registry,
		Loaders:     loaders,
		Filters:     []filters.RecipientFilter{&filters.PreferenceFilter{DB: db}},
		Notifiers:   channelNotifiers,
		Publisher: &producers.UserActionProducer{
			JetStream: js,
			Topic:     cfg.Global.JetStream.TopicFor(jetstream.RequestUserAction),
		},
	}

	if err := consumers.NewRequestNotificationConsumer(process, cfg, js, pipeline).Start(); err != nil {
		logrus.WithError(err).Panicf("failed to start notification request consumer")
	}

	return &NotifServer{DB: db, Pipeline: pipeline, Alerts: alerts}
}

// loadEmailBuilders reads per-type template overrides from the
// templates directory, falling back to the built-in templates. The
// override files are <TYPE>_subject.txt, <TYPE>_text.txt and
// <TYPE>_html.txt.
func loadEmailBuilders(templatesPath, baseURL string) map[api.NotificationType]*notifiers.TemplateEmailBuilder {
	builders := defaultEmailBuilders()
	for notificationType, builder := range builders {
		if subject, err := os.ReadFile(filepath.Join(templatesPath, string(notificationType)+"_subject.txt")); err == nil {
			builder.SubjectTemplate = string(subject)
		}
		if text, err := os.ReadFile(filepath.Join(templatesPath, string(notificationType)+"_text.txt")); err == nil {
			builder.TextBodyTemplate = string(text)
		}
		if htmlBody, err := os.ReadFile(filepath.Join(templatesPath, string(notificationType)+"_html.txt")); err == nil {
			builder.HTMLBodyTemplate = string(htmlBody)
		}
		builder.Extra = map[string]string{"baseurl": baseURL}
	}
	return builders
}

func defaultEmailBuilders() map[api.NotificationType]*notifiers.TemplateEmailBuilder {
	return map[api.NotificationType]*notifiers.TemplateEmailBuilder{
		api.FollowPerson: {
			SubjectTemplate:  "$(actor.name) is now following you",
			TextBodyTemplate: "$(actor.name) is now following you. $(settings.baseurl)$(url)",
			HTMLBodyTemplate: "<p><b>$(actor.name)</b> is now following you.</p>",
		},
		api.FollowGroup: {
			SubjectTemplate:  "$(actor.name) is now following your group",
			TextBodyTemplate: "$(actor.name) is now following your group. $(settings.baseurl)$(url)",
			HTMLBodyTemplate: "<p><b>$(actor.name)</b> is now following your group.</p>",
		},
		api.PostToPersonalStream: {
			SubjectTemplate:  "$(actor.name) posted to your stream",
			TextBodyTemplate: "$(actor.name) posted to your stream: $(activity.content)",
			HTMLBodyTemplate: "<p><b>$(actor.name)</b> posted to your stream:</p><p>$(activity.content)</p>",
		},
		api.PostToGroupStream: {
			SubjectTemplate:  "$(actor.name) posted to your group",
			TextBodyTemplate: "$(actor.name) posted to your group: $(activity.content)",
			HTMLBodyTemplate: "<p><b>$(actor.name)</b> posted to your group:</p><p>$(activity.content)</p>",
		},
		api.CommentToPersonalPost: {
			SubjectTemplate:  "$(actor.name) commented on your post",
			TextBodyTemplate: "$(actor.name) commented on your post: $(activity.content)",
			HTMLBodyTemplate: "<p><b>$(actor.name)</b> commented on your post:</p><p>$(activity.content)</p>",
		},
		api.CommentToCommentedPost: {
			SubjectTemplate:  "$(actor.name) commented on a post you commented on",
			TextBodyTemplate: "$(actor.name) commented on a post you commented on: $(activity.content)",
			HTMLBodyTemplate: "<p><b>$(actor.name)</b> commented on a post you commented on:</p><p>$(activity.content)</p>",
		},
		api.CommentToSavedPost: {
			SubjectTemplate:  "$(actor.name) commented on a post you saved",
			TextBodyTemplate: "$(actor.name) commented on a post you saved: $(activity.content)",
			HTMLBodyTemplate: "<p><b>$(actor.name)</b> commented on a post you saved:</p><p>$(activity.content)</p>",
		},
		api.LikeActivity: {
			SubjectTemplate:  "$(actor.name) liked your post",
			TextBodyTemplate: "$(actor.name) liked your post: $(activity.content)",
			HTMLBodyTemplate: "<p><b>$(actor.name)</b> liked your post.</p>",
		},
	}
}
