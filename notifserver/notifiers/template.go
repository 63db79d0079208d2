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
	"html"
	"regexp"
	"strconv"
	"strings"

	streamtypes "github.com/orbitsocial/orbit/streamserver/types"
)

// tokenPattern matches $(token) references in email templates.
var tokenPattern = regexp.MustCompile(`\$\(([^)]+)\)`)

// Email is the assembled message handed to the mailer.
type Email struct {
	To       []string
	Cc       []string
	Bcc      []string
	Subject  string
	TextBody string
	HTMLBody string
}

// EmailContext carries the lookup sections for one build. Resolution
// order is Data, then the builder's static Extra properties, then
// Invocation, then the actor/activity/aux/settings sections. The first
// section holding the token wins; unknown tokens render empty.
type EmailContext struct {
	Data       map[string]string
	Invocation map[string]string
	Actor      *streamtypes.PersonModelView
	Activity   *streamtypes.ActivityModelView
	Aux        map[string]string
	Settings   map[string]string
}

// TemplateEmailBuilder renders subject and body templates by $(token)
// substitution. HTML escaping is applied to the HTML body variant
// only; the subject and text body carry values verbatim.
type TemplateEmailBuilder struct {
	SubjectTemplate  string
	TextBodyTemplate string
	HTMLBodyTemplate string
	// Extra holds static properties shared by every invocation.
	Extra map[string]string
}

// Build renders the templates against the context.
func (b *TemplateEmailBuilder) Build(ectx *EmailContext) *Email {
	return &Email{
		Subject:  b.substitute(b.SubjectTemplate, ectx, false),
		TextBody: b.substitute(b.TextBodyTemplate, ectx, false),
		HTMLBody: b.substitute(b.HTMLBodyTemplate, ectx, true),
	}
}

func (b *TemplateEmailBuilder) substitute(template string, ectx *EmailContext, escapeHTML bool) string {
	return tokenPattern.ReplaceAllStringFunc(template, func(match string) string {
		token := match[2 : len(match)-1]
		value, _ := b.resolve(token, ectx)
		if escapeHTML {
			value = html.EscapeString(value)
		}
		return value
	})
}

func (b *TemplateEmailBuilder) resolve(token string, ectx *EmailContext) (string, bool) {
	if value, ok := ectx.Data[token]; ok {
		return value, true
	}
	if value, ok := b.Extra[token]; ok {
		return value, true
	}
	if value, ok := ectx.Invocation[token]; ok {
		return value, true
	}
	switch {
	case strings.HasPrefix(token, "actor.") && ectx.Actor != nil:
		return resolveActor(strings.TrimPrefix(token, "actor."), ectx.Actor)
	case strings.HasPrefix(token, "activity.") && ectx.Activity != nil:
		return resolveActivity(strings.TrimPrefix(token, "activity."), ectx.Activity)
	case strings.HasPrefix(token, "aux."):
		value, ok := ectx.Aux[strings.TrimPrefix(token, "aux.")]
		return value, ok
	case strings.HasPrefix(token, "settings."):
		value, ok := ectx.Settings[strings.TrimPrefix(token, "settings.")]
		return value, ok
	}
	return "", false
}

func resolveActor(field string, actor *streamtypes.PersonModelView) (string, bool) {
	switch field {
	case "id":
		return strconv.FormatInt(actor.ID, 10), true
	case "name":
		return actor.DisplayName, true
	case "accountid":
		return actor.AccountID, true
	case "avatar":
		return actor.AvatarID, true
	}
	return "", false
}

func resolveActivity(field string, activity *streamtypes.ActivityModelView) (string, bool) {
	switch field {
	case "id":
		return strconv.FormatInt(activity.ID, 10), true
	case "verb":
		return activity.Verb, true
	case "content":
		return activity.Content, true
	}
	return "", false
}
