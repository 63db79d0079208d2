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
	"testing"

	"github.com/stretchr/testify/assert"

	streamtypes "github.com/orbitsocial/orbit/streamserver/types"
)

func TestTemplateSubstitution(t *testing.T) {
	builder := &TemplateEmailBuilder{
		SubjectTemplate:  "$(actor.id)/$(actor.name)",
		TextBodyTemplate: "$(actor.name) posted: $(activity.content)",
	}
	email := builder.Build(&EmailContext{
		Actor:    &streamtypes.PersonModelView{ID: 1111, DisplayName: "Somebody Active"},
		Activity: &streamtypes.ActivityModelView{ID: 5, Content: "hello"},
	})
	assert.Equal(t, "1111/Somebody Active", email.Subject)
	assert.Equal(t, "Somebody Active posted: hello", email.TextBody)
}

func TestTemplateResolutionOrder(t *testing.T) {
	builder := &TemplateEmailBuilder{
		SubjectTemplate: "$(greeting)",
		Extra:           map[string]string{"greeting": "from extra"},
	}

	// Data wins over the builder's static Extra properties.
	email := builder.Build(&EmailContext{
		Data: map[string]string{"greeting": "from data"},
	})
	assert.Equal(t, "from data", email.Subject)

	email = builder.Build(&EmailContext{
		Invocation: map[string]string{"greeting": "from invocation"},
	})
	assert.Equal(t, "from extra", email.Subject)
}

func TestTemplateEscapesHTMLBodyOnly(t *testing.T) {
	builder := &TemplateEmailBuilder{
		TextBodyTemplate: "$(activity.content)",
		HTMLBodyTemplate: "<p>$(activity.content)</p>",
	}
	email := builder.Build(&EmailContext{
		Activity: &streamtypes.ActivityModelView{Content: `<b>bold & "quoted"</b>`},
	})
	assert.Equal(t, `<b>bold & "quoted"</b>`, email.TextBody)
	assert.Equal(t, "<p>&lt;b&gt;bold &amp; &#34;quoted&#34;&lt;/b&gt;</p>", email.HTMLBody)
}

func TestTemplateUnknownTokensRenderEmpty(t *testing.T) {
	builder := &TemplateEmailBuilder{
		SubjectTemplate: "[$(missing)] $(settings.baseurl)$(url)",
	}
	email := builder.Build(&EmailContext{
		Invocation: map[string]string{"url": "/activity/5"},
		Settings:   map[string]string{"baseurl": "https://orbit.example"},
	})
	assert.Equal(t, "[] https://orbit.example/activity/5", email.Subject)
}
