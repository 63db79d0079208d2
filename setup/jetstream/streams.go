package jetstream

import (
	"regexp"
	"time"

	"github.com/nats-io/nats.go"
)

// Header names carried on change-event messages.
const (
	EntityID   = "entity_id"
	EntityKind = "entity_kind"
	ActorID    = "actor_id"
)

var (
	OutputPersonEvent       = "OutputPersonEvent"
	OutputGroupEvent        = "OutputGroupEvent"
	OutputOrganizationEvent = "OutputOrganizationEvent"
	OutputFollowEvent       = "OutputFollowEvent"
	OutputActivityEvent     = "OutputActivityEvent"
	RequestNotification     = "RequestNotification"
	RequestUserAction       = "RequestUserAction"
)

var safeCharacters = regexp.MustCompile("[^A-Za-z0-9$]+")

func Tokenise(str string) string {
	return safeCharacters.ReplaceAllString(str, "_")
}

var streams = []*nats.StreamConfig{
	{
		Name:      OutputPersonEvent,
		Retention: nats.InterestPolicy,
		Storage:   nats.FileStorage,
	},
	{
		Name:      OutputGroupEvent,
		Retention: nats.InterestPolicy,
		Storage:   nats.FileStorage,
	},
	{
		Name:      OutputOrganizationEvent,
		Retention: nats.InterestPolicy,
		Storage:   nats.FileStorage,
	},
	{
		Name:      OutputFollowEvent,
		Retention: nats.InterestPolicy,
		Storage:   nats.FileStorage,
	},
	{
		Name:      OutputActivityEvent,
		Retention: nats.InterestPolicy,
		Storage:   nats.FileStorage,
		MaxAge:    time.Hour * 24,
	},
	{
		Name:      RequestNotification,
		Retention: nats.InterestPolicy,
		Storage:   nats.FileStorage,
	},
	{
		Name:      RequestUserAction,
		Retention: nats.InterestPolicy,
		Storage:   nats.FileStorage,
	},
}
