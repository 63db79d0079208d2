package eventutil

// Change events published by the storage layer and consumed by the
// cache updaters and the notification pipeline. These replace the ORM
// lifecycle callbacks of older designs: mutators publish, subscribers
// react, and the dependency is explicit instead of living in static
// per-entity-class state.

// EntityOp describes what happened to an entity.
type EntityOp string

const (
	EntityCreated EntityOp = "created"
	EntityUpdated EntityOp = "updated"
	EntityDeleted EntityOp = "deleted"
)

// PersonChange is published on every person mutation.
type PersonChange struct {
	Op       EntityOp `json:"op"`
	PersonID int64    `json:"person_id"`
}

// GroupChange is published on every domain group mutation.
type GroupChange struct {
	Op      EntityOp `json:"op"`
	GroupID int64    `json:"group_id"`
}

// OrganizationChange is published on every organization mutation.
// Reparented is set when the structural position of the organization
// within the tree changed, which invalidates the hierarchy closures.
type OrganizationChange struct {
	Op             EntityOp `json:"op"`
	OrganizationID int64    `json:"organization_id"`
	Reparented     bool     `json:"reparented,omitempty"`
	OldParentID    int64    `json:"old_parent_id,omitempty"`
	NewParentID    int64    `json:"new_parent_id,omitempty"`
}

// FollowChange is published when a follow relationship is added or
// removed. TargetType says whether the followed entity is a person or
// a domain group.
type FollowChange struct {
	Following  bool   `json:"following"`
	FollowerID int64  `json:"follower_id"`
	TargetType string `json:"target_type"`
	TargetID   int64  `json:"target_id"`
}

const (
	FollowTargetPerson = "person"
	FollowTargetGroup  = "group"
)

// ActivityChange is published when an activity is posted to or removed
// from a stream. DestinationStreamIDs lists every composite stream list
// the activity belongs on; for deletes it lists every list the id must
// be removed from.
type ActivityChange struct {
	Op                   EntityOp `json:"op"`
	ActivityID           int64    `json:"activity_id"`
	ActorPersonID        int64    `json:"actor_person_id"`
	DestinationStreamIDs []int64  `json:"destination_stream_ids,omitempty"`
	RecipientPersonIDs   []int64  `json:"recipient_person_ids,omitempty"`
}

// NotificationRequest asks the notification pipeline to translate and
// dispatch notifications for a triggering domain event.
type NotificationRequest struct {
	// EventType selects the translator, e.g. "FOLLOW_PERSON",
	// "POST_TO_PERSONAL_STREAM", "COMMENT_TO_COMMENTED_POST".
	EventType string `json:"event_type"`
	// ActorID is the person whose action triggered the notification.
	ActorID int64 `json:"actor_id"`
	// DestinationID identifies the entity acted upon (person, group,
	// activity), interpreted per event type.
	DestinationID int64 `json:"destination_id"`
	// ActivityID carries the related activity where one exists.
	ActivityID int64 `json:"activity_id,omitempty"`
}

// UserActionRequest is the serializable follow-up action a notifier can
// enqueue for asynchronous execution by the task infrastructure.
type UserActionRequest struct {
	ActionKey string `json:"action_key"`
	PersonID  int64  `json:"person_id"`
	Payload   []byte `json:"payload,omitempty"`
}
