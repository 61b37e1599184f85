package types

import "github.com/google/uuid"

// UserID is the identifier of a user. It equals the external identity
// provider's user ID, so it is never generated locally.
type UserID string

func (id UserID) String() string { return string(id) }

// ConnectionID is the identifier of a connection request between two users.
type ConnectionID string

func NewConnectionID() ConnectionID { return ConnectionID(uuid.NewString()) }

func (id ConnectionID) String() string { return string(id) }

// StoryID is the identifier of a story.
type StoryID string

func NewStoryID() StoryID { return StoryID(uuid.NewString()) }

func (id StoryID) String() string { return string(id) }

// MessageID is the identifier of a direct message.
type MessageID string

func NewMessageID() MessageID { return MessageID(uuid.NewString()) }

func (id MessageID) String() string { return string(id) }

// RunID is the identifier of a single workflow execution.
type RunID string

func NewRunID() RunID { return RunID(uuid.NewString()) }

func (id RunID) String() string { return string(id) }

// WorkflowID names a registered workflow handler.
type WorkflowID string

func (id WorkflowID) String() string { return string(id) }
