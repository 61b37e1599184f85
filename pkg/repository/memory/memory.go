package memory

import (
	"github.com/vela-social/vela/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory is an in-memory repository used for development mode and tests.
type Memory struct {
	user       *userRepository
	connection *connectionRepository
	story      *storyRepository
	message    *messageRepository
	run        *workflowRunRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		user:       newUserRepository(),
		connection: newConnectionRepository(),
		story:      newStoryRepository(),
		message:    newMessageRepository(),
		run:        newWorkflowRunRepository(),
	}
}

func (m *Memory) User() interfaces.UserRepository {
	return m.user
}

func (m *Memory) Connection() interfaces.ConnectionRepository {
	return m.connection
}

func (m *Memory) Story() interfaces.StoryRepository {
	return m.story
}

func (m *Memory) Message() interfaces.MessageRepository {
	return m.message
}

func (m *Memory) WorkflowRun() interfaces.WorkflowRunRepository {
	return m.run
}

func (m *Memory) Close() error {
	return nil
}
