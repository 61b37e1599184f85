package types

import "fmt"

// ConnectionStatus represents the status of a connection request
type ConnectionStatus string

const (
	ConnectionStatusPending  ConnectionStatus = "pending"
	ConnectionStatusAccepted ConnectionStatus = "accepted"
	ConnectionStatusRejected ConnectionStatus = "rejected"
)

// AllConnectionStatuses returns all valid connection statuses
func AllConnectionStatuses() []ConnectionStatus {
	return []ConnectionStatus{
		ConnectionStatusPending,
		ConnectionStatusAccepted,
		ConnectionStatusRejected,
	}
}

// IsValid checks if the connection status is valid
func (s ConnectionStatus) IsValid() bool {
	switch s {
	case ConnectionStatusPending,
		ConnectionStatusAccepted,
		ConnectionStatusRejected:
		return true
	default:
		return false
	}
}

// Normalize returns the status, treating empty as pending.
func (s ConnectionStatus) Normalize() ConnectionStatus {
	if s == "" {
		return ConnectionStatusPending
	}
	return s
}

// String returns the string representation of the connection status
func (s ConnectionStatus) String() string {
	return string(s)
}

// ParseConnectionStatus parses a string into a ConnectionStatus
func ParseConnectionStatus(s string) (ConnectionStatus, error) {
	status := ConnectionStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid connection status: %s", s)
	}
	return status, nil
}
