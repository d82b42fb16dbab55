package ports

import "context"

// FamilyRegisteredEvent is relayed to downstream systems (roster, billing)
// after a registration commits.
type FamilyRegisteredEvent struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

type FamilyEventPublisher interface {
	PublishFamilyRegistered(ctx context.Context, evt FamilyRegisteredEvent) error
}
