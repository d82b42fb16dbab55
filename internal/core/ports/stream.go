package ports

import "context"

// ChangeBus carries "something changed at this key" notifications between
// writers and live subscribers. Payloads are keys only; subscribers re-read
// the document or list themselves, so delivery order between unrelated keys
// does not matter.
type ChangeBus interface {
	// Publish signals a change on the named channel.
	Publish(ctx context.Context, channel string) error
	// Subscribe delivers one signal per change on the channel until the
	// context is cancelled. The returned channel is closed on teardown;
	// exactly one subscription exists per call and it never outlives ctx.
	Subscribe(ctx context.Context, channel string) (<-chan struct{}, error)
}

// Channel naming, shared by writers and subscribers.
const (
	UserChannelPrefix   = "user:"
	ChatChannelPrefix   = "chat:"
	ReportChannelPrefix = "report:"
)

func UserChannel(userID string) string { return UserChannelPrefix + userID }
func ChatChannel(chatID string) string { return ChatChannelPrefix + chatID }
func ReportChannel(studentID, date string) string {
	return ReportChannelPrefix + studentID + ":" + date
}
