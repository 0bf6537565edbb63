// Package moderation implements the moderation decision core: message
// classification, per-chat settings, the admin roster cache, the decision
// engine, and the action executor.
package moderation

import "fmt"

// ContentTag labels one structural property of a message that moderation
// policy can allow or block.
type ContentTag string

const (
	TagLink         ContentTag = "link"
	TagEmail        ContentTag = "email"
	TagMention      ContentTag = "mention"
	TagBotJoin      ContentTag = "bot"
	TagUserJoin     ContentTag = "user_join"
	TagUserLeave    ContentTag = "user_leave"
	TagSticker      ContentTag = "sticker"
	TagGIF          ContentTag = "gif"
	TagVoice        ContentTag = "voice"
	TagAttachment   ContentTag = "attachment"
	TagAudio        ContentTag = "audio"
	TagPhoto        ContentTag = "photo"
	TagVideoMessage ContentTag = "video_message"
)

// AllTags lists every recognized tag in evaluation order. The decision engine
// and the config report both iterate this slice, so the order is stable.
var AllTags = []ContentTag{
	TagLink,
	TagEmail,
	TagMention,
	TagBotJoin,
	TagUserJoin,
	TagUserLeave,
	TagSticker,
	TagGIF,
	TagVoice,
	TagAttachment,
	TagAudio,
	TagPhoto,
	TagVideoMessage,
}

// ParseTag converts user input into a ContentTag.
// Unknown names yield ErrInvalidCommand so command handlers can reply with a
// rejection instead of treating it as a fault.
func ParseTag(s string) (ContentTag, error) {
	for _, tag := range AllTags {
		if string(tag) == s {
			return tag, nil
		}
	}
	return "", fmt.Errorf("%w: unknown tag %q", ErrInvalidCommand, s)
}

// SettingKey returns the chat-setting key holding the allow flag for a tag.
func (t ContentTag) SettingKey() string {
	return "is_allowed_" + string(t)
}
