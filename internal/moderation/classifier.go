package moderation

import (
	"strings"

	"github.com/go-telegram/bot/models"
)

// Classify maps a message's structural attributes to the set of content tags
// it carries. It is pure and total: no I/O, no failure, deterministic output
// order matching AllTags. A message may yield zero, one, or several tags; a
// document that is an animation yields both gif and attachment.
func Classify(msg *models.Message) []ContentTag {
	if msg == nil {
		return nil
	}

	found := make(map[ContentTag]bool)

	// Entity metadata lives in two places: media captions carry their own
	// entity list separate from the text entities.
	for _, ent := range msg.Entities {
		classifyEntity(ent.Type, found)
	}
	for _, ent := range msg.CaptionEntities {
		classifyEntity(ent.Type, found)
	}

	if len(msg.NewChatMembers) > 0 {
		found[TagUserJoin] = true
		for _, user := range msg.NewChatMembers {
			if user.IsBot {
				found[TagBotJoin] = true
			}
		}
	}
	if msg.LeftChatMember != nil {
		found[TagUserLeave] = true
	}

	if msg.Sticker != nil {
		found[TagSticker] = true
	}
	if msg.Animation != nil {
		found[TagGIF] = true
	}
	if msg.Voice != nil {
		found[TagVoice] = true
	}
	if msg.Document != nil {
		found[TagAttachment] = true
		if strings.HasPrefix(msg.Document.MimeType, "video/") {
			found[TagGIF] = true
		}
	}
	if msg.Audio != nil {
		found[TagAudio] = true
	}
	if len(msg.Photo) > 0 {
		found[TagPhoto] = true
	}
	if msg.VideoNote != nil {
		found[TagVideoMessage] = true
	}

	if len(found) == 0 {
		return nil
	}
	tags := make([]ContentTag, 0, len(found))
	for _, tag := range AllTags {
		if found[tag] {
			tags = append(tags, tag)
		}
	}
	return tags
}

func classifyEntity(entType models.MessageEntityType, found map[ContentTag]bool) {
	switch entType {
	case models.MessageEntityTypeURL, models.MessageEntityTypeTextLink:
		found[TagLink] = true
	case models.MessageEntityTypeEmail:
		found[TagEmail] = true
	case models.MessageEntityTypeMention:
		found[TagMention] = true
	}
}
