package moderation_test

import (
	"slices"
	"testing"

	"github.com/go-telegram/bot/models"

	"github.com/HoltTechnologyCorporation/watchdog-robot/internal/moderation"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		msg  *models.Message
		want []moderation.ContentTag
	}{
		{
			name: "nil message",
			msg:  nil,
			want: nil,
		},
		{
			name: "plain text",
			msg:  &models.Message{Text: "hello there"},
			want: nil,
		},
		{
			name: "url entity",
			msg: &models.Message{
				Text:     "see https://example.com",
				Entities: []models.MessageEntity{{Type: models.MessageEntityTypeURL}},
			},
			want: []moderation.ContentTag{moderation.TagLink},
		},
		{
			name: "text link entity",
			msg: &models.Message{
				Text:     "see this",
				Entities: []models.MessageEntity{{Type: models.MessageEntityTypeTextLink}},
			},
			want: []moderation.ContentTag{moderation.TagLink},
		},
		{
			name: "email entity",
			msg: &models.Message{
				Text:     "mail me at someone@example.com",
				Entities: []models.MessageEntity{{Type: models.MessageEntityTypeEmail}},
			},
			want: []moderation.ContentTag{moderation.TagEmail},
		},
		{
			name: "mention entity",
			msg: &models.Message{
				Text:     "ask @someone",
				Entities: []models.MessageEntity{{Type: models.MessageEntityTypeMention}},
			},
			want: []moderation.ContentTag{moderation.TagMention},
		},
		{
			name: "bold entity is ignored",
			msg: &models.Message{
				Text:     "important",
				Entities: []models.MessageEntity{{Type: models.MessageEntityTypeBold}},
			},
			want: nil,
		},
		{
			name: "link in photo caption",
			msg: &models.Message{
				Photo:           []models.PhotoSize{{FileID: "f1"}},
				Caption:         "https://example.com",
				CaptionEntities: []models.MessageEntity{{Type: models.MessageEntityTypeURL}},
			},
			want: []moderation.ContentTag{moderation.TagLink, moderation.TagPhoto},
		},
		{
			name: "human joins",
			msg: &models.Message{
				NewChatMembers: []models.User{{ID: 10, FirstName: "Ann"}},
			},
			want: []moderation.ContentTag{moderation.TagUserJoin},
		},
		{
			name: "bot joins",
			msg: &models.Message{
				NewChatMembers: []models.User{{ID: 11, IsBot: true}},
			},
			want: []moderation.ContentTag{moderation.TagBotJoin, moderation.TagUserJoin},
		},
		{
			name: "mixed join of humans and bots",
			msg: &models.Message{
				NewChatMembers: []models.User{
					{ID: 10, FirstName: "Ann"},
					{ID: 11, IsBot: true},
				},
			},
			want: []moderation.ContentTag{moderation.TagBotJoin, moderation.TagUserJoin},
		},
		{
			name: "user leaves",
			msg: &models.Message{
				LeftChatMember: &models.User{ID: 10},
			},
			want: []moderation.ContentTag{moderation.TagUserLeave},
		},
		{
			name: "sticker",
			msg:  &models.Message{Sticker: &models.Sticker{FileID: "s1"}},
			want: []moderation.ContentTag{moderation.TagSticker},
		},
		{
			name: "animation",
			msg:  &models.Message{Animation: &models.Animation{FileID: "a1"}},
			want: []moderation.ContentTag{moderation.TagGIF},
		},
		{
			name: "voice note",
			msg:  &models.Message{Voice: &models.Voice{FileID: "v1"}},
			want: []moderation.ContentTag{moderation.TagVoice},
		},
		{
			name: "plain document",
			msg:  &models.Message{Document: &models.Document{FileID: "d1", MimeType: "application/pdf"}},
			want: []moderation.ContentTag{moderation.TagAttachment},
		},
		{
			name: "video document counts as gif and attachment",
			msg:  &models.Message{Document: &models.Document{FileID: "d2", MimeType: "video/mp4"}},
			want: []moderation.ContentTag{moderation.TagGIF, moderation.TagAttachment},
		},
		{
			name: "audio",
			msg:  &models.Message{Audio: &models.Audio{FileID: "m1"}},
			want: []moderation.ContentTag{moderation.TagAudio},
		},
		{
			name: "photo",
			msg:  &models.Message{Photo: []models.PhotoSize{{FileID: "p1"}}},
			want: []moderation.ContentTag{moderation.TagPhoto},
		},
		{
			name: "video note",
			msg:  &models.Message{VideoNote: &models.VideoNote{FileID: "vn1"}},
			want: []moderation.ContentTag{moderation.TagVideoMessage},
		},
		{
			name: "multiple tags keep canonical order",
			msg: &models.Message{
				Text: "https://example.com @someone",
				Entities: []models.MessageEntity{
					{Type: models.MessageEntityTypeMention},
					{Type: models.MessageEntityTypeURL},
				},
				Sticker: &models.Sticker{FileID: "s1"},
			},
			want: []moderation.ContentTag{moderation.TagLink, moderation.TagMention, moderation.TagSticker},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := moderation.Classify(tt.msg)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	t.Parallel()

	msg := &models.Message{
		Entities: []models.MessageEntity{
			{Type: models.MessageEntityTypeURL},
			{Type: models.MessageEntityTypeEmail},
			{Type: models.MessageEntityTypeMention},
		},
		Photo:     []models.PhotoSize{{FileID: "p1"}},
		Document:  &models.Document{FileID: "d1", MimeType: "video/webm"},
		VideoNote: &models.VideoNote{FileID: "vn1"},
	}

	first := moderation.Classify(msg)
	for range 50 {
		if got := moderation.Classify(msg); !slices.Equal(got, first) {
			t.Fatalf("Classify() order changed between runs: %v vs %v", got, first)
		}
	}
}

func TestParseTag(t *testing.T) {
	t.Parallel()

	for _, tag := range moderation.AllTags {
		got, err := moderation.ParseTag(string(tag))
		if err != nil {
			t.Errorf("ParseTag(%q) returned error: %v", tag, err)
		}
		if got != tag {
			t.Errorf("ParseTag(%q) = %q, want %q", tag, got, tag)
		}
	}

	for _, input := range []string{"", "links", "LINK", "spam", "is_allowed_link"} {
		if _, err := moderation.ParseTag(input); err == nil {
			t.Errorf("ParseTag(%q) succeeded, want error", input)
		}
	}
}

func TestSettingKey(t *testing.T) {
	t.Parallel()

	if got := moderation.TagLink.SettingKey(); got != "is_allowed_link" {
		t.Errorf("SettingKey() = %q, want %q", got, "is_allowed_link")
	}
	if got := moderation.TagVideoMessage.SettingKey(); got != "is_allowed_video_message" {
		t.Errorf("SettingKey() = %q, want %q", got, "is_allowed_video_message")
	}
}
