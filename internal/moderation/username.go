package moderation

import (
	"fmt"

	"github.com/go-telegram/bot/models"
)

// DisplayName builds a human-readable name for notifications:
// "First Last", then first name, then username, then "#<id>".
func DisplayName(user *models.User) string {
	if user == nil {
		return "#unknown"
	}
	switch {
	case user.FirstName != "" && user.LastName != "":
		return user.FirstName + " " + user.LastName
	case user.FirstName != "":
		return user.FirstName
	case user.Username != "":
		return user.Username
	default:
		return fmt.Sprintf("#%d", user.ID)
	}
}
