package telegram_test

import (
	"slices"
	"testing"

	"github.com/go-telegram/bot/models"

	"github.com/HoltTechnologyCorporation/watchdog-robot/internal/telegram"
)

func TestAdminIDs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		members []models.ChatMember
		want    []int64
	}{
		{
			name:    "empty roster",
			members: nil,
			want:    []int64{},
		},
		{
			name: "owner and administrators",
			members: []models.ChatMember{
				{Owner: &models.ChatMemberOwner{User: &models.User{ID: 1, FirstName: "Ann"}}},
				{Administrator: &models.ChatMemberAdministrator{User: models.User{ID: 2, FirstName: "Bea"}}},
				{Administrator: &models.ChatMemberAdministrator{User: models.User{ID: 3, FirstName: "Cid"}}},
			},
			want: []int64{1, 2, 3},
		},
		{
			name: "non-privileged variants are ignored",
			members: []models.ChatMember{
				{Owner: &models.ChatMemberOwner{User: &models.User{ID: 1}}},
				{Member: &models.ChatMemberMember{}},
				{Restricted: &models.ChatMemberRestricted{}},
				{Left: &models.ChatMemberLeft{}},
				{Banned: &models.ChatMemberBanned{}},
				{},
			},
			want: []int64{1},
		},
		{
			name: "owner without user is skipped",
			members: []models.ChatMember{
				{Owner: &models.ChatMemberOwner{}},
				{Administrator: &models.ChatMemberAdministrator{User: models.User{ID: 2}}},
			},
			want: []int64{2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := telegram.AdminIDs(tt.members)
			if !slices.Equal(got, tt.want) {
				t.Errorf("AdminIDs() = %v, want %v", got, tt.want)
			}
		})
	}
}
