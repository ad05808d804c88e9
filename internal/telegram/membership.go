package telegram

import (
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MemberLookup answers "is this user still in that chat" through the Bot API.
// It satisfies service.MembershipChecker.
type MemberLookup struct {
	bot *tgbotapi.BotAPI
}

func NewMemberLookup(bot *tgbotapi.BotAPI) *MemberLookup {
	return &MemberLookup{bot: bot}
}

func (l *MemberLookup) IsMember(chatID string, userID int64) (bool, error) {
	cfg := tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{UserID: userID},
	}
	if id, err := strconv.ParseInt(chatID, 10, 64); err == nil {
		cfg.ChatID = id
	} else {
		cfg.SuperGroupUsername = chatID
	}
	member, err := l.bot.GetChatMember(cfg)
	if err != nil {
		return false, err
	}
	switch member.Status {
	case "left", "kicked":
		return false, nil
	}
	return true, nil
}
