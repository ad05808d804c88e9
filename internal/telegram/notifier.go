package telegram

import (
	"earnly/config"
	"earnly/internal/notify"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier delivers obligations over Telegram. Recipient 0 routes to the
// owner channel; anything else is a direct message by Telegram id.
type Notifier struct {
	bot *tgbotapi.BotAPI
	cfg *config.TelegramConfig
}

func NewNotifier(bot *tgbotapi.BotAPI, cfg *config.TelegramConfig) *Notifier {
	return &Notifier{bot: bot, cfg: cfg}
}

func (n *Notifier) Deliver(ob notify.Obligation) error {
	var msg tgbotapi.MessageConfig
	if ob.Recipient == 0 {
		msg = tgbotapi.NewMessageToChannel(n.cfg.OwnerChannel, ob.Body)
	} else {
		msg = tgbotapi.NewMessage(ob.Recipient, ob.Body)
	}
	if len(ob.Actions) > 0 {
		msg.ReplyMarkup = keyboard(ob.Actions)
	}
	_, err := n.bot.Send(msg)
	return err
}

func keyboard(actions []notify.Action) tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(actions))
	for _, a := range actions {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(a.Label, a.Data))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}
