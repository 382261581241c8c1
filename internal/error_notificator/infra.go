package error_notificator

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Infra struct {
	bot         *tgbotapi.BotAPI
	adminChatID int64
}

// NewInfra — при пустом токене уведомления просто пишутся в лог
func NewInfra(token string, adminChatID int64) *Infra {
	if token == "" || adminChatID == 0 {
		return &Infra{}
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Printf("[error_notificator] telegram init failed: %v", err)
		return &Infra{}
	}

	return &Infra{bot: bot, adminChatID: adminChatID}
}

func (i *Infra) Notify(ctx context.Context, err error, details string) error {
	if i.bot == nil {
		log.Printf("[error_notificator] %v (%s)", err, details)
		return nil
	}

	text := fmt.Sprintf(
		"❗ Ошибка в сервисе\n\nОшибка: %v\n\nДетали: %s",
		err,
		details,
	)

	msg := tgbotapi.NewMessage(i.adminChatID, text)

	_, sendErr := i.bot.Send(msg)
	if sendErr != nil {
		log.Printf("[error_notificator] send fail: %v", sendErr)
		return sendErr
	}

	return nil
}
