package msgs

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/zecpool/cloud-miner/log"
)

// Service wraps outgoing Telegram traffic, including the developer
// notification channel.
type Service struct {
	bot       *tgbotapi.BotAPI
	devChatID int64
	logger    log.Logger
}

func NewService(bot *tgbotapi.BotAPI, devChatID int64, logger log.Logger) *Service {
	return &Service{
		bot:       bot,
		devChatID: devChatID,
		logger:    logger,
	}
}

func (s *Service) SendMsgToUser(msg tgbotapi.Chattable) error {
	if _, err := s.bot.Send(msg); err != nil {
		return errors.Wrap(err, "send message")
	}
	return nil
}

func (s *Service) NewParseMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	return s.SendMsgToUser(msg)
}

func (s *Service) NewParseMarkUpMessage(chatID int64, markUp interface{}, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markUp
	return s.SendMsgToUser(msg)
}

func (s *Service) SendAnswerCallback(callbackID, text string) {
	if _, err := s.bot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		s.logger.Warn("answer callback: %s", err.Error())
	}
}

func (s *Service) SendNotificationToDeveloper(text string) {
	if s.devChatID == 0 {
		return
	}
	if err := s.SendMsgToUser(tgbotapi.NewMessage(s.devChatID, text)); err != nil {
		s.logger.Warn("notify developer: %s", err.Error())
	}
}
