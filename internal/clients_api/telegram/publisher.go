package telegram

// Sends the results of a run to a Telegram chat: PNGs as photos, SVGs as documents.

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"rate-imaging/internal/infra/fs"
	logging "rate-imaging/internal/infra/log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Publisher struct {
	bot    sender
	chatID int64
}

// NewPublisher authenticates the bot token against the Telegram API.
func NewPublisher(token, chatID string) (*Publisher, error) {
	id, err := parseChatID(chatID)
	if err != nil {
		return nil, err
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	logging.LogInfo("Telegram bot authorized", zap.String("username", bot.Self.UserName))
	return &Publisher{bot: bot, chatID: id}, nil
}

func parseChatID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid telegram chat id %q: %w", s, err)
	}
	return id, nil
}

// Publish sends every artifact in order. It stops at the first failure.
func (p *Publisher) Publish(artifacts []fs.Artifact) (int, error) {
	sent := 0
	for _, a := range artifacts {
		var msg tgbotapi.Chattable
		switch strings.ToLower(filepath.Ext(a.Path)) {
		case ".png", ".jpg", ".jpeg":
			photo := tgbotapi.NewPhoto(p.chatID, tgbotapi.FilePath(a.Path))
			photo.Caption = a.Caption
			msg = photo
		case ".svg":
			doc := tgbotapi.NewDocument(p.chatID, tgbotapi.FilePath(a.Path))
			doc.Caption = a.Caption
			msg = doc
		default:
			logging.LogDebug("Skipping artifact with unknown type", zap.String("path", a.Path))
			continue
		}

		if _, err := p.bot.Send(msg); err != nil {
			logging.LogError("Failed to send artifact", zap.String("path", a.Path), zap.Error(err))
			return sent, fmt.Errorf("failed to send %s: %w", a.Name(), err)
		}
		sent++
	}

	logging.LogInfo("Artifacts published", zap.Int64("chat_id", p.chatID), zap.Int("sent", sent))
	return sent, nil
}
