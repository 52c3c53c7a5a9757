// Package telegram connects the command dispatcher to the Telegram Bot API.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"marketbot/internal/bot"
)

// API is the part of *tgbotapi.BotAPI the adapter uses.
type API interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, req bot.Request) bot.Response
	Commands() []bot.Command
}

const (
	defaultHandlerTimeout = time.Minute
	pollTimeout           = 30
	chartFileName         = "stock_chart.png"
)

// ErrUpdatesClosed is returned by Run when the update stream ends while the
// context is still live.
var ErrUpdatesClosed = errors.New("update channel closed")

// ClientTimeout is the minimum HTTP client timeout for Dial; getUpdates is
// held open by the server for up to pollTimeout seconds.
const ClientTimeout = (pollTimeout + 15) * time.Second

type Bot struct {
	api        API
	dispatcher Dispatcher
	username   string
	log        *logrus.Entry

	// HandlerTimeout bounds each command, including its replies.
	HandlerTimeout time.Duration
}

// New wraps api. username is the bot's own handle, used to tell commands
// addressed to it from those addressed to other bots in a group.
func New(api API, username string, dispatcher Dispatcher, log *logrus.Entry) *Bot {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Bot{
		api:            api,
		dispatcher:     dispatcher,
		username:       username,
		log:            log.WithField("component", "telegram"),
		HandlerTimeout: defaultHandlerTimeout,
	}
}

// Dial authenticates token over client. The bot's username is in Self.UserName.
func Dial(token string, client tgbotapi.HTTPClient) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("connecting to telegram: %w", err)
	}
	return api, nil
}

// PublishCommands sets the command menu from the dispatcher's table.
func (b *Bot) PublishCommands() error {
	cmds := b.dispatcher.Commands()
	out := make([]tgbotapi.BotCommand, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, tgbotapi.BotCommand{Command: c.Name, Description: c.Description})
	}
	if _, err := b.api.Request(tgbotapi.NewSetMyCommands(out...)); err != nil {
		return fmt.Errorf("set my commands: %w", err)
	}
	return nil
}

// Run consumes updates until ctx is done and then waits for in-flight
// handlers. Each message is handled in its own goroutine.
// It returns ErrUpdatesClosed if the stream stops before ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.PublishCommands(); err != nil {
		b.log.WithError(err).Warn("command menu not published")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout
	updates := b.api.GetUpdatesChan(u)
	b.log.WithField("username", b.username).Info("receiving updates")

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case upd, ok := <-updates:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return ErrUpdatesClosed
			}
			if upd.Message == nil {
				continue
			}
			wg.Add(1)
			go func(m *tgbotapi.Message) {
				defer wg.Done()
				hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.HandlerTimeout)
				defer cancel()
				b.handle(hctx, m)
			}(upd.Message)
		}
	}
}

func (b *Bot) handle(ctx context.Context, m *tgbotapi.Message) {
	if m.Chat == nil || strings.TrimSpace(m.Text) == "" {
		return
	}
	private := m.Chat.IsPrivate()

	_, mention, _, isCommand := bot.Parse(m.Text)
	if !isCommand {
		if private {
			b.reply(ctx, m.Chat.ID, bot.Reply{Text: bot.HintText})
		}
		return
	}
	if mention != "" && !strings.EqualFold(mention, b.username) {
		return
	}

	userID := m.Chat.ID
	if m.From != nil {
		userID = m.From.ID
	}
	resp := b.dispatcher.Dispatch(ctx, bot.Request{ChatID: m.Chat.ID, UserID: userID, Text: m.Text})
	for _, r := range resp.Replies {
		b.reply(ctx, m.Chat.ID, r)
	}
}

func (b *Bot) reply(ctx context.Context, chatID int64, r bot.Reply) {
	if err := ctx.Err(); err != nil {
		b.log.WithError(err).WithField("chat", chatID).Warn("reply dropped")
		return
	}
	if _, err := b.api.Send(chattable(chatID, r)); err != nil {
		b.log.WithError(err).WithField("chat", chatID).Error("send failed")
	}
}

func chattable(chatID int64, r bot.Reply) tgbotapi.Chattable {
	if len(r.Image) > 0 {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: chartFileName, Bytes: r.Image})
		photo.Caption = r.Text
		if r.HTML {
			photo.ParseMode = tgbotapi.ModeHTML
		}
		return photo
	}
	msg := tgbotapi.NewMessage(chatID, r.Text)
	if r.HTML {
		msg.ParseMode = tgbotapi.ModeHTML
		msg.DisableWebPagePreview = true
	}
	return msg
}

// Notify sends text to a subscriber's private chat.
func (b *Bot) Notify(_ context.Context, subscriberID int64, text string) error {
	if _, err := b.api.Send(tgbotapi.NewMessage(subscriberID, text)); err != nil {
		return fmt.Errorf("notify %d: %w", subscriberID, err)
	}
	return nil
}
