// Package telegram relays alert texts to a chat through the Bot API
package telegram

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	perr "livetakip/internal/platform/errors"
	"livetakip/internal/platform/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Options configures the Notifier
type Options struct {
	Token  string
	ChatID string
	// Endpoint overrides tgbotapi.APIEndpoint, a format taking the token then the method
	Endpoint string
	Timeout  time.Duration
}

// Enabled reports whether both credentials are present
func (o Options) Enabled() bool {
	return strings.TrimSpace(o.Token) != "" && strings.TrimSpace(o.ChatID) != ""
}

// Notifier sends plain text messages to one chat
type Notifier struct {
	opts    Options
	client  *http.Client
	chatID  int64
	channel string
	log     logger.Logger

	mu  sync.Mutex
	bot *tgbotapi.BotAPI
}

// New checks the credentials and resolves the target chat; the bot logs in on the first Send
// ChatID is a numeric id, or an @channel name
func New(o Options) (*Notifier, error) {
	if !o.Enabled() {
		return nil, perr.Configf("telegram: token and chat id are required")
	}
	if o.Endpoint == "" {
		o.Endpoint = tgbotapi.APIEndpoint
	}
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}

	n := &Notifier{
		opts:   o,
		client: &http.Client{Timeout: o.Timeout},
		log:    *logger.Named("telegram"),
	}
	chat := strings.TrimSpace(o.ChatID)
	if id, err := strconv.ParseInt(chat, 10, 64); err == nil {
		n.chatID = id
	} else {
		n.channel = chat
	}
	return n, nil
}

// login runs getMe once; a failed login is retried by the next Send
func (n *Notifier) login() (*tgbotapi.BotAPI, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.bot != nil {
		return n.bot, nil
	}
	bot, err := tgbotapi.NewBotAPIWithClient(n.opts.Token, n.opts.Endpoint, n.client)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUpstream, "telegram: bot login failed")
	}
	n.bot = bot
	n.log.Info().Str("bot", bot.Self.UserName).Str("chat", strings.TrimSpace(n.opts.ChatID)).Msg("telegram notifier ready")
	return bot, nil
}

// Send posts text and returns the Telegram message id
func (n *Notifier) Send(ctx context.Context, text string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var msg tgbotapi.MessageConfig
	if n.channel != "" {
		msg = tgbotapi.NewMessageToChannel(n.channel, text)
	} else {
		msg = tgbotapi.NewMessage(n.chatID, text)
	}
	msg.DisableWebPagePreview = true

	bot, err := n.login()
	if err != nil {
		return 0, err
	}
	sent, err := bot.Send(msg)
	if err != nil {
		return 0, perr.Wrap(err, perr.ErrorCodeUpstream, "telegram: send message")
	}
	n.log.Debug().Int("message_id", sent.MessageID).Msg("telegram message sent")
	return int64(sent.MessageID), nil
}
