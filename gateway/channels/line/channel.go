// Package line provides LINE messaging channel implementation
package line

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gliderlab/linerelay/gateway/channels/types"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

// LINE Messaging API limits.
const (
	// MaxMessageChars is the hard per-message character limit.
	MaxMessageChars = 5000
	// MaxMessagesPerReply is the per-reply-token message count limit.
	MaxMessagesPerReply = 5
)

// Channel wraps the LINE Messaging API client and webhook parsing
type Channel struct {
	channelSecret string
	bot           *messaging_api.MessagingApiAPI
}

// NewChannel creates a new LINE channel
func NewChannel(channelSecret, channelToken string) (*Channel, error) {
	if channelToken == "" {
		return nil, fmt.Errorf("LINE channel token is empty")
	}
	bot, err := messaging_api.NewMessagingApiAPI(channelToken)
	if err != nil {
		return nil, fmt.Errorf("create LINE client: %w", err)
	}
	return &Channel{
		channelSecret: channelSecret,
		bot:           bot,
	}, nil
}

// ParseRequest validates the webhook signature (done inside the LINE SDK)
// and returns the normalized events of the batch.
func (c *Channel) ParseRequest(r *http.Request) ([]types.InboundEvent, error) {
	cb, err := webhook.ParseRequest(c.channelSecret, r)
	if err != nil {
		return nil, err
	}
	events := make([]types.InboundEvent, len(cb.Events))
	for i, ev := range cb.Events {
		if msg, ok := Inbound(ev); ok {
			events[i] = types.InboundEvent{Message: &msg}
		}
	}
	return events, nil
}

// Inbound converts a webhook event to a normalized message. ok is false
// for anything that is not a plain text message.
func Inbound(ev webhook.EventInterface) (types.InboundMessage, bool) {
	me, ok := ev.(webhook.MessageEvent)
	if !ok {
		return types.InboundMessage{}, false
	}
	tm, ok := me.Message.(webhook.TextMessageContent)
	if !ok {
		return types.InboundMessage{}, false
	}
	return types.InboundMessage{
		Channel:        types.ChannelLINE,
		ConversationID: conversationID(me.Source),
		UserID:         senderID(me.Source),
		Text:           tm.Text,
		ReplyToken:     me.ReplyToken,
	}, true
}

// conversationID resolves the history key: group > room > user.
func conversationID(src webhook.SourceInterface) string {
	switch s := src.(type) {
	case webhook.GroupSource:
		return s.GroupId
	case webhook.RoomSource:
		return s.RoomId
	case webhook.UserSource:
		return s.UserId
	}
	return ""
}

func senderID(src webhook.SourceInterface) string {
	switch s := src.(type) {
	case webhook.GroupSource:
		return s.UserId
	case webhook.RoomSource:
		return s.UserId
	case webhook.UserSource:
		return s.UserId
	}
	return ""
}

// Reply sends texts for one reply token, in order. LINE accepts at most
// five messages per reply; surplus chunks are dropped with a log line.
func (c *Channel) Reply(replyToken string, texts []string) error {
	texts = capReply(texts)
	if len(texts) == 0 {
		return nil
	}
	messages := make([]messaging_api.MessageInterface, 0, len(texts))
	for _, t := range texts {
		messages = append(messages, messaging_api.TextMessage{Text: t})
	}
	if _, err := c.bot.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   messages,
	}); err != nil {
		return fmt.Errorf("line reply: %w", err)
	}
	return nil
}

func capReply(texts []string) []string {
	if len(texts) > MaxMessagesPerReply {
		log.Printf("[LINE] dropping %d reply chunks over the per-reply limit", len(texts)-MaxMessagesPerReply)
		texts = texts[:MaxMessagesPerReply]
	}
	return texts
}

// HealthCheck verifies the channel token against the bot info endpoint
func (c *Channel) HealthCheck() error {
	if _, err := c.bot.GetBotInfo(); err != nil {
		return fmt.Errorf("line unhealthy: %w", err)
	}
	return nil
}
