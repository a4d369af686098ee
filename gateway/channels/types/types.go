// Package types - shared types and interfaces for channels
// This package is imported by both the gateway and individual channel packages
package types

import (
	"net/http"
)

// ChannelType represents the type of communication channel
type ChannelType string

const (
	ChannelLINE ChannelType = "line"
)

const MaxWebhookBodyBytes int64 = 1 << 20

func LimitBody(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxWebhookBodyBytes)
}

// InboundMessage is a normalized plain-text message from a channel.
// ConversationID is stable per logical conversation: the group ID, room ID,
// or sender ID, in that precedence.
type InboundMessage struct {
	Channel        ChannelType `json:"channel"`
	ConversationID string      `json:"conversationId"`
	UserID         string      `json:"userId,omitempty"`
	Text           string      `json:"text"`
	ReplyToken     string      `json:"replyToken"`
}

// InboundEvent is one webhook event after normalization. Message is nil
// for events that are not plain text messages; those are acknowledged
// without a reply.
type InboundEvent struct {
	Message *InboundMessage
}

// Replier sends reply messages for an inbound message
type Replier interface {
	Reply(replyToken string, texts []string) error
}
