package gateway

import (
	"context"
	"log"

	"github.com/gliderlab/linerelay/gateway/channels/types"
	"github.com/gliderlab/linerelay/history"
	"github.com/gliderlab/linerelay/pkg/textsplit"
)

// Recognized text commands. Exact, case-sensitive matches.
const (
	CommandResetJa    = "リセット"
	CommandResetSlash = "/reset"
	CommandHelpJa     = "ヘルプ"
	CommandHelpSlash  = "/help"
)

// Canned replies.
const (
	ResetConfirmation = "会話履歴をリセットしました。また最初からお話しできます。"
	HelpMessage       = "話しかけると返事をします。\n" +
		"「リセット」または /reset で会話履歴を消去します。\n" +
		"「ヘルプ」または /help でこのメッセージを表示します。"
	ApologyMessage = "ごめんなさい、いまうまく返事ができませんでした。少し時間をおいて、もう一度話しかけてください。"
)

// Dispatch actions reported per event.
const (
	ActionIgnored = "ignored"
	ActionReset   = "reset"
	ActionHelp    = "help"
	ActionReply   = "reply"
	ActionApology = "apology"
)

// Converser generates a reply for a conversation; the model gateway
type Converser interface {
	Converse(ctx context.Context, conversationID, userText string) (string, error)
}

// Result is the per-event outcome returned in the webhook response body
type Result struct {
	Action string `json:"action"`
}

// Dispatcher routes one inbound message: commands are handled locally,
// everything else goes through the model gateway.
type Dispatcher struct {
	agent         Converser
	history       *history.Store
	replier       types.Replier
	maxReplyChars int
}

// NewDispatcher creates a dispatcher. maxReplyChars is the chunk size for
// long replies; it must stay under the platform's per-message limit.
func NewDispatcher(agent Converser, store *history.Store, replier types.Replier, maxReplyChars int) *Dispatcher {
	return &Dispatcher{
		agent:         agent,
		history:       store,
		replier:       replier,
		maxReplyChars: maxReplyChars,
	}
}

// Dispatch handles one text message. A model failure is answered with the
// apology message and counts as handled; a reply-send failure propagates
// so the batch fails.
func (d *Dispatcher) Dispatch(ctx context.Context, msg types.InboundMessage) (Result, error) {
	switch msg.Text {
	case CommandResetJa, CommandResetSlash:
		d.history.Clear(msg.ConversationID)
		if err := d.replier.Reply(msg.ReplyToken, []string{ResetConfirmation}); err != nil {
			return Result{}, err
		}
		return Result{Action: ActionReset}, nil
	case CommandHelpJa, CommandHelpSlash:
		if err := d.replier.Reply(msg.ReplyToken, []string{HelpMessage}); err != nil {
			return Result{}, err
		}
		return Result{Action: ActionHelp}, nil
	}

	reply, err := d.agent.Converse(ctx, msg.ConversationID, msg.Text)
	if err != nil {
		log.Printf("[Dispatch] conversation=%s model call failed: %v", msg.ConversationID, err)
		if err := d.replier.Reply(msg.ReplyToken, []string{ApologyMessage}); err != nil {
			return Result{}, err
		}
		return Result{Action: ActionApology}, nil
	}

	chunks := textsplit.Split(reply, d.maxReplyChars)
	if err := d.replier.Reply(msg.ReplyToken, chunks); err != nil {
		return Result{}, err
	}
	return Result{Action: ActionReply}, nil
}
