package domain

// InboundMessage is one text event received from the messaging platform
type InboundMessage struct {
	ConversationID string
	ReplyToken     string
	Text           string
}

// QuickReply is a tappable option; selecting it sends Value back as text
type QuickReply struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// OutboundMessage is a plain text reply with optional quick replies
type OutboundMessage struct {
	Text         string       `json:"text"`
	QuickReplies []QuickReply `json:"quick_replies,omitempty"`
}

// TextMessage builds an outbound message without quick replies
func TextMessage(text string) OutboundMessage {
	return OutboundMessage{Text: text}
}
