package websocket

import (
	"encoding/json"
	"time"

	"github.com/sightline/server/domain/entities"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Supported message types
const (
	MessageTypeThought       MessageType = "thought"
	MessageTypeSpeakingStart MessageType = "speaking_start"
	MessageTypeSpeakingEnd   MessageType = "speaking_end"
	MessageTypeError         MessageType = "error"
)

// BaseMessage defines the common structure for all WebSocket messages
type BaseMessage struct {
	Type      MessageType `json:"type"`
	Timestamp int64       `json:"timestamp"`
}

// ThoughtMessage carries a freshly polled thought to the viewers
type ThoughtMessage struct {
	BaseMessage
	Thought *entities.Thought `json:"thought"`
}

// SpeakingStartMessage announces the start of a narration utterance.
// Binary audio chunks follow until SpeakingEndMessage.
type SpeakingStartMessage struct {
	BaseMessage
	Text string        `json:"text"`
	Tone entities.Tone `json:"tone"`
}

// SpeakingEndMessage announces that the current utterance finished
type SpeakingEndMessage struct {
	BaseMessage
}

func newBaseMessage(messageType MessageType) BaseMessage {
	return BaseMessage{
		Type:      messageType,
		Timestamp: time.Now().Unix(),
	}
}

func marshalThoughtMessage(thought *entities.Thought) []byte {
	payload, _ := json.Marshal(ThoughtMessage{
		BaseMessage: newBaseMessage(MessageTypeThought),
		Thought:     thought,
	})
	return payload
}

func marshalSpeakingStartMessage(text string, tone entities.Tone) []byte {
	payload, _ := json.Marshal(SpeakingStartMessage{
		BaseMessage: newBaseMessage(MessageTypeSpeakingStart),
		Text:        text,
		Tone:        tone,
	})
	return payload
}

func marshalSpeakingEndMessage() []byte {
	payload, _ := json.Marshal(SpeakingEndMessage{
		BaseMessage: newBaseMessage(MessageTypeSpeakingEnd),
	})
	return payload
}
