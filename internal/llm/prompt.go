package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SystemPrompt instructs chat models to answer in the reply envelope
const SystemPrompt = `You write short chat replies in the voice of the user. Respond with ONLY a JSON object of the form {"reply": "<message>"}, no markdown or explanations.`

// BuildPrompt creates a prompt for reply generation
func BuildPrompt(req Request) string {
	var b strings.Builder

	b.WriteString("Write the message the user would send to this person.\n")
	b.WriteString("Match the tone, length and wording of the user's previous replies.\n")

	if len(req.History) > 0 {
		b.WriteString("\nPrevious replies (most recent first):\n")
		for _, ex := range req.History {
			fmt.Fprintf(&b, "Topic: %s\nReply: %s\n\n", ex.InputText, ex.ReplyText)
		}
	} else {
		b.WriteString("\nThere are no previous replies yet; keep the message friendly and brief.\n")
	}

	fmt.Fprintf(&b, "\nTopic: %s\n", req.InputText)
	b.WriteString(`Answer as {"reply": "<message>"}.`)

	return b.String()
}

// ParseReply extracts the reply field from model output. Output that does
// not contain a JSON object with a non-empty reply yields ErrInvalidResponse.
func ParseReply(content string) (string, error) {
	raw := extractJSON(content)
	if raw == "" {
		return "", fmt.Errorf("%w: no JSON object in output", ErrInvalidResponse)
	}

	var out struct {
		Reply *string `json:"reply"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if out.Reply == nil {
		return "", fmt.Errorf("%w: missing reply field", ErrInvalidResponse)
	}

	reply := strings.TrimSpace(*out.Reply)
	if reply == "" {
		return "", fmt.Errorf("%w: empty reply", ErrInvalidResponse)
	}
	return reply, nil
}

func extractJSON(content string) string {
	if block := extractFromCodeBlock(content, "```json", "```"); block != "" {
		return block
	}
	if block := extractFromCodeBlock(content, "```", "```"); block != "" {
		return block
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end < start {
		return ""
	}
	return content[start : end+1]
}

func extractFromCodeBlock(content, startMarker, endMarker string) string {
	startIdx := strings.Index(content, startMarker)
	if startIdx == -1 {
		return ""
	}

	contentStart := startIdx + len(startMarker)
	endIdx := strings.Index(content[contentStart:], endMarker)
	if endIdx == -1 {
		return ""
	}

	return strings.TrimSpace(content[contentStart : contentStart+endIdx])
}
