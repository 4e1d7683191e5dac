package facebook

import (
	"strings"
)

// Leading glyphs are part of the output contract: downstream consumers key
// on them to tell text messages from attachment notifications.
const (
	textGlyph       = "📩"
	attachmentGlyph = "📎"
)

// Format renders one message event as a single display line. It is total:
// any input, however malformed, produces a string.
//
// Content priority: non-blank message text wins, then attachment summaries,
// then a <no text> placeholder.
func Format(event MessageEvent) string {
	sender := senderID(event)

	message, ok := event["message"].(map[string]any)
	if !ok {
		return textGlyph + " FB " + sender + ": <invalid message>"
	}

	if text, ok := message["text"].(string); ok {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			return textGlyph + " FB " + sender + ": " + trimmed
		}
	}

	if summary := summarizeAttachments(message["attachments"]); summary != "" {
		return attachmentGlyph + " FB " + sender + ": " + summary
	}

	return textGlyph + " FB " + sender + ": <no text>"
}

func senderID(event MessageEvent) string {
	sender, ok := event["sender"].(map[string]any)
	if !ok {
		return "Unknown"
	}
	id, ok := sender["id"].(string)
	if !ok || id == "" {
		return "Unknown"
	}
	return id
}

// summarizeAttachments builds a comma-joined summary of all well-formed
// attachment entries: `type "title" url`, with blank title and url segments
// omitted. Returns "" when nothing summarizable is present.
func summarizeAttachments(v any) string {
	attachments, ok := v.([]any)
	if !ok {
		return ""
	}

	var summaries []string
	for _, a := range attachments {
		attachment, ok := a.(map[string]any)
		if !ok {
			continue
		}

		typ := "attachment"
		if t, ok := attachment["type"].(string); ok && t != "" {
			typ = t
		}

		parts := []string{typ}
		if title, ok := attachment["title"].(string); ok && strings.TrimSpace(title) != "" {
			parts = append(parts, `"`+title+`"`)
		}
		if payload, ok := attachment["payload"].(map[string]any); ok {
			if url, ok := payload["url"].(string); ok && strings.TrimSpace(url) != "" {
				parts = append(parts, url)
			}
		}
		summaries = append(summaries, strings.Join(parts, " "))
	}

	return strings.Join(summaries, ", ")
}
