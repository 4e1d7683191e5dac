package facebook

// MessageEvent is a single messaging event from a webhook payload, kept as
// decoded JSON. Facebook sends wildly varying shapes on the same endpoint
// (deliveries, read receipts, postbacks), so events stay dynamic and every
// access narrows the type explicitly instead of assuming a schema.
type MessageEvent map[string]any

// Extract walks a decoded webhook payload and returns the user message
// events it contains, in payload order.
//
// Payloads whose object discriminator is not "page" yield nothing: the same
// webhook URL can be subscribed to non-messaging callbacks, and those are
// ignored rather than rejected. Within a page payload, an event counts as a
// message event only when it carries a well-formed message object that is
// not an echo of the bot's own outbound traffic. Anything malformed is
// dropped silently; broken sub-structures are expected traffic noise, not
// faults.
//
// Returned events are deep copies, detached from the input payload.
func Extract(payload map[string]any) []MessageEvent {
	if object, _ := payload["object"].(string); object != "page" {
		return nil
	}

	var events []MessageEvent
	entries, _ := payload["entry"].([]any)
	for _, e := range entries {
		entry, ok := e.(map[string]any)
		if !ok {
			continue
		}
		messaging, _ := entry["messaging"].([]any)
		for _, m := range messaging {
			event, ok := m.(map[string]any)
			if !ok {
				continue
			}
			message, ok := event["message"].(map[string]any)
			if !ok {
				continue
			}
			if truthy(message["is_echo"]) {
				continue
			}
			events = append(events, MessageEvent(copyValue(event).(map[string]any)))
		}
	}
	return events
}

// truthy reports whether a decoded JSON value would be considered true by
// the platform: explicit true, a non-zero number, or a non-empty string.
func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return false
	}
}

// copyValue deep-copies a decoded JSON value so yielded events do not alias
// the source payload.
func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = copyValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = copyValue(val)
		}
		return out
	default:
		return v
	}
}
