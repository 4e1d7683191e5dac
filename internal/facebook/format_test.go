package facebook

import "testing"

func event(t *testing.T, raw string) MessageEvent {
	t.Helper()
	return MessageEvent(decode(t, raw))
}

func TestFormat_Text(t *testing.T) {
	e := event(t, `{"message":{"text":" hello "},"sender":{"id":"123"}}`)
	if got := Format(e); got != "📩 FB 123: hello" {
		t.Errorf("got %q", got)
	}
}

func TestFormat_TextPreservesInternalWhitespace(t *testing.T) {
	e := event(t, `{"message":{"text":"  two  words  "},"sender":{"id":"1"}}`)
	if got := Format(e); got != "📩 FB 1: two  words" {
		t.Errorf("got %q", got)
	}
}

func TestFormat_Attachment(t *testing.T) {
	e := event(t, `{
		"message": {"attachments": [
			{"type": "image", "title": "Screenshot", "payload": {"url": "https://example.com/image.png"}}
		]},
		"sender": {"id": "456"}
	}`)
	want := `📎 FB 456: image "Screenshot" https://example.com/image.png`
	if got := Format(e); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormat_AttachmentMinimal(t *testing.T) {
	e := event(t, `{"message":{"attachments":[{"type":"audio"}]},"sender":{"id":"1"}}`)
	if got := Format(e); got != "📎 FB 1: audio" {
		t.Errorf("got %q", got)
	}
}

func TestFormat_AttachmentDefaultType(t *testing.T) {
	e := event(t, `{"message":{"attachments":[{"title":"thing"}]},"sender":{"id":"1"}}`)
	if got := Format(e); got != `📎 FB 1: attachment "thing"` {
		t.Errorf("got %q", got)
	}
}

func TestFormat_MultipleAttachments(t *testing.T) {
	e := event(t, `{
		"message": {"attachments": [
			{"type": "image", "payload": {"url": "https://a.example/1.png"}},
			{"type": "file", "title": "notes.txt"}
		]},
		"sender": {"id": "9"}
	}`)
	want := `📎 FB 9: image https://a.example/1.png, file "notes.txt"`
	if got := Format(e); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormat_SkipsMalformedAttachmentEntries(t *testing.T) {
	e := event(t, `{
		"message": {"attachments": ["junk", 42, {"type": "video"}]},
		"sender": {"id": "7"}
	}`)
	if got := Format(e); got != "📎 FB 7: video" {
		t.Errorf("got %q", got)
	}
}

func TestFormat_AllAttachmentsMalformed(t *testing.T) {
	// No summarizable attachment falls through to the no-text placeholder.
	e := event(t, `{"message":{"attachments":["junk"]},"sender":{"id":"7"}}`)
	if got := Format(e); got != "📩 FB 7: <no text>" {
		t.Errorf("got %q", got)
	}
}

func TestFormat_TextWinsOverAttachments(t *testing.T) {
	e := event(t, `{
		"message": {
			"text": "caption",
			"attachments": [{"type": "image", "payload": {"url": "https://a.example/1.png"}}]
		},
		"sender": {"id": "5"}
	}`)
	if got := Format(e); got != "📩 FB 5: caption" {
		t.Errorf("text should take precedence, got %q", got)
	}
}

func TestFormat_BlankTextFallsThroughToAttachments(t *testing.T) {
	e := event(t, `{
		"message": {"text": "   ", "attachments": [{"type": "image"}]},
		"sender": {"id": "5"}
	}`)
	if got := Format(e); got != "📎 FB 5: image" {
		t.Errorf("got %q", got)
	}
}

func TestFormat_NoText(t *testing.T) {
	e := event(t, `{"message":{},"sender":{"id":"789"}}`)
	if got := Format(e); got != "📩 FB 789: <no text>" {
		t.Errorf("got %q", got)
	}
}

func TestFormat_UnknownSender(t *testing.T) {
	e := event(t, `{"message":{"text":"hi"}}`)
	if got := Format(e); got != "📩 FB Unknown: hi" {
		t.Errorf("got %q", got)
	}
}

func TestFormat_SenderNotMapping(t *testing.T) {
	e := event(t, `{"message":{"text":"hi"},"sender":"who"}`)
	if got := Format(e); got != "📩 FB Unknown: hi" {
		t.Errorf("got %q", got)
	}
}

func TestFormat_InvalidMessage(t *testing.T) {
	e := event(t, `{"message":"broken","sender":{"id":"2"}}`)
	if got := Format(e); got != "📩 FB 2: <invalid message>" {
		t.Errorf("got %q", got)
	}
}

func TestFormat_Total(t *testing.T) {
	// Format never panics, whatever the shape.
	for _, raw := range []string{
		`{}`,
		`{"sender":{}}`,
		`{"message":null,"sender":null}`,
		`{"message":{"text":17}}`,
		`{"message":{"attachments":{"not":"a list"}}}`,
	} {
		e := event(t, raw)
		if got := Format(e); got == "" {
			t.Errorf("payload %s: expected non-empty output", raw)
		}
	}
	if got := Format(nil); got == "" {
		t.Error("nil event: expected non-empty output")
	}
}

func TestFormat_Idempotent(t *testing.T) {
	e := event(t, `{"message":{"text":" hi "},"sender":{"id":"1"}}`)
	first := Format(e)
	second := Format(e)
	if first != second {
		t.Errorf("formatting is not idempotent: %q vs %q", first, second)
	}
}
