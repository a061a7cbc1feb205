package transcript

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/snapstitch/snapstitch/chat"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Markdown renders the conversation as a markdown document suitable for
// archiving alongside the plain-text transcript.
func Markdown(msgs []chat.Message) string {
	stats := Collect(msgs)

	var b strings.Builder
	b.WriteString("# Chat Transcript\n\n")
	b.WriteString("- Participants: " + strings.Join(stats.Participants, ", ") + "\n")
	fmt.Fprintf(&b, "- Messages: %d\n", stats.Total)
	if stats.QuotedCount > 0 {
		fmt.Fprintf(&b, "- Quoted replies: %d\n", stats.QuotedCount)
	}
	b.WriteString("\n")

	for _, m := range msgs {
		b.WriteString("**" + m.Speaker + "**")
		if m.Timestamp != "" {
			b.WriteString(" (" + m.Timestamp + ")")
		}
		if m.Alignment != chat.AlignUnknown {
			b.WriteString(" *" + strings.ToLower(m.Alignment.String()) + "*")
		}
		b.WriteString("\n\n")
		if m.HasQuote() {
			for _, line := range strings.Split(quoteText(m), "\n") {
				b.WriteString("> " + line + "\n")
			}
			b.WriteString("\n")
		}
		if m.Body != "" {
			b.WriteString(m.Body + "\n\n")
		}
	}
	return b.String()
}

var htmlRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML renders the conversation to an HTML fragment by converting the
// markdown rendition.
func HTML(msgs []chat.Message) ([]byte, error) {
	var buf bytes.Buffer
	if err := htmlRenderer.Convert([]byte(Markdown(msgs)), &buf); err != nil {
		return nil, fmt.Errorf("render transcript html: %w", err)
	}
	return buf.Bytes(), nil
}
