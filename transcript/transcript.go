// Package transcript renders reconstructed conversations into readable
// archival documents: a plain-text transcript, a markdown rendition, and
// an HTML export produced from the markdown.
package transcript

import (
	"fmt"
	"strings"

	"github.com/snapstitch/snapstitch/chat"
)

const bannerWidth = 60

// Stats are the derived statistics rendered into the transcript summary.
type Stats struct {
	Total        int
	Participants []string
	// AlignmentCounts holds message counts per alignment value.
	AlignmentCounts map[chat.Alignment]int
	// SpeakersByAlignment lists the distinct speakers observed under each
	// non-UNKNOWN alignment, in first-appearance order.
	SpeakersByAlignment map[chat.Alignment][]string
	QuotedCount         int
}

// Collect computes transcript statistics over the message list.
func Collect(msgs []chat.Message) Stats {
	s := Stats{
		Total:               len(msgs),
		AlignmentCounts:     make(map[chat.Alignment]int),
		SpeakersByAlignment: make(map[chat.Alignment][]string),
	}
	seen := make(map[string]bool)
	seenAligned := make(map[chat.Alignment]map[string]bool)
	for _, m := range msgs {
		if !seen[m.Speaker] {
			seen[m.Speaker] = true
			s.Participants = append(s.Participants, m.Speaker)
		}
		s.AlignmentCounts[m.Alignment]++
		if m.Alignment != chat.AlignUnknown {
			if seenAligned[m.Alignment] == nil {
				seenAligned[m.Alignment] = make(map[string]bool)
			}
			if !seenAligned[m.Alignment][m.Speaker] {
				seenAligned[m.Alignment][m.Speaker] = true
				s.SpeakersByAlignment[m.Alignment] = append(s.SpeakersByAlignment[m.Alignment], m.Speaker)
			}
		}
		if m.HasQuote() {
			s.QuotedCount++
		}
	}
	return s
}

func (s Stats) hasAlignment() bool {
	return s.AlignmentCounts[chat.AlignLeft] > 0 || s.AlignmentCounts[chat.AlignRight] > 0
}

// Options controls transcript rendering.
type Options struct {
	IncludeTimestamps bool
	Indent            string
}

// DefaultOptions returns the stock rendering options: timestamps on,
// two-space indent.
func DefaultOptions() Options {
	return Options{IncludeTimestamps: true, Indent: "  "}
}

func (o Options) indent() string {
	if o.Indent == "" {
		return "  "
	}
	return o.Indent
}

// Format renders the message list into a plain-text transcript: a banner
// with summary lines, then one block per message in original order. The
// output is deterministic, and re-parsing it recovers the same ordered
// speaker sequence (header lines reuse the parseable alignment-marker,
// bracketed-timestamp and speaker-colon forms; summary lines are
// lower-cased so they never classify as headers).
func Format(msgs []chat.Message, opts Options) string {
	stats := Collect(msgs)
	bar := strings.Repeat("=", bannerWidth)

	var b strings.Builder
	b.WriteString(bar + "\n")
	b.WriteString(" CHAT CONVERSATION\n")
	b.WriteString(" participants: " + strings.Join(stats.Participants, ", ") + "\n")
	fmt.Fprintf(&b, " messages: %d\n", stats.Total)
	if stats.hasAlignment() {
		b.WriteString(" alignment: " + alignmentSummary(stats) + "\n")
	}
	if stats.QuotedCount > 0 {
		fmt.Fprintf(&b, " quoted replies: %d\n", stats.QuotedCount)
	}
	b.WriteString(bar + "\n\n")

	ind := opts.indent()
	for _, m := range msgs {
		b.WriteString(headerLine(m, opts) + "\n")
		if m.HasQuote() {
			for _, line := range strings.Split(quoteText(m), "\n") {
				b.WriteString(ind + "> " + line + "\n")
			}
		}
		if m.Body != "" {
			for _, line := range strings.Split(m.Body, "\n") {
				b.WriteString(ind + line + "\n")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func headerLine(m chat.Message, opts Options) string {
	var parts []string
	if m.Alignment != chat.AlignUnknown {
		parts = append(parts, m.Alignment.String())
	}
	if opts.IncludeTimestamps && m.Timestamp != "" {
		parts = append(parts, "["+m.Timestamp+"]")
	}
	parts = append(parts, m.Speaker+":")
	return strings.Join(parts, " ")
}

func quoteText(m chat.Message) string {
	if m.QuotedSpeaker == "" {
		return m.QuotedBody
	}
	return m.QuotedSpeaker + ": " + m.QuotedBody
}

func alignmentSummary(stats Stats) string {
	var parts []string
	for _, a := range []chat.Alignment{chat.AlignLeft, chat.AlignRight} {
		if n := stats.AlignmentCounts[a]; n > 0 {
			part := fmt.Sprintf("%d %s", n, strings.ToLower(a.String()))
			if speakers := stats.SpeakersByAlignment[a]; len(speakers) > 0 {
				part += " (" + strings.Join(speakers, ", ") + ")"
			}
			parts = append(parts, part)
		}
	}
	if n := stats.AlignmentCounts[chat.AlignUnknown]; n > 0 {
		parts = append(parts, fmt.Sprintf("%d unknown", n))
	}
	return strings.Join(parts, ", ")
}
