package chat

import (
	"regexp"
	"strings"
)

var (
	reTimeToken    = regexp.MustCompile(`\b[0-9]{1,2}:[0-9]{2}\s*(?:AM|PM)?\b`)
	reTimeTokenSec = regexp.MustCompile(`\b[0-9]{1,2}:[0-9]{2}:[0-9]{2}\b`)
)

// Parse reconstructs the ordered message list from raw recognized text.
//
// Lines are processed in order. Blank lines are skipped outright. A line
// that classifies as a header opens a new message; a line that does not
// continues the currently open message unless it merely looks like a
// header (speaker token plus colon), in which case it is treated as a
// malformed header and dropped. Lines before the first header are dropped
// as orphans. Quote blocks are extracted once each message's body is
// complete, so a block may span continuation lines. Malformed input never
// fails the parse.
func Parse(text string) []Message {
	lines := strings.Split(text, "\n")
	var msgs []Message
	open := -1
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if h, ok := MatchHeader(line); ok {
			msgs = append(msgs, Message{
				Speaker:   h.Speaker,
				Body:      h.Body,
				Timestamp: h.Timestamp,
				Line:      i,
				Alignment: h.Alignment,
			})
			open = len(msgs) - 1
			continue
		}
		if open < 0 || looksLikeHeader(line) {
			continue
		}
		if msgs[open].Body == "" {
			// First continuation of a header-only line starts the body.
			msgs[open].Body = line
		} else {
			msgs[open].Body += "\n" + line
		}
	}
	for i := range msgs {
		if sp, q, rest, ok := ExtractQuote(msgs[i].Body); ok {
			msgs[i].QuotedSpeaker = sp
			msgs[i].QuotedBody = q
			msgs[i].Body = rest
		}
	}
	return msgs
}

// IsLikelyChat reports whether text reads like a chat conversation. Text
// with fewer than cfg.MinLines non-blank lines is rejected. Otherwise a
// line counts as an indicator if it matches any header form or contains a
// time-like token; the text qualifies when the indicator fraction exceeds
// cfg.LikelihoodThreshold.
func IsLikelyChat(text string, cfg Config) bool {
	var total, indicators int
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		total++
		if _, ok := MatchHeader(line); ok {
			indicators++
			continue
		}
		if reTimeToken.MatchString(line) || reTimeTokenSec.MatchString(line) {
			indicators++
		}
	}
	if total == 0 || total < cfg.MinLines {
		return false
	}
	return float64(indicators)/float64(total) > cfg.LikelihoodThreshold
}
