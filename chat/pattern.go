package chat

import (
	"regexp"
	"strings"
)

// Header is the result of classifying a single line. Body is empty for
// header-only lines whose message is expected to start on the following
// line.
type Header struct {
	Speaker   string
	Timestamp string
	Alignment Alignment
	Body      string
}

// Regex fragments shared by the header forms. A speaker token is 1-30
// characters of letters and spaces starting with an uppercase letter; a
// timestamp token is H:MM with optional seconds and optional AM/PM.
const (
	speakerFrag = `[A-Z][A-Za-z ]{0,29}`
	timeFrag    = `[0-9]{1,2}:[0-9]{2}(?::[0-9]{2})?(?:\s*(?:AM|PM))?`
	alignFrag   = `(?i:LEFT|RIGHT)`
)

var (
	// Most field-qualified forms first so a richer line is never claimed
	// by a looser pattern.
	reAlignTimeSpeaker = regexp.MustCompile(`^(` + alignFrag + `)\s+[\[(](` + timeFrag + `)[\])]\s*(` + speakerFrag + `)\s*:\s*(.*)$`)
	reAlignSpeaker     = regexp.MustCompile(`^(` + alignFrag + `)\s+(` + speakerFrag + `)\s*:\s*(.*)$`)
	reTimeSpeaker      = regexp.MustCompile(`^[\[(](` + timeFrag + `)[\])]\s*(` + speakerFrag + `)\s*:\s*(.*)$`)
	reSpeakerTime      = regexp.MustCompile(`^(` + speakerFrag + `)\s*[\[(](` + timeFrag + `)[\])]\s*:\s*(.*)$`)
	reBareTimeSpeaker  = regexp.MustCompile(`^(` + timeFrag + `)\s+(` + speakerFrag + `)\s*:\s*(.*)$`)
	reSpeaker          = regexp.MustCompile(`^(` + speakerFrag + `)\s*:\s*(.*)$`)

	// Cheap pre-check used to decide whether a non-matching line is a
	// malformed header or a continuation.
	reHeaderLike = regexp.MustCompile(`^[A-Z][A-Za-z ]*:`)

	reQuoteBlock = regexp.MustCompile(`(?s)\[QUOTE:\s*([^\]]+)\]\s*(.*?)\s*\[/QUOTE\]`)
)

type classifier func(line string) (Header, bool)

// headerChain is the ordered priority chain of header forms. Each entry is
// an independent classifier; MatchHeader takes the first success.
var headerChain = []classifier{
	func(line string) (Header, bool) {
		m := reAlignTimeSpeaker.FindStringSubmatch(line)
		if m == nil {
			return Header{}, false
		}
		return makeHeader(m[3], m[2], parseAlignment(m[1]), m[4])
	},
	func(line string) (Header, bool) {
		m := reAlignSpeaker.FindStringSubmatch(line)
		if m == nil {
			return Header{}, false
		}
		return makeHeader(m[2], "", parseAlignment(m[1]), m[3])
	},
	func(line string) (Header, bool) {
		m := reTimeSpeaker.FindStringSubmatch(line)
		if m == nil {
			return Header{}, false
		}
		return makeHeader(m[2], m[1], AlignUnknown, m[3])
	},
	func(line string) (Header, bool) {
		m := reSpeakerTime.FindStringSubmatch(line)
		if m == nil {
			return Header{}, false
		}
		return makeHeader(m[1], m[2], AlignUnknown, m[3])
	},
	func(line string) (Header, bool) {
		m := reBareTimeSpeaker.FindStringSubmatch(line)
		if m == nil {
			return Header{}, false
		}
		return makeHeader(m[2], m[1], AlignUnknown, m[3])
	},
	func(line string) (Header, bool) {
		m := reSpeaker.FindStringSubmatch(line)
		if m == nil {
			return Header{}, false
		}
		return makeHeader(m[1], "", AlignUnknown, m[2])
	},
}

func makeHeader(speaker, timestamp string, align Alignment, body string) (Header, bool) {
	speaker = strings.TrimSpace(speaker)
	if speaker == "" {
		return Header{}, false
	}
	return Header{
		Speaker:   speaker,
		Timestamp: strings.TrimSpace(timestamp),
		Alignment: align,
		Body:      strings.TrimSpace(body),
	}, true
}

func parseAlignment(token string) Alignment {
	switch strings.ToUpper(token) {
	case "LEFT":
		return AlignLeft
	case "RIGHT":
		return AlignRight
	default:
		return AlignUnknown
	}
}

// MatchHeader classifies one trimmed, non-empty line against the ordered
// header forms and returns the first match.
func MatchHeader(line string) (Header, bool) {
	for _, try := range headerChain {
		if h, ok := try(line); ok {
			return h, true
		}
	}
	return Header{}, false
}

// looksLikeHeader is the cheap speaker-token-plus-colon test applied to
// lines that failed full classification: such a line is a malformed
// header, not a continuation.
func looksLikeHeader(line string) bool {
	return reHeaderLike.MatchString(line)
}

// ExtractQuote finds the first delimited quote block inside body and
// returns the quoted speaker, the quoted text and the body with the block
// removed and trimmed. The block may span multiple lines. ok is false when
// no block is present.
func ExtractQuote(body string) (speaker, quoted, remaining string, ok bool) {
	loc := reQuoteBlock.FindStringSubmatchIndex(body)
	if loc == nil {
		return "", "", body, false
	}
	speaker = strings.TrimSpace(body[loc[2]:loc[3]])
	quoted = strings.TrimSpace(body[loc[4]:loc[5]])
	remaining = strings.TrimSpace(body[:loc[0]] + " " + body[loc[1]:])
	return speaker, quoted, remaining, true
}
