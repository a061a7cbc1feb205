// Package chat reconstructs speaker-attributed conversations from raw
// recognized text. Classification is line-oriented: an ordered chain of
// header patterns decides whether a line opens a new message, and
// everything that fails classification either continues the open message
// or is dropped.
package chat

// Alignment records which side of a chat UI a message visually occupied,
// when the text carries an explicit marker.
type Alignment int

const (
	AlignUnknown Alignment = iota
	AlignLeft
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "LEFT"
	case AlignRight:
		return "RIGHT"
	default:
		return "UNKNOWN"
	}
}

// Message is a single reconstructed chat message. Body holds the message
// text with continuation lines joined by newlines. QuotedSpeaker and
// QuotedBody are set when the body carried an inline quote block; the
// block itself is removed from Body.
type Message struct {
	Speaker       string
	Body          string
	Timestamp     string
	Line          int
	Alignment     Alignment
	QuotedSpeaker string
	QuotedBody    string
}

// HasQuote reports whether the message carried an extracted quote block.
func (m Message) HasQuote() bool { return m.QuotedSpeaker != "" || m.QuotedBody != "" }

// Config carries the chat-likelihood tuning constants. The defaults
// reproduce the observed behavior and have no derivation beyond that.
type Config struct {
	// MinLines is the minimum number of non-blank lines for text to be
	// considered at all.
	MinLines int
	// LikelihoodThreshold is the fraction of indicator lines above which
	// text is classified as a chat.
	LikelihoodThreshold float64
}

// DefaultConfig returns the stock heuristic constants.
func DefaultConfig() Config {
	return Config{MinLines: 3, LikelihoodThreshold: 0.30}
}

// Summary holds per-conversation statistics.
type Summary struct {
	Total          int
	Participants   []string
	CountBySpeaker map[string]int
	HasTimestamps  bool
}

// Summarize computes conversation statistics. Participants appear in
// first-appearance order.
func Summarize(msgs []Message) Summary {
	s := Summary{CountBySpeaker: make(map[string]int)}
	for _, m := range msgs {
		if _, seen := s.CountBySpeaker[m.Speaker]; !seen {
			s.Participants = append(s.Participants, m.Speaker)
		}
		s.CountBySpeaker[m.Speaker]++
		if m.Timestamp != "" {
			s.HasTimestamps = true
		}
	}
	s.Total = len(msgs)
	return s
}
