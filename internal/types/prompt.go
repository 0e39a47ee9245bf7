package types

// Message is one role-tagged segment of a generation prompt.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// GenerationPrompt is the request sent to the generation provider. It is
// constructed fresh per request and never reused.
type GenerationPrompt struct {
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature"`
	MaxTokens   int32     `json:"max_tokens"`
}

// Text returns the concatenated prompt text across all messages.
func (p GenerationPrompt) Text() string {
	var out string
	for i, m := range p.Messages {
		if i > 0 {
			out += "\n\n"
		}
		out += m.Text
	}
	return out
}
