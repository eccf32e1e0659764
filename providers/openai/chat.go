package openai

import "encoding/json"

type ImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"` // auto | low | high
}

// ContentPart is a text or image_url part of a chat message.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// Message is a chat message. Content is a string, a ContentPart or a
// []ContentPart.
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
	Name    string `json:"name,omitempty"`
}

// Text returns string content, or the concatenated text parts.
func (m *Message) Text() string {
	switch c := m.Content.(type) {
	case string:
		return c
	case []any:
		var out string
		for _, p := range c {
			if part, ok := p.(map[string]any); ok && part["type"] == "text" {
				s, _ := part["text"].(string)
				out += s
			}
		}
		return out
	case map[string]any:
		s, _ := c["text"].(string)
		return s
	case []ContentPart:
		var out string
		for _, p := range c {
			if p.Type == "text" {
				out += p.Text
			}
		}
		return out
	}
	return ""
}

// CompletionRequest is the chat completions body. Extra keys are merged into
// the JSON without overriding named fields.
type CompletionRequest struct {
	Deployment       string    `json:"deployment"`
	APIVersion       string    `json:"apiVersion"`
	Messages         []Message `json:"messages"`
	MaxRetries       *int      `json:"maxRetries,omitempty"`
	TopP             *float64  `json:"top_p,omitempty"`
	FrequencyPenalty *float64  `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64  `json:"presence_penalty,omitempty"`
	Stop             []string  `json:"stop,omitempty"`

	Extra map[string]any `json:"-"`
}

// MarshalJSON implements json.Marshaler.
func (r CompletionRequest) MarshalJSON() ([]byte, error) {
	type plain CompletionRequest
	return mergeExtra(plain(r), r.Extra)
}

type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type CompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

func mergeExtra(v any, extra map[string]any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return data, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	for k, val := range extra {
		if _, ok := m[k]; !ok {
			m[k] = val
		}
	}
	return json.Marshal(m)
}
