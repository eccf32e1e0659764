package openai

// Responses content types.
const (
	TypeInputText  = "input_text"
	TypeOutputText = "output_text"
	TypeInputImage = "input_image"
	TypeInputFile  = "input_file"
)

// ResponsesContent is one content item of a Responses message.
type ResponsesContent struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	Filename string `json:"filename,omitempty"`
	FileID   string `json:"file_id,omitempty"`
}

type ResponsesMessage struct {
	Role    string             `json:"role"`
	Content []ResponsesContent `json:"content"`
}

// ResponsesRequest is the Responses API body. Input is a string or a
// []ResponsesMessage. An empty Model selects ResponsesDefaultModel.
type ResponsesRequest struct {
	Model string `json:"model"`
	Input any    `json:"input"`

	Extra map[string]any `json:"-"`
}

// MarshalJSON implements json.Marshaler.
func (r ResponsesRequest) MarshalJSON() ([]byte, error) {
	type plain ResponsesRequest
	return mergeExtra(plain(r), r.Extra)
}

type OutputContent struct {
	Type        string `json:"type"`
	Annotations []any  `json:"annotations,omitempty"`
	Text        string `json:"text"`
}

type OutputItem struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"` // reasoning | message
	Status  string          `json:"status,omitempty"`
	Content []OutputContent `json:"content,omitempty"`
	Role    string          `json:"role,omitempty"`
	Summary []any           `json:"summary,omitempty"`
}

type ResponsesUsage struct {
	InputTokens        int `json:"input_tokens"`
	InputTokensDetails struct {
		CachedTokens int `json:"cached_tokens"`
	} `json:"input_tokens_details"`
	OutputTokens        int `json:"output_tokens"`
	OutputTokensDetails struct {
		ReasoningTokens int `json:"reasoning_tokens"`
	} `json:"output_tokens_details"`
	TotalTokens int `json:"total_tokens"`
}

type ResponsesResponse struct {
	ID          string         `json:"id"`
	Object      string         `json:"object"`
	CreatedAt   int64          `json:"created_at"`
	Status      string         `json:"status"`
	Model       string         `json:"model"`
	Output      []OutputItem   `json:"output"`
	OutputText  string         `json:"output_text"`
	Usage       ResponsesUsage `json:"usage"`
	Background  bool           `json:"background"`
	ServiceTier string         `json:"service_tier,omitempty"`
	Store       bool           `json:"store"`
	Temperature float64        `json:"temperature,omitempty"`
	TopP        float64        `json:"top_p,omitempty"`
	ToolChoice  string         `json:"tool_choice,omitempty"`
	Truncation  string         `json:"truncation,omitempty"`
	Reasoning   *struct {
		Effort string `json:"effort"`
	} `json:"reasoning,omitempty"`
}

// Text returns output_text, else the first text of the first message item
// carrying content, else "".
func (r *ResponsesResponse) Text() string {
	if r.OutputText != "" {
		return r.OutputText
	}
	for _, item := range r.Output {
		if item.Type == "message" && len(item.Content) > 0 {
			return item.Content[0].Text
		}
	}
	return ""
}
