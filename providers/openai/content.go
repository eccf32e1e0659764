package openai

import (
	"encoding/base64"
	"io"
	"strings"
)

// TextContent builds a chat text part.
func TextContent(text string) ContentPart {
	return ContentPart{Type: "text", Text: text}
}

// ImageContent builds a chat image part. An empty detail means "auto".
func ImageContent(url, detail string) ContentPart {
	if detail == "" {
		detail = "auto"
	}
	return ContentPart{Type: "image_url", ImageURL: &ImageURL{URL: url, Detail: detail}}
}

func InputText(text string) ResponsesContent {
	return ResponsesContent{Type: TypeInputText, Text: text}
}

func OutputText(text string) ResponsesContent {
	return ResponsesContent{Type: TypeOutputText, Text: text}
}

func InputImage(url string) ResponsesContent {
	return ResponsesContent{Type: TypeInputImage, ImageURL: url}
}

func InputFile(filename, fileID string) ResponsesContent {
	return ResponsesContent{Type: TypeInputFile, Filename: filename, FileID: fileID}
}

func NewResponsesMessage(role string, content ...ResponsesContent) ResponsesMessage {
	return ResponsesMessage{Role: role, Content: content}
}

func UserMessageWithImage(text, imageURL string) ResponsesMessage {
	return NewResponsesMessage(RoleUser, InputText(text), InputImage(imageURL))
}

func UserMessageWithFile(text, filename, fileID string) ResponsesMessage {
	return NewResponsesMessage(RoleUser, InputText(text), InputFile(filename, fileID))
}

func UserTextMessage(text string) ResponsesMessage {
	return NewResponsesMessage(RoleUser, InputText(text))
}

func SystemMessage(text string) ResponsesMessage {
	return NewResponsesMessage(RoleSystem, InputText(text))
}

// DataURL wraps base64 data in a data URL. An empty mime means image/png.
func DataURL(b64, mime string) string {
	if mime == "" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + b64
}

// ReadDataURL base64-encodes r into a data URL.
func ReadDataURL(r io.Reader, mime string) (string, error) {
	var sb strings.Builder
	enc := base64.NewEncoder(base64.StdEncoding, &sb)
	if _, err := io.Copy(enc, r); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return DataURL(sb.String(), mime), nil
}
