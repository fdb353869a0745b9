package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultModel is used when the client does not pick one.
const DefaultModel = "gpt-4o-mini"

const systemPrompt = "你是一位耐心的一年级辅导老师。你的任务是帮助小朋友理解问题，而不是直接给出答案。" +
	"请使用亲切、简单、富有鼓励性的语言。重要规则：1. 禁止使用 ###, ---, > 等复杂的 Markdown 符号。" +
	"2. 使用简单的空格和换行来分段。3. 重点词汇可以用少量的加粗，但不要大面积使用。" +
	"4. 保持回答简洁，每次只专注于解释一个知识点，不要一次给太多信息。" +
	"5. 回复中不要包含任何代码块或编程相关的特殊字符。"

// ChatGPT is a client for an OpenAI compatible chat-completions endpoint
type ChatGPT struct {
	apiURL      string
	temperature float64
	client      *http.Client
}

// NewChatGPT creates a client with a bounded request timeout
func NewChatGPT(apiURL string, timeout time.Duration) *ChatGPT {
	return &ChatGPT{
		apiURL:      apiURL,
		temperature: 0.7,
		client:      &http.Client{Timeout: timeout},
	}
}

// ContentPart is one element of a multimodal user message
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

type ImageURL struct {
	URL string `json:"url"`
}

// Message represents a message in the conversation; Content is a string or []ContentPart
type Message struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

// ChatRequest represents a request to the chat API
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

// ChatResponse represents a response from the chat API
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// imageDataURL accepts either a data URL or bare base64 and returns a JPEG data URL.
func imageDataURL(image string) string {
	if i := strings.Index(image, ","); i >= 0 {
		image = image[i+1:]
	}
	return "data:image/jpeg;base64," + image
}

// Ask sends one tutoring question, optionally with a photo of the homework.
func (c *ChatGPT) Ask(ctx context.Context, apiKey, model, prompt, image string) (string, error) {
	if model == "" {
		model = DefaultModel
	}
	var parts []ContentPart
	if prompt != "" {
		parts = append(parts, ContentPart{Type: "text", Text: prompt})
	}
	if image != "" {
		parts = append(parts, ContentPart{Type: "image_url", ImageURL: &ImageURL{URL: imageDataURL(image)}})
	}

	request := ChatRequest{
		Model: model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: parts},
		},
		Temperature: c.temperature,
	}

	requestData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(requestData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var response ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}
	if response.Error != nil {
		msg := response.Error.Message
		if msg == "" {
			msg = "API error"
		}
		return "", fmt.Errorf("%s", msg)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}
