// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package textgen

import "strings"

type inputMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type textFormat struct {
	Type string `json:"type"`
}

type textOptions struct {
	Format    textFormat `json:"format"`
	Verbosity string     `json:"verbosity,omitempty"`
}

type reasoningOptions struct {
	Effort string `json:"effort"`
}

type responsesRequest struct {
	Model           string            `json:"model"`
	Input           []inputMessage    `json:"input"`
	Text            textOptions       `json:"text"`
	Reasoning       *reasoningOptions `json:"reasoning,omitempty"`
	MaxOutputTokens int               `json:"max_output_tokens,omitempty"`
}

type responsesResponse struct {
	Status     string `json:"status"`
	OutputText string `json:"output_text"`
	Output     []struct {
		Type    string `json:"type"`
		Role    string `json:"role,omitempty"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text,omitempty"`
		} `json:"content,omitempty"`
	} `json:"output"`
}

func (c *Client) newRequest(system, user string) responsesRequest {
	input := make([]inputMessage, 0, 2)
	if strings.TrimSpace(system) != "" {
		input = append(input, inputMessage{Role: "system", Content: system})
	}
	input = append(input, inputMessage{Role: "user", Content: user})

	req := responsesRequest{
		Model:           c.model,
		Input:           input,
		Text:            textOptions{Format: textFormat{Type: "text"}, Verbosity: c.verbosity},
		MaxOutputTokens: c.maxOutputTokens,
	}
	if c.reasoningEffort != "" {
		req.Reasoning = &reasoningOptions{Effort: c.reasoningEffort}
	}
	return req
}

// extractOutputText prefers the SDK-style output_text convenience field and
// otherwise concatenates the output_text parts of assistant messages.
func extractOutputText(resp responsesResponse) string {
	if strings.TrimSpace(resp.OutputText) != "" {
		return resp.OutputText
	}
	var out strings.Builder
	for _, item := range resp.Output {
		if item.Type != "message" {
			continue
		}
		for _, c := range item.Content {
			if c.Type == "output_text" && c.Text != "" {
				out.WriteString(c.Text)
			}
		}
	}
	return out.String()
}
