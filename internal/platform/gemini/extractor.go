package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/menulens/menulens-api/internal/extraction"
)

const extractionPrompt = `You are an OCR engine. Extract every piece of text visible in this
restaurant menu photo, preserving line breaks and menu ordering. Respond
with JSON: {"text": "<all extracted text>", "confidence": <0.0-1.0>}.`

type extractionResponse struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

var extractionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"text":       {Type: genai.TypeString},
		"confidence": {Type: genai.TypeNumber},
	},
	Required: []string{"text", "confidence"},
}

// ExtractText runs the vision model over the menu photo and returns the
// raw text plus the model's confidence estimate.
func (c *Client) ExtractText(ctx context.Context, image []byte, mimeType string) (extraction.Result, error) {
	if len(image) == 0 {
		return extraction.Result{}, extraction.ErrEmptyImage
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(extractionPrompt),
			genai.NewPartFromBytes(image, mimeType),
		}, genai.RoleUser),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.cfg.VisionModel, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   extractionSchema,
		Temperature:      genai.Ptr[float32](0),
	})
	if err != nil {
		return extraction.Result{}, fmt.Errorf("%w: %v", extraction.ErrEngineFailure, err)
	}

	text, err := responseText(resp)
	if err != nil {
		return extraction.Result{}, fmt.Errorf("%w: %v", extraction.ErrEngineFailure, err)
	}

	var parsed extractionResponse
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return extraction.Result{}, fmt.Errorf("%w: %v", extraction.ErrUnreadableText, err)
	}

	c.logger.DebugContext(ctx, "extraction response parsed",
		"text_length", len(parsed.Text),
		"confidence", parsed.Confidence)

	return extraction.Result{Text: parsed.Text, Confidence: parsed.Confidence}, nil
}
