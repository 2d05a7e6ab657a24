package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/menulens/menulens-api/internal/domain"
	"github.com/menulens/menulens-api/internal/translation"
)

const translationPromptFormat = `Translate this restaurant menu into %s and structure it.
For each dish produce: name (translated), originalName, description (one
appetizing sentence in %s), price (as printed, empty if absent), and
category (one of: Appetizers, Main Courses, Desserts, Beverages, Sides,
Specials, Other). Preserve menu order. Skip headings and non-dish text.

Menu text:
%s`

// itemSchema mirrors domain.MenuItem minus the image reference, which is
// attached later by the synthesis stage.
var menuSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"items": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":         {Type: genai.TypeString},
					"originalName": {Type: genai.TypeString},
					"description":  {Type: genai.TypeString},
					"price":        {Type: genai.TypeString},
					"category":     {Type: genai.TypeString},
				},
				Required: []string{"name", "originalName", "category"},
			},
		},
	},
	Required: []string{"items"},
}

type menuResponse struct {
	Items []struct {
		Name         string `json:"name"`
		OriginalName string `json:"originalName"`
		Description  string `json:"description"`
		Price        string `json:"price"`
		Category     string `json:"category"`
	} `json:"items"`
}

// TranslateMenu translates raw menu text into structured items. The model
// is constrained to the response schema; output that still fails to parse
// is reported as ErrMalformedOutput, never repaired.
func (c *Client) TranslateMenu(ctx context.Context, rawText, targetLanguage string) ([]domain.MenuItem, error) {
	if rawText == "" {
		return nil, translation.ErrEmptyText
	}

	prompt := fmt.Sprintf(translationPromptFormat, targetLanguage, targetLanguage, rawText)
	contents := genai.Text(prompt)

	resp, err := c.client.Models.GenerateContent(ctx, c.cfg.TranslationModel, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   menuSchema,
		Temperature:      genai.Ptr[float32](0.2),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", translation.ErrEngineFailure, err)
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", translation.ErrEngineFailure, err)
	}

	items, err := parseMenuResponse(text)
	if err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "translation response parsed",
		"item_count", len(items),
		"target_language", targetLanguage)
	return items, nil
}

// parseMenuResponse decodes the schema-constrained model output into
// domain items.
func parseMenuResponse(text string) ([]domain.MenuItem, error) {
	var parsed menuResponse
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", translation.ErrMalformedOutput, err)
	}
	if len(parsed.Items) == 0 {
		return nil, fmt.Errorf("%w: no items in response", translation.ErrMalformedOutput)
	}

	items := make([]domain.MenuItem, 0, len(parsed.Items))
	for i, raw := range parsed.Items {
		if raw.Name == "" {
			return nil, fmt.Errorf("%w: item %d missing name", translation.ErrMalformedOutput, i)
		}
		item := domain.MenuItem{
			Name:         raw.Name,
			OriginalName: raw.OriginalName,
			Description:  raw.Description,
			Price:        raw.Price,
			Category:     domain.Category(raw.Category),
		}
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", translation.ErrMalformedOutput, i, err)
		}
		items = append(items, item)
	}
	return items, nil
}
