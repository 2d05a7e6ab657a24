package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/menulens/menulens-api/internal/synthesis"
)

const imagePromptFormat = `Professional food photography of %s. %s
Appetizing presentation on a clean plate, natural lighting, shallow depth
of field, no text or labels.`

// SynthesizeImage generates one dish image, stores the bytes in the media
// store, and returns the resulting URL reference.
func (c *Client) SynthesizeImage(ctx context.Context, itemName, description string) (string, error) {
	if itemName == "" {
		return "", synthesis.ErrEmptyItemName
	}

	prompt := fmt.Sprintf(imagePromptFormat, itemName, description)

	resp, err := c.client.Models.GenerateImages(ctx, c.cfg.ImageModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    "4:3",
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", synthesis.ErrEngineFailure, err)
	}
	if resp == nil || len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return "", synthesis.ErrNoImage
	}

	img := resp.GeneratedImages[0].Image
	if len(img.ImageBytes) == 0 {
		return "", synthesis.ErrNoImage
	}

	url, err := c.media.Save(ctx, img.ImageBytes, img.MIMEType)
	if err != nil {
		return "", fmt.Errorf("%w: %v", synthesis.ErrEngineFailure, err)
	}

	c.logger.DebugContext(ctx, "image synthesized",
		"item_name", itemName,
		"bytes", len(img.ImageBytes),
		"url", url)
	return url, nil
}
