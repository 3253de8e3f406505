package query

import (
	"context"
	"fmt"

	"github.com/researchaccelerator-hub/channel-insights/model"
)

// generateImage shapes the prompt and optional reference image into a
// request for the image-generation collaborator. Collaborator faults
// propagate to the caller unchanged; this is the engine's only branch
// with a side effect.
func (e *Engine) generateImage(ctx context.Context, args map[string]interface{}) (*model.QueryResult, error) {
	prompt, ok := requiredStringArg(args, "prompt")
	if !ok {
		return nil, fmt.Errorf("%w: prompt", ErrMissingArgument)
	}

	if e.images == nil {
		return nil, fmt.Errorf("image generation not configured")
	}

	imageBase64 := stringArg(args, "imageBase64", "")
	mimeType := stringArg(args, "mimeType", "")

	image, err := e.images.GenerateImage(ctx, prompt, imageBase64, mimeType)
	if err != nil {
		return nil, err
	}

	return &model.QueryResult{
		Kind:  model.ResultImage,
		Image: image,
	}, nil
}
