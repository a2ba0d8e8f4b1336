package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"

	"sareeledger-backend/logger"
)

var ErrOCRDisabled = errors.New("text recognition is not configured")

// TextRecognizer turns an encoded image into plain text. An image without
// readable text yields "" and no error.
type TextRecognizer interface {
	RecognizeText(ctx context.Context, img []byte) (string, error)
	Close() error
}

type visionRecognizer struct {
	log    *logger.Logger
	client *vision.ImageAnnotatorClient
}

func NewVisionRecognizer(ctx context.Context, log *logger.Logger, opts ...option.ClientOption) (TextRecognizer, error) {
	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}
	return &visionRecognizer{log: log.With("service", "VisionRecognizer"), client: client}, nil
}

func (v *visionRecognizer) RecognizeText(ctx context.Context, img []byte) (string, error) {
	if len(img) == 0 {
		return "", nil
	}
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{{
			Image: &visionpb.Image{Content: img},
			Features: []*visionpb.Feature{
				{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
			},
			ImageContext: &visionpb.ImageContext{LanguageHints: []string{"en"}},
		}},
	}
	resp, err := v.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return "", fmt.Errorf("vision BatchAnnotateImages: %w", err)
	}
	if resp == nil || len(resp.Responses) == 0 || resp.Responses[0] == nil {
		return "", nil
	}
	r0 := resp.Responses[0]
	if r0.Error != nil && r0.Error.Message != "" {
		return "", fmt.Errorf("vision annotate error: %s", r0.Error.Message)
	}
	if r0.FullTextAnnotation == nil {
		return "", nil
	}
	return strings.TrimSpace(r0.FullTextAnnotation.Text), nil
}

func (v *visionRecognizer) Close() error {
	if v == nil || v.client == nil {
		return nil
	}
	return v.client.Close()
}

type disabledRecognizer struct{}

func NewDisabledRecognizer() TextRecognizer { return disabledRecognizer{} }

func (disabledRecognizer) RecognizeText(context.Context, []byte) (string, error) {
	return "", ErrOCRDisabled
}
func (disabledRecognizer) Close() error { return nil }
