package services

import (
	"context"

	"github.com/HugeKC01/Botnoi-Indo/internal/models"
)

// ---------------------------------------------------------------------------
// Synthesizer — interface over the remote text-to-speech provider so the
// HTTP layer and tests don't depend on the concrete Botnoi client.
// ---------------------------------------------------------------------------

// Synthesizer converts a validated request into a hosted audio URL.
type Synthesizer interface {
	// Synthesize issues one synthesis call. The request must already have
	// passed Validate; the credential travels inside the request.
	Synthesize(ctx context.Context, req *models.SynthesisRequest) (*models.SynthesisResult, error)
}
