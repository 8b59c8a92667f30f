package analyses

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	domain "github.com/nutriscan/nutriscan-api/internal/domain/analyses"
)

// MaxImageBytes is the upload ceiling for a label image.
const MaxImageBytes = 500 << 10 // 500 KiB

const (
	defaultListLimit = 10

	unknownProduct = "Unknown Product"
	unknownExpiry  = "Not available"
)

// Clock abstraction supaya gampang ditest
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// RateLimiter guards the expensive external call per client fingerprint.
type RateLimiter interface {
	Allow(fingerprint string) (bool, time.Time)
}

// Service implements use-cases untuk label analysis.
// Service is designed to be used concurrently and is thread-safe.
type Service struct {
	Repo    domain.Repository
	Vision  domain.VisionClient
	Limiter RateLimiter
	Archive domain.ImageArchive // optional, nil disables archiving
	Clock   Clock
}

//
// ==== USE CASES ====
//

// Command untuk submit analysis
type SubmitCommand struct {
	Image       []byte
	MIMEType    string
	Fingerprint string
}

// Submit runs one analysis end to end: rate check, payload validation,
// vision call, fenced-JSON extraction, persist, return. Nothing is
// persisted on any failure.
func (s *Service) Submit(ctx context.Context, cmd SubmitCommand) (*domain.Record, error) {
	if ok, reset := s.Limiter.Allow(cmd.Fingerprint); !ok {
		return nil, &domain.RateLimitedError{ResetTime: reset}
	}

	if err := validate(cmd); err != nil {
		return nil, err
	}

	reply, err := s.Vision.Analyze(ctx, cmd.Image, cmd.MIMEType)
	if err != nil {
		return nil, fmt.Errorf("vision analyze: %w", err)
	}

	parsed, err := ExtractJSON(reply)
	if err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	rec := &domain.Record{
		ScanID:             newScanID(now),
		Timestamp:          now.UTC(),
		ProductName:        domain.SafeString(parsed["productName"], unknownProduct),
		ExpiryDate:         domain.SafeString(parsed["expiryDate"], unknownExpiry),
		HealthScore:        parsed["healthScore"],
		Concerns:           parsed["concerns"],
		RecommendedPortion: parsed["recommendedPortion"],
	}
	if nutrition, ok := parsed["nutritionPerPortion"].(map[string]any); ok {
		rec.NutritionPerPortion = nutrition
	}

	if err := s.Repo.Append(ctx, rec); err != nil {
		return nil, err
	}

	s.archiveImage(ctx, rec.ScanID, cmd)
	return rec, nil
}

// List ambil satu halaman riwayat analysis, terbaru dulu.
func (s *Service) List(ctx context.Context, q domain.ListQuery) (*domain.Page, error) {
	if q.Limit <= 0 {
		q.Limit = defaultListLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return s.Repo.List(ctx, q)
}

// Delete hapus satu record by scanId; false berarti not found.
func (s *Service) Delete(ctx context.Context, id domain.ScanID) (bool, error) {
	return s.Repo.Delete(ctx, id)
}

// ErrorRecord is the canonical placeholder returned for 500-class
// failures, so downstream renderers never see a partial response.
func ErrorRecord() *domain.Record {
	return &domain.Record{
		ProductName:        "Error",
		ExpiryDate:         "N/A",
		HealthScore:        0,
		Concerns:           []string{"Error analyzing image"},
		RecommendedPortion: "N/A",
		NutritionPerPortion: map[string]any{
			"calories": "N/A",
			"protein":  "N/A",
			"carbs":    "N/A",
		},
	}
}

func validate(cmd SubmitCommand) error {
	if len(cmd.Image) == 0 {
		return &domain.ValidationError{Field: "image", Reason: "no file uploaded"}
	}
	if len(cmd.Image) > MaxImageBytes {
		return &domain.ValidationError{
			Field:    "image",
			Reason:   fmt.Sprintf("file exceeds %d bytes", MaxImageBytes),
			TooLarge: true,
		}
	}
	if !isImageMIME(cmd.MIMEType) {
		return &domain.ValidationError{
			Field:  "image",
			Reason: fmt.Sprintf("unsupported media type %q", cmd.MIMEType),
		}
	}
	return nil
}

func isImageMIME(mimeType string) bool {
	return len(mimeType) > len("image/") && mimeType[:len("image/")] == "image/"
}

// newScanID is time-prefixed so ids sort in creation order, with a short
// random suffix against same-millisecond submissions.
func newScanID(now time.Time) domain.ScanID {
	return domain.ScanID(fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString()[:8]))
}

// archiveImage keeps a copy of the submitted label image. Best effort:
// the analysis already succeeded, so an archive failure is only logged.
func (s *Service) archiveImage(ctx context.Context, id domain.ScanID, cmd SubmitCommand) {
	if s.Archive == nil {
		return
	}
	key := fmt.Sprintf("labels/%s%s", id, extForMIME(cmd.MIMEType))
	if _, err := s.Archive.Upload(ctx, key, cmd.Image, cmd.MIMEType); err != nil {
		log.Printf("warning: failed to archive image for %s: %v", id, err)
	}
}

func extForMIME(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".bin"
	}
}
