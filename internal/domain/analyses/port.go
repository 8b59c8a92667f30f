package analyses

import "context"

// ListQuery selects a slice of the analysis log.
type ListQuery struct {
	Offset      int
	Limit       int
	ProductName string // case-insensitive substring filter, empty means no filter
}

// Repository port (interface untuk persistence)
type Repository interface {
	Append(ctx context.Context, rec *Record) error
	List(ctx context.Context, q ListQuery) (*Page, error)
	// Delete reports false when no record matched the id.
	Delete(ctx context.Context, id ScanID) (bool, error)
}

// VisionClient port (interface untuk external vision model)
type VisionClient interface {
	Analyze(ctx context.Context, image []byte, mimeType string) (string, error)
}

// ImageArchive port (interface untuk penyimpanan gambar label)
type ImageArchive interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
