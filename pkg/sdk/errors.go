package ragserver

import "github.com/paperscope/ragserver/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrDocumentNotFound       = domain.ErrDocumentNotFound
	ErrInvalidArgument        = domain.ErrInvalidArgument
	ErrUnsupportedFormat      = domain.ErrUnsupportedFormat
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrStorage                = domain.ErrStorage
	ErrNoChunksProcessed      = domain.ErrNoChunksProcessed
)
