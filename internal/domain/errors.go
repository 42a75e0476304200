package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrDocumentNotFound signals a missing document or chunk.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrInvalidArgument signals a malformed request (empty query, bad filter).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnsupportedFormat signals a file type the loader cannot parse.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrStorage signals that the vector store is unreachable or a batch
	// write could not be initiated.
	ErrStorage = errors.New("vector store failure")
	// ErrNoChunksProcessed signals an ingestion in which every chunk failed.
	ErrNoChunksProcessed = errors.New("no chunks could be processed")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
)
