package api

import (
	"github.com/samcharles93/mobisniff/internal/batch"
	"github.com/samcharles93/mobisniff/pkg/mobi"
)

// ErrorBody is the payload of every error response.
type ErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

type ClassifyResponse struct {
	Object         string              `json:"object"`
	Size           int                 `json:"size"`
	Sections       int                 `json:"sections"`
	Title          string              `json:"title,omitempty"`
	Classification mobi.Classification `json:"classification"`
	Operations     []mobi.Availability `json:"operations"`
}

type CreateBatchRequest struct {
	Paths []string `json:"paths"`
	// Target is "epub" or "pdf"; empty only classifies.
	Target  string `json:"target,omitempty"`
	OutDir  string `json:"out_dir,omitempty"`
	Workers int    `json:"workers,omitempty"`
}

type BatchResponse struct {
	Object  string `json:"object"`
	Summary string `json:"summary"`
	*batch.Batch
}

type DeleteBatchResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}
