package repositories

import (
	"context"

	"github.com/sightline/server/domain/entities"
)

// ThoughtSource abstracts the remote cognitive pipeline endpoint
type ThoughtSource interface {
	// FetchThought performs one poll attempt against the pipeline
	// and returns the decoded snapshot
	FetchThought(ctx context.Context) (*entities.Thought, error)
}
