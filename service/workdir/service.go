// Package workdir prepares per slot output locations through afs so that
// stale artifacts of a previous run never leak into a new one.
package workdir

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

// Service recreates output directories
type Service struct {
	fs afs.Service
}

// New creates a workdir service
func New(fs afs.Service) *Service {
	if fs == nil {
		fs = afs.New()
	}
	return &Service{fs: fs}
}

// Recreate removes location if present and creates it empty
func (s *Service) Recreate(ctx context.Context, location string) error {
	if location == "" {
		return fmt.Errorf("output location was empty")
	}
	exists, err := s.fs.Exists(ctx, location)
	if err != nil {
		return fmt.Errorf("failed to check %v: %w", location, err)
	}
	if exists {
		if err = s.fs.Delete(ctx, location); err != nil {
			return fmt.Errorf("failed to remove %v: %w", location, err)
		}
	}
	if err = s.fs.Create(ctx, location, file.DefaultDirOsMode, true); err != nil {
		return fmt.Errorf("failed to create %v: %w", location, err)
	}
	return nil
}
