package catalog

import (
	"context"

	"community-sport/backend/internal/apperr"
	"community-sport/backend/internal/domain/faq"
	"community-sport/backend/internal/domain/program"
	"community-sport/backend/internal/logger"
	"community-sport/backend/internal/search"
)

// Service answers catalog queries from the cache. Listing and search failures
// reach the caller; option and featured lookups degrade to empty results.
type Service struct {
	cache *Cache
	log   *logger.Logger
}

func NewService(cache *Cache, log *logger.Logger) *Service {
	return &Service{cache: cache, log: log}
}

func (s *Service) Programs(ctx context.Context) ([]program.Program, error) {
	ps, err := s.cache.Programs(ctx)
	if err != nil {
		return nil, apperr.Upstream("Failed to load programs. Please try again later.", err)
	}
	return ps, nil
}

func (s *Service) Program(ctx context.Context, programID string) (*program.Program, error) {
	if programID == "" {
		return nil, apperr.Validation("Missing required field: programId")
	}
	p, err := s.cache.Program(ctx, programID)
	if err != nil {
		if program.IsErrNotFound(err) {
			return nil, err
		}
		s.log.ErrorContext(ctx, "Error fetching program from Firestore", "program_id", programID, "error", err)
		return nil, apperr.Upstream("Failed to load program details. Please try again later.", err)
	}
	return p, nil
}

func (s *Service) Search(ctx context.Context, f search.Filters) ([]program.Program, error) {
	ps, err := s.cache.Programs(ctx)
	if err != nil {
		return nil, apperr.Upstream("Failed to search programs. Please try again later.", err)
	}
	return search.Search(ps, f), nil
}

func (s *Service) Featured(ctx context.Context, limit int) []search.Scored {
	ps, err := s.cache.Programs(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "Error getting featured programs", "error", err)
		return []search.Scored{}
	}
	return search.Featured(ps, limit)
}

func (s *Service) SportOptions(ctx context.Context) []string {
	ps, err := s.cache.Programs(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "Error getting sport options", "error", err)
		return []string{}
	}
	return search.SportOptions(ps)
}

func (s *Service) AgeGroupOptions(ctx context.Context) []string {
	ps, err := s.cache.Programs(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "Error getting age group options", "error", err)
		return []string{}
	}
	return search.AgeGroupOptions(ps)
}

func (s *Service) AccessibilityOptions(ctx context.Context) []search.Option {
	ps, err := s.cache.Programs(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "Error getting accessibility options", "error", err)
		return []search.Option{}
	}
	return search.AccessibilityOptions(ps)
}

func (s *Service) Faqs(ctx context.Context) ([]faq.Faq, error) {
	fs, err := s.cache.Faqs(ctx)
	if err != nil {
		return nil, apperr.Upstream("Failed to load FAQs. Please try again later.", err)
	}
	return fs, nil
}
