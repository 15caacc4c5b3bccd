// internal/service/category/category.go
package category

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dinerozz/focus-tracker-backend/internal/entity"
	"github.com/dinerozz/focus-tracker-backend/internal/repository"
)

// ErrInvalidDomain marks a domain string that cannot be categorized.
var ErrInvalidDomain = errors.New("invalid domain")

// DefaultCategories seeds a user who has not configured anything yet.
func DefaultCategories() entity.Categories {
	return entity.Categories{
		Productive: []string{
			"github.com",
			"stackoverflow.com",
			"developer.mozilla.org",
			"docs.google.com",
			"notion.so",
			"figma.com",
			"codepen.io",
			"medium.com",
			"dev.to",
		},
		Unproductive: []string{
			"facebook.com",
			"instagram.com",
			"twitter.com",
			"youtube.com",
			"netflix.com",
			"reddit.com",
			"tiktok.com",
			"twitch.tv",
		},
	}
}

// Snapshot is a read-only O(1) lookup view over a Categories value. Build it
// once per operation; never share a mutating set.
type Snapshot struct {
	productive   map[string]struct{}
	unproductive map[string]struct{}
}

func NewSnapshot(c entity.Categories) *Snapshot {
	s := &Snapshot{
		productive:   make(map[string]struct{}, len(c.Productive)),
		unproductive: make(map[string]struct{}, len(c.Unproductive)),
	}
	for _, d := range c.Productive {
		s.productive[d] = struct{}{}
	}
	for _, d := range c.Unproductive {
		s.unproductive[d] = struct{}{}
	}
	return s
}

func (s *Snapshot) Classify(domain string) entity.Category {
	if _, ok := s.productive[domain]; ok {
		return entity.CategoryProductive
	}
	if _, ok := s.unproductive[domain]; ok {
		return entity.CategoryUnproductive
	}
	return entity.CategoryNeutral
}

// ValidateDomain rejects strings that cannot be a domain: no dot separator
// or embedded whitespace.
func ValidateDomain(domain string) error {
	if domain == "" || !strings.Contains(domain, ".") || strings.ContainsAny(domain, " \t\n") {
		return fmt.Errorf("%w: %q", ErrInvalidDomain, domain)
	}
	return nil
}

// AddDomain returns a new set state with the domain present only in the
// target category. Productive and unproductive stay disjoint.
func AddDomain(c entity.Categories, domain string, target entity.Category) (entity.Categories, error) {
	if err := ValidateDomain(domain); err != nil {
		return c, err
	}

	if target != entity.CategoryProductive && target != entity.CategoryUnproductive {
		return c, fmt.Errorf("cannot add domain to category %q", target)
	}

	next := entity.Categories{
		Productive:   removeFrom(c.Productive, domain),
		Unproductive: removeFrom(c.Unproductive, domain),
	}

	if target == entity.CategoryProductive {
		next.Productive = append(next.Productive, domain)
	} else {
		next.Unproductive = append(next.Unproductive, domain)
	}

	return next, nil
}

// RemoveDomain returns a new set state with the domain absent from the given
// category.
func RemoveDomain(c entity.Categories, domain string, target entity.Category) entity.Categories {
	next := entity.Categories{
		Productive:   append([]string(nil), c.Productive...),
		Unproductive: append([]string(nil), c.Unproductive...),
	}

	switch target {
	case entity.CategoryProductive:
		next.Productive = removeFrom(next.Productive, domain)
	case entity.CategoryUnproductive:
		next.Unproductive = removeFrom(next.Unproductive, domain)
	}

	return next
}

func removeFrom(domains []string, domain string) []string {
	result := make([]string, 0, len(domains))
	for _, d := range domains {
		if d != domain {
			result = append(result, d)
		}
	}
	return result
}

type CategoryService interface {
	GetCategories(ctx context.Context, userID string) (*entity.Categories, error)
	SaveCategories(ctx context.Context, userID string, categories entity.Categories) error
	AddDomain(ctx context.Context, userID, domain string, target entity.Category) (*entity.Categories, error)
	RemoveDomain(ctx context.Context, userID, domain string, target entity.Category) (*entity.Categories, error)
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) GetCategories(ctx context.Context, userID string) (*entity.Categories, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	categories, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	if categories == nil {
		defaults := DefaultCategories()
		return &defaults, nil
	}

	return categories, nil
}

func (s *categoryService) SaveCategories(ctx context.Context, userID string, categories entity.Categories) error {
	if userID == "" {
		return fmt.Errorf("user ID is required")
	}

	for _, d := range append(append([]string(nil), categories.Productive...), categories.Unproductive...) {
		if err := ValidateDomain(d); err != nil {
			return err
		}
	}

	snapshot := NewSnapshot(categories)
	for _, d := range categories.Unproductive {
		if snapshot.Classify(d) == entity.CategoryProductive {
			return fmt.Errorf("domain %q cannot be both productive and unproductive", d)
		}
	}

	if err := s.repo.Upsert(ctx, userID, categories); err != nil {
		return fmt.Errorf("failed to save categories: %w", err)
	}

	return nil
}

func (s *categoryService) AddDomain(ctx context.Context, userID, domain string, target entity.Category) (*entity.Categories, error) {
	current, err := s.GetCategories(ctx, userID)
	if err != nil {
		return nil, err
	}

	next, err := AddDomain(*current, domain, target)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, userID, next); err != nil {
		return nil, fmt.Errorf("failed to save categories: %w", err)
	}

	return &next, nil
}

func (s *categoryService) RemoveDomain(ctx context.Context, userID, domain string, target entity.Category) (*entity.Categories, error) {
	current, err := s.GetCategories(ctx, userID)
	if err != nil {
		return nil, err
	}

	next := RemoveDomain(*current, domain, target)

	if err := s.repo.Upsert(ctx, userID, next); err != nil {
		return nil, fmt.Errorf("failed to save categories: %w", err)
	}

	return &next, nil
}
