package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"internhub/internal/auth"
	"internhub/internal/cache"
	"internhub/internal/errors"
	"internhub/internal/model"
	"internhub/internal/repository"
)

const (
	publicListCacheKey = "internships:public:firstpage"
	publicListCacheTTL = 30 * time.Second
	defaultPageSize    = 20
)

// InternshipInput carries the client-supplied fields for create and update.
// There is deliberately no owner field: ownership always comes from the
// authenticated principal, never from the payload.
type InternshipInput struct {
	Title               string          `json:"title"`
	Description         string          `json:"description"`
	Sector              string          `json:"sector"`
	LocationCity        string          `json:"location_city"`
	LocationState       string          `json:"location_state"`
	Skills              []string        `json:"skills"`
	EducationLevel      string          `json:"education_level"`
	StipendAmount       decimal.Decimal `json:"stipend_amount"`
	StipendCurrency     string          `json:"stipend_currency"`
	Duration            string          `json:"duration"`
	PositionsTotal      int             `json:"positions_total"`
	ApplicationDeadline time.Time       `json:"application_deadline"`
	StartDate           time.Time       `json:"start_date"`
}

// PublicListResult is a page of the unfiltered listing.
type PublicListResult struct {
	Internships []model.Internship `json:"internships"`
	Total       int64              `json:"total"`
	CurrentPage int                `json:"currentPage"`
}

// InternshipService exposes the ownership-scoped operations on postings.
type InternshipService interface {
	Create(ctx context.Context, principal *auth.Principal, input InternshipInput) (*model.Internship, error)
	ListOwned(ctx context.Context, principal *auth.Principal) ([]model.Internship, error)
	ListPublic(ctx context.Context, opts repository.ListOptions) (*PublicListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Internship, error)
	Update(ctx context.Context, principal *auth.Principal, id uuid.UUID, input InternshipInput) (*model.Internship, error)
	UpdateStatus(ctx context.Context, principal *auth.Principal, id uuid.UUID, status model.InternshipStatus) (*model.Internship, error)
}

type internshipService struct {
	repo  repository.InternshipRepository
	cache *cache.Client
}

// NewInternshipService builds an InternshipService with repository and cache.
func NewInternshipService(repo repository.InternshipRepository, cache *cache.Client) InternshipService {
	return &internshipService{repo: repo, cache: cache}
}

// Create persists a new posting owned by the principal. OwnerID is stamped
// from the validated principal unconditionally; any owner value a client
// smuggles into the payload is ignored by construction.
func (s *internshipService) Create(ctx context.Context, principal *auth.Principal, input InternshipInput) (*model.Internship, error) {
	if principal.Role != model.RoleOrganization {
		return nil, errors.ErrForbidden
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	positions := input.PositionsTotal
	if positions < 1 {
		positions = 1
	}
	currency := input.StipendCurrency
	if currency == "" {
		currency = "INR"
	}

	internship := &model.Internship{
		ID:                  uuid.New(),
		OwnerID:             principal.ID,
		Title:               strings.TrimSpace(input.Title),
		Description:         input.Description,
		Sector:              input.Sector,
		LocationCity:        input.LocationCity,
		LocationState:       input.LocationState,
		Skills:              strings.Join(input.Skills, ","),
		EducationLevel:      input.EducationLevel,
		StipendAmount:       input.StipendAmount,
		StipendCurrency:     currency,
		Duration:            input.Duration,
		PositionsTotal:      positions,
		PositionsAvailable:  positions,
		ApplicationDeadline: input.ApplicationDeadline,
		StartDate:           input.StartDate,
		Status:              model.InternshipStatusActive,
	}

	if err := s.repo.Create(ctx, internship); err != nil {
		return nil, mapStoreError(err)
	}

	_ = s.cache.Delete(ctx, publicListCacheKey)
	return internship, nil
}

// ListOwned returns exactly the postings whose OwnerID equals the
// principal's id. The comparison is on the store-assigned uuid; an empty
// result is a legitimate answer, not an error.
func (s *internshipService) ListOwned(ctx context.Context, principal *auth.Principal) ([]model.Internship, error) {
	if principal.Role != model.RoleOrganization {
		return nil, errors.ErrForbidden
	}

	internships, err := s.repo.ListByOwner(ctx, principal.ID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if internships == nil {
		internships = []model.Internship{}
	}
	return internships, nil
}

// ListPublic returns a page of all postings regardless of owner. The
// unfiltered first page is the hot path for the browse surface and is
// cached briefly in Redis.
func (s *internshipService) ListPublic(ctx context.Context, opts repository.ListOptions) (*PublicListResult, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 {
		opts.PageSize = defaultPageSize
	}

	cacheable := opts.Page == 1 && opts.Sector == "" && opts.Status == "" && opts.PageSize == defaultPageSize
	if cacheable {
		if data, _ := s.cache.Get(ctx, publicListCacheKey); data != nil {
			var cached PublicListResult
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	internships, total, err := s.repo.ListPublic(ctx, opts)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if internships == nil {
		internships = []model.Internship{}
	}

	result := &PublicListResult{
		Internships: internships,
		Total:       total,
		CurrentPage: opts.Page,
	}

	if cacheable {
		if payload, err := json.Marshal(result); err == nil {
			_ = s.cache.Set(ctx, publicListCacheKey, payload, publicListCacheTTL)
		}
	}
	return result, nil
}

// Get returns a single posting by id.
func (s *internshipService) Get(ctx context.Context, id uuid.UUID) (*model.Internship, error) {
	internship, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrNotFound
		}
		return nil, mapStoreError(err)
	}
	return internship, nil
}

// Update rewrites the mutable fields of a posting. Only the owner or an
// admin may update; OwnerID is never rewritten.
func (s *internshipService) Update(ctx context.Context, principal *auth.Principal, id uuid.UUID, input InternshipInput) (*model.Internship, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(principal, existing); err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	existing.Title = strings.TrimSpace(input.Title)
	existing.Description = input.Description
	existing.Sector = input.Sector
	existing.LocationCity = input.LocationCity
	existing.LocationState = input.LocationState
	existing.Skills = strings.Join(input.Skills, ",")
	existing.EducationLevel = input.EducationLevel
	existing.StipendAmount = input.StipendAmount
	if input.StipendCurrency != "" {
		existing.StipendCurrency = input.StipendCurrency
	}
	existing.Duration = input.Duration
	if input.PositionsTotal > 0 {
		existing.PositionsTotal = input.PositionsTotal
	}
	existing.ApplicationDeadline = input.ApplicationDeadline
	existing.StartDate = input.StartDate

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, mapStoreError(err)
	}

	_ = s.cache.Delete(ctx, publicListCacheKey)
	return existing, nil
}

// UpdateStatus moves a posting through its lifecycle. Terminal states are
// final; a transition out of filled, expired or withdrawn is rejected.
func (s *internshipService) UpdateStatus(ctx context.Context, principal *auth.Principal, id uuid.UUID, status model.InternshipStatus) (*model.Internship, error) {
	switch status {
	case model.InternshipStatusActive, model.InternshipStatusFilled,
		model.InternshipStatusExpired, model.InternshipStatusWithdrawn:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", errors.ErrValidation, status)
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(principal, existing); err != nil {
		return nil, err
	}
	if existing.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: status %q is final", errors.ErrValidation, existing.Status)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, mapStoreError(err)
	}

	existing.Status = status
	_ = s.cache.Delete(ctx, publicListCacheKey)
	return existing, nil
}

// authorizeOwner permits the posting's owner and admins. The check is an
// exact uuid comparison against the stored OwnerID.
func authorizeOwner(principal *auth.Principal, internship *model.Internship) error {
	if principal.Role == model.RoleAdmin {
		return nil
	}
	if principal.ID == internship.OwnerID {
		return nil
	}
	return errors.ErrForbidden
}

func validateInput(input InternshipInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: title is required", errors.ErrValidation)
	}
	if strings.TrimSpace(input.Description) == "" {
		return fmt.Errorf("%w: description is required", errors.ErrValidation)
	}
	if input.StipendAmount.IsNegative() {
		return fmt.Errorf("%w: stipend_amount must not be negative", errors.ErrValidation)
	}
	if input.PositionsTotal < 0 {
		return fmt.Errorf("%w: positions_total must not be negative", errors.ErrValidation)
	}
	return nil
}
