package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"internhub/internal/model"
)

// ListOptions narrows and pages the public listing.
type ListOptions struct {
	Sector   string
	Status   model.InternshipStatus
	Page     int
	PageSize int
}

// InternshipRepository defines internship persistence operations.
type InternshipRepository interface {
	Create(ctx context.Context, internship *model.Internship) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Internship, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Internship, error)
	ListPublic(ctx context.Context, opts ListOptions) ([]model.Internship, int64, error)
	Update(ctx context.Context, internship *model.Internship) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.InternshipStatus) error
}

type internshipRepository struct {
	db *gorm.DB
}

// NewInternshipRepository builds a GORM-backed repository.
func NewInternshipRepository(db *gorm.DB) InternshipRepository {
	return &internshipRepository{db: db}
}

func (r *internshipRepository) Create(ctx context.Context, internship *model.Internship) error {
	return r.db.WithContext(ctx).Create(internship).Error
}

func (r *internshipRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Internship, error) {
	var internship model.Internship
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&internship).Error; err != nil {
		return nil, err
	}
	return &internship, nil
}

// ListByOwner returns every internship whose owner_id equals ownerID.
// The order is fixed (created_at desc, id desc) so repeated reads with no
// intervening writes return the same sequence.
func (r *internshipRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Internship, error) {
	var internships []model.Internship
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&internships).Error; err != nil {
		return nil, err
	}
	return internships, nil
}

// ListPublic returns a page of internships regardless of owner, plus the
// total count across all pages.
func (r *internshipRepository) ListPublic(ctx context.Context, opts ListOptions) ([]model.Internship, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Internship{})
	if opts.Sector != "" {
		query = query.Where("sector = ?", opts.Sector)
	}
	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := opts.Page
	if page < 1 {
		page = 1
	}
	pageSize := opts.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	var internships []model.Internship
	if err := query.
		Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&internships).Error; err != nil {
		return nil, 0, err
	}
	return internships, total, nil
}

// Update persists the mutable columns, listed explicitly as a map so that
// cleared (zero-value) fields are written too; a struct argument would
// make GORM skip them. owner_id and created_at are not in the map and can
// never be rewritten after creation.
func (r *internshipRepository) Update(ctx context.Context, internship *model.Internship) error {
	values := map[string]interface{}{
		"title":                internship.Title,
		"description":          internship.Description,
		"sector":               internship.Sector,
		"location_city":        internship.LocationCity,
		"location_state":       internship.LocationState,
		"skills":               internship.Skills,
		"education_level":      internship.EducationLevel,
		"stipend_amount":       internship.StipendAmount,
		"stipend_currency":     internship.StipendCurrency,
		"duration":             internship.Duration,
		"positions_total":      internship.PositionsTotal,
		"positions_available":  internship.PositionsAvailable,
		"application_deadline": internship.ApplicationDeadline,
		"start_date":           internship.StartDate,
		"status":               internship.Status,
	}
	return r.db.WithContext(ctx).
		Model(&model.Internship{}).
		Where("id = ?", internship.ID).
		Updates(values).Error
}

func (r *internshipRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.InternshipStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.Internship{}).
		Where("id = ?", id).
		Update("status", status).Error
}
