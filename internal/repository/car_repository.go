// Package repository persists the rental aggregates with GORM.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rent-wheels/service-rental/internal/domain"
	carDomain "github.com/rent-wheels/service-rental/internal/domain/car"
	"gorm.io/gorm"
)

// CarModel is the GORM model for the cars table.
type CarModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name          string    `gorm:"not null;size:200"`
	Description   string    `gorm:"size:2000"`
	CarType       string    `gorm:"size:50"`
	Location      string    `gorm:"size:200"`
	ImageURL      string    `gorm:"size:500"`
	DailyRate     float64   `gorm:"not null"`
	Status        string    `gorm:"not null;size:20;index;default:'available'"`
	ProviderName  string    `gorm:"size:200"`
	ProviderEmail string    `gorm:"not null;size:320;index"`
	BookedBy      string    `gorm:"size:320"`
	Rating        float64   `gorm:"not null;default:0"`
	Version       int64     `gorm:"not null;default:1"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (CarModel) TableName() string {
	return "cars"
}

// GormCarRepository is the GORM-based implementation of car.Repository.
type GormCarRepository struct {
	db *gorm.DB
}

// NewGormCarRepository creates a new GormCarRepository.
func NewGormCarRepository(db *gorm.DB) *GormCarRepository {
	return &GormCarRepository{db: db}
}

// FindByID retrieves a car by its unique identifier.
func (r *GormCarRepository) FindByID(ctx context.Context, id uuid.UUID) (*carDomain.Car, error) {
	var model CarModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Car", id.String())
		}
		return nil, fmt.Errorf("failed to find car by ID: %w", err)
	}
	return toDomainCar(&model), nil
}

// FindAll retrieves every listing, newest first.
func (r *GormCarRepository) FindAll(ctx context.Context) ([]*carDomain.Car, error) {
	var models []CarModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}
	cars := make([]*carDomain.Car, len(models))
	for i, m := range models {
		cars[i] = toDomainCar(&m)
	}
	return cars, nil
}

// FindByProviderEmail retrieves the listings owned by a provider.
func (r *GormCarRepository) FindByProviderEmail(ctx context.Context, email string) ([]*carDomain.Car, error) {
	var models []CarModel
	if err := r.db.WithContext(ctx).
		Where("provider_email = ?", email).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list provider cars: %w", err)
	}
	cars := make([]*carDomain.Car, len(models))
	for i, m := range models {
		cars[i] = toDomainCar(&m)
	}
	return cars, nil
}

// Save persists a new listing.
func (r *GormCarRepository) Save(ctx context.Context, c *carDomain.Car) error {
	if err := r.db.WithContext(ctx).Create(toCarModel(c)).Error; err != nil {
		return fmt.Errorf("failed to save car: %w", err)
	}
	return nil
}

// Update persists changes to an existing listing with optimistic locking.
func (r *GormCarRepository) Update(ctx context.Context, c *carDomain.Car) error {
	model := toCarModel(c)

	// Only update if the stored version matches (current version - 1 since
	// IncrementVersion was called before persisting).
	expectedVersion := c.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&CarModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"name":           model.Name,
			"description":    model.Description,
			"car_type":       model.CarType,
			"location":       model.Location,
			"image_url":      model.ImageURL,
			"daily_rate":     model.DailyRate,
			"status":         model.Status,
			"provider_name":  model.ProviderName,
			"provider_email": model.ProviderEmail,
			"booked_by":      model.BookedBy,
			"rating":         model.Rating,
			"version":        model.Version,
			"updated_at":     model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update car: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("car was modified by another transaction")
	}
	return nil
}

// Claim atomically books an available car for renterEmail. The status check
// and the write are a single UPDATE, so two concurrent claims cannot both
// see an available row.
func (r *GormCarRepository) Claim(ctx context.Context, id uuid.UUID, renterEmail string) (*carDomain.Car, error) {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&CarModel{}).
		Where("id = ? AND status = ?", id, carDomain.StatusAvailable.String()).
		Updates(map[string]interface{}{
			"status":     carDomain.StatusUnavailable.String(),
			"booked_by":  renterEmail,
			"version":    gorm.Expr("version + 1"),
			"updated_at": now,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to claim car: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Distinguish a vanished car from one somebody else booked first.
		var model CarModel
		if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.NewNotFoundError("Car", id.String())
			}
			return nil, fmt.Errorf("failed to re-read car after claim: %w", err)
		}
		return nil, domain.NewConflictError("car is no longer available")
	}
	return r.FindByID(ctx, id)
}

// Delete removes a listing.
func (r *GormCarRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&CarModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete car: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Car", id.String())
	}
	return nil
}

// --- Conversion Helpers ---

func toCarModel(c *carDomain.Car) *CarModel {
	return &CarModel{
		ID:            c.ID(),
		Name:          c.Name(),
		Description:   c.Description(),
		CarType:       c.CarType(),
		Location:      c.Location(),
		ImageURL:      c.ImageURL(),
		DailyRate:     c.DailyRate(),
		Status:        c.Status().String(),
		ProviderName:  c.ProviderName(),
		ProviderEmail: c.ProviderEmail(),
		BookedBy:      c.BookedBy(),
		Rating:        c.Rating(),
		Version:       c.Version(),
		CreatedAt:     c.CreatedAt(),
		UpdatedAt:     c.UpdatedAt(),
	}
}

func toDomainCar(m *CarModel) *carDomain.Car {
	return carDomain.ReconstructCar(
		m.ID,
		m.Name, m.Description, m.CarType, m.Location, m.ImageURL,
		m.DailyRate,
		carDomain.ParseStatus(m.Status),
		m.ProviderName, m.ProviderEmail, m.BookedBy,
		m.Rating,
		m.Version,
		m.CreatedAt, m.UpdatedAt,
	)
}
