package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"dentamart/internal/caching"
	"dentamart/internal/common"
	"dentamart/internal/models"
	"dentamart/internal/repositories"

	"github.com/google/uuid"
)

// ClinicService manages clinic profiles and the subscription expiry sweep.
type ClinicService interface {
	Create(ctx context.Context, in *CreateClinicInput) (*models.Clinic, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Clinic, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, clinic *models.Clinic) (*models.Clinic, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	DowngradeExpired(ctx context.Context) (int, error)
}

type CreateClinicInput struct {
	OwnerUserID uuid.UUID
	Name        string
	Governorate string
	City        string
	Address     *string
	Latitude    *float64
	Longitude   *float64
	Specialties []string
}

type clinicService struct {
	clinicRepo repositories.ClinicRepository
	cacheSvc   caching.CacheService
	now        func() time.Time
}

func NewClinicService(clinicRepo repositories.ClinicRepository, cacheSvc caching.CacheService) ClinicService {
	return &clinicService{
		clinicRepo: clinicRepo,
		cacheSvc:   cacheSvc,
		now:        time.Now,
	}
}

func validateCoordinates(lat, lng *float64) error {
	if (lat == nil) != (lng == nil) {
		return common.ValidationError("latitude and longitude must be supplied together")
	}
	if lat == nil {
		return nil
	}
	if *lat < -90 || *lat > 90 {
		return common.ValidationError("latitude must be between -90 and 90")
	}
	if *lng < -180 || *lng > 180 {
		return common.ValidationError("longitude must be between -180 and 180")
	}
	return nil
}

func (s *clinicService) Create(ctx context.Context, in *CreateClinicInput) (*models.Clinic, error) {
	if err := common.ValidateRequiredString(in.Name, "clinic name"); err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(in.Governorate, "governorate"); err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(in.City, "city"); err != nil {
		return nil, err
	}
	if err := validateCoordinates(in.Latitude, in.Longitude); err != nil {
		return nil, err
	}

	clinic := &models.Clinic{
		ID:               uuid.New(),
		OwnerUserID:      in.OwnerUserID,
		Name:             in.Name,
		Governorate:      in.Governorate,
		City:             in.City,
		Address:          in.Address,
		Latitude:         in.Latitude,
		Longitude:        in.Longitude,
		Specialties:      in.Specialties,
		SubscriptionTier: models.TierFree,
		IsActive:         true,
	}
	if err := s.clinicRepo.Create(ctx, clinic); err != nil {
		return nil, fmt.Errorf("create clinic: %w", err)
	}
	s.invalidateDirectory(ctx)
	return clinic, nil
}

func (s *clinicService) GetByID(ctx context.Context, id uuid.UUID) (*models.Clinic, error) {
	clinic, err := s.clinicRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if clinic == nil {
		return nil, common.NotFoundError("clinic")
	}
	return clinic, nil
}

// UpdateProfile rewrites the clinic's descriptive fields. Subscription
// fields are owned by the settlement flow and are never written here.
func (s *clinicService) UpdateProfile(ctx context.Context, userID uuid.UUID, clinic *models.Clinic) (*models.Clinic, error) {
	existing, err := s.clinicRepo.GetByID(ctx, clinic.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, common.NotFoundError("clinic")
	}
	if existing.OwnerUserID != userID {
		return nil, common.ForbiddenError("clinic does not belong to the requesting user")
	}
	if err := validateCoordinates(clinic.Latitude, clinic.Longitude); err != nil {
		return nil, err
	}

	existing.Name = clinic.Name
	existing.Governorate = clinic.Governorate
	existing.City = clinic.City
	existing.Address = clinic.Address
	existing.Latitude = clinic.Latitude
	existing.Longitude = clinic.Longitude
	existing.Specialties = clinic.Specialties

	if err := s.clinicRepo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("update clinic: %w", err)
	}
	s.invalidateDirectory(ctx)
	return existing, nil
}

func (s *clinicService) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if err := s.clinicRepo.SetActive(ctx, id, active); err != nil {
		return fmt.Errorf("set clinic active: %w", err)
	}
	s.invalidateDirectory(ctx)
	return nil
}

// DowngradeExpired resets every clinic whose subscription window has closed
// back to the free tier. Returns the number of clinics downgraded.
func (s *clinicService) DowngradeExpired(ctx context.Context) (int, error) {
	expired, err := s.clinicRepo.ListExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("list expired subscriptions: %w", err)
	}

	count := 0
	for _, clinic := range expired {
		if err := s.clinicRepo.Downgrade(ctx, clinic.ID); err != nil {
			log.Printf("WARN: failed to downgrade clinic %s: %v", clinic.ID, err)
			continue
		}
		count++
	}
	if count > 0 {
		s.invalidateDirectory(ctx)
	}
	return count, nil
}

func (s *clinicService) invalidateDirectory(ctx context.Context) {
	if err := s.cacheSvc.InvalidateDirectory(ctx); err != nil {
		log.Printf("WARN: directory cache invalidation failed: %v", err)
	}
}
