package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"dentamart/internal/caching"
	"dentamart/internal/common"
	"dentamart/internal/models"
	"dentamart/internal/repositories"
)

// Ranking modes for the clinic directory.
const (
	ModeDistance = "distance"
	ModePromoted = "promoted"
)

const earthRadiusKm = 6371.0

const directoryCacheTTL = 60 * time.Second

// DirectoryService ranks clinics for the discovery directory.
type DirectoryService interface {
	Search(ctx context.Context, filter *models.ClinicFilter) ([]*models.Clinic, error)
}

type directoryService struct {
	clinicRepo repositories.ClinicRepository
	cacheSvc   caching.CacheService
}

func NewDirectoryService(clinicRepo repositories.ClinicRepository, cacheSvc caching.CacheService) DirectoryService {
	return &directoryService{
		clinicRepo: clinicRepo,
		cacheSvc:   cacheSvc,
	}
}

// HaversineKm returns the great-circle distance between two coordinates.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := toRadians(lat1)
	lat2Rad := toRadians(lat2)
	deltaLat := toRadians(lat2 - lat1)
	deltaLon := toRadians(lon2 - lon1)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func toRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}

type rankedClinic struct {
	clinic *models.Clinic
	// distance is +Inf for clinics without usable coordinates; hasDistance
	// is false when the caller supplied no user coordinates at all.
	distance    float64
	hasDistance bool
}

func finiteCoords(clinic *models.Clinic) (float64, float64, bool) {
	if clinic.Latitude == nil || clinic.Longitude == nil {
		return 0, 0, false
	}
	lat, lng := *clinic.Latitude, *clinic.Longitude
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return 0, 0, false
	}
	return lat, lng, true
}

// Rank filters and orders directory candidates. The input slice is not
// modified; returned clinics carry DistanceKm when a finite distance was
// computed.
func Rank(candidates []*models.Clinic, filter *models.ClinicFilter) []*models.Clinic {
	userCoords := filter.UserLat != nil && filter.UserLng != nil

	ranked := make([]rankedClinic, 0, len(candidates))
	for _, clinic := range candidates {
		if !filter.IncludeInactive && !clinic.IsActive {
			continue
		}
		if filter.Governorate != "" && clinic.Governorate != filter.Governorate {
			continue
		}
		if filter.City != "" && clinic.City != filter.City {
			continue
		}
		if filter.Specialty != "" && !hasSpecialty(clinic, filter.Specialty) {
			continue
		}

		rc := rankedClinic{clinic: clinic, distance: math.Inf(1)}
		if userCoords {
			rc.hasDistance = true
			if lat, lng, ok := finiteCoords(clinic); ok {
				rc.distance = HaversineKm(*filter.UserLat, *filter.UserLng, lat, lng)
			}
		}

		if filter.RadiusKm != nil && userCoords {
			if math.IsInf(rc.distance, 1) || rc.distance > *filter.RadiusKm {
				continue
			}
		}

		ranked = append(ranked, rc)
	}

	switch filter.Mode {
	case ModePromoted:
		sort.SliceStable(ranked, func(i, j int) bool {
			return promotedLess(ranked[i], ranked[j])
		})
	default:
		sort.SliceStable(ranked, func(i, j int) bool {
			return distanceLess(ranked[i], ranked[j])
		})
	}

	if filter.Limit > 0 && len(ranked) > filter.Limit {
		ranked = ranked[:filter.Limit]
	}

	out := make([]*models.Clinic, len(ranked))
	for i, rc := range ranked {
		clinic := *rc.clinic
		if rc.hasDistance && !math.IsInf(rc.distance, 1) {
			d := rc.distance
			clinic.DistanceKm = &d
		}
		out[i] = &clinic
	}
	return out
}

func hasSpecialty(clinic *models.Clinic, specialty string) bool {
	for _, s := range clinic.Specialties {
		if s == specialty {
			return true
		}
	}
	return false
}

// distanceLess orders by distance when both sides have one; rating is the
// fallback only when neither does. Distance and rating are never compared
// against each other for the same pair.
func distanceLess(a, b rankedClinic) bool {
	if a.hasDistance && b.hasDistance {
		return a.distance < b.distance
	}
	return a.clinic.Rating > b.clinic.Rating
}

// promotedLess is the lexicographic promotion comparator: promotion flag,
// then priority level, then tier rank, then distance (or rating).
func promotedLess(a, b rankedClinic) bool {
	if a.clinic.IsPromoted != b.clinic.IsPromoted {
		return a.clinic.IsPromoted
	}
	if a.clinic.PriorityLevel != b.clinic.PriorityLevel {
		return a.clinic.PriorityLevel > b.clinic.PriorityLevel
	}
	ra, rb := models.TierRank(a.clinic.SubscriptionTier), models.TierRank(b.clinic.SubscriptionTier)
	if ra != rb {
		return ra > rb
	}
	if a.hasDistance && b.hasDistance && !math.IsInf(a.distance, 1) && !math.IsInf(b.distance, 1) {
		if a.distance != b.distance {
			return a.distance < b.distance
		}
		return false
	}
	return a.clinic.Rating > b.clinic.Rating
}

func (s *directoryService) Search(ctx context.Context, filter *models.ClinicFilter) ([]*models.Clinic, error) {
	if filter.Mode != "" && filter.Mode != ModeDistance && filter.Mode != ModePromoted {
		return nil, common.ValidationError("mode must be %q or %q", ModeDistance, ModePromoted)
	}
	if filter.RadiusKm != nil && *filter.RadiusKm <= 0 {
		return nil, common.ValidationError("radius_km must be positive")
	}
	if (filter.UserLat == nil) != (filter.UserLng == nil) {
		return nil, common.ValidationError("user_lat and user_lng must be supplied together")
	}

	key := directoryCacheKey(filter)
	if cached, err := s.cacheSvc.GetDirectoryPage(ctx, key); err == nil && cached != nil {
		return cached, nil
	}

	candidates, err := s.clinicRepo.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("load directory candidates: %w", err)
	}

	results := Rank(candidates, filter)
	if results == nil {
		results = []*models.Clinic{}
	}

	if err := s.cacheSvc.SetDirectoryPage(ctx, key, results, directoryCacheTTL); err != nil {
		// Cache failures must not break search.
		log.Printf("WARN: directory cache set failed: %v", err)
	}

	return results, nil
}

func directoryCacheKey(filter *models.ClinicFilter) string {
	return fmt.Sprintf("%s|%s|%s|%v|%v|%v|%s|%d|%t",
		filter.Governorate, filter.City, filter.Specialty,
		ptrVal(filter.UserLat), ptrVal(filter.UserLng), ptrVal(filter.RadiusKm),
		filter.Mode, filter.Limit, filter.IncludeInactive)
}

func ptrVal(f *float64) float64 {
	if f == nil {
		return math.NaN()
	}
	return *f
}
