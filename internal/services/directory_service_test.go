package services

import (
	"math"
	"testing"

	"dentamart/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func directoryClinic(name string, lat, lng *float64) *models.Clinic {
	return &models.Clinic{
		ID:               uuid.New(),
		Name:             name,
		Governorate:      "Baghdad",
		City:             "Baghdad",
		Latitude:         lat,
		Longitude:        lng,
		SubscriptionTier: models.TierFree,
		IsActive:         true,
	}
}

func TestHaversineKm(t *testing.T) {
	t.Run("zero distance for identical points", func(t *testing.T) {
		assert.InDelta(t, 0, HaversineKm(33.3152, 44.3661, 33.3152, 44.3661), 0.0001)
	})

	t.Run("symmetry", func(t *testing.T) {
		d1 := HaversineKm(33.3152, 44.3661, 30.5085, 47.7835)
		d2 := HaversineKm(30.5085, 47.7835, 33.3152, 44.3661)
		assert.InDelta(t, d1, d2, 0.0001)
	})

	t.Run("baghdad to basra", func(t *testing.T) {
		d := HaversineKm(33.3152, 44.3661, 30.5085, 47.7835)
		assert.InDelta(t, 449, d, 10)
	})
}

func TestRankDistanceMode(t *testing.T) {
	near := directoryClinic("near", f64(33.32), f64(44.37))
	far := directoryClinic("far", f64(33.90), f64(44.90))
	noCoords := directoryClinic("no-coords", nil, nil)
	noCoords.Rating = 5.0

	filter := &models.ClinicFilter{
		UserLat: f64(33.3152),
		UserLng: f64(44.3661),
		Mode:    ModeDistance,
	}

	results := Rank([]*models.Clinic{noCoords, far, near}, filter)
	require.Len(t, results, 3)
	assert.Equal(t, "near", results[0].Name)
	assert.Equal(t, "far", results[1].Name)
	// Missing coordinates sort to the end regardless of rating.
	assert.Equal(t, "no-coords", results[2].Name)

	require.NotNil(t, results[0].DistanceKm)
	require.NotNil(t, results[1].DistanceKm)
	assert.Less(t, *results[0].DistanceKm, *results[1].DistanceKm)
	// No distance is attached when none could be computed.
	assert.Nil(t, results[2].DistanceKm)
}

func TestRankRadiusFilter(t *testing.T) {
	near := directoryClinic("near", f64(33.32), f64(44.37))
	far := directoryClinic("far", f64(30.51), f64(47.78))
	noCoords := directoryClinic("no-coords", nil, nil)

	filter := &models.ClinicFilter{
		UserLat:  f64(33.3152),
		UserLng:  f64(44.3661),
		RadiusKm: f64(50),
		Mode:     ModeDistance,
	}

	results := Rank([]*models.Clinic{near, far, noCoords}, filter)
	require.Len(t, results, 1)
	assert.Equal(t, "near", results[0].Name)
}

func TestRankRadiusIgnoredWithoutCoordinates(t *testing.T) {
	a := directoryClinic("a", f64(33.32), f64(44.37))
	b := directoryClinic("b", nil, nil)

	filter := &models.ClinicFilter{RadiusKm: f64(50)}
	results := Rank([]*models.Clinic{a, b}, filter)
	assert.Len(t, results, 2)
}

func TestRankNonFiniteCoordinates(t *testing.T) {
	bad := directoryClinic("bad", f64(math.NaN()), f64(44.37))
	good := directoryClinic("good", f64(33.32), f64(44.37))

	filter := &models.ClinicFilter{
		UserLat:  f64(33.3152),
		UserLng:  f64(44.3661),
		RadiusKm: f64(500),
	}

	results := Rank([]*models.Clinic{bad, good}, filter)
	require.Len(t, results, 1)
	assert.Equal(t, "good", results[0].Name)
}

func TestRankPromotedMode(t *testing.T) {
	promoted := directoryClinic("promoted", f64(33.90), f64(44.90))
	promoted.IsPromoted = true
	promoted.SubscriptionTier = models.TierBasic

	highPriority := directoryClinic("high-priority", f64(33.91), f64(44.91))
	highPriority.IsPromoted = true
	highPriority.PriorityLevel = 5
	highPriority.SubscriptionTier = models.TierBasic

	enterprise := directoryClinic("enterprise", f64(33.32), f64(44.37))
	enterprise.SubscriptionTier = models.TierEnterprise

	free := directoryClinic("free", f64(33.32), f64(44.37))

	filter := &models.ClinicFilter{
		UserLat: f64(33.3152),
		UserLng: f64(44.3661),
		Mode:    ModePromoted,
	}

	results := Rank([]*models.Clinic{free, enterprise, promoted, highPriority}, filter)
	require.Len(t, results, 4)
	// Promotion beats everything, then priority level, then tier; distance
	// only breaks ties inside the same band.
	assert.Equal(t, "high-priority", results[0].Name)
	assert.Equal(t, "promoted", results[1].Name)
	assert.Equal(t, "enterprise", results[2].Name)
	assert.Equal(t, "free", results[3].Name)
}

func TestRankPromotedTierTieBrokenByDistance(t *testing.T) {
	near := directoryClinic("near", f64(33.32), f64(44.37))
	near.SubscriptionTier = models.TierPremium
	far := directoryClinic("far", f64(33.90), f64(44.90))
	far.SubscriptionTier = models.TierPremium

	filter := &models.ClinicFilter{
		UserLat: f64(33.3152),
		UserLng: f64(44.3661),
		Mode:    ModePromoted,
	}

	results := Rank([]*models.Clinic{far, near}, filter)
	require.Len(t, results, 2)
	assert.Equal(t, "near", results[0].Name)
}

func TestRankFacetFilters(t *testing.T) {
	ortho := directoryClinic("ortho", nil, nil)
	ortho.Specialties = []string{"orthodontics"}
	ortho.City = "Mosul"
	ortho.Governorate = "Nineveh"

	general := directoryClinic("general", nil, nil)
	general.Specialties = []string{"general"}

	inactive := directoryClinic("inactive", nil, nil)
	inactive.IsActive = false

	t.Run("specialty", func(t *testing.T) {
		results := Rank([]*models.Clinic{ortho, general}, &models.ClinicFilter{Specialty: "orthodontics"})
		require.Len(t, results, 1)
		assert.Equal(t, "ortho", results[0].Name)
	})

	t.Run("governorate and city", func(t *testing.T) {
		results := Rank([]*models.Clinic{ortho, general}, &models.ClinicFilter{Governorate: "Nineveh", City: "Mosul"})
		require.Len(t, results, 1)
		assert.Equal(t, "ortho", results[0].Name)
	})

	t.Run("inactive excluded by default", func(t *testing.T) {
		results := Rank([]*models.Clinic{inactive, general}, &models.ClinicFilter{})
		require.Len(t, results, 1)
		assert.Equal(t, "general", results[0].Name)
	})

	t.Run("inactive included on request", func(t *testing.T) {
		results := Rank([]*models.Clinic{inactive, general}, &models.ClinicFilter{IncludeInactive: true})
		assert.Len(t, results, 2)
	})
}

func TestRankLimit(t *testing.T) {
	clinics := make([]*models.Clinic, 5)
	for i := range clinics {
		clinics[i] = directoryClinic("clinic", nil, nil)
	}
	results := Rank(clinics, &models.ClinicFilter{Limit: 3})
	assert.Len(t, results, 3)
}

func TestRankStableWithinEqualBand(t *testing.T) {
	a := directoryClinic("a", nil, nil)
	b := directoryClinic("b", nil, nil)
	c := directoryClinic("c", nil, nil)

	results := Rank([]*models.Clinic{a, b, c}, &models.ClinicFilter{Mode: ModePromoted})
	require.Len(t, results, 3)
	assert.Equal(t, "a", results[0].Name)
	assert.Equal(t, "b", results[1].Name)
	assert.Equal(t, "c", results[2].Name)
}

func TestRankDoesNotMutateInput(t *testing.T) {
	clinic := directoryClinic("a", f64(33.32), f64(44.37))
	filter := &models.ClinicFilter{UserLat: f64(33.3152), UserLng: f64(44.3661)}

	results := Rank([]*models.Clinic{clinic}, filter)
	require.Len(t, results, 1)
	assert.NotNil(t, results[0].DistanceKm)
	assert.Nil(t, clinic.DistanceKm)
}
