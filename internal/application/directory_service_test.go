package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ortholink/ortholink-api/internal/domain/entity"
	repo "github.com/ortholink/ortholink-api/internal/domain/repository"
	"github.com/ortholink/ortholink-api/pkg/geocode"
)

func directoryFixture() *DirectoryService {
	return &DirectoryService{
		Practices: newFakePracticeRepo(),
		Geocoder: &fakeGeocoder{known: map[string]geocode.Point{
			"1 Main St, Utrecht, NL": {Lat: 52.09, Lon: 5.12},
			"9 High St, Leeds, UK":   {Lat: 53.8, Lon: -1.55},
		}},
	}
}

func TestPracticeCreateGeocodes(t *testing.T) {
	svc := directoryFixture()
	ctx := context.Background()
	owner := Actor{ID: "owner-1", Role: entity.RoleUser}

	p, err := svc.Create(ctx, owner, PracticeInput{
		Name:      "Smile Clinic",
		Specialty: "orthodontics",
		Address:   "1 Main St",
		City:      "Utrecht",
		Country:   "NL",
		ShowOnMap: true,
	})
	require.NoError(t, err)
	require.NotNil(t, p.Lat)
	require.NotNil(t, p.Lon)
	assert.InDelta(t, 52.09, *p.Lat, 0.001)
	assert.True(t, p.OnMap())
}

func TestPracticeCreateGeocodeFailureIsHard(t *testing.T) {
	svc := directoryFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, Actor{ID: "owner-1", Role: entity.RoleUser}, PracticeInput{
		Name:    "Nowhere Clinic",
		Address: "no such street",
		City:    "Atlantis",
		Country: "XX",
	})
	assert.ErrorIs(t, err, ErrGeocodeFailed)

	// Nothing was stored.
	_, err = svc.GetMine(ctx, Actor{ID: "owner-1", Role: entity.RoleUser})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPracticeAddressChangeRegeocodes(t *testing.T) {
	svc := directoryFixture()
	ctx := context.Background()
	owner := Actor{ID: "owner-1", Role: entity.RoleUser}

	p, err := svc.Create(ctx, owner, PracticeInput{
		Name: "Smile Clinic", Address: "1 Main St", City: "Utrecht", Country: "NL",
		ShowOnMap: true,
	})
	require.NoError(t, err)

	addr, city, country := "9 High St", "Leeds", "UK"
	moved, err := svc.Update(ctx, owner, p.ID, PracticeUpdate{
		Address: &addr, City: &city, Country: &country,
	})
	require.NoError(t, err)
	assert.InDelta(t, 53.8, *moved.Lat, 0.001)

	// A move to an unresolvable address is rejected and keeps the old state.
	bad := "no such street"
	_, err = svc.Update(ctx, owner, p.ID, PracticeUpdate{Address: &bad})
	assert.ErrorIs(t, err, ErrGeocodeFailed)
	kept, err := svc.GetMine(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, "9 High St", kept.Address)

	// A change that leaves the address alone does not geocode.
	phone := "+44 113 000000"
	_, err = svc.Update(ctx, owner, p.ID, PracticeUpdate{Phone: &phone})
	assert.NoError(t, err)
}

func TestPracticeMapListing(t *testing.T) {
	svc := directoryFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, Actor{ID: "owner-1", Role: entity.RoleUser}, PracticeInput{
		Name: "On Map", Address: "1 Main St", City: "Utrecht", Country: "NL",
		ShowOnMap: true,
	})
	require.NoError(t, err)
	hidden, err := svc.Create(ctx, Actor{ID: "owner-2", Role: entity.RoleUser}, PracticeInput{
		Name: "Off Map", Address: "9 High St", City: "Leeds", Country: "UK",
		ShowOnMap: false,
	})
	require.NoError(t, err)

	items, total, err := svc.List(ctx, Actor{}, repo.PracticeFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "On Map", items[0].Name)

	// Hidden practices read as missing to outsiders.
	_, err = svc.Get(ctx, Actor{ID: "user-9", Role: entity.RoleUser}, hidden.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Admins see the full registry.
	_, total, err = svc.List(ctx, Actor{ID: "admin-1", Role: entity.RoleAdmin}, repo.PracticeFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestPracticeOnePerOwner(t *testing.T) {
	svc := directoryFixture()
	ctx := context.Background()
	owner := Actor{ID: "owner-1", Role: entity.RoleUser}

	_, err := svc.Create(ctx, owner, PracticeInput{
		Name: "First", Address: "1 Main St", City: "Utrecht", Country: "NL",
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, owner, PracticeInput{
		Name: "Second", Address: "9 High St", City: "Leeds", Country: "UK",
	})
	assert.ErrorIs(t, err, ErrConflict)
}
