package application

import (
	"context"
	"errors"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/sirupsen/logrus"

	"github.com/ortholink/ortholink-api/internal/domain/entity"
	repo "github.com/ortholink/ortholink-api/internal/domain/repository"
	"github.com/ortholink/ortholink-api/pkg/geocode"
)

// DirectoryService manages practice profiles for the professional map.
// Creation and address changes geocode synchronously and fail hard: a
// practice either has coordinates or an explicit error, never a silent miss.
type DirectoryService struct {
	Practices repo.PracticeRepository
	Geocoder  geocode.Resolver
	ES        *elasticsearch.Client
	ESIndex   string
	Logger    *logrus.Logger
}

type PracticeInput struct {
	Name      string
	Specialty string
	Address   string
	City      string
	Country   string
	Phone     string
	Website   string
	ShowOnMap bool
}

type PracticeUpdate struct {
	Name      *string
	Specialty *string
	Address   *string
	City      *string
	Country   *string
	Phone     *string
	Website   *string
	ShowOnMap *bool
}

func (s *DirectoryService) Create(ctx context.Context, actor Actor, in PracticeInput) (*entity.Practice, error) {
	pt, err := s.resolve(ctx, in.Address, in.City, in.Country)
	if err != nil {
		return nil, err
	}
	p := &entity.Practice{
		OwnerID:   actor.ID,
		Name:      in.Name,
		Specialty: in.Specialty,
		Address:   in.Address,
		City:      in.City,
		Country:   in.Country,
		Phone:     in.Phone,
		Website:   in.Website,
		Lat:       &pt.Lat,
		Lon:       &pt.Lon,
		ShowOnMap: in.ShowOnMap,
	}
	if err := s.Practices.Create(ctx, p); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}
	s.syncIndex(ctx, p)
	return p, nil
}

func (s *DirectoryService) Get(ctx context.Context, actor Actor, id string) (*entity.Practice, error) {
	p, err := s.Practices.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !p.OnMap() && !actor.CanMutate(p.OwnerID) {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *DirectoryService) GetMine(ctx context.Context, actor Actor) (*entity.Practice, error) {
	p, err := s.Practices.GetByOwner(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// List is the public directory: everyone but admins gets visible, geocoded
// practices only.
func (s *DirectoryService) List(ctx context.Context, actor Actor, f repo.PracticeFilter) ([]*entity.Practice, int64, error) {
	if !actor.IsAdmin() {
		f.OnMapOnly = true
	}
	return s.Practices.List(ctx, f)
}

func (s *DirectoryService) Update(ctx context.Context, actor Actor, id string, in PracticeUpdate) (*entity.Practice, error) {
	p, err := s.Practices.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !actor.CanMutate(p.OwnerID) {
		if !p.OnMap() {
			return nil, ErrNotFound
		}
		return nil, ErrForbidden
	}

	addressChanged := false
	if in.Address != nil && *in.Address != p.Address {
		p.Address = *in.Address
		addressChanged = true
	}
	if in.City != nil && *in.City != p.City {
		p.City = *in.City
		addressChanged = true
	}
	if in.Country != nil && *in.Country != p.Country {
		p.Country = *in.Country
		addressChanged = true
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Specialty != nil {
		p.Specialty = *in.Specialty
	}
	if in.Phone != nil {
		p.Phone = *in.Phone
	}
	if in.Website != nil {
		p.Website = *in.Website
	}
	if in.ShowOnMap != nil {
		p.ShowOnMap = *in.ShowOnMap
	}

	if addressChanged {
		pt, err := s.resolve(ctx, p.Address, p.City, p.Country)
		if err != nil {
			return nil, err
		}
		p.Lat = &pt.Lat
		p.Lon = &pt.Lon
	}

	if err := s.Practices.Update(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.syncIndex(ctx, p)
	return p, nil
}

func (s *DirectoryService) Delete(ctx context.Context, actor Actor, id string) error {
	p, err := s.Practices.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !actor.CanMutate(p.OwnerID) {
		if !p.OnMap() {
			return ErrNotFound
		}
		return ErrForbidden
	}
	if err := s.Practices.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	deleteDoc(ctx, s.ES, s.Logger, s.ESIndex, id)
	return nil
}

func (s *DirectoryService) resolve(ctx context.Context, address, city, country string) (geocode.Point, error) {
	if s.Geocoder == nil {
		return geocode.Point{}, ErrGeocodeFailed
	}
	full := strings.Join([]string{address, city, country}, ", ")
	pt, err := s.Geocoder.Geocode(ctx, full)
	if err != nil {
		if !errors.Is(err, geocode.ErrNoResult) {
			s.Logger.WithError(err).WithField("address", full).Warn("geocoding failed")
		}
		return geocode.Point{}, ErrGeocodeFailed
	}
	return pt, nil
}

// syncIndex keeps the search index in step with map visibility.
func (s *DirectoryService) syncIndex(ctx context.Context, p *entity.Practice) {
	if !p.OnMap() {
		deleteDoc(ctx, s.ES, s.Logger, s.ESIndex, p.ID)
		return
	}
	indexDoc(ctx, s.ES, s.Logger, s.ESIndex, p.ID, map[string]any{
		"type":      "practice",
		"name":      p.Name,
		"specialty": p.Specialty,
		"city":      p.City,
		"country":   p.Country,
	})
}
