package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/codec25/Studio-flow/internal/model"
)

// CreateService validates and stores a new catalog entry.
func (s *Studio) CreateService(ctx context.Context, svc model.Service) (*model.Service, error) {
	svc.Name = strings.TrimSpace(svc.Name)
	if svc.ID == "" {
		svc.ID = newID("svc")
	}
	if svc.WeeklySlots == nil {
		svc.WeeklySlots = []model.WeeklySlot{}
	}
	if err := svc.Validate(); err != nil {
		return nil, fmt.Errorf("create service: %v: %w", err, ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Services = append(s.state.Services, svc)
	s.persist(ctx, "create service")

	s.logger.Info("Service created",
		zap.String("service_id", svc.ID),
		zap.String("name", svc.Name),
		zap.Int("duration", svc.Duration),
		zap.Int("capacity", svc.Capacity),
	)
	return &svc, nil
}

func (s *Studio) ListServices(ctx context.Context) []model.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Service(nil), s.state.Services...)
}

// UpdateServiceSlots replaces a service's whole weekly window list.
// Windows are only ever mutated wholesale, never patched in place.
func (s *Studio) UpdateServiceSlots(ctx context.Context, serviceID string, slots []model.WeeklySlot) (*model.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	svc := s.state.ServiceByID(serviceID)
	if svc == nil {
		return nil, fmt.Errorf("update service slots: %w", ErrServiceNotFound)
	}

	candidate := *svc
	candidate.WeeklySlots = slots
	if candidate.WeeklySlots == nil {
		candidate.WeeklySlots = []model.WeeklySlot{}
	}
	if err := candidate.Validate(); err != nil {
		return nil, fmt.Errorf("update service slots: %v: %w", err, ErrValidation)
	}

	svc.WeeklySlots = candidate.WeeklySlots
	s.persist(ctx, "update service slots")

	s.logger.Info("Service availability updated",
		zap.String("service_id", serviceID),
		zap.Int("windows", len(svc.WeeklySlots)),
	)
	copied := *svc
	return &copied, nil
}

// DeleteService removes a catalog entry. Historical bookings keep their
// denormalized service name and price snapshot, so no cascade here.
func (s *Studio) DeleteService(ctx context.Context, serviceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.state.Services[:0]
	found := false
	for _, svc := range s.state.Services {
		if svc.ID == serviceID {
			found = true
			continue
		}
		kept = append(kept, svc)
	}
	if !found {
		return fmt.Errorf("delete service: %w", ErrServiceNotFound)
	}
	s.state.Services = kept
	s.persist(ctx, "delete service")

	s.logger.Info("Service deleted", zap.String("service_id", serviceID))
	return nil
}

func (s *Studio) Packages(ctx context.Context) []model.Package {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Package(nil), s.state.Packages...)
}

// SavePackages replaces the package catalog wholesale.
func (s *Studio) SavePackages(ctx context.Context, packages []model.Package) error {
	for i := range packages {
		if packages[i].ID == "" {
			packages[i].ID = newID("pkg")
		}
		if packages[i].Count < 1 {
			return fmt.Errorf("save packages: package %q must grant at least 1 credit: %w", packages[i].Name, ErrValidation)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Packages = packages
	s.persist(ctx, "save packages")
	return nil
}
