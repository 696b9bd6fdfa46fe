package service

import (
	"context"
	"strings"

	"github.com/spec-kit/society-api/internal/domain"
	"github.com/spec-kit/society-api/internal/events"
	"github.com/spec-kit/society-api/internal/repository"
)

// RegistrationInput is a membership inquiry from the public contact form.
type RegistrationInput struct {
	FirstName string
	LastName  string
	Email     string
	Subject   string
	Message   *string
}

// RegistrationPatch holds inquiry fields an admin wants to correct.
type RegistrationPatch struct {
	FirstName *string
	LastName  *string
	Email     *string
	Subject   *string
	Message   *string
}

// RegistrationService stores membership inquiries.
type RegistrationService struct {
	registrations repository.RegistrationRepository
	deps          Deps
}

// NewRegistrationService builds the service.
func NewRegistrationService(repo repository.RegistrationRepository, deps Deps) *RegistrationService {
	return &RegistrationService{registrations: repo, deps: deps.withDefaults()}
}

func (s *RegistrationService) Create(ctx context.Context, in RegistrationInput) (*domain.Registration, error) {
	reg := &domain.Registration{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     normalizeEmail(in.Email),
		Subject:   strings.TrimSpace(in.Subject),
		Message:   optional(in.Message),
	}
	if err := s.registrations.Create(ctx, reg); err != nil {
		return nil, err
	}
	s.deps.publish(ctx, events.New(events.EventMembershipInquiryReceived, reg.ID, nil, events.MembershipInquiryPayload{
		FullName: reg.FirstName + " " + reg.LastName,
		Email:    reg.Email,
		Subject:  reg.Subject,
	}))
	return reg, nil
}

// List returns inquiries newest first.
func (s *RegistrationService) List(ctx context.Context) ([]domain.Registration, error) {
	return s.registrations.List(ctx)
}

func (s *RegistrationService) Get(ctx context.Context, id string) (*domain.Registration, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	reg, err := s.registrations.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Registration")
	}
	return reg, nil
}

func (s *RegistrationService) Update(ctx context.Context, id string, patch RegistrationPatch) (*domain.Registration, error) {
	reg, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.FirstName != nil {
		reg.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		reg.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.Email != nil {
		reg.Email = normalizeEmail(*patch.Email)
	}
	if patch.Subject != nil {
		reg.Subject = strings.TrimSpace(*patch.Subject)
	}
	if patch.Message != nil {
		reg.Message = optional(patch.Message)
	}
	if err := s.registrations.Update(ctx, reg); err != nil {
		return nil, notFound(err, "Registration")
	}
	return reg, nil
}

func (s *RegistrationService) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.registrations.Delete(ctx, id); err != nil {
		return notFound(err, "Registration")
	}
	return nil
}
