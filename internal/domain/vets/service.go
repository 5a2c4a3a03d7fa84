package vets

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("veterinarian not found")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(ctx context.Context, id string) (Veterinarian, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Veterinarian{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByUserID(ctx context.Context, userID string) (Veterinarian, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Veterinarian{}, ErrInvalidInput
	}
	return s.repo.GetByUserID(ctx, userID)
}

func (s *Service) List(ctx context.Context) ([]Veterinarian, error) {
	return s.repo.List(ctx)
}

type UpdateInput struct {
	Name       *string
	Phone      *string
	Speciality *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Veterinarian, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Veterinarian{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Veterinarian{}, ErrInvalidInput
		}
		current.Name = name
	}
	if in.Phone != nil {
		current.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Speciality != nil {
		current.Speciality = strings.TrimSpace(*in.Speciality)
	}

	if err := s.repo.Update(ctx, current); err != nil {
		return Veterinarian{}, err
	}
	return current, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.DeleteCascade(ctx, id)
}
