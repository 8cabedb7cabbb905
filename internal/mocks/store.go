package mocks

import (
	"context"
	"sync"

	"github.com/jobswipe/jobswipe-cli/api/schemas"
)

var _ schemas.ProfileStore = (*StoreMock)(nil)

// StoreMock is an in-memory schemas.ProfileStore. Injected errors apply to
// every operation.
type StoreMock struct {
	mu      sync.Mutex
	profile *schemas.UserProfileData
	offer   *schemas.JobOffer

	// Err, when set, is returned by every operation.
	Err error
}

func NewStore() *StoreMock { return &StoreMock{} }

func (s *StoreMock) SaveProfile(_ context.Context, profile *schemas.UserProfileData) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = profile
	return nil
}

func (s *StoreMock) LoadProfile(context.Context) (*schemas.UserProfileData, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile, nil
}

func (s *StoreMock) SaveOffer(_ context.Context, offer *schemas.JobOffer) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offer = offer
	return nil
}

func (s *StoreMock) LoadOffer(context.Context) (*schemas.JobOffer, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offer, nil
}

func (s *StoreMock) Close() error { return nil }
