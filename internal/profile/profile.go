// Package profile holds the signed-in resident's profile and login flag.
package profile

import "sync"

// FamilyMember is a household member listed on the profile
type FamilyMember struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Relation string `json:"relation"`
	Phone    string `json:"phone"`
}

// Vehicle is a registered vehicle
type Vehicle struct {
	ID           string `json:"id"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         string `json:"year"`
	Color        string `json:"color"`
	LicensePlate string `json:"license_plate"`
}

// Profile is the resident's profile data
type Profile struct {
	Name          string         `json:"name"`
	Phone         string         `json:"phone"`
	Profession    string         `json:"profession"`
	Email         string         `json:"email"`
	Address       string         `json:"address"`
	FamilyMembers []FamilyMember `json:"family_members,omitempty"`
	Vehicles      []Vehicle      `json:"vehicles,omitempty"`
}

// Patch carries optional profile updates; nil fields are left unchanged
type Patch struct {
	Name       *string `json:"name,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Profession *string `json:"profession,omitempty"`
	Email      *string `json:"email,omitempty"`
	Address    *string `json:"address,omitempty"`
}

// Store guards the profile and login flag
type Store struct {
	mu       sync.RWMutex
	profile  Profile
	loggedIn bool
}

// NewStore creates a logged-out store holding p
func NewStore(p Profile) *Store {
	return &Store{profile: p}
}

// Profile returns a copy of the current profile
func (s *Store) Profile() Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.profile
	p.FamilyMembers = append([]FamilyMember(nil), s.profile.FamilyMembers...)
	p.Vehicles = append([]Vehicle(nil), s.profile.Vehicles...)
	return p
}

// DisplayName is the name used in greetings
func (s *Store) DisplayName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.profile.Name == "" {
		return "Resident"
	}
	return s.profile.Name
}

// Update merges patch into the profile
func (s *Store) Update(patch Patch) Profile {
	s.mu.Lock()
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&s.profile.Name, patch.Name)
	set(&s.profile.Phone, patch.Phone)
	set(&s.profile.Profession, patch.Profession)
	set(&s.profile.Email, patch.Email)
	set(&s.profile.Address, patch.Address)
	s.mu.Unlock()

	return s.Profile()
}

func (s *Store) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loggedIn
}

func (s *Store) Login() {
	s.mu.Lock()
	s.loggedIn = true
	s.mu.Unlock()
}

func (s *Store) Logout() {
	s.mu.Lock()
	s.loggedIn = false
	s.mu.Unlock()
}
