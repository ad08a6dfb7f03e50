package repository

import (
	"context"
	"sync"
	"time"

	"github.com/atinyakov/carlot/internal/listing"
	"github.com/atinyakov/carlot/internal/models"
)

// MemoryUserRepository keeps users in a map keyed by email.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	users  map[string]models.User
	nextID int64
}

// NewMemoryUserRepository returns an empty MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]models.User)}
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[email]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepository) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[u.Email]; ok {
		return ErrConflict
	}
	r.nextID++
	now := time.Now()
	u.ID, u.CreatedAt, u.UpdatedAt = r.nextID, now, now
	r.users[u.Email] = *u
	return nil
}

// SetActive flips the active flag of the user with the given email.
func (r *MemoryUserRepository) SetActive(email string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[email]
	if !ok {
		return ErrNotFound
	}
	u.IsActive = active
	u.UpdatedAt = time.Now()
	r.users[email] = u
	return nil
}

// MemoryCarRepository keeps listings in insertion order. Queries run through
// listing.Apply.
type MemoryCarRepository struct {
	mu     sync.RWMutex
	cars   []models.Car
	nextID int64
}

// NewMemoryCarRepository returns an empty MemoryCarRepository.
func NewMemoryCarRepository() *MemoryCarRepository {
	return &MemoryCarRepository{}
}

func (r *MemoryCarRepository) indexOf(id int64) int {
	for i := range r.cars {
		if r.cars[i].ID == id {
			return i
		}
	}
	return -1
}

// taken reports whether another listing than skip holds c's registration number.
func (r *MemoryCarRepository) taken(c *models.Car, skip int64) bool {
	if c.RegistrationNumber == nil {
		return false
	}
	for i := range r.cars {
		other := r.cars[i].RegistrationNumber
		if r.cars[i].ID != skip && other != nil && *other == *c.RegistrationNumber {
			return true
		}
	}
	return false
}

func (r *MemoryCarRepository) Create(_ context.Context, c *models.Car) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.taken(c, 0) {
		return ErrConflict
	}
	r.nextID++
	c.ID = r.nextID
	r.cars = append(r.cars, *c)
	return nil
}

func (r *MemoryCarRepository) GetByID(_ context.Context, id int64) (*models.Car, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	c := r.cars[i]
	return &c, nil
}

func (r *MemoryCarRepository) Update(_ context.Context, c *models.Car) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(c.ID)
	if i < 0 {
		return ErrNotFound
	}
	if r.taken(c, c.ID) {
		return ErrConflict
	}
	r.cars[i] = *c
	return nil
}

func (r *MemoryCarRepository) List(_ context.Context, q listing.Query) ([]models.Car, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	page, total := listing.Apply(r.cars, q)
	return page, total, nil
}

func (r *MemoryCarRepository) Upsert(_ context.Context, c *models.Car) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.RegistrationNumber != nil {
		for i := range r.cars {
			n := r.cars[i].RegistrationNumber
			if n != nil && *n == *c.RegistrationNumber {
				c.ID = r.cars[i].ID
				r.cars[i] = *c
				return false, nil
			}
		}
	}
	r.nextID++
	c.ID = r.nextID
	r.cars = append(r.cars, *c)
	return true, nil
}

func (r *MemoryCarRepository) ExistsByExternalLink(_ context.Context, link string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.cars {
		if l := r.cars[i].ExternalLink; l != nil && *l == link {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryCarRepository) ExistsByRegistrationNumber(_ context.Context, number string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.cars {
		if n := r.cars[i].RegistrationNumber; n != nil && *n == number {
			return true, nil
		}
	}
	return false, nil
}
