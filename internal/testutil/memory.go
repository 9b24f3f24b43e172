// Package testutil contiene implementaciones en memoria de los puertos de persistencia
// para los tests de casos de uso y de la capa HTTP.
package testutil

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/Acquisitions-api/internal/domain"
	"github.com/jhoicas/Acquisitions-api/internal/domain/entity"
	"github.com/jhoicas/Acquisitions-api/internal/domain/repository"
)

// ErrInjected es el error devuelto por la operación indicada en Store.FailOn.
var ErrInjected = errors.New("fallo inyectado")

// Store guarda usuarios, publicaciones y ofertas en mapas protegidos por mutex.
type Store struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	users    map[string]entity.User
	listings map[string]entity.Listing
	deals    map[string]entity.Deal

	// FailOn hace fallar la operación con ese nombre (p. ej. "deals.RejectPendingSiblings").
	FailOn string
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		users:    map[string]entity.User{},
		listings: map[string]entity.Listing{},
		deals:    map[string]entity.Deal{},
	}
}

func (s *Store) fail(op string) error {
	if s.FailOn == op {
		return ErrInjected
	}
	return nil
}

// Users devuelve el repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Listings devuelve el repositorio de publicaciones.
func (s *Store) Listings() *ListingRepo { return &ListingRepo{s: s} }

// Deals devuelve el repositorio de ofertas.
func (s *Store) Deals() *DealRepo { return &DealRepo{s: s} }

// RunDeal emula una transacción: serializa los callbacks y restaura el estado si fn falla.
func (s *Store) RunDeal(ctx context.Context, fn func(listingRepo repository.ListingRepository, dealRepo repository.DealRepository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	listings := make(map[string]entity.Listing, len(s.listings))
	for k, v := range s.listings {
		listings[k] = v
	}
	deals := make(map[string]entity.Deal, len(s.deals))
	for k, v := range s.deals {
		deals[k] = v
	}
	s.mu.Unlock()

	if err := fn(s.Listings(), s.Deals()); err != nil {
		s.mu.Lock()
		s.listings, s.deals = listings, deals
		s.mu.Unlock()
		return err
	}
	return nil
}

// ─── Users ────────────────────────────────────────────────────────────────────

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación en memoria de UserRepository.
type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("users.Create"); err != nil {
		return err
	}
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, existing := range r.s.users {
		if id != u.ID && existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	if _, ok := r.s.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]*entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		u := u
		all = append(all, &u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return page(all, limit, offset), len(all), nil
}

func (r *UserRepo) Delete(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return false, nil
	}
	delete(r.s.users, id)
	for lid, l := range r.s.listings {
		if l.OwnerID == id {
			delete(r.s.listings, lid)
		}
	}
	for did, d := range r.s.deals {
		_, listingAlive := r.s.listings[d.ListingID]
		if d.ProposerID == id || !listingAlive {
			delete(r.s.deals, did)
		}
	}
	return true, nil
}

// ─── Listings ─────────────────────────────────────────────────────────────────

var _ repository.ListingRepository = (*ListingRepo)(nil)

// ListingRepo implementación en memoria de ListingRepository.
type ListingRepo struct{ s *Store }

func (r *ListingRepo) Create(_ context.Context, l *entity.Listing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("listings.Create"); err != nil {
		return err
	}
	if _, ok := r.s.users[l.OwnerID]; !ok {
		return domain.ErrUserNotFound
	}
	r.s.listings[l.ID] = *l
	return nil
}

func (r *ListingRepo) GetByID(_ context.Context, id string) (*entity.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.listings[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *ListingRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Listing, error) {
	return r.GetByID(ctx, id)
}

func (r *ListingRepo) Update(_ context.Context, l *entity.Listing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.listings[l.ID]
	if !ok {
		return domain.ErrListingNotFound
	}
	if current.Status == entity.ListingSold {
		return domain.ErrListingSold
	}
	r.s.listings[l.ID] = *l
	return nil
}

func (r *ListingRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("listings.UpdateStatus"); err != nil {
		return err
	}
	l, ok := r.s.listings[id]
	if !ok {
		return domain.ErrListingNotFound
	}
	l.Status = status
	l.UpdatedAt = time.Now()
	r.s.listings[id] = l
	return nil
}

func (r *ListingRepo) List(_ context.Context, f entity.ListingFilter) ([]*entity.Listing, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.Listing
	for _, l := range r.s.listings {
		if f.Status != "" && l.Status != f.Status {
			continue
		}
		if f.OwnerID != "" && l.OwnerID != f.OwnerID {
			continue
		}
		if f.Query != "" && !strings.Contains(strings.ToLower(l.Title), strings.ToLower(f.Query)) {
			continue
		}
		if f.MinPrice != nil && l.Price.LessThan(*f.MinPrice) {
			continue
		}
		if f.MaxPrice != nil && l.Price.GreaterThan(*f.MaxPrice) {
			continue
		}
		l := l
		all = append(all, &l)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return page(all, f.Limit, f.Offset), len(all), nil
}

func (r *ListingRepo) Delete(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.listings[id]; !ok {
		return false, nil
	}
	delete(r.s.listings, id)
	for did, d := range r.s.deals {
		if d.ListingID == id {
			delete(r.s.deals, did)
		}
	}
	return true, nil
}

// ─── Deals ────────────────────────────────────────────────────────────────────

var _ repository.DealRepository = (*DealRepo)(nil)

// DealRepo implementación en memoria de DealRepository.
type DealRepo struct{ s *Store }

func (r *DealRepo) Create(_ context.Context, d *entity.Deal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.listings[d.ListingID]; !ok {
		return domain.ErrListingNotFound
	}
	if _, ok := r.s.users[d.ProposerID]; !ok {
		return domain.ErrUserNotFound
	}
	r.s.deals[d.ID] = *d
	return nil
}

func (r *DealRepo) GetByID(_ context.Context, id string) (*entity.Deal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.deals[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *DealRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Deal, error) {
	return r.GetByID(ctx, id)
}

func (r *DealRepo) ListByListing(_ context.Context, listingID string) ([]*entity.Deal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Deal
	for _, d := range r.s.deals {
		if d.ListingID == listingID {
			d := d
			out = append(out, &d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *DealRepo) UpdateStatus(_ context.Context, id, status string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("deals.UpdateStatus"); err != nil {
		return false, err
	}
	d, ok := r.s.deals[id]
	if !ok || d.Status != entity.DealPending {
		return false, nil
	}
	now := time.Now()
	d.Status = status
	d.RespondedAt = &now
	d.UpdatedAt = now
	r.s.deals[id] = d
	return true, nil
}

func (r *DealRepo) RejectPendingSiblings(_ context.Context, listingID, exceptDealID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("deals.RejectPendingSiblings"); err != nil {
		return 0, err
	}
	var n int64
	now := time.Now()
	for id, d := range r.s.deals {
		if d.ListingID == listingID && id != exceptDealID && d.Status == entity.DealPending {
			d.Status = entity.DealRejected
			d.RespondedAt = &now
			d.UpdatedAt = now
			r.s.deals[id] = d
			n++
		}
	}
	return n, nil
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end]
}
