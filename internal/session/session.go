// Package session holds the in-memory snapshot of loaded report data that
// request handlers read from.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dvloznov/sales-dashboard/internal/auth"
	"github.com/dvloznov/sales-dashboard/internal/domain"
	"github.com/dvloznov/sales-dashboard/internal/report"
)

// Loader supplies the four source datasets.
type Loader interface {
	Sales(ctx context.Context) (txs []domain.Transaction, name, date string, err error)
	Clients(ctx context.Context) ([]domain.Client, error)
	Products(ctx context.Context) ([]domain.Product, error)
	Users(ctx context.Context) ([]auth.User, error)
}

// Snapshot is one consistent view of all loaded data. Snapshots are
// immutable once published; a refresh swaps in a whole new one.
type Snapshot struct {
	Sales    []domain.Transaction
	Clients  []domain.Client
	Products []domain.Product
	Index    *report.Index
	Users    []auth.User
	FileName string
	FileDate string
	LoadedAt time.Time
}

// Store publishes the current snapshot. Refresh is all-or-nothing: if any
// source fails to load the previous snapshot stays in place.
type Store struct {
	loader Loader

	mu   sync.RWMutex
	snap *Snapshot
}

func NewStore(loader Loader) *Store {
	return &Store{loader: loader}
}

// Current returns the latest snapshot, or false before the first successful
// refresh.
func (s *Store) Current() (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, s.snap != nil
}

// Refresh loads all four sources concurrently and publishes the result.
func (s *Store) Refresh(ctx context.Context) error {
	next := &Snapshot{LoadedAt: time.Now().UTC()}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		txs, name, date, err := s.loader.Sales(ctx)
		if err != nil {
			return fmt.Errorf("load sales: %w", err)
		}
		next.Sales, next.FileName, next.FileDate = txs, name, date
		return nil
	})
	g.Go(func() error {
		clients, err := s.loader.Clients(ctx)
		if err != nil {
			return fmt.Errorf("load clients: %w", err)
		}
		next.Clients = clients
		return nil
	})
	g.Go(func() error {
		products, err := s.loader.Products(ctx)
		if err != nil {
			return fmt.Errorf("load products: %w", err)
		}
		next.Products = products
		return nil
	})
	g.Go(func() error {
		users, err := s.loader.Users(ctx)
		if err != nil {
			return fmt.Errorf("load users: %w", err)
		}
		next.Users = users
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	next.Index = report.NewIndex(next.Clients, next.Products)

	s.mu.Lock()
	s.snap = next
	s.mu.Unlock()
	return nil
}
