// Package memory implementa los puertos de persistencia en memoria (modo desarrollo y tests).
//
// Un único mutex serializa las transacciones. Cada transacción trabaja sobre una copia
// del estado que solo reemplaza al original si la función termina sin error.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

type state struct {
	accounts  map[string]entity.Account
	entries   map[string]entity.JournalEntry
	entryIDs  []string // orden de inserción
	documents map[string]entity.Document
	invoices  map[string]entity.Invoice
	payments  map[string][]entity.Payment // por factura, en orden de registro
	parties   map[string]entity.Party
	products  map[string]entity.Product
}

func newState() *state {
	return &state{
		accounts:  make(map[string]entity.Account),
		entries:   make(map[string]entity.JournalEntry),
		documents: make(map[string]entity.Document),
		invoices:  make(map[string]entity.Invoice),
		payments:  make(map[string][]entity.Payment),
		parties:   make(map[string]entity.Party),
		products:  make(map[string]entity.Product),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.entries {
		v.Rows = append([]entity.JournalRow(nil), v.Rows...)
		c.entries[k] = v
	}
	c.entryIDs = append([]string(nil), s.entryIDs...)
	for k, v := range s.documents {
		v.Items = append([]entity.DocumentItem(nil), v.Items...)
		c.documents[k] = v
	}
	for k, v := range s.invoices {
		c.invoices[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = append([]entity.Payment(nil), v...)
	}
	for k, v := range s.parties {
		c.parties[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	return c
}

// access ejecuta fn sobre el estado visible para el repo.
type access interface {
	with(fn func(st *state) error) error
}

// Store estado compartido; implementa accounting.TxRunner y billing.BillingTxRunner.
type Store struct {
	mu   sync.Mutex
	data *state
	// FailCommit, si no es nil, se devuelve como fallo de almacenamiento al confirmar (tests).
	FailCommit error
}

// NewStore crea un almacenamiento vacío.
func NewStore() *Store {
	return &Store{data: newState()}
}

func (s *Store) with(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

type txAccess struct{ st *state }

func (t txAccess) with(fn func(st *state) error) error { return fn(t.st) }

// Repos repositorios fuera de transacción (cada operación toma el mutex).
func (s *Store) Repos() repository.TxRepos {
	return reposFor(s)
}

func reposFor(a access) repository.TxRepos {
	return repository.TxRepos{
		Accounts:  &AccountRepo{a: a},
		Journal:   &JournalRepo{a: a},
		Documents: &DocumentRepo{a: a},
		Invoices:  &InvoiceRepo{a: a},
		Payments:  &PaymentRepo{a: a},
		Parties:   &PartyRepo{a: a},
		Products:  &ProductRepo{a: a},
	}
}

// RunLedger ejecuta fn con repos sobre una copia del estado; solo un resultado exitoso se publica.
func (s *Store) RunLedger(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return &domain.StorageError{Op: "begin transaction", Err: err}
	}
	snap := s.data.clone()
	if err := fn(reposFor(txAccess{st: snap})); err != nil {
		return err
	}
	if s.FailCommit != nil {
		return &domain.StorageError{Op: "commit transaction", Err: s.FailCommit}
	}
	s.data = snap
	return nil
}
