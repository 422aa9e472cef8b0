package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/ledger-api/internal/domain"
)

const (
	keyPrefix     = "ledger:idem:"
	pendingMarker = "\x00pending"
)

// IdempotencyStore reserva claves de idempotencia con SET NX y guarda el resultado serializado.
type IdempotencyStore struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewIdempotencyStore construye el store. ttl aplica tanto a la reserva como al resultado.
func NewIdempotencyStore(client *goredis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Reserve toma la clave. Si ya hay un resultado lo devuelve con done=true;
// si otra petición la tiene reservada devuelve domain.ErrInProgress.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string) ([]byte, bool, error) {
	ok, err := s.client.SetNX(ctx, keyPrefix+key, pendingMarker, s.ttl).Result()
	if err != nil {
		return nil, false, &domain.StorageError{Op: "reserve idempotency key", Err: err}
	}
	if ok {
		return nil, false, nil
	}
	val, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		// Expiró entre SETNX y GET: se reintenta una vez.
		ok, err = s.client.SetNX(ctx, keyPrefix+key, pendingMarker, s.ttl).Result()
		if err != nil {
			return nil, false, &domain.StorageError{Op: "reserve idempotency key", Err: err}
		}
		if ok {
			return nil, false, nil
		}
		return nil, false, domain.ErrInProgress
	}
	if err != nil {
		return nil, false, &domain.StorageError{Op: "get idempotency key", Err: err}
	}
	if string(val) == pendingMarker {
		return nil, false, domain.ErrInProgress
	}
	return val, true, nil
}

// Complete guarda el resultado de la operación bajo la clave reservada.
func (s *IdempotencyStore) Complete(ctx context.Context, key string, result []byte) error {
	if err := s.client.Set(ctx, keyPrefix+key, result, s.ttl).Err(); err != nil {
		return &domain.StorageError{Op: "complete idempotency key", Err: err}
	}
	return nil
}

// Release libera la clave tras un fallo para permitir reintentos.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return &domain.StorageError{Op: "release idempotency key", Err: err}
	}
	return nil
}
