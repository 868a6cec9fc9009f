package kv

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/rs/zerolog"
)

// Slot provides typed access to a single key of a KV store.
//
// Load never fails: a missing, unreadable or undecodable value yields the
// caller's default. Save always writes and reports storage errors.
type Slot[T any] struct {
	store     KV
	key       string
	keepEmpty bool
	log       zerolog.Logger
}

// SlotOption configures a Slot.
type SlotOption func(*slotOptions)

type slotOptions struct {
	keepEmpty bool
	log       zerolog.Logger
}

// WithKeepEmpty controls the empty-sequence override. By default a stored
// empty sequence loads as the default when the default is non-empty, so a
// cleared store is reseeded. Passing true returns the stored empty sequence
// as-is.
func WithKeepEmpty(keep bool) SlotOption {
	return func(o *slotOptions) { o.keepEmpty = keep }
}

// WithLogger sets the logger used to report recovered load failures.
func WithLogger(l zerolog.Logger) SlotOption {
	return func(o *slotOptions) { o.log = l }
}

// NewSlot returns a Slot[T] bound to key.
func NewSlot[T any](store KV, key string, opts ...SlotOption) *Slot[T] {
	o := slotOptions{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	return &Slot[T]{
		store:     store,
		key:       key,
		keepEmpty: o.keepEmpty,
		log:       o.log.With().Str("key", key).Logger(),
	}
}

// Key returns the key the slot reads and writes.
func (s *Slot[T]) Key() string {
	return s.key
}

// Load reads and decodes the slot. It returns def when the key is absent,
// the stored value is empty or null, reading fails, or decoding fails. When the
// decoded value is an empty sequence and def is a non-empty sequence, def is
// returned unless the slot was built WithKeepEmpty(true).
func (s *Slot[T]) Load(ctx context.Context, def T) T {
	raw, err := s.store.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn().Err(err).Msg("read failed, using default")
		}
		return def
	}

	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return def
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		s.log.Warn().Err(err).Msg("stored value is malformed, using default")
		return def
	}

	if !s.keepEmpty && isEmptySequence(v) && isNonEmptySequence(def) {
		s.log.Debug().Msg("stored sequence is empty, using default")
		return def
	}

	return v
}

// Save encodes v and writes it under the slot's key, replacing any previous
// value.
func (s *Slot[T]) Save(ctx context.Context, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kv save %q marshal: %w", s.key, err)
	}

	if err := s.store.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("kv save %q: %w", s.key, err)
	}

	return nil
}

func isSequence(v reflect.Value) bool {
	return v.IsValid() && (v.Kind() == reflect.Slice || v.Kind() == reflect.Array)
}

func isEmptySequence(v any) bool {
	rv := reflect.ValueOf(v)
	return isSequence(rv) && rv.Len() == 0
}

func isNonEmptySequence(v any) bool {
	rv := reflect.ValueOf(v)
	return isSequence(rv) && rv.Len() > 0
}
