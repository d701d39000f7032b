package phi

import (
	"context"
	"fmt"
	"maps"

	"github.com/hengadev/errsx"

	cryptoDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/crypto/domain"
	cryptoService "github.com/FatihBerkayBahceci/eye-book-sub002/internal/crypto/service"
)

// KeyProvider supplies the active data key for record encryption.
type KeyProvider interface {
	ActiveKey(ctx context.Context) (*cryptoDomain.DataKey, error)
}

// Processor applies field-level encryption to generic entity records using
// the registry to decide which fields to touch. Records are flat
// field -> value maps, matching how the host application hands entities over.
type Processor struct {
	registry    *Registry
	fieldCipher cryptoService.FieldCipher
	keys        KeyProvider
}

// NewProcessor creates a record processor.
func NewProcessor(registry *Registry, fieldCipher cryptoService.FieldCipher, keys KeyProvider) *Processor {
	return &Processor{
		registry:    registry,
		fieldCipher: fieldCipher,
		keys:        keys,
	}
}

// EncryptRecord returns a copy of record with every registered field encrypted
// under the active key. Unregistered fields and empty values pass through
// unchanged. Any cipher failure aborts the whole record: callers must reject
// the write rather than store a partially encrypted record.
func (p *Processor) EncryptRecord(
	ctx context.Context,
	entityType string,
	record map[string]string,
) (map[string]string, error) {
	fields := p.registry.Fields(entityType)
	if len(fields) == 0 {
		return record, nil
	}

	key, err := p.keys.ActiveKey(ctx)
	if err != nil {
		return nil, err
	}
	defer key.Close()

	out := maps.Clone(record)
	for _, field := range fields {
		value, ok := record[field]
		if !ok || value == "" {
			continue
		}

		envelope, err := p.fieldCipher.EncryptString(value, key.Material)
		if err != nil {
			return nil, fmt.Errorf("encrypt %s.%s: %w", entityType, field, err)
		}
		out[field] = envelope
	}

	return out, nil
}

// DecryptRecord returns a copy of record with every registered field
// decrypted under the active key. A field that fails to decrypt is blanked
// and reported in the returned errsx.Map, keyed by field name, so the caller
// can render "value unavailable" for that field while the rest of the record
// stays usable. Ciphertext is never passed through as plaintext.
func (p *Processor) DecryptRecord(
	ctx context.Context,
	entityType string,
	record map[string]string,
) (map[string]string, error) {
	fields := p.registry.Fields(entityType)
	if len(fields) == 0 {
		return record, nil
	}

	key, err := p.keys.ActiveKey(ctx)
	if err != nil {
		return nil, err
	}
	defer key.Close()

	var errs errsx.Map
	out := maps.Clone(record)
	for _, field := range fields {
		value, ok := record[field]
		if !ok || value == "" {
			continue
		}

		plaintext, err := p.fieldCipher.DecryptString(value, key.Material)
		if err != nil {
			out[field] = ""
			errs.Set(field, err)
			continue
		}
		out[field] = plaintext
	}

	return out, errs.AsError()
}
