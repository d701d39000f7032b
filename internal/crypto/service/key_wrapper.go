package service

import (
	"context"
	"fmt"

	"gocloud.dev/secrets"

	// Register key-wrapping providers.
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// KeeperWrapper implements KeyWrapper using a gocloud.dev secrets.Keeper.
//
// Data-key material is wrapped by an external key-wrapping key before it is
// persisted. Supported providers: gcpkms://, awskms://, azurekeyvault://,
// hashivault://, and base64key:// for development and tests.
type KeeperWrapper struct {
	keeper *secrets.Keeper
}

// OpenKeyWrapper opens a secrets.Keeper for the configured key URI.
func OpenKeyWrapper(ctx context.Context, keyURI string) (*KeeperWrapper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open key wrapper: %w", err)
	}
	return &KeeperWrapper{keeper: keeper}, nil
}

// Wrap encrypts data-key material under the wrapping key.
func (w *KeeperWrapper) Wrap(material []byte) ([]byte, error) {
	wrapped, err := w.keeper.Encrypt(context.Background(), material)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap key material: %w", err)
	}
	return wrapped, nil
}

// Unwrap decrypts persisted data-key material.
func (w *KeeperWrapper) Unwrap(wrapped []byte) ([]byte, error) {
	material, err := w.keeper.Decrypt(context.Background(), wrapped)
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap key material: %w", err)
	}
	return material, nil
}

// Close releases the underlying keeper.
func (w *KeeperWrapper) Close() error {
	return w.keeper.Close()
}
