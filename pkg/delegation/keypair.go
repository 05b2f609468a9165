package delegation

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
)

// Keypair is the builder identity signing delegation tokens.
type Keypair struct {
	priv ed25519.PrivateKey
	did  string
}

// KeypairFromSeed derives a Keypair from a 32-byte hex-encoded seed.
func KeypairFromSeed(hexSeed string) (*Keypair, error) {
	seed, err := hex.DecodeString(hexSeed)
	if err != nil {
		return nil, fmt.Errorf("decode builder seed: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("builder seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}

	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return &Keypair{
		priv: priv,
		did:  "did:nillion:" + hex.EncodeToString(pub),
	}, nil
}

// DID returns the builder's identifier.
func (k *Keypair) DID() string {
	return k.did
}

// Public returns the verification key.
func (k *Keypair) Public() ed25519.PublicKey {
	return k.priv.Public().(ed25519.PublicKey)
}
