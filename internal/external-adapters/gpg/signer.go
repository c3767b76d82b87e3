// Package gpg provides OpenPGP detached signatures for produced archives.
package gpg

import (
	"crypto"
	"fmt"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
)

// SignatureSuffix is appended to the archive path for the signature sidecar
const SignatureSuffix = ".asc"

// Signer writes armored detached signatures using ProtonMail's go-crypto.
// This is in external-adapters to isolate the external dependency.
type Signer struct {
	entity *openpgp.Entity
	config *packet.Config
}

// NewSignerFromFile loads the first private key of an armored or binary
// keyring and unlocks it with passphrase when it is encrypted
func NewSignerFromFile(keyPath string, passphrase []byte) (*Signer, error) {
	//nolint:gosec // G304: keyPath is user-provided signing key
	f, err := os.Open(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open key file: %w", err)
	}
	//nolint:errcheck // Defer close
	defer f.Close()

	entities, err := openpgp.ReadArmoredKeyRing(f)
	if err != nil {
		// Try reading as binary
		if _, seekErr := f.Seek(0, 0); seekErr != nil {
			return nil, fmt.Errorf("failed to reset file: %w", seekErr)
		}
		entities, err = openpgp.ReadKeyRing(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read key: %w", err)
		}
	}

	return NewSigner(entities, passphrase)
}

// NewSigner picks the first entity holding a private key
func NewSigner(keyring openpgp.EntityList, passphrase []byte) (*Signer, error) {
	for _, entity := range keyring {
		if entity.PrivateKey == nil {
			continue
		}
		if err := unlock(entity, passphrase); err != nil {
			return nil, err
		}
		return &Signer{
			entity: entity,
			config: &packet.Config{DefaultHash: crypto.SHA256},
		}, nil
	}
	return nil, fmt.Errorf("no private key found in keyring")
}

func unlock(entity *openpgp.Entity, passphrase []byte) error {
	if entity.PrivateKey.Encrypted {
		if err := entity.PrivateKey.Decrypt(passphrase); err != nil {
			return fmt.Errorf("failed to decrypt private key: %w", err)
		}
	}
	for _, sub := range entity.Subkeys {
		if sub.PrivateKey != nil && sub.PrivateKey.Encrypted {
			if err := sub.PrivateKey.Decrypt(passphrase); err != nil {
				return fmt.Errorf("failed to decrypt private subkey: %w", err)
			}
		}
	}
	return nil
}

// SignFile writes path+".asc", checks it against the signing key and
// returns the signature path
func (s *Signer) SignFile(path string) (string, error) {
	//nolint:gosec // G304: path is the archive produced by this run
	data, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer data.Close()

	sigPath := path + SignatureSuffix
	//nolint:gosec // G304: sigPath is derived from the produced archive
	sig, err := os.Create(sigPath)
	if err != nil {
		return "", fmt.Errorf("failed to create signature file: %w", err)
	}

	if err := openpgp.ArmoredDetachSign(sig, s.entity, data, s.config); err != nil {
		_ = sig.Close()
		return "", fmt.Errorf("failed to sign %s: %w", path, err)
	}
	if err := sig.Close(); err != nil {
		return "", fmt.Errorf("failed to close signature file: %w", err)
	}

	if err := VerifyFile(openpgp.EntityList{s.entity}, path, sigPath); err != nil {
		//nolint:errcheck // Best effort cleanup
		os.Remove(sigPath)
		return "", err
	}
	return sigPath, nil
}

// VerifyFile checks an armored detached signature against keyring
func VerifyFile(keyring openpgp.EntityList, path, sigPath string) error {
	//nolint:gosec // G304: sigPath is user-provided for verification
	sigFile, err := os.Open(sigPath)
	if err != nil {
		return fmt.Errorf("failed to open signature file: %w", err)
	}
	//nolint:errcheck // Defer close
	defer sigFile.Close()

	//nolint:gosec // G304: path is user-provided for verification
	dataFile, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open data file: %w", err)
	}
	//nolint:errcheck // Defer close
	defer dataFile.Close()

	if _, err := openpgp.CheckArmoredDetachedSignature(keyring, dataFile, sigFile, nil); err != nil {
		return fmt.Errorf("signature verification failed: %w", err)
	}
	return nil
}
