package service

import (
	"errors"
	"fmt"
	"os"

	"github.com/tonkit/tonkit/common"
	"github.com/tonkit/tonkit/common/logging"
	"github.com/tonkit/tonkit/core/types"
)

var ErrKeysExist = errors.New("key file already exists")

// Keys reads the key pair stored in file, generating and saving a new one if the file is missing.
func (s *Service) Keys(file string) (*types.KeyPair, error) {
	if file == "" {
		return nil, errors.New("key file is not set")
	}
	keys, err := types.CreateKeyPairOrRead(common.ExpandHome(file))
	if err != nil {
		s.logger.Error().Err(err).Str(logging.FieldFile, file).Msg("Failed to load keys")
		return nil, err
	}
	return keys, nil
}

// GenerateKeys writes a new random key pair to file.
func (s *Service) GenerateKeys(file string, overwrite bool) (*types.KeyPair, error) {
	keys, err := types.NewKeyPair()
	if err != nil {
		return nil, err
	}
	return keys, s.saveKeys(file, keys, overwrite)
}

// KeysFromHex writes the key pair derived from a hex secret (the 32-byte seed) to file.
func (s *Service) KeysFromHex(file, secret string, overwrite bool) (*types.KeyPair, error) {
	keys, err := types.KeyPairFromSecret(secret)
	if err != nil {
		return nil, err
	}
	return keys, s.saveKeys(file, keys, overwrite)
}

func (s *Service) saveKeys(file string, keys *types.KeyPair, overwrite bool) error {
	file = common.ExpandHome(file)
	if !overwrite {
		if _, err := os.Stat(file); err == nil {
			return fmt.Errorf("%w: %s", ErrKeysExist, file)
		}
	}
	if err := types.WriteKeyPair(file, keys); err != nil {
		return err
	}
	s.logger.Info().Str(logging.FieldFile, file).Msg("Keys saved")
	return nil
}
