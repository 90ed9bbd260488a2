package bladex

import (
	"errors"

	"github.com/pthm/bladex/lib/compiler"
	"github.com/pthm/bladex/lib/encoding"
)

// Sentinel errors for component registration.
var (
	ErrInvalidTag       = errors.New("bladex: invalid component tag")
	ErrInvalidView      = errors.New("bladex: invalid component view")
	ErrInvalidDataModel = errors.New("bladex: invalid data model")
	ErrInvalidPrefix    = errors.New("bladex: invalid tag prefix")
)

// IsInvalidComponent checks if err was caused by a component that cannot be
// registered or compiled.
func IsInvalidComponent(err error) bool {
	return errors.Is(err, ErrInvalidTag) ||
		errors.Is(err, ErrInvalidView) ||
		errors.Is(err, ErrInvalidDataModel) ||
		errors.Is(err, compiler.ErrInvalidTag)
}

// IsInvalidPrefix checks if err was caused by an unusable tag prefix.
func IsInvalidPrefix(err error) bool {
	return errors.Is(err, ErrInvalidPrefix) || errors.Is(err, compiler.ErrInvalidPrefix)
}

// IsCacheCorrupt checks if err was caused by a cache entry that failed
// signature, decryption or format checks.
func IsCacheCorrupt(err error) bool {
	return errors.Is(err, encoding.ErrSignatureInvalid) ||
		errors.Is(err, encoding.ErrDecryptFailed) ||
		errors.Is(err, encoding.ErrInvalidFormat)
}
