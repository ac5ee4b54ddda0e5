package memory

import "errors"

var (
	ErrReadOnly           = errors.New("write in read only transaction")
	ErrVerificationExists = errors.New("milestone verification is immutable")
)
