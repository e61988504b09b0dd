package validators

import "errors"

// Bounds on the raw password before it reaches the hasher. The upper
// bound keeps argon2 input sizes sane
const (
	minPasswordLen = 8
	maxPasswordLen = 255
)

var (
	ErrPasswordEmpty    = errors.New("no password provided")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong  = errors.New("password is too long")
)

func PasswordValidator(p string) error {
	switch {
	case p == "":
		return ErrPasswordEmpty
	case len(p) < minPasswordLen:
		return ErrPasswordTooShort
	case len(p) > maxPasswordLen:
		return ErrPasswordTooLong
	}

	return nil
}
