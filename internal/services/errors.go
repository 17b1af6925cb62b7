package services

import (
	"errors"

	"github.com/pandenic/media-review-board/internal/repository"
	"github.com/pandenic/media-review-board/internal/validate"
)

var (
	ErrNotFound  = repository.ErrNotFound
	ErrForbidden = errors.New("permission denied")
)

const (
	MsgRequired         = "this field is required"
	MsgReservedUsername = `username "me" is reserved`
	MsgUsernameTaken    = "this username is registered with a different email"
	MsgEmailTaken       = "this email is registered with a different username"
	MsgUsernameExists   = "a user with this username already exists"
	MsgEmailExists      = "a user with this email already exists"
	MsgInvalidCode      = "invalid confirmation code"
	MsgOneReview        = "only one review per title is allowed"
	MsgNameExists       = "an entry with this name already exists"
	MsgSlugExists       = "an entry with this slug already exists"
)

// checkStruct runs tag validation and returns the field errors, or a
// non-validation error if validation itself failed.
func checkStruct(v any) (validate.Errs, error) {
	err := validate.Struct(v)
	if err == nil {
		return nil, nil
	}
	if errs, ok := validate.AsErrs(err); ok {
		return errs, nil
	}
	return nil, err
}

func add(errs validate.Errs, field, msg string) validate.Errs {
	return append(errs, validate.ErrField{Field: field, Msg: msg})
}

// failed returns errs as an error, or nil when there are none.
func failed(errs validate.Errs) error {
	if len(errs) == 0 {
		return nil
	}
	return errs
}
