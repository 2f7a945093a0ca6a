package program

import (
	"errors"

	"community-sport/backend/internal/apperr"
)

func IsErrNotFound(err error) bool   { return errors.Is(err, apperr.ErrNotFound) }
func IsErrPermission(err error) bool { return errors.Is(err, apperr.ErrPermission) }
func IsErrBadRequest(err error) bool { return errors.Is(err, apperr.ErrValidation) }
