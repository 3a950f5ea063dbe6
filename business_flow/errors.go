// Package businessflow contains the business logic for the application.
package businessflow

import (
	"errors"

	"github.com/okhira/mijikai/models"
)

func IsURLNotFound(err error) bool {
	return errors.Is(err, models.ErrURLNotFound)
}

func IsURLExpired(err error) bool {
	return errors.Is(err, models.ErrURLExpired)
}

func IsURLInactive(err error) bool {
	return errors.Is(err, models.ErrURLInactive)
}

func IsCustomAliasTaken(err error) bool {
	return errors.Is(err, models.ErrCustomAliasTaken)
}

func IsExternalServiceError(err error) bool {
	return errors.Is(err, models.ErrExternalService)
}
