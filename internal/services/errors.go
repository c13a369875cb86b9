package services

import (
	"errors"

	apperrors "rn518panel/internal/errors"
)

// Panel service errors
var (
	ErrDatasetNotLoaded = apperrors.NewUnavailableError("dataset not loaded")
	ErrReloadInProgress = errors.New("dataset reload already in progress")
)
