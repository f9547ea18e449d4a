package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/edubridge/platform/internal/pkg/apperrors"
	"github.com/edubridge/platform/internal/pkg/helpers"
)

func parseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := helpers.ParseDate(*value)
	if err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, field+" must be a valid ISO 8601 date").
			WithDetails(map[string]interface{}{field: "must be a valid ISO 8601 date"})
	}
	return &t, nil
}

func parseID(field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, field+" must be a valid id").
			WithDetails(map[string]interface{}{field: "must be a valid id"})
	}
	return id, nil
}
