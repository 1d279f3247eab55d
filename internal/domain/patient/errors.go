package patient

import "errors"

var (
	ErrPatientNotFound      = errors.New("patient not found")
	ErrPatientAlreadyExists = errors.New("patient with this national ID already exists")
	ErrPatientDeceased      = errors.New("patient record is marked deceased")
	ErrInvalidGender        = errors.New("invalid gender")
)
