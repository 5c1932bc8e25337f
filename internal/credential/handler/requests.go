package handler

import (
	"time"

	"agepass/internal/credential/models"
	dErrors "agepass/pkg/domain-errors"
	"agepass/pkg/platform/validation"
	s "agepass/pkg/string"
)

// BirthDateLayout is the accepted birth_date format.
const BirthDateLayout = "2006-01-02"

// IssueRequest is the body of every issuance endpoint.
type IssueRequest struct {
	Name      string `json:"name" validate:"required,notblank,max=200"`
	BirthDate string `json:"birth_date" validate:"required,notblank"`
}

// Normalize trims surrounding whitespace.
func (r *IssueRequest) Normalize() {
	if r == nil {
		return
	}
	s.TrimStrings(&r.Name, &r.BirthDate)
}

// Validate checks that the request is well-formed.
func (r *IssueRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := validation.Validate(r); err != nil {
		return err
	}
	if _, err := time.Parse(BirthDateLayout, r.BirthDate); err != nil {
		return dErrors.New(dErrors.CodeValidation, "birth_date must be formatted as YYYY-MM-DD")
	}
	return nil
}

// ToModel converts a validated request into the service input.
func (r *IssueRequest) ToModel() (*models.IssueRequest, error) {
	birth, err := time.Parse(BirthDateLayout, r.BirthDate)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "birth_date must be formatted as YYYY-MM-DD")
	}
	return &models.IssueRequest{Name: r.Name, BirthDate: birth}, nil
}

// VerifyRequest carries one scanned payload.
type VerifyRequest struct {
	Payload string `json:"payload" validate:"required"`
}

// Validate checks that the request is well-formed.
func (r *VerifyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Validate(r)
}

// BatchVerifyRequest carries several scanned payloads.
type BatchVerifyRequest struct {
	Payloads []string `json:"payloads" validate:"required,min=1"`
}

// Normalize trims each payload; scanners often append a newline.
func (r *BatchVerifyRequest) Normalize() {
	if r == nil {
		return
	}
	s.TrimSlice(r.Payloads)
}

// Validate checks that the request is well-formed.
func (r *BatchVerifyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := validation.CheckSliceCount("payloads", len(r.Payloads), validation.MaxBatchSize); err != nil {
		return err
	}
	if err := validation.CheckEachStringLength("payloads", r.Payloads, validation.MaxPayloadLength); err != nil {
		return err
	}
	return validation.Validate(r)
}

// VerifyJWTRequest carries a compact VC-JWT.
type VerifyJWTRequest struct {
	Token string `json:"token" validate:"required,notblank"`
}

// Normalize trims surrounding whitespace.
func (r *VerifyJWTRequest) Normalize() {
	if r == nil {
		return
	}
	s.TrimStrings(&r.Token)
}

// Validate checks that the request is well-formed.
func (r *VerifyJWTRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Validate(r)
}

// QRRequest asks for a PNG rendering of a transport string.
type QRRequest struct {
	Payload string `json:"payload" validate:"required,notblank"`
	Size    int    `json:"size" validate:"omitempty,min=64,max=1024"`
}

// Validate checks that the request is well-formed.
func (r *QRRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := validation.CheckStringLength("payload", r.Payload, validation.MaxPayloadLength); err != nil {
		return err
	}
	return validation.Validate(r)
}
