package codec

import (
	"encoding/json"

	"agepass/internal/credential/models"
	dErrors "agepass/pkg/domain-errors"
	"agepass/pkg/platform/validation"
)

// Wire DTOs use pointers so that an absent field is distinguishable from a
// zero value; `required` then means "present".

type payloadWire struct {
	Issuer      *string `json:"issuer" validate:"required"`
	IssuedAt    *int64  `json:"issuedAt" validate:"required"`
	ExpiresAt   *int64  `json:"expiresAt" validate:"required"`
	SubjectName *string `json:"subjectName" validate:"required"`
	AgeClaim    *bool   `json:"ageClaim" validate:"required"`
}

// Payload stays raw: the signature covers these exact bytes, and
// encoding/json matches keys case-insensitively.
type signedWire struct {
	Payload   json.RawMessage `json:"payload" validate:"required"`
	Signature *string         `json:"signature" validate:"required"`
}

type proofWire struct {
	Protocol  *string `json:"protocol" validate:"required"`
	Integrity *string `json:"integrity" validate:"required"`
}

type zkProofWire struct {
	Proof         *proofWire `json:"proof" validate:"required"`
	PublicSignals []string   `json:"publicSignals" validate:"required"`
}

type metadataWire struct {
	Issuer      *string `json:"issuer" validate:"required"`
	SubjectName *string `json:"subjectName" validate:"required"`
	IssuedAt    *int64  `json:"issuedAt" validate:"required"`
	ExpiresAt   *int64  `json:"expiresAt" validate:"required"`
}

type zkWire struct {
	ZKProof    *zkProofWire  `json:"zkProof" validate:"required"`
	Metadata   *metadataWire `json:"metadata" validate:"required"`
	Commitment *string       `json:"commitment" validate:"required"`
}

func decodeSigned(doc []byte) (*models.SignedCredential, []byte, error) {
	var w signedWire
	if err := json.Unmarshal(doc, &w); err != nil {
		return nil, nil, formatError("signed credential is malformed", err)
	}
	if err := validation.ValidateAs(w, dErrors.CodeFormat); err != nil {
		return nil, nil, err
	}
	var p payloadWire
	if err := json.Unmarshal(w.Payload, &p); err != nil {
		return nil, nil, formatError("payload is malformed", err)
	}
	if err := validation.ValidateAs(p, dErrors.CodeFormat); err != nil {
		return nil, nil, err
	}
	return &models.SignedCredential{
		Payload: models.VerifiableCredential{
			Issuer:      *p.Issuer,
			IssuedAt:    *p.IssuedAt,
			ExpiresAt:   *p.ExpiresAt,
			SubjectName: *p.SubjectName,
			AgeClaim:    *p.AgeClaim,
		},
		Signature: *w.Signature,
	}, []byte(w.Payload), nil
}

func decodeZK(doc []byte) (*models.ZKCredential, error) {
	var w zkWire
	if err := json.Unmarshal(doc, &w); err != nil {
		return nil, formatError("zk credential is malformed", err)
	}
	if err := validation.ValidateAs(w, dErrors.CodeFormat); err != nil {
		return nil, err
	}
	m := w.Metadata
	return &models.ZKCredential{
		ZKProof: models.ZKProof{
			Proof: models.Proof{
				Protocol:  *w.ZKProof.Proof.Protocol,
				Integrity: *w.ZKProof.Proof.Integrity,
			},
			PublicSignals: models.PublicSignals(w.ZKProof.PublicSignals),
		},
		Metadata: models.CredentialMetadata{
			Issuer:      *m.Issuer,
			SubjectName: *m.SubjectName,
			IssuedAt:    *m.IssuedAt,
			ExpiresAt:   *m.ExpiresAt,
		},
		Commitment: models.Commitment(*w.Commitment),
	}, nil
}
