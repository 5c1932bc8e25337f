// Package codec moves credentials in and out of the string a QR code carries.
//
// Decoding is two-staged. The envelope stage expects base64url(DEFLATE(JSON)),
// the compact form produced by Encode. When that fails the input is treated as
// raw JSON. Decoded.Stage records which stage produced the document so a
// malformed envelope is not silently passed off as a raw parse failure.
package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/klauspost/compress/flate"

	"agepass/internal/credential/models"
	dErrors "agepass/pkg/domain-errors"
	"agepass/pkg/platform/validation"
)

// Decoded is a structurally valid credential of either kind.
type Decoded struct {
	Stage  models.Stage
	Kind   models.Kind
	Signed *models.SignedCredential
	ZK     *models.ZKCredential

	// SignedPayload holds the payload bytes exactly as they appeared in the
	// document. Set only for signed credentials.
	SignedPayload []byte
}

// Encode serializes v into the compact envelope form.
func Encode(v any) (string, error) {
	doc, err := json.Marshal(v)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to serialize credential")
	}

	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to create compressor")
	}
	if _, err := w.Write(doc); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to compress credential")
	}
	if err := w.Close(); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to compress credential")
	}
	return base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

// EncodeRaw serializes v as plain JSON.
func EncodeRaw(v any) (string, error) {
	doc, err := json.Marshal(v)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to serialize credential")
	}
	return string(doc), nil
}

// Decode turns scanned text into a credential. Every failure is a format
// error; the returned Decoded still reports the stage that was reached.
func Decode(input string) (*Decoded, error) {
	out := &Decoded{}

	input = strings.TrimSpace(input)
	if input == "" {
		return out, formatError("payload is empty", nil)
	}
	if len(input) > validation.MaxPayloadLength {
		return out, formatError("payload is too large", nil)
	}

	doc, ok := unwrapEnvelope(input)
	if ok {
		out.Stage = models.StageEnvelope
	} else {
		doc = []byte(input)
		out.Stage = models.StageRaw
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(doc, &fields); err != nil {
		return out, formatError("payload is not a JSON object", err)
	}

	switch {
	case has(fields, "payload", "signature") && !has(fields, "zkProof"):
		cred, payload, err := decodeSigned(doc)
		if err != nil {
			return out, err
		}
		out.Kind = models.KindSigned
		out.Signed = cred
		out.SignedPayload = payload
	case has(fields, "zkProof", "commitment") && !has(fields, "signature"):
		cred, err := decodeZK(doc)
		if err != nil {
			return out, err
		}
		out.Kind = models.KindZK
		out.ZK = cred
	default:
		return out, formatError("payload is neither a signed nor a zk credential", nil)
	}
	return out, nil
}

func unwrapEnvelope(input string) ([]byte, bool) {
	compressed, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(input, "="))
	if err != nil || len(compressed) == 0 {
		return nil, false
	}
	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()

	doc, err := io.ReadAll(io.LimitReader(r, validation.MaxBodySize+1))
	if err != nil || len(doc) == 0 || len(doc) > validation.MaxBodySize {
		return nil, false
	}
	return doc, true
}

func has(fields map[string]json.RawMessage, keys ...string) bool {
	for _, k := range keys {
		if _, ok := fields[k]; !ok {
			return false
		}
	}
	return true
}

func formatError(msg string, cause error) error {
	if cause == nil {
		return dErrors.New(dErrors.CodeFormat, msg)
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(cause, &typeErr) && typeErr.Field != "" {
		msg = typeErr.Field + " has the wrong type"
	}
	return &dErrors.Error{Code: dErrors.CodeFormat, Message: msg, Err: cause}
}
