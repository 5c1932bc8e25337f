package credential

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"agepass/internal/credential/codec"
	"agepass/internal/credential/models"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	GET(path string) error
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
	SetNow(t time.Time)
	AdvanceClock(d time.Duration)
}

// RegisterSteps registers credential issuance and verification steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &credentialSteps{tc: tc}

	// Clock steps
	ctx.Step(`^the clock is set to "([^"]*)"$`, steps.clockIsSetTo)
	ctx.Step(`^the clock advances by (\d+) days$`, steps.clockAdvancesBy)

	// Issuance steps
	ctx.Step(`^I request a (signed|zk|jwt) credential for "([^"]*)" born "([^"]*)"$`, steps.requestCredential)
	ctx.Step(`^I hold a (signed|zk|jwt) credential for "([^"]*)" born "([^"]*)"$`, steps.holdCredential)
	ctx.Step(`^the issued claims should have "([^"]*)" equal to (true|false)$`, steps.issuedClaimShouldBe)
	ctx.Step(`^the public signals should be "([^"]*)", "([^"]*)", "([^"]*)" followed by the commitment$`, steps.publicSignalsShouldBe)

	// Verification steps
	ctx.Step(`^I verify the saved QR payload$`, steps.verifySaved)
	ctx.Step(`^I verify the saved token$`, steps.verifySavedToken)
	ctx.Step(`^I verify the payload "(.*)"$`, steps.verifyPayload)
	ctx.Step(`^I verify the saved credential as raw JSON$`, steps.verifySavedAsRaw)
	ctx.Step(`^I flip one hex character of the signature and verify it$`, steps.flipSignatureAndVerify)
	ctx.Step(`^I change public signal (\d+) to "([^"]*)" and verify it$`, steps.changeSignalAndVerify)
	ctx.Step(`^I verify a batch of the saved payload and "([^"]*)"$`, steps.verifyBatch)
	ctx.Step(`^I fetch the issuer public key$`, steps.fetchPublicKey)
}

type credentialSteps struct {
	tc TestContext

	payload string
	token   string
	signed  *models.SignedCredential
	zk      *models.ZKCredential
}

func (s *credentialSteps) clockIsSetTo(ctx context.Context, date string) error {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return err
	}
	s.tc.SetNow(t)
	return nil
}

func (s *credentialSteps) clockAdvancesBy(ctx context.Context, days int) error {
	s.tc.AdvanceClock(time.Duration(days) * 24 * time.Hour)
	return nil
}

func (s *credentialSteps) requestCredential(ctx context.Context, kind, name, birthDate string) error {
	return s.tc.POST("/credentials/"+kind, map[string]string{
		"name":       name,
		"birth_date": birthDate,
	})
}

func (s *credentialSteps) holdCredential(ctx context.Context, kind, name, birthDate string) error {
	if err := s.requestCredential(ctx, kind, name, birthDate); err != nil {
		return err
	}
	if status := s.tc.GetLastResponseStatus(); status != 201 {
		return fmt.Errorf("issuance failed with status %d: %s", status, s.tc.GetLastResponseBody())
	}

	body := s.tc.GetLastResponseBody()
	switch kind {
	case "signed":
		var issued models.IssuedSigned
		if err := json.Unmarshal(body, &issued); err != nil {
			return err
		}
		s.payload, s.signed = issued.QRPayload, &issued.Credential
	case "zk":
		var issued models.IssuedZK
		if err := json.Unmarshal(body, &issued); err != nil {
			return err
		}
		s.payload, s.zk = issued.QRPayload, &issued.Credential
	case "jwt":
		var issued models.IssuedJWT
		if err := json.Unmarshal(body, &issued); err != nil {
			return err
		}
		s.token = issued.Token
	}
	return nil
}

func (s *credentialSteps) issuedClaimShouldBe(ctx context.Context, claim, want string) error {
	var issued struct {
		Credential struct {
			Payload map[string]interface{} `json:"payload"`
		} `json:"credential"`
	}
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &issued); err != nil {
		return err
	}
	got, ok := issued.Credential.Payload[claim]
	if !ok {
		return fmt.Errorf("claim %s not found", claim)
	}
	if fmt.Sprint(got) != want {
		return fmt.Errorf("claim %s: expected %s but got %v", claim, want, got)
	}
	return nil
}

func (s *credentialSteps) publicSignalsShouldBe(ctx context.Context, flag, year, minAge string) error {
	if s.zk == nil {
		return fmt.Errorf("no zk credential held")
	}
	signals := s.zk.ZKProof.PublicSignals
	if len(signals) != models.SignalCount {
		return fmt.Errorf("expected %d public signals, got %d", models.SignalCount, len(signals))
	}
	want := []string{flag, year, minAge, s.zk.Commitment.String()}
	for i := range want {
		if signals[i] != want[i] {
			return fmt.Errorf("public signal %d: expected %s but got %s", i, want[i], signals[i])
		}
	}
	return nil
}

func (s *credentialSteps) verifySaved(ctx context.Context) error {
	return s.verifyPayload(ctx, s.payload)
}

func (s *credentialSteps) verifySavedToken(ctx context.Context) error {
	return s.tc.POST("/credentials/jwt/verify", map[string]string{"token": s.token})
}

func (s *credentialSteps) verifyPayload(ctx context.Context, payload string) error {
	return s.tc.POST("/credentials/verify", map[string]string{"payload": payload})
}

func (s *credentialSteps) verifySavedAsRaw(ctx context.Context) error {
	var cred any = s.signed
	if s.zk != nil {
		cred = s.zk
	}
	raw, err := codec.EncodeRaw(cred)
	if err != nil {
		return err
	}
	return s.verifyPayload(ctx, raw)
}

func (s *credentialSteps) flipSignatureAndVerify(ctx context.Context) error {
	if s.signed == nil {
		return fmt.Errorf("no signed credential held")
	}
	tampered := *s.signed
	sig := []byte(tampered.Signature)
	if sig[0] == '0' {
		sig[0] = '1'
	} else {
		sig[0] = '0'
	}
	tampered.Signature = string(sig)

	payload, err := codec.Encode(tampered)
	if err != nil {
		return err
	}
	return s.verifyPayload(ctx, payload)
}

func (s *credentialSteps) changeSignalAndVerify(ctx context.Context, index int, value string) error {
	if s.zk == nil {
		return fmt.Errorf("no zk credential held")
	}
	tampered := *s.zk
	tampered.ZKProof.PublicSignals = append(models.PublicSignals(nil), s.zk.ZKProof.PublicSignals...)
	if index < 0 || index >= len(tampered.ZKProof.PublicSignals) {
		return fmt.Errorf("public signal %d out of range", index)
	}
	tampered.ZKProof.PublicSignals[index] = value

	payload, err := codec.Encode(tampered)
	if err != nil {
		return err
	}
	return s.verifyPayload(ctx, payload)
}

func (s *credentialSteps) verifyBatch(ctx context.Context, other string) error {
	return s.tc.POST("/credentials/verify/batch", map[string][]string{
		"payloads": {s.payload, strings.TrimSpace(other)},
	})
}

func (s *credentialSteps) fetchPublicKey(ctx context.Context) error {
	return s.tc.GET("/keys/issuer")
}
