package commands

import (
	"crypto/ed25519"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"agepass/internal/credential/jwtvc"
	"agepass/internal/credential/keys"
	"agepass/internal/credential/models"
	"agepass/internal/credential/proof"
	"agepass/internal/credential/validator"
)

// verify --payload <p> | --file <f> | stdin: print the verdict and fail unless accepted.
func verifyCmd(a *app) *cobra.Command {
	var (
		payload, file, publicKey string
		asJWT                    bool
	)
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a QR payload or VC-JWT",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd.InOrStdin(), payload, file)
			if err != nil {
				return err
			}

			var pub ed25519.PublicKey
			if publicKey != "" {
				pub, err = keys.ParsePublicKey(publicKey)
			} else {
				pub, err = a.provider.PublicKey()
			}
			if err != nil {
				return err
			}

			now := time.Now()
			var result models.VerificationResult
			if asJWT {
				result = jwtvc.Verify(input, now, pub)
			} else {
				result = validator.New(proof.NewHashCommitment()).Verify(input, now, pub)
			}

			a.log.Debug("credential verified", "kind", result.Kind, "outcome", result.Outcome())
			if err := printJSON(cmd.OutOrStdout(), result); err != nil {
				return err
			}
			if !result.Accepted() {
				return fmt.Errorf("credential not accepted: %s", result.Outcome())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&payload, "payload", "", "scanned QR payload")
	cmd.Flags().StringVar(&file, "file", "", "read the payload from a file")
	cmd.Flags().StringVar(&publicKey, "public-key", "", "hex issuer public key (defaults to the configured issuer)")
	cmd.Flags().BoolVar(&asJWT, "jwt", false, "treat the input as a VC-JWT")
	cmd.MarkFlagsMutuallyExclusive("payload", "file")
	return cmd
}

func readInput(stdin io.Reader, payload, file string) (string, error) {
	var raw []byte
	switch {
	case payload != "":
		return strings.TrimSpace(payload), nil
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		raw = b
	default:
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", err
		}
		raw = b
	}
	input := strings.TrimSpace(string(raw))
	if input == "" {
		return "", fmt.Errorf("no payload given: use --payload, --file or stdin")
	}
	return input, nil
}
