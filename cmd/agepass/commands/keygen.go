package commands

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"agepass/internal/credential/keys"
)

// keygen: print a fresh seed for ISSUER_KEY_SEED and its public key.
func keygenCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate an issuer key seed",
		RunE: func(cmd *cobra.Command, args []string) error {
			seed := make([]byte, keys.SeedSize)
			if _, err := rand.Read(seed); err != nil {
				return err
			}
			pub, err := keys.NewSeeded(seed).PublicKeyHex()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ISSUER_KEY_SEED=%s\npublic_key=%s\n", hex.EncodeToString(seed), pub)
			return err
		},
	}
}
