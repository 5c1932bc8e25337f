package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"agepass/internal/credential/keys"
	"agepass/internal/credential/service"
	"agepass/internal/platform/logger"
)

type app struct {
	keyMode  string
	seedHex  string
	issuer   string
	logLevel string

	provider *keys.Provider
	svc      *service.Service
	log      *slog.Logger
}

// Execute runs the CLI against os.Args.
func Execute() error {
	return NewRootCommand(os.Stderr).Execute()
}

// NewRootCommand builds the command tree. Logs are written to logOut.
func NewRootCommand(logOut io.Writer) *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "agepass",
		Short:         "Issue and verify 18+ age credentials exchanged through QR codes",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.log = logger.New(logger.WithLevel(a.logLevel), logger.WithOutput(logOut))
			provider, err := keys.NewFromMode(keys.Mode(a.keyMode), a.seedHex)
			if err != nil {
				return err
			}
			a.provider = provider
			a.svc = service.New(provider,
				service.WithIssuer(a.issuer),
				service.WithLogger(a.log),
			)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.keyMode, "key-mode", envOr("KEY_MODE", string(keys.ModeDemo)), "issuer key source: demo, random or seeded")
	root.PersistentFlags().StringVar(&a.seedHex, "seed", os.Getenv("ISSUER_KEY_SEED"), "hex Ed25519 seed for --key-mode=seeded")
	root.PersistentFlags().StringVar(&a.issuer, "issuer", envOr("ISSUER_NAME", ""), "issuer name written into credentials")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", envOr("LOG_LEVEL", "warn"), "log level")

	root.AddCommand(issueCmd(a), verifyCmd(a), keygenCmd(a), qrCmd(a))
	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
