package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"agepass/internal/credential/qr"
)

// qr --payload <p> --out <file.png>
func qrCmd(a *app) *cobra.Command {
	var (
		payload, out string
		size         int
	)
	cmd := &cobra.Command{
		Use:   "qr",
		Short: "Render a payload as a PNG QR code",
		RunE: func(cmd *cobra.Command, args []string) error {
			png, err := a.svc.RenderQR(cmd.Context(), payload, size)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, png, 0o600); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(png))
			return err
		},
	}
	cmd.Flags().StringVar(&payload, "payload", "", "payload to encode")
	cmd.Flags().StringVar(&out, "out", "", "output PNG path")
	cmd.Flags().IntVar(&size, "size", qr.DefaultSize, "image size in pixels")
	_ = cmd.MarkFlagRequired("payload")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
