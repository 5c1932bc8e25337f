package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"agepass/internal/credential/models"
	dErrors "agepass/pkg/domain-errors"
)

const birthDateLayout = "2006-01-02"

// issue --name <n> --birth-date <yyyy-mm-dd>: print a credential as JSON.
func issueCmd(a *app) *cobra.Command {
	var (
		name, birthDate string
		zk, asJWT       bool
		encode          bool
	)
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue an age credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			if zk && asJWT {
				return fmt.Errorf("--zk and --jwt are mutually exclusive")
			}
			born, err := time.Parse(birthDateLayout, birthDate)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeValidation, "birth date must be YYYY-MM-DD")
			}
			req := models.IssueRequest{Name: name, BirthDate: born}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			switch {
			case zk:
				issued, err := a.svc.IssueZK(ctx, req)
				if err != nil {
					return err
				}
				if encode {
					return printLine(out, issued.QRPayload)
				}
				return printJSON(out, issued)
			case asJWT:
				issued, err := a.svc.IssueJWT(ctx, req)
				if err != nil {
					return err
				}
				if encode {
					return printLine(out, issued.Token)
				}
				return printJSON(out, issued)
			default:
				issued, err := a.svc.IssueSigned(ctx, req)
				if err != nil {
					return err
				}
				if encode {
					return printLine(out, issued.QRPayload)
				}
				return printJSON(out, issued)
			}
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "subject name")
	cmd.Flags().StringVar(&birthDate, "birth-date", "", "birth date as YYYY-MM-DD")
	cmd.Flags().BoolVar(&zk, "zk", false, "issue a zero-knowledge credential")
	cmd.Flags().BoolVar(&asJWT, "jwt", false, "issue a VC-JWT")
	cmd.Flags().BoolVar(&encode, "encode", false, "print only the QR payload or token")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("birth-date")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printLine(w io.Writer, s string) error {
	_, err := fmt.Fprintln(w, s)
	return err
}
