package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"activation-service/internal/domain"
	"activation-service/internal/license"
)

func newVerifyCmd() *cobra.Command {
	var publicKey string
	cmd := &cobra.Command{
		Use:   "verify CODE",
		Short: "Check a code offline against a public key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd.OutOrStdout(), publicKey, args[0])
		},
	}
	cmd.Flags().StringVar(&publicKey, "public-key", "", "base64url Ed25519 public key")
	_ = cmd.MarkFlagRequired("public-key")
	return cmd
}

func runVerify(w io.Writer, publicKey, code string) error {
	pub, err := license.ParsePublicKey(publicKey)
	if err != nil {
		return err
	}
	v, err := license.NewVerifier(pub)
	if err != nil {
		return err
	}
	res, err := v.Verify(code)
	if err != nil {
		kind := domain.KindOf(err)
		return fmt.Errorf("%s: %s", kind, kind.Message())
	}
	fmt.Fprintf(w, "valid days=%d", res.Days)
	if res.Nonce != "" {
		fmt.Fprintf(w, " nonce=%s", res.Nonce)
	}
	fmt.Fprintln(w)
	return nil
}
