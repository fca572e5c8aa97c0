// File: cmd/issuer/main.go
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"activation-service/internal/license"
)

// privateKeyEnv is read when --key-file is not given.
const privateKeyEnv = "ISSUER_PRIVATE_KEY"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "issuer",
		Short:         "Offline activation code issuing tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newKeygenCmd(), newIssueCmd(), newVerifyCmd())
	return root
}

func newKeygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate an Ed25519 issuing key pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeygen(cmd.OutOrStdout())
		},
	}
}

func runKeygen(w io.Writer) error {
	kp, err := license.GenerateKeyPair()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "public_key:  %s\n", license.EncodeKey(kp.PublicKey))
	fmt.Fprintf(w, "private_key: %s\n", license.EncodeKey(kp.PrivateKey))
	fmt.Fprintln(w, "# keep private_key offline; configure public_key as license.public_key")
	return nil
}
