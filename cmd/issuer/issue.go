package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"activation-service/internal/license"
)

type issueOptions struct {
	days    int
	tier    string
	count   int
	out     string
	keyFile string
}

func newIssueCmd() *cobra.Command {
	var opts issueOptions
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Sign activation codes for a day count or a named tier",
		Long: "Sign activation codes. Tiers: " + strings.Join(license.TierNames(), ", ") + ".\n" +
			"The private key comes from --key-file or " + privateKeyEnv + ".",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := loadPrivateKey(opts.keyFile)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if opts.out != "" {
				f, err := os.OpenFile(opts.out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
				if err != nil {
					return fmt.Errorf("open output: %w", err)
				}
				defer f.Close()
				w = f
			}
			return runIssue(w, key, opts)
		},
	}
	cmd.Flags().IntVar(&opts.days, "days", 0, "benefit length in days")
	cmd.Flags().StringVar(&opts.tier, "tier", "", "named tier instead of --days")
	cmd.Flags().IntVar(&opts.count, "count", 1, "number of codes; batches carry unique nonces")
	cmd.Flags().StringVar(&opts.out, "out", "", "write codes to this file instead of stdout")
	cmd.Flags().StringVar(&opts.keyFile, "key-file", "", "file holding the base64url private key")
	cmd.MarkFlagsMutuallyExclusive("days", "tier")
	return cmd
}

func runIssue(w io.Writer, key string, opts issueOptions) error {
	days := opts.days
	if opts.tier != "" {
		d, err := license.TierDays(opts.tier)
		if err != nil {
			return err
		}
		days = d
	}
	if days <= 0 {
		return errors.New("one of --days or --tier is required")
	}

	priv, err := license.ParsePrivateKey(key)
	if err != nil {
		return err
	}
	signer, err := license.NewSigner(priv)
	if err != nil {
		return err
	}

	count := opts.count
	if count < 1 {
		count = 1
	}
	codes, err := signer.IssueBatch(days, count)
	if err != nil {
		return err
	}
	for _, c := range codes {
		if _, err := fmt.Fprintln(w, c); err != nil {
			return err
		}
	}
	return nil
}

func loadPrivateKey(path string) (string, error) {
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read key file: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}
	if v := strings.TrimSpace(os.Getenv(privateKeyEnv)); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("private key required: pass --key-file or set %s", privateKeyEnv)
}
