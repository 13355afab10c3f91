package command

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/momeni/vehweb/pkg/adapter/hash/scram"
	"github.com/spf13/cobra"
)

var (
	hashIters     int
	hashMechanism string
)

var hashCmd = &cobra.Command{
	Use:   "hash",
	Short: "Compute a scram password hash for the config users list",
	Long: `Reads a plaintext password from the standard input and prints
its scram hash string, so it can be provisioned as a principal password
in the configuration file without storing the plaintext. The default
SCRAM-SHA-256 mechanism should be preferred; SCRAM-SHA-1 hashes are
supported for verification of already provisioned passwords too.`,
	RunE: hashPassword,
}

func hashPassword(cmd *cobra.Command, _ []string) error {
	var m *scram.Mechanism
	switch hashMechanism {
	case "sha256":
		m = scram.SHA256()
	case "sha1":
		m = scram.SHA1()
	default:
		return fmt.Errorf("unsupported mechanism: %q", hashMechanism)
	}
	fmt.Fprint(cmd.ErrOrStderr(), "password: ")
	r := bufio.NewReader(os.Stdin)
	pass, err := r.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}
	pass = strings.TrimRight(pass, "\r\n")
	h, err := m.Hash(pass, "", hashIters)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), h)
	return nil
}

func init() {
	hashCmd.Flags().IntVar(
		&hashIters, "iters", 15000, "PBKDF2 iterations count",
	)
	hashCmd.Flags().StringVar(
		&hashMechanism, "mechanism", "sha256",
		"scram mechanism, either sha256 or sha1",
	)
	rootCmd.AddCommand(hashCmd)
}
