package system

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/vlog_backend/pkg/util/password"
)

// NewHashPasswordCommand prints an argon2id hash suitable for admin.password.
func NewHashPasswordCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hashpw",
		Short: "Hash an admin password read from stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("failed to read password: %w", err)
			}
			plain := strings.TrimRight(line, "\r\n")
			if plain == "" {
				return fmt.Errorf("password must not be empty")
			}

			hash, err := password.Hash(plain)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			fmt.Println(hash)
			return nil
		},
	}

	return cmd
}
