package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pandenic/media-review-board/internal/services"
)

var (
	suUsername string
	suEmail    string
)

var createSuperuserCmd = &cobra.Command{
	Use:   "createsuperuser",
	Short: "Create an admin account with the superuser flag",
	Long: `Create a superuser and print a confirmation code for it. Exchange the
code for a token at POST /v1/auth/token/.

Examples:
  yamdbctl createsuperuser --username root --email root@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx, false)
		if err != nil {
			return err
		}
		defer a.Close()

		u, code, err := a.Users.CreateSuperuser(ctx, services.SignupInput{Username: suUsername, Email: suEmail})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "superuser %s created\nconfirmation code: %s\n", u.Username, code)
		return nil
	},
}

func init() {
	createSuperuserCmd.Flags().StringVar(&suUsername, "username", "", "Username (required)")
	createSuperuserCmd.Flags().StringVar(&suEmail, "email", "", "Email (required)")
	_ = createSuperuserCmd.MarkFlagRequired("username")
	_ = createSuperuserCmd.MarkFlagRequired("email")
}
