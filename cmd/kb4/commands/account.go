package commands

import (
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewAccountCommand creates the account command group.
func NewAccountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Work with the console account",
	}

	cmd.AddCommand(newAccountShowCommand())
	cmd.AddCommand(newAccountAdminsCommand())

	return cmd
}

func newAccountShowCommand() *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the account record",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			account, err := client.Account().Get(cmd.Context(), full)
			if err != nil {
				return err
			}

			if rendered, err := renderOutput(account); rendered {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Field", "Value")
			_ = table.Append("Name", account.Name)
			_ = table.Append("Type", account.Type)
			_ = table.Append("Domains", strings.Join(account.Domains, ", "))
			_ = table.Append("Subscription", account.SubscriptionLevel)
			_ = table.Append("Subscription Ends", account.SubscriptionEndDate)
			_ = table.Append("Seats", account.NumberOfSeats)
			_ = table.Append("Risk Score", formatFloat(account.CurrentRiskScore))
			_ = table.Append("Admins", len(account.Admins))

			return table.Render()
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "request the full account record")

	return cmd
}

func newAccountAdminsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "admins",
		Short: "List console administrators",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			admins, err := client.Account().Admins(cmd.Context())
			if err != nil {
				return err
			}

			if rendered, err := renderOutput(admins); rendered {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "First Name", "Last Name", "Email")

			for i := range admins {
				admin := &admins[i]
				_ = table.Append(admin.ID, admin.FirstName, admin.LastName, admin.Email)
			}

			return table.Render()
		},
	}
}
