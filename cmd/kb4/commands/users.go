package commands

import (
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/secmetrics-io/kb4/pkg/kb4"
)

// NewUsersCommand creates the users command group.
func NewUsersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Work with console users",
	}

	cmd.AddCommand(newUsersListCommand())
	cmd.AddCommand(newUsersGetCommand())

	return cmd
}

func newUsersListCommand() *cobra.Command {
	var (
		status  string
		groupID int
		expand  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			users, err := client.Users().List(cmd.Context(), &kb4.UserListOptions{
				Status:  status,
				GroupID: groupID,
				Expand:  expand,
			})
			if err != nil {
				return err
			}

			if rendered, err := renderOutput(users); rendered {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "Email", "First Name", "Last Name", "Status", "Risk Score", "Groups")

			for i := range users {
				user := &users[i]
				_ = table.Append(
					user.ID,
					user.Email,
					user.FirstName,
					user.LastName,
					user.Status,
					formatFloat(user.CurrentRiskScore),
					groupNames(user.Groups),
				)
			}

			return table.Render()
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter on status (active, archived)")
	cmd.Flags().IntVar(&groupID, "group", 0, "restrict to members of one group")
	cmd.Flags().BoolVar(&expand, "expand", false, "return full group objects inline")

	return cmd
}

func newUsersGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get USER_ID",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID(args[0], "user")
			if err != nil {
				return err
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			user, err := client.Users().Get(cmd.Context(), userID)
			if err != nil {
				return err
			}

			if rendered, err := renderOutput(user); rendered {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Field", "Value")
			_ = table.Append("ID", user.ID)
			_ = table.Append("Email", user.Email)
			_ = table.Append("Name", user.FirstName+" "+user.LastName)
			_ = table.Append("Job Title", user.JobTitle)
			_ = table.Append("Division", user.Division)
			_ = table.Append("Status", user.Status)
			_ = table.Append("Risk Score", formatFloat(user.CurrentRiskScore))
			_ = table.Append("Phish-prone %", formatFloat(user.PhishPronePercentage))
			_ = table.Append("Joined", formatTime(user.JoinedOn))
			_ = table.Append("Last Sign-in", formatTime(user.LastSignIn))
			_ = table.Append("Groups", groupNames(user.Groups))

			return table.Render()
		},
	}
}
