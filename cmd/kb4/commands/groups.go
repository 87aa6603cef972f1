package commands

import (
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/secmetrics-io/kb4/pkg/kb4"
)

// NewGroupsCommand creates the groups command group.
func NewGroupsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Work with console groups",
	}

	cmd.AddCommand(newGroupsListCommand())
	cmd.AddCommand(newGroupsGetCommand())

	return cmd
}

func newGroupsListCommand() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			groups, err := client.Groups().List(cmd.Context(), &kb4.GroupListOptions{Status: status})
			if err != nil {
				return err
			}

			if rendered, err := renderOutput(groups); rendered {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "Name", "Type", "Members", "Risk Score", "Status")

			for i := range groups {
				group := &groups[i]
				_ = table.Append(
					group.ID,
					group.Name,
					group.GroupType,
					group.MemberCount,
					formatFloat(group.CurrentRiskScore),
					group.Status,
				)
			}

			return table.Render()
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter on status (active, archived)")

	return cmd
}

func newGroupsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get GROUP_ID",
		Short: "Show one group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			groupID, err := parseID(args[0], "group")
			if err != nil {
				return err
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			group, err := client.Groups().Get(cmd.Context(), groupID)
			if err != nil {
				return err
			}

			if rendered, err := renderOutput(group); rendered {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Field", "Value")
			_ = table.Append("ID", group.ID)
			_ = table.Append("Name", group.Name)
			_ = table.Append("Type", group.GroupType)
			_ = table.Append("Members", group.MemberCount)
			_ = table.Append("Risk Score", formatFloat(group.CurrentRiskScore))
			_ = table.Append("Status", group.Status)

			return table.Render()
		},
	}
}
