package commands

import (
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/secmetrics-io/kb4/pkg/kb4"
)

// NewPhishingCommand creates the phishing command group.
func NewPhishingCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phishing",
		Short: "Work with phishing campaign reporting",
	}

	campaigns := &cobra.Command{
		Use:   "campaigns",
		Short: "Work with phishing campaigns",
	}
	campaigns.AddCommand(newPhishingCampaignsListCommand())
	campaigns.AddCommand(newPhishingCampaignsGetCommand())

	tests := &cobra.Command{
		Use:   "tests",
		Short: "Work with phishing security tests",
	}
	tests.AddCommand(newPhishingTestsListCommand())
	tests.AddCommand(newPhishingTestsGetCommand())

	recipients := &cobra.Command{
		Use:   "recipients",
		Short: "Work with security test recipients",
	}
	recipients.AddCommand(newPhishingRecipientsListCommand())
	recipients.AddCommand(newPhishingRecipientsGetCommand())

	cmd.AddCommand(campaigns)
	cmd.AddCommand(tests)
	cmd.AddCommand(recipients)

	return cmd
}

func newPhishingCampaignsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List phishing campaigns",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			campaigns, err := client.Phishing().ListCampaigns(cmd.Context())
			if err != nil {
				return err
			}

			if rendered, err := renderOutput(campaigns); rendered {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "Name", "Status", "Phish-Prone %", "Last Run", "Tests", "Groups")

			for i := range campaigns {
				campaign := &campaigns[i]
				_ = table.Append(
					campaign.CampaignID,
					campaign.Name,
					campaign.Status,
					formatFloat(campaign.LastPhishPronePercentage),
					formatTime(campaign.LastRun),
					campaign.PSTsCount,
					groupNames(campaign.Groups),
				)
			}

			return table.Render()
		},
	}
}

func newPhishingCampaignsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get CAMPAIGN_ID",
		Short: "Show one phishing campaign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			campaignID, err := parseID(args[0], "campaign")
			if err != nil {
				return err
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			campaign, err := client.Phishing().GetCampaign(cmd.Context(), campaignID)
			if err != nil {
				return err
			}

			if rendered, err := renderOutput(campaign); rendered {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Field", "Value")
			_ = table.Append("ID", campaign.CampaignID)
			_ = table.Append("Name", campaign.Name)
			_ = table.Append("Status", campaign.Status)
			_ = table.Append("Frequency", campaign.Frequency)
			_ = table.Append("Phish-Prone %", formatFloat(campaign.LastPhishPronePercentage))
			_ = table.Append("Last Run", formatTime(campaign.LastRun))
			_ = table.Append("Created", formatTime(campaign.CreateDate))
			_ = table.Append("Tests", campaign.PSTsCount)
			_ = table.Append("Groups", groupNames(campaign.Groups))

			return table.Render()
		},
	}
}

func newPhishingTestsListCommand() *cobra.Command {
	var campaignID, testID int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List phishing security tests",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			tests, err := client.Phishing().ListSecurityTests(cmd.Context(), &kb4.SecurityTestListOptions{
				CampaignID:     campaignID,
				SecurityTestID: testID,
			})
			if err != nil {
				return err
			}

			if rendered, err := renderOutput(tests); rendered {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "Name", "Status", "Phish-Prone %", "Started", "Delivered", "Clicked", "Reported")

			for i := range tests {
				test := &tests[i]
				_ = table.Append(
					test.PSTID,
					test.Name,
					test.Status,
					formatFloat(test.PhishPronePercentage),
					formatTime(test.StartedAt),
					test.DeliveredCount,
					test.ClickedCount,
					test.ReportedCount,
				)
			}

			return table.Render()
		},
	}

	cmd.Flags().IntVar(&campaignID, "campaign", 0, "restrict to one campaign's tests")
	cmd.Flags().IntVar(&testID, "test", 0, "fetch one test by ID")

	return cmd
}

func newPhishingTestsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get TEST_ID",
		Short: "Show one phishing security test",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pstID, err := parseID(args[0], "security test")
			if err != nil {
				return err
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			test, err := client.Phishing().GetSecurityTest(cmd.Context(), pstID)
			if err != nil {
				return err
			}

			if rendered, err := renderOutput(test); rendered {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Field", "Value")
			_ = table.Append("ID", test.PSTID)
			_ = table.Append("Campaign ID", test.CampaignID)
			_ = table.Append("Name", test.Name)
			_ = table.Append("Status", test.Status)
			_ = table.Append("Phish-Prone %", formatFloat(test.PhishPronePercentage))
			_ = table.Append("Started", formatTime(test.StartedAt))
			_ = table.Append("Template", test.Template.Name)
			_ = table.Append("Landing Page", test.Landing.Name)
			_ = table.Append("Scheduled", test.ScheduledCount)
			_ = table.Append("Delivered", test.DeliveredCount)
			_ = table.Append("Opened", test.OpenedCount)
			_ = table.Append("Clicked", test.ClickedCount)
			_ = table.Append("Replied", test.RepliedCount)
			_ = table.Append("Data Entered", test.DataEnteredCount)
			_ = table.Append("Reported", test.ReportedCount)
			_ = table.Append("Bounced", test.BouncedCount)
			_ = table.Append("Groups", groupNames(test.Groups))

			return table.Render()
		},
	}
}

func newPhishingRecipientsListCommand() *cobra.Command {
	var testID int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recipients of a security test",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			recipients, err := client.Phishing().ListRecipients(cmd.Context(), testID)
			if err != nil {
				return err
			}

			if rendered, err := renderOutput(recipients); rendered {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "User", "Delivered", "Opened", "Clicked", "Reported")

			for i := range recipients {
				recipient := &recipients[i]
				_ = table.Append(
					recipient.RecipientID,
					recipientUser(recipient),
					formatTime(recipient.DeliveredAt),
					formatTime(recipient.OpenedAt),
					formatTime(recipient.ClickedAt),
					formatTime(recipient.ReportedAt),
				)
			}

			return table.Render()
		},
	}

	cmd.Flags().IntVar(&testID, "test", 0, "security test ID (required)")
	_ = cmd.MarkFlagRequired("test")

	return cmd
}

func newPhishingRecipientsGetCommand() *cobra.Command {
	var testID int

	cmd := &cobra.Command{
		Use:   "get RECIPIENT_ID",
		Short: "Show one recipient of a security test",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recipientID, err := parseID(args[0], "recipient")
			if err != nil {
				return err
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			recipient, err := client.Phishing().GetRecipient(cmd.Context(), testID, recipientID)
			if err != nil {
				return err
			}

			if rendered, err := renderOutput(recipient); rendered {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Field", "Value")
			_ = table.Append("ID", recipient.RecipientID)
			_ = table.Append("Test ID", recipient.PSTID)
			_ = table.Append("User", recipientUser(recipient))
			_ = table.Append("Template", recipient.Template.Name)
			_ = table.Append("Scheduled", formatTime(recipient.ScheduledAt))
			_ = table.Append("Delivered", formatTime(recipient.DeliveredAt))
			_ = table.Append("Opened", formatTime(recipient.OpenedAt))
			_ = table.Append("Clicked", formatTime(recipient.ClickedAt))
			_ = table.Append("Replied", formatTime(recipient.RepliedAt))
			_ = table.Append("Data Entered", formatTime(recipient.DataEnteredAt))
			_ = table.Append("Reported", formatTime(recipient.ReportedAt))
			_ = table.Append("Bounced", formatTime(recipient.BouncedAt))

			return table.Render()
		},
	}

	cmd.Flags().IntVar(&testID, "test", 0, "security test ID (required)")
	_ = cmd.MarkFlagRequired("test")

	return cmd
}

func recipientUser(recipient *kb4.PhishingCampaignRecipient) string {
	if recipient.User.User != nil {
		return recipient.User.User.Email
	}

	if recipient.User.Email != "" {
		return recipient.User.Email
	}

	return NotAvailable
}
