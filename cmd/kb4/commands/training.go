package commands

import (
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/secmetrics-io/kb4/pkg/kb4"
)

// NewTrainingCommand creates the training command group.
func NewTrainingCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "training",
		Short: "Work with training reporting",
	}

	purchases := &cobra.Command{
		Use:   "purchases",
		Short: "Work with store purchases",
	}
	purchases.AddCommand(newTrainingPurchasesListCommand())
	purchases.AddCommand(newTrainingPurchasesGetCommand())

	policies := &cobra.Command{
		Use:   "policies",
		Short: "Work with uploaded policies",
	}
	policies.AddCommand(newTrainingPoliciesListCommand())
	policies.AddCommand(newTrainingPoliciesGetCommand())

	campaigns := &cobra.Command{
		Use:   "campaigns",
		Short: "Work with training campaigns",
	}
	campaigns.AddCommand(newTrainingCampaignsListCommand())
	campaigns.AddCommand(newTrainingCampaignsGetCommand())

	enrollments := &cobra.Command{
		Use:   "enrollments",
		Short: "Work with training enrollments",
	}
	enrollments.AddCommand(newTrainingEnrollmentsListCommand())
	enrollments.AddCommand(newTrainingEnrollmentsGetCommand())

	cmd.AddCommand(purchases)
	cmd.AddCommand(policies)
	cmd.AddCommand(campaigns)
	cmd.AddCommand(enrollments)

	return cmd
}

func newTrainingPurchasesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List store purchases",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			purchases, err := client.Training().ListStorePurchases(cmd.Context())
			if err != nil {
				return err
			}

			if rendered, err := renderOutput(purchases); rendered {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "Name", "Type", "Publisher", "Duration", "Retired")

			for i := range purchases {
				purchase := &purchases[i]
				_ = table.Append(
					purchase.StorePurchaseID,
					purchase.Name,
					purchase.ContentType,
					purchase.Publisher,
					purchase.Duration,
					strconv.FormatBool(purchase.Retired),
				)
			}

			return table.Render()
		},
	}
}

func newTrainingPurchasesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get PURCHASE_ID",
		Short: "Show one store purchase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			purchaseID, err := parseID(args[0], "store purchase")
			if err != nil {
				return err
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			purchase, err := client.Training().GetStorePurchase(cmd.Context(), purchaseID)
			if err != nil {
				return err
			}

			if rendered, err := renderOutput(purchase); rendered {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Field", "Value")
			_ = table.Append("ID", purchase.StorePurchaseID)
			_ = table.Append("Name", purchase.Name)
			_ = table.Append("Content Type", purchase.ContentType)
			_ = table.Append("Publisher", purchase.Publisher)
			_ = table.Append("Duration", purchase.Duration)
			_ = table.Append("Purchased", formatTime(purchase.PurchaseDate))
			_ = table.Append("Published", formatTime(purchase.PublishedDate))
			_ = table.Append("Retired", strconv.FormatBool(purchase.Retired))

			return table.Render()
		},
	}
}

func newTrainingPoliciesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List uploaded policies",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			policies, err := client.Training().ListPolicies(cmd.Context())
			if err != nil {
				return err
			}

			if rendered, err := renderOutput(policies); rendered {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "Name", "Content Type", "Minimum Time", "Language")

			for i := range policies {
				policy := &policies[i]
				_ = table.Append(
					policy.ID,
					policy.Name,
					policy.ContentType,
					policy.MinimumTime,
					policy.DefaultLanguage,
				)
			}

			return table.Render()
		},
	}
}

func newTrainingPoliciesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get POLICY_ID",
		Short: "Show one uploaded policy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			policyID, err := parseID(args[0], "policy")
			if err != nil {
				return err
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			policy, err := client.Training().GetPolicy(cmd.Context(), policyID)
			if err != nil {
				return err
			}

			if rendered, err := renderOutput(policy); rendered {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Field", "Value")
			_ = table.Append("ID", policy.ID)
			_ = table.Append("Name", policy.Name)
			_ = table.Append("Content Type", policy.ContentType)
			_ = table.Append("Minimum Time", policy.MinimumTime)
			_ = table.Append("Language", policy.DefaultLanguage)

			return table.Render()
		},
	}
}

func newTrainingCampaignsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List training campaigns",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			campaigns, err := client.Training().ListCampaigns(cmd.Context())
			if err != nil {
				return err
			}

			if rendered, err := renderOutput(campaigns); rendered {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "Name", "Status", "Start", "End", "Completion %", "Groups")

			for i := range campaigns {
				campaign := &campaigns[i]
				_ = table.Append(
					campaign.CampaignID,
					campaign.Name,
					campaign.Status,
					formatTime(campaign.StartDate),
					formatTime(campaign.EndDate),
					campaign.CompletionPercentage,
					groupNames(campaign.Groups),
				)
			}

			return table.Render()
		},
	}
}

func newTrainingCampaignsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get CAMPAIGN_ID",
		Short: "Show one training campaign",
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

			campaign, err := client.Training().GetCampaign(cmd.Context(), campaignID)
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
			_ = table.Append("Duration Type", campaign.DurationType)
			_ = table.Append("Start", formatTime(campaign.StartDate))
			_ = table.Append("End", formatTime(campaign.EndDate))
			_ = table.Append("Completion %", campaign.CompletionPercentage)
			_ = table.Append("Modules", len(campaign.Modules))
			_ = table.Append("Groups", groupNames(campaign.Groups))

			return table.Render()
		},
	}
}

func newTrainingEnrollmentsListCommand() *cobra.Command {
	var purchaseID, campaignID, userID int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List training enrollments",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			enrollments, err := client.Training().ListEnrollments(cmd.Context(), &kb4.EnrollmentListOptions{
				StorePurchaseID: purchaseID,
				CampaignID:      campaignID,
				UserID:          userID,
			})
			if err != nil {
				return err
			}

			if rendered, err := renderOutput(enrollments); rendered {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "Campaign", "Module", "User", "Status", "Time Spent", "Completed")

			for i := range enrollments {
				enrollment := &enrollments[i]
				_ = table.Append(
					enrollment.EnrollmentID,
					enrollment.CampaignName,
					enrollment.ModuleName,
					enrollmentUser(enrollment),
					enrollment.Status,
					enrollment.TimeSpent,
					formatTime(enrollment.CompletionDate),
				)
			}

			return table.Render()
		},
	}

	cmd.Flags().IntVar(&purchaseID, "purchase", 0, "filter on store purchase ID")
	cmd.Flags().IntVar(&campaignID, "campaign", 0, "filter on training campaign ID")
	cmd.Flags().IntVar(&userID, "user", 0, "filter on user ID")

	return cmd
}

func newTrainingEnrollmentsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ENROLLMENT_ID",
		Short: "Show one training enrollment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enrollmentID, err := parseID(args[0], "enrollment")
			if err != nil {
				return err
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			enrollment, err := client.Training().GetEnrollment(cmd.Context(), enrollmentID)
			if err != nil {
				return err
			}

			if rendered, err := renderOutput(enrollment); rendered {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Field", "Value")
			_ = table.Append("ID", enrollment.EnrollmentID)
			_ = table.Append("Campaign", enrollment.CampaignName)
			_ = table.Append("Module", enrollment.ModuleName)
			_ = table.Append("Content Type", enrollment.ContentType)
			_ = table.Append("User", enrollmentUser(enrollment))
			_ = table.Append("Status", enrollment.Status)
			_ = table.Append("Enrolled", formatTime(enrollment.EnrollmentDate))
			_ = table.Append("Started", formatTime(enrollment.StartDate))
			_ = table.Append("Completed", formatTime(enrollment.CompletionDate))
			_ = table.Append("Time Spent", enrollment.TimeSpent)
			_ = table.Append("Policy Acknowledged", strconv.FormatBool(enrollment.PolicyAcknowledged))

			return table.Render()
		},
	}
}

func enrollmentUser(enrollment *kb4.TrainingEnrollment) string {
	if enrollment.User.User != nil {
		return enrollment.User.User.Email
	}

	if enrollment.User.Email != "" {
		return enrollment.User.Email
	}

	return NotAvailable
}
