package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/secmetrics-io/kb4/pkg/kb4"
)

// trainingClient implements kb4.TrainingClient.
type trainingClient struct {
	client *Client
}

// ListStorePurchases implements kb4.TrainingClient.ListStorePurchases.
func (c *trainingClient) ListStorePurchases(ctx context.Context) ([]kb4.StorePurchase, error) {
	return fetchRecords[kb4.StorePurchase](ctx, c.client.pager, "training/store_purchases", nil)
}

// GetStorePurchase implements kb4.TrainingClient.GetStorePurchase.
func (c *trainingClient) GetStorePurchase(ctx context.Context, storePurchaseID int) (*kb4.StorePurchase, error) {
	return fetchOne[kb4.StorePurchase](ctx, c.client.pager, "training/store_purchases/"+strconv.Itoa(storePurchaseID), nil)
}

// ListPolicies implements kb4.TrainingClient.ListPolicies.
func (c *trainingClient) ListPolicies(ctx context.Context) ([]kb4.Policy, error) {
	return fetchRecords[kb4.Policy](ctx, c.client.pager, "training/policies", nil)
}

// GetPolicy implements kb4.TrainingClient.GetPolicy.
func (c *trainingClient) GetPolicy(ctx context.Context, policyID int) (*kb4.Policy, error) {
	return fetchOne[kb4.Policy](ctx, c.client.pager, "training/policies/"+strconv.Itoa(policyID), nil)
}

// ListCampaigns implements kb4.TrainingClient.ListCampaigns.
func (c *trainingClient) ListCampaigns(ctx context.Context) ([]kb4.TrainingCampaign, error) {
	campaigns, err := fetchRecords[kb4.TrainingCampaign](ctx, c.client.pager, "training/campaigns", nil)
	if err != nil {
		return nil, err
	}

	for i := range campaigns {
		campaigns[i].Groups, err = c.client.resolver.resolveGroupRefs(ctx, campaigns[i].Groups)
		if err != nil {
			return nil, fmt.Errorf("resolving groups for training campaign %d: %w", campaigns[i].CampaignID, err)
		}
	}

	return campaigns, nil
}

// GetCampaign implements kb4.TrainingClient.GetCampaign.
func (c *trainingClient) GetCampaign(ctx context.Context, campaignID int) (*kb4.TrainingCampaign, error) {
	campaign, err := fetchOne[kb4.TrainingCampaign](ctx, c.client.pager, "training/campaigns/"+strconv.Itoa(campaignID), nil)
	if err != nil {
		return nil, err
	}

	campaign.Groups, err = c.client.resolver.resolveGroupRefs(ctx, campaign.Groups)
	if err != nil {
		return nil, fmt.Errorf("resolving groups for training campaign %d: %w", campaign.CampaignID, err)
	}

	return campaign, nil
}

// ListEnrollments implements kb4.TrainingClient.ListEnrollments. Enrollment
// listings can span the whole console, so the embedded user references are
// left unhydrated here; Get resolves them.
func (c *trainingClient) ListEnrollments(ctx context.Context, opts *kb4.EnrollmentListOptions) ([]kb4.TrainingEnrollment, error) {
	query := url.Values{}

	if opts != nil {
		if opts.StorePurchaseID != 0 {
			query.Set("store_purchase_id", strconv.Itoa(opts.StorePurchaseID))
		}

		if opts.CampaignID != 0 {
			query.Set("campaign_id", strconv.Itoa(opts.CampaignID))
		}

		if opts.UserID != 0 {
			query.Set("user_id", strconv.Itoa(opts.UserID))
		}
	}

	return fetchRecords[kb4.TrainingEnrollment](ctx, c.client.pager, "training/enrollments", query)
}

// GetEnrollment implements kb4.TrainingClient.GetEnrollment.
func (c *trainingClient) GetEnrollment(ctx context.Context, enrollmentID int) (*kb4.TrainingEnrollment, error) {
	enrollment, err := fetchOne[kb4.TrainingEnrollment](ctx, c.client.pager, "training/enrollments/"+strconv.Itoa(enrollmentID), nil)
	if err != nil {
		return nil, err
	}

	enrollment.User, err = c.client.resolver.resolveUserRef(ctx, enrollment.User)
	if err != nil {
		return nil, fmt.Errorf("resolving user for enrollment %d: %w", enrollment.EnrollmentID, err)
	}

	return enrollment, nil
}
