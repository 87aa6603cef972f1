package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/secmetrics-io/kb4/pkg/kb4"
)

// phishingClient implements kb4.PhishingClient.
type phishingClient struct {
	client *Client
}

// ListCampaigns implements kb4.PhishingClient.ListCampaigns.
func (c *phishingClient) ListCampaigns(ctx context.Context) ([]kb4.PhishingCampaign, error) {
	campaigns, err := fetchRecords[kb4.PhishingCampaign](ctx, c.client.pager, "phishing/campaigns", nil)
	if err != nil {
		return nil, err
	}

	for i := range campaigns {
		err = c.hydrateCampaign(ctx, &campaigns[i])
		if err != nil {
			return nil, err
		}
	}

	return campaigns, nil
}

// GetCampaign implements kb4.PhishingClient.GetCampaign.
func (c *phishingClient) GetCampaign(ctx context.Context, campaignID int) (*kb4.PhishingCampaign, error) {
	campaign, err := fetchOne[kb4.PhishingCampaign](ctx, c.client.pager, "phishing/campaigns/"+strconv.Itoa(campaignID), nil)
	if err != nil {
		return nil, err
	}

	err = c.hydrateCampaign(ctx, campaign)
	if err != nil {
		return nil, err
	}

	return campaign, nil
}

// hydrateCampaign resolves the group and security test references of one
// campaign.
func (c *phishingClient) hydrateCampaign(ctx context.Context, campaign *kb4.PhishingCampaign) error {
	var err error

	campaign.Groups, err = c.client.resolver.resolveGroupRefs(ctx, campaign.Groups)
	if err != nil {
		return fmt.Errorf("resolving groups for phishing campaign %d: %w", campaign.CampaignID, err)
	}

	campaign.PSTs, err = c.client.resolver.resolvePSTRefs(ctx, campaign.PSTs)
	if err != nil {
		return fmt.Errorf("resolving security tests for phishing campaign %d: %w", campaign.CampaignID, err)
	}

	return nil
}

// ListSecurityTests implements kb4.PhishingClient.ListSecurityTests. The
// campaign and security test filters select different endpoints and cannot be
// combined.
func (c *phishingClient) ListSecurityTests(ctx context.Context, opts *kb4.SecurityTestListOptions) ([]kb4.PhishingSecurityTest, error) {
	path := "phishing/security_tests"

	if opts != nil {
		if opts.CampaignID != 0 && opts.SecurityTestID != 0 {
			return nil, kb4.ErrConflictingFilters
		}

		switch {
		case opts.CampaignID != 0:
			path = "phishing/campaigns/" + strconv.Itoa(opts.CampaignID) + "/security_tests"
		case opts.SecurityTestID != 0:
			path = "phishing/security_tests/" + strconv.Itoa(opts.SecurityTestID)
		}
	}

	tests, err := fetchRecords[kb4.PhishingSecurityTest](ctx, c.client.pager, path, nil)
	if err != nil {
		return nil, err
	}

	for i := range tests {
		tests[i].Groups, err = c.client.resolver.resolveGroupRefs(ctx, tests[i].Groups)
		if err != nil {
			return nil, fmt.Errorf("resolving groups for security test %d: %w", tests[i].PSTID, err)
		}
	}

	return tests, nil
}

// GetSecurityTest implements kb4.PhishingClient.GetSecurityTest.
func (c *phishingClient) GetSecurityTest(ctx context.Context, pstID int) (*kb4.PhishingSecurityTest, error) {
	test, err := fetchOne[kb4.PhishingSecurityTest](ctx, c.client.pager, "phishing/security_tests/"+strconv.Itoa(pstID), nil)
	if err != nil {
		return nil, err
	}

	test.Groups, err = c.client.resolver.resolveGroupRefs(ctx, test.Groups)
	if err != nil {
		return nil, fmt.Errorf("resolving groups for security test %d: %w", test.PSTID, err)
	}

	return test, nil
}

// ListRecipients implements kb4.PhishingClient.ListRecipients. Recipient user
// references are interaction snapshots and stay unhydrated.
func (c *phishingClient) ListRecipients(ctx context.Context, pstID int) ([]kb4.PhishingCampaignRecipient, error) {
	if pstID == 0 {
		return nil, kb4.ErrSecurityTestIDRequired
	}

	return fetchRecords[kb4.PhishingCampaignRecipient](ctx, c.client.pager,
		"phishing/security_tests/"+strconv.Itoa(pstID)+"/recipients", nil)
}

// GetRecipient implements kb4.PhishingClient.GetRecipient.
func (c *phishingClient) GetRecipient(ctx context.Context, pstID, recipientID int) (*kb4.PhishingCampaignRecipient, error) {
	if pstID == 0 {
		return nil, kb4.ErrSecurityTestIDRequired
	}

	return fetchOne[kb4.PhishingCampaignRecipient](ctx, c.client.pager,
		"phishing/security_tests/"+strconv.Itoa(pstID)+"/recipients/"+strconv.Itoa(recipientID), nil)
}
