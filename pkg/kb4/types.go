package kb4

import (
	"bytes"
	"encoding/json"
	"time"
)

// Record statuses returned (or derived) by the reporting API.
const (
	StatusActive     = "active"
	StatusArchived   = "archived"
	StatusNotStarted = "Not Started"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
	StatusPassed     = "Passed"
	StatusPastDue    = "Past Due"
)

// RiskScoreEntry is one point in a risk score history. The date is a plain
// calendar date as returned by the server, not a timestamp.
type RiskScoreEntry struct {
	RiskScore float64 `json:"risk_score" yaml:"risk_score"`
	Date      string  `json:"date"       yaml:"date"`
}

// Group represents a user group in the KnowBe4 console.
type Group struct {
	ID               int              `json:"id"                 yaml:"id"`
	Name             string           `json:"name"               yaml:"name"`
	GroupType        string           `json:"group_type"         yaml:"group_type"`
	ADIGuid          string           `json:"adi_guid"           yaml:"adi_guid"`
	MemberCount      int              `json:"member_count"       yaml:"member_count"`
	CurrentRiskScore float64          `json:"current_risk_score" yaml:"current_risk_score"`
	RiskScoreHistory []RiskScoreEntry `json:"risk_score_history" yaml:"risk_score_history"`
	Status           string           `json:"status"             yaml:"status"`
}

// GroupRef is a reference to a Group embedded in another record. On the wire
// it is either a bare integer ID, a partial object carrying a "group_id" key,
// or (with expand=group) a full group object. Group is non-nil once the
// reference has been hydrated.
type GroupRef struct {
	ID    int
	Group *Group
}

// Resolved reports whether the reference has been hydrated.
func (r *GroupRef) Resolved() bool {
	return r.Group != nil
}

// UnmarshalJSON decodes the three wire shapes of a group reference.
func (r *GroupRef) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] != '{' {
		err := json.Unmarshal(trimmed, &r.ID)
		if err != nil {
			return err
		}

		return nil
	}

	var full Group

	err := json.Unmarshal(trimmed, &full)
	if err != nil {
		return err
	}

	if full.ID != 0 && full.Name != "" {
		r.ID = full.ID
		r.Group = &full

		return nil
	}

	var partial struct {
		GroupID int `json:"group_id"`
	}

	err = json.Unmarshal(trimmed, &partial)
	if err != nil {
		return err
	}

	if partial.GroupID != 0 {
		r.ID = partial.GroupID
	} else {
		r.ID = full.ID
	}

	return nil
}

// MarshalJSON emits the full group object when resolved, otherwise the bare ID.
func (r GroupRef) MarshalJSON() ([]byte, error) {
	if r.Group != nil {
		return json.Marshal(r.Group)
	}

	return json.Marshal(r.ID)
}

// User represents a user enrolled in the KnowBe4 console.
type User struct {
	ID                   int              `json:"id"                      yaml:"id"`
	EmployeeNumber       string           `json:"employee_number"         yaml:"employee_number"`
	FirstName            string           `json:"first_name"              yaml:"first_name"`
	LastName             string           `json:"last_name"               yaml:"last_name"`
	JobTitle             string           `json:"job_title"               yaml:"job_title"`
	Email                string           `json:"email"                   yaml:"email"`
	PhishPronePercentage float64          `json:"phish_prone_percentage"  yaml:"phish_prone_percentage"`
	PhoneNumber          string           `json:"phone_number"            yaml:"phone_number"`
	Extension            string           `json:"extension"               yaml:"extension"`
	MobilePhoneNumber    string           `json:"mobile_phone_number"     yaml:"mobile_phone_number"`
	Location             string           `json:"location"                yaml:"location"`
	Division             string           `json:"division"                yaml:"division"`
	ManagerName          string           `json:"manager_name"            yaml:"manager_name"`
	ManagerEmail         string           `json:"manager_email"           yaml:"manager_email"`
	ADIManageable        bool             `json:"adi_manageable"          yaml:"adi_manageable"`
	ADIGuid              string           `json:"adi_guid"                yaml:"adi_guid"`
	Groups               []GroupRef       `json:"groups"                  yaml:"groups"`
	CurrentRiskScore     float64          `json:"current_risk_score"      yaml:"current_risk_score"`
	RiskScoreHistory     []RiskScoreEntry `json:"risk_score_history"      yaml:"risk_score_history"`
	Aliases              []string         `json:"aliases"                 yaml:"aliases"`
	JoinedOn             *time.Time       `json:"joined_on"               yaml:"joined_on"`
	LastSignIn           *time.Time       `json:"last_sign_in"            yaml:"last_sign_in"`
	Status               string           `json:"status"                  yaml:"status"`
	Organization         string           `json:"organization"            yaml:"organization"`
	Department           string           `json:"department"              yaml:"department"`
	Language             string           `json:"language"                yaml:"language"`
	Comment              string           `json:"comment"                 yaml:"comment"`
	EmployeeStartDate    string           `json:"employee_start_date"     yaml:"employee_start_date"`
	ArchivedAt           *time.Time       `json:"archived_at"             yaml:"archived_at"`
	CustomField1         string           `json:"custom_field_1"          yaml:"custom_field_1"`
	CustomField2         string           `json:"custom_field_2"          yaml:"custom_field_2"`
	CustomField3         string           `json:"custom_field_3"          yaml:"custom_field_3"`
	CustomField4         string           `json:"custom_field_4"          yaml:"custom_field_4"`
	CustomDate1          string           `json:"custom_date_1"           yaml:"custom_date_1"`
	CustomDate2          string           `json:"custom_date_2"           yaml:"custom_date_2"`
}

// UserRef is a reference to a User embedded in another record, either a bare
// integer ID or a partial object with "id" and "email" keys. User is non-nil
// once the reference has been hydrated.
type UserRef struct {
	ID    int
	Email string
	User  *User
}

// Resolved reports whether the reference has been hydrated.
func (r *UserRef) Resolved() bool {
	return r.User != nil
}

// UnmarshalJSON decodes a bare ID or a partial user object.
func (r *UserRef) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] != '{' {
		err := json.Unmarshal(trimmed, &r.ID)
		if err != nil {
			return err
		}

		return nil
	}

	var partial struct {
		ID    int    `json:"id"`
		Email string `json:"email"`
	}

	err := json.Unmarshal(trimmed, &partial)
	if err != nil {
		return err
	}

	r.ID = partial.ID
	r.Email = partial.Email

	return nil
}

// MarshalJSON emits the full user object when resolved, otherwise the partial
// id/email shape seen on the wire.
func (r UserRef) MarshalJSON() ([]byte, error) {
	if r.User != nil {
		return json.Marshal(r.User)
	}

	partial := struct {
		ID    int    `json:"id"`
		Email string `json:"email,omitempty"`
	}{ID: r.ID, Email: r.Email}

	return json.Marshal(partial)
}

// TrainingContent describes one module or piece of content attached to a
// training campaign.
type TrainingContent struct {
	ContentType string `json:"content_type" yaml:"content_type"`
	Name        string `json:"name"         yaml:"name"`
	PolicyID    int    `json:"policy_id"    yaml:"policy_id"`
	Status      string `json:"status"       yaml:"status"`
}

// TrainingCampaign represents a training campaign and the groups it targets.
type TrainingCampaign struct {
	CampaignID               int               `json:"campaign_id"                yaml:"campaign_id"`
	Name                     string            `json:"name"                       yaml:"name"`
	Groups                   []GroupRef        `json:"groups"                     yaml:"groups"`
	Status                   string            `json:"status"                     yaml:"status"`
	Modules                  []TrainingContent `json:"modules"                    yaml:"modules"`
	Content                  []TrainingContent `json:"content"                    yaml:"content"`
	DurationType             string            `json:"duration_type"              yaml:"duration_type"`
	StartDate                *time.Time        `json:"start_date"                 yaml:"start_date"`
	EndDate                  *time.Time        `json:"end_date"                   yaml:"end_date"`
	RelativeDuration         string            `json:"relative_duration"          yaml:"relative_duration"`
	AutoEnroll               bool              `json:"auto_enroll"                yaml:"auto_enroll"`
	AllowMultipleEnrollments bool              `json:"allow_multiple_enrollments" yaml:"allow_multiple_enrollments"`
	CompletionPercentage     int               `json:"completion_percentage"      yaml:"completion_percentage"`
}

// TrainingEnrollment represents one (user, module) training pairing.
//
// The server reports a coarse status; a refined status is derived once at
// decode time from the raw status and the time spent (see DeriveEnrollmentStatus).
type TrainingEnrollment struct {
	EnrollmentID       int        `json:"enrollment_id"       yaml:"enrollment_id"`
	CampaignName       string     `json:"campaign_name"       yaml:"campaign_name"`
	ContentType        string     `json:"content_type"        yaml:"content_type"`
	ModuleName         string     `json:"module_name"         yaml:"module_name"`
	User               UserRef    `json:"user"                yaml:"user"`
	EnrollmentDate     *time.Time `json:"enrollment_date"     yaml:"enrollment_date"`
	StartDate          *time.Time `json:"start_date"          yaml:"start_date"`
	CompletionDate     *time.Time `json:"completion_date"     yaml:"completion_date"`
	Status             string     `json:"status"              yaml:"status"`
	TimeSpent          int        `json:"time_spent"          yaml:"time_spent"`
	PolicyAcknowledged bool       `json:"policy_acknowledged" yaml:"policy_acknowledged"`
}

type trainingEnrollmentAlias TrainingEnrollment

// UnmarshalJSON decodes an enrollment and applies the status derivation.
func (e *TrainingEnrollment) UnmarshalJSON(data []byte) error {
	var raw trainingEnrollmentAlias

	err := json.Unmarshal(data, &raw)
	if err != nil {
		return err
	}

	*e = TrainingEnrollment(raw)
	e.Status = DeriveEnrollmentStatus(e.Status, e.TimeSpent)

	return nil
}

// DeriveEnrollmentStatus refines the server-reported enrollment status using
// the recorded time spent. Unknown statuses pass through unchanged.
func DeriveEnrollmentStatus(status string, timeSpent int) string {
	switch {
	case status == StatusInProgress && timeSpent == 0:
		return StatusNotStarted
	case status == StatusPassed:
		return StatusCompleted
	case status == StatusPastDue && timeSpent > 0:
		return StatusInProgress
	case status == StatusPastDue && timeSpent == 0:
		return StatusNotStarted
	default:
		return status
	}
}

// StorePurchase represents content purchased from the ModStore.
type StorePurchase struct {
	StorePurchaseID int        `json:"store_purchase_id" yaml:"store_purchase_id"`
	ContentType     string     `json:"content_type"      yaml:"content_type"`
	Name            string     `json:"name"              yaml:"name"`
	Description     string     `json:"description"       yaml:"description"`
	Type            string     `json:"type"              yaml:"type"`
	Duration        int        `json:"duration"          yaml:"duration"`
	Retired         bool       `json:"retired"           yaml:"retired"`
	RetirementDate  *time.Time `json:"retirement_date"   yaml:"retirement_date"`
	PublishedDate   *time.Time `json:"published_date"    yaml:"published_date"`
	Publisher       string     `json:"publisher"         yaml:"publisher"`
	PurchaseDate    *time.Time `json:"purchase_date"     yaml:"purchase_date"`
	PolicyURL       string     `json:"policy_url"        yaml:"policy_url"`
}

// Policy represents an uploaded policy document.
type Policy struct {
	ID              int    `json:"id"               yaml:"id"`
	ContentType     string `json:"content_type"     yaml:"content_type"`
	Name            string `json:"name"             yaml:"name"`
	MinimumTime     int    `json:"minimum_time"     yaml:"minimum_time"`
	DefaultLanguage string `json:"default_language" yaml:"default_language"`
	Status          int    `json:"status"           yaml:"status"`
}

// NamedRef is a minimal id/name pair used for templates and landing pages.
type NamedRef struct {
	ID   int    `json:"id"   yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Category is a phishing template category.
type Category struct {
	CategoryID int    `json:"category_id" yaml:"category_id"`
	Name       string `json:"name"        yaml:"name"`
}

// PhishingSecurityTest represents one simulated-phishing run (PST). The count
// fields are terminal metrics and are never further resolved.
type PhishingSecurityTest struct {
	CampaignID            int        `json:"campaign_id"             yaml:"campaign_id"`
	PSTID                 int        `json:"pst_id"                  yaml:"pst_id"`
	Status                string     `json:"status"                  yaml:"status"`
	Name                  string     `json:"name"                    yaml:"name"`
	Groups                []GroupRef `json:"groups"                  yaml:"groups"`
	PhishPronePercentage  float64    `json:"phish_prone_percentage"  yaml:"phish_prone_percentage"`
	StartedAt             *time.Time `json:"started_at"              yaml:"started_at"`
	Duration              int        `json:"duration"                yaml:"duration"`
	Categories            []Category `json:"categories"              yaml:"categories"`
	Template              NamedRef   `json:"template"                yaml:"template"`
	Landing               NamedRef   `json:"landing"                 yaml:"landing"`
	ScheduledCount        int        `json:"scheduled_count"         yaml:"scheduled_count"`
	DeliveredCount        int        `json:"delivered_count"         yaml:"delivered_count"`
	OpenedCount           int        `json:"opened_count"            yaml:"opened_count"`
	ClickedCount          int        `json:"clicked_count"           yaml:"clicked_count"`
	RepliedCount          int        `json:"replied_count"           yaml:"replied_count"`
	AttachmentOpenCount   int        `json:"attachment_open_count"   yaml:"attachment_open_count"`
	MacroEnabledCount     int        `json:"macro_enabled_count"     yaml:"macro_enabled_count"`
	DataEnteredCount      int        `json:"data_entered_count"      yaml:"data_entered_count"`
	VulnerablePluginCount int        `json:"vulnerable_plugin_count" yaml:"vulnerable_plugin_count"`
	ExploitedCount        int        `json:"exploited_count"         yaml:"exploited_count"`
	ReportedCount         int        `json:"reported_count"          yaml:"reported_count"`
	BouncedCount          int        `json:"bounced_count"           yaml:"bounced_count"`
}

// PSTRef is a reference to a PhishingSecurityTest embedded in a campaign,
// either a bare integer ID or an object carrying a "pst_id" key. PST is
// non-nil once the reference has been hydrated.
type PSTRef struct {
	ID  int
	PST *PhishingSecurityTest
}

// Resolved reports whether the reference has been hydrated.
func (r *PSTRef) Resolved() bool {
	return r.PST != nil
}

// UnmarshalJSON decodes the wire shapes of a PST reference. Object shapes
// only yield the id; a partial object cannot be told apart from a full one,
// so both decode as unresolved and are re-fetched during hydration.
func (r *PSTRef) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] != '{' {
		err := json.Unmarshal(trimmed, &r.ID)
		if err != nil {
			return err
		}

		return nil
	}

	var partial struct {
		PSTID int `json:"pst_id"`
	}

	err := json.Unmarshal(trimmed, &partial)
	if err != nil {
		return err
	}

	r.ID = partial.PSTID

	return nil
}

// MarshalJSON emits the full PST object when resolved, otherwise the bare ID.
func (r PSTRef) MarshalJSON() ([]byte, error) {
	if r.PST != nil {
		return json.Marshal(r.PST)
	}

	return json.Marshal(r.ID)
}

// PhishingCampaign represents a phishing campaign, its target groups, and the
// security tests run under it.
type PhishingCampaign struct {
	CampaignID               int        `json:"campaign_id"                 yaml:"campaign_id"`
	Name                     string     `json:"name"                        yaml:"name"`
	Groups                   []GroupRef `json:"groups"                      yaml:"groups"`
	LastPhishPronePercentage float64    `json:"last_phish_prone_percentage" yaml:"last_phish_prone_percentage"`
	LastRun                  *time.Time `json:"last_run"                    yaml:"last_run"`
	Status                   string     `json:"status"                      yaml:"status"`
	Hidden                   bool       `json:"hidden"                      yaml:"hidden"`
	SendDuration             string     `json:"send_duration"               yaml:"send_duration"`
	TrackDuration            string     `json:"track_duration"              yaml:"track_duration"`
	Frequency                string     `json:"frequency"                   yaml:"frequency"`
	DifficultyFilter         []int      `json:"difficulty_filter"           yaml:"difficulty_filter"`
	CreateDate               *time.Time `json:"create_date"                 yaml:"create_date"`
	PSTsCount                int        `json:"psts_count"                  yaml:"psts_count"`
	PSTs                     []PSTRef   `json:"psts"                        yaml:"psts"`
}

// PhishingCampaignRecipient is one recipient's interaction timeline within a
// security test. The embedded user reference is kept as-is and never hydrated.
type PhishingCampaignRecipient struct {
	RecipientID         int        `json:"recipient_id"          yaml:"recipient_id"`
	PSTID               int        `json:"pst_id"                yaml:"pst_id"`
	User                UserRef    `json:"user"                  yaml:"user"`
	Template            NamedRef   `json:"template"              yaml:"template"`
	ScheduledAt         *time.Time `json:"scheduled_at"          yaml:"scheduled_at"`
	DeliveredAt         *time.Time `json:"delivered_at"          yaml:"delivered_at"`
	OpenedAt            *time.Time `json:"opened_at"             yaml:"opened_at"`
	ClickedAt           *time.Time `json:"clicked_at"            yaml:"clicked_at"`
	RepliedAt           *time.Time `json:"replied_at"            yaml:"replied_at"`
	AttachmentOpenedAt  *time.Time `json:"attachment_opened_at"  yaml:"attachment_opened_at"`
	MacroEnabledAt      *time.Time `json:"macro_enabled_at"      yaml:"macro_enabled_at"`
	DataEnteredAt       *time.Time `json:"data_entered_at"       yaml:"data_entered_at"`
	VulnerablePluginsAt *time.Time `json:"vulnerable_plugins_at" yaml:"vulnerable_plugins_at"`
	ExploitedAt         *time.Time `json:"exploited_at"          yaml:"exploited_at"`
	ReportedAt          *time.Time `json:"reported_at"           yaml:"reported_at"`
	BouncedAt           *time.Time `json:"bounced_at"            yaml:"bounced_at"`
	IP                  string     `json:"ip"                    yaml:"ip"`
	IPLocation          string     `json:"ip_location"           yaml:"ip_location"`
	Browser             string     `json:"browser"               yaml:"browser"`
	BrowserVersion      string     `json:"browser_version"       yaml:"browser_version"`
	OS                  string     `json:"os"                    yaml:"os"`
}

// Admin is one console administrator listed in the account response.
type Admin struct {
	ID        int    `json:"id"         yaml:"id"`
	FirstName string `json:"first_name" yaml:"first_name"`
	LastName  string `json:"last_name"  yaml:"last_name"`
	Email     string `json:"email"      yaml:"email"`
}

// Account represents the organization-level account record.
type Account struct {
	Name                string           `json:"name"                  yaml:"name"`
	Type                string           `json:"type"                  yaml:"type"`
	Domains             []string         `json:"domains"               yaml:"domains"`
	Admins              []Admin          `json:"admins"                yaml:"admins"`
	SubscriptionLevel   string           `json:"subscription_level"    yaml:"subscription_level"`
	SubscriptionEndDate string           `json:"subscription_end_date" yaml:"subscription_end_date"`
	NumberOfSeats       int              `json:"number_of_seats"       yaml:"number_of_seats"`
	CurrentRiskScore    float64          `json:"current_risk_score"    yaml:"current_risk_score"`
	RiskScoreHistory    []RiskScoreEntry `json:"risk_score_history"    yaml:"risk_score_history"`
}
