package identity

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	EventUserCreated         = "user.created"
	EventUserUpdated         = "user.updated"
	EventUserDeleted         = "user.deleted"
	EventOrganizationCreated = "organization.created"
	EventOrganizationUpdated = "organization.updated"
	EventOrganizationDeleted = "organization.deleted"
	EventMembershipCreated   = "organization_membership.created"
	EventMembershipUpdated   = "organization_membership.updated"
	EventMembershipDeleted   = "organization_membership.deleted"
)

// Event is a webhook envelope. The provider names the type in "event";
// "type" is accepted as well.
type Event struct {
	ID   string          `json:"id"`
	Name string          `json:"event"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ParseEvent decodes a verified webhook body.
func ParseEvent(body []byte) (*Event, error) {
	var evt Event
	if err := json.Unmarshal(body, &evt); err != nil {
		return nil, fmt.Errorf("decoding event: %w", err)
	}
	if evt.Kind() == "" {
		return nil, fmt.Errorf("decoding event: missing event type")
	}
	return &evt, nil
}

// Kind is the normalized event type, e.g. organization_membership.created
// for both that name and organizationMembership.created.
func (e *Event) Kind() string {
	kind := e.Name
	if kind == "" {
		kind = e.Type
	}
	return strings.Replace(kind, "organizationMembership.", "organization_membership.", 1)
}

type UserData struct {
	ID                string `json:"id"`
	Email             string `json:"email"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	ProfilePictureURL string `json:"profile_picture_url"`
	ImageURL          string `json:"image_url"`
	EmailAddresses    []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

func (d UserData) User() User {
	u := User{
		ExternalID:        d.ID,
		Email:             d.Email,
		FirstName:         d.FirstName,
		LastName:          d.LastName,
		ProfilePictureURL: d.ProfilePictureURL,
	}
	if u.Email == "" && len(d.EmailAddresses) > 0 {
		u.Email = d.EmailAddresses[0].EmailAddress
	}
	if u.ProfilePictureURL == "" {
		u.ProfilePictureURL = d.ImageURL
	}
	return u
}

type OrganizationData struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	ImageURL string `json:"image_url"`
}

// RoleRef accepts both {"slug":"admin"} and a bare "org:admin".
type RoleRef struct {
	Slug string
}

func (r *RoleRef) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		r.Slug = s
		return nil
	}
	var obj struct {
		Slug string `json:"slug"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("decoding role: %w", err)
	}
	r.Slug = obj.Slug
	return nil
}

type MembershipData struct {
	ID             string            `json:"id"`
	UserID         string            `json:"user_id"`
	OrganizationID string            `json:"organization_id"`
	Role           RoleRef           `json:"role"`
	Status         string            `json:"status"`
	Organization   *OrganizationData `json:"organization"`
	PublicUserData *struct {
		UserID string `json:"user_id"`
	} `json:"public_user_data"`
}

// UserExternalID is the member's provider user id, whichever field carries it.
func (d MembershipData) UserExternalID() string {
	if d.UserID != "" {
		return d.UserID
	}
	if d.PublicUserData != nil {
		return d.PublicUserData.UserID
	}
	return ""
}

// Org returns what the payload says about the organization. The id falls
// back to organization_id when no nested object is sent.
func (d MembershipData) Org() OrganizationData {
	var org OrganizationData
	if d.Organization != nil {
		org = *d.Organization
	}
	if org.ID == "" {
		org.ID = d.OrganizationID
	}
	return org
}

// Decode unmarshals the event data into v.
func (e *Event) Decode(v any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("event %s has no data", e.Kind())
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("decoding %s data: %w", e.Kind(), err)
	}
	return nil
}
