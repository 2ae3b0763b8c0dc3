package example

type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleMember Role = "MEMBER"
)

type Permission string

const (
	PermMonitorsRead Permission = "monitors:read"
)

type InvitationStatus string

const (
	InvitationStatusPending InvitationStatus = "pending"
)

type Membership struct {
	Role Role
	Note string
}

type Invitation struct {
	Status InvitationStatus
}

type APIKey struct {
	Permissions []Permission
	Primary     Permission
}

func bad() {
	m := &Membership{}
	m.Role = "SUPERUSER" // want "enum field Role assigned string literal"

	inv := &Invitation{}
	inv.Status = "pending" // want "enum field Status assigned string literal"

	_ = Membership{Role: "OWNER"}        // want "enum field Role assigned string literal"
	_ = APIKey{Primary: "monitors:read"} // want "enum field Primary assigned string literal"
}

func good() {
	m := &Membership{}
	m.Role = RoleMember // OK: using constant
	m.Note = "promoted" // OK: not an enum

	inv := &Invitation{Status: InvitationStatusPending}
	_ = inv

	_ = APIKey{Primary: PermMonitorsRead}
}

func alsoGood() {
	// OK: Variable, not literal
	role := RoleOwner
	m := Membership{Role: role}
	_ = m
}
