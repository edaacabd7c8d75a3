package models

type Role string

const (
	RoleUser           Role = "user"
	RoleMentor         Role = "mentor"
	RoleAdmin          Role = "admin"
	RoleInstituteAdmin Role = "institute_admin"
	RoleCompanyAdmin   Role = "company_admin"
)

var roles = []Role{RoleUser, RoleMentor, RoleAdmin, RoleInstituteAdmin, RoleCompanyAdmin}

func (r Role) Valid() bool {
	for _, known := range roles {
		if r == known {
			return true
		}
	}
	return false
}

func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

type MentorStatus string

const (
	MentorPending  MentorStatus = "pending"
	MentorApproved MentorStatus = "approved"
	MentorRejected MentorStatus = "rejected"
)

func (s MentorStatus) Valid() bool {
	return s == MentorPending || s == MentorApproved || s == MentorRejected
}

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

func (s BookingStatus) Terminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}
