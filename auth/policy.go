package auth

import "github.com/talesoul/talesoul-api/models"

type Action string

const (
	ActionAdminAccess           Action = "admin.access"
	ActionCourseCreate          Action = "course.create"
	ActionCourseUpdate          Action = "course.update"
	ActionCourseDelete          Action = "course.delete"
	ActionCourseUploadMedia     Action = "course.upload_media"
	ActionCourseViewUnpublished Action = "course.view_unpublished"
	ActionEnrollmentProgress    Action = "enrollment.progress"
	ActionAvailabilityCreate    Action = "availability.create"
	ActionAvailabilityDelete    Action = "availability.delete"
	ActionBookingView           Action = "booking.view"
	ActionBookingUpdate         Action = "booking.update"
	ActionBookingCancel         Action = "booking.cancel"
	ActionBookingPay            Action = "booking.pay"
	ActionPostUpdate            Action = "post.update"
	ActionPostDelete            Action = "post.delete"
	ActionReplyDelete           Action = "reply.delete"
)

// Relation describes how the acting account relates to the record being acted on.
// For bookings the mentor is the owner and the requester is the participant.
type Relation int

const (
	RelationNone Relation = iota
	RelationOwner
	RelationParticipant
)

type rule struct {
	roles       []models.Role
	relations   []Relation
	adminBypass bool
	deny        string
}

var policy = map[Action]rule{
	ActionAdminAccess: {
		roles: []models.Role{models.RoleAdmin},
		deny:  "administrator access required",
	},
	ActionCourseCreate: {
		roles: []models.Role{models.RoleMentor, models.RoleAdmin},
		deny:  "only mentors and administrators can create courses",
	},
	ActionCourseUpdate: {
		relations:   []Relation{RelationOwner},
		adminBypass: true,
		deny:        "not authorized to update this course",
	},
	ActionCourseDelete: {
		relations:   []Relation{RelationOwner},
		adminBypass: true,
		deny:        "not authorized to delete this course",
	},
	ActionCourseUploadMedia: {
		relations: []Relation{RelationOwner},
		deny:      "not authorized to upload media for this course",
	},
	ActionCourseViewUnpublished: {
		relations: []Relation{RelationOwner},
		deny:      "course not found",
	},
	ActionEnrollmentProgress: {
		relations: []Relation{RelationOwner},
		deny:      "not authorized to update this enrollment",
	},
	ActionAvailabilityCreate: {
		roles: []models.Role{models.RoleMentor},
		deny:  "only mentors can manage availability",
	},
	ActionAvailabilityDelete: {
		relations: []Relation{RelationOwner},
		deny:      "not authorized to delete this availability slot",
	},
	ActionBookingView: {
		relations: []Relation{RelationOwner, RelationParticipant},
		deny:      "not authorized to view this booking",
	},
	ActionBookingUpdate: {
		relations: []Relation{RelationOwner},
		deny:      "only the mentor can update this booking",
	},
	ActionBookingCancel: {
		relations: []Relation{RelationOwner, RelationParticipant},
		deny:      "not authorized to cancel this booking",
	},
	ActionBookingPay: {
		relations: []Relation{RelationParticipant},
		deny:      "booking not found",
	},
	ActionPostUpdate: {
		relations: []Relation{RelationOwner},
		deny:      "not authorized to update this post",
	},
	ActionPostDelete: {
		relations: []Relation{RelationOwner},
		deny:      "not authorized to delete this post",
	},
	ActionReplyDelete: {
		relations: []Relation{RelationOwner},
		deny:      "not authorized to delete this reply",
	},
}

// Can is the single access policy: role membership first, then the relationship to the record.
func Can(role models.Role, action Action, rel Relation) bool {
	r, ok := policy[action]
	if !ok {
		return false
	}
	if len(r.roles) > 0 && !containsRole(r.roles, role) {
		return false
	}
	if len(r.relations) == 0 {
		return true
	}
	if r.adminBypass && role == models.RoleAdmin {
		return true
	}
	for _, allowed := range r.relations {
		if rel == allowed {
			return true
		}
	}
	return false
}

func containsRole(roles []models.Role, role models.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func denyMessage(action Action) string {
	if r, ok := policy[action]; ok && r.deny != "" {
		return r.deny
	}
	return "not enough permissions"
}

// OwnerRelation compares the acting account with a record's stored owner field.
func OwnerRelation(actorID, ownerID uint) Relation {
	if actorID == ownerID {
		return RelationOwner
	}
	return RelationNone
}

func BookingRelation(actorID uint, b *models.Booking) Relation {
	switch actorID {
	case b.MentorID:
		return RelationOwner
	case b.UserID:
		return RelationParticipant
	}
	return RelationNone
}
