package booking

import "github.com/campusdesk/campusdesk/pkg/directory"

// Action is something a signed-in user may be allowed to do.
type Action int

const (
	ActionFileReport Action = iota
	ActionBookMeeting
	ActionAddUser
	ActionStudentActivity
	ActionTutorTracker
	ActionExport
)

var allowed = map[Action][]directory.Role{
	ActionFileReport:      {directory.RoleStudent},
	ActionBookMeeting:     {directory.RoleStudent, directory.RolePersonalSupervisor},
	ActionAddUser:         {directory.RolePersonalSupervisor, directory.RoleSeniorTutor},
	ActionStudentActivity: {directory.RolePersonalSupervisor, directory.RoleSeniorTutor},
	ActionTutorTracker:    {directory.RoleSeniorTutor},
	ActionExport:          {directory.RolePersonalSupervisor, directory.RoleSeniorTutor},
}

// Can reports whether role may perform action.
func Can(role directory.Role, action Action) bool {
	for _, r := range allowed[action] {
		if r == role {
			return true
		}
	}
	return false
}
