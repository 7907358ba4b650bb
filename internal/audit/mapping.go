package audit

import "strings"

// ActionResource holds action and resource derived from a gRPC full method name.
type ActionResource struct {
	Action   string
	Resource string
}

// Membership methods whose effect is on a user rather than on the team record.
const (
	teamRemoveMember = "/taskflow.team.v1.TeamService/RemoveMember"
	teamLeaveTeam    = "/taskflow.team.v1.TeamService/LeaveTeam"
)

// ParseFullMethod returns action and resource for a gRPC full method (e.g. /taskflow.task.v1.TaskService/DeleteTask).
// Action is a verb (get, list, create, update, delete, ...) or the lowercased method name.
// Resource is the method's object: the noun after the verb, or the service name without "Service".
func ParseFullMethod(fullMethod string) ActionResource {
	switch fullMethod {
	case teamRemoveMember:
		return ActionResource{Action: "member_removed", Resource: "user"}
	case teamLeaveTeam:
		return ActionResource{Action: "member_left", Resource: "user"}
	}
	// fullMethod format: /taskflow.package.v1.ServiceName/MethodName
	slash := strings.LastIndex(fullMethod, "/")
	if slash < 0 {
		return ActionResource{Action: "unknown", Resource: "unknown"}
	}
	method := fullMethod[slash+1:]
	beforeSlash := fullMethod[:slash]
	dot := strings.LastIndex(beforeSlash, ".")
	if dot < 0 {
		return ActionResource{Action: strings.ToLower(method), Resource: "unknown"}
	}
	action, noun := splitMethod(method)
	resource := nounToResource(noun)
	if resource == "" {
		resource = serviceToResource(beforeSlash[dot+1:])
	}
	return ActionResource{Action: action, Resource: resource}
}

// Mutating reports whether the action changes state. Reads are not audited.
func (ar ActionResource) Mutating() bool {
	return ar.Action != "get" && ar.Action != "list" && ar.Action != "unknown"
}

var verbs = []struct{ prefix, action string }{
	{"PermanentDelete", "purge"},
	{"RespondTo", "respond"},
	{"Get", "get"},
	{"List", "list"},
	{"Create", "create"},
	{"Update", "update"},
	{"Delete", "delete"},
	{"Restore", "restore"},
	{"Invite", "invite"},
	{"Remove", "remove"},
	{"Leave", "leave"},
}

// splitMethod splits e.g. "ListMyInvitations" into ("list", "MyInvitations").
func splitMethod(method string) (action, noun string) {
	for _, v := range verbs {
		if strings.HasPrefix(method, v.prefix) && method != v.prefix {
			return v.action, strings.TrimPrefix(method, v.prefix)
		}
	}
	if method == "Invite" {
		return "invite", "Invitation"
	}
	return strings.ToLower(method), ""
}

func nounToResource(noun string) string {
	noun = strings.TrimPrefix(noun, "My")
	noun = strings.TrimSuffix(noun, "s")
	if noun == "Invite" {
		noun = "Invitation"
	}
	if noun == "" {
		return ""
	}
	return strings.ToLower(noun[0:1]) + noun[1:]
}

func serviceToResource(serviceName string) string {
	// TaskService -> task, TeamService -> team
	s := strings.TrimSuffix(serviceName, "Service")
	if s == "" {
		return "unknown"
	}
	return strings.ToLower(s[0:1]) + s[1:]
}
