package audit

import "testing"

func TestParseFullMethod(t *testing.T) {
	testCases := []struct {
		fullMethod   string
		wantAction   string
		wantResource string
		mutating     bool
	}{
		{"/taskflow.team.v1.TeamService/CreateTeam", "create", "team", true},
		{"/taskflow.team.v1.TeamService/GetMyTeam", "get", "team", false},
		{"/taskflow.team.v1.TeamService/Invite", "invite", "invitation", true},
		{"/taskflow.team.v1.TeamService/ListMyInvitations", "list", "invitation", false},
		{"/taskflow.team.v1.TeamService/RespondToInvite", "respond", "invitation", true},
		{"/taskflow.team.v1.TeamService/RemoveMember", "member_removed", "user", true},
		{"/taskflow.team.v1.TeamService/LeaveTeam", "member_left", "user", true},
		{"/taskflow.task.v1.TaskService/CreateTask", "create", "task", true},
		{"/taskflow.task.v1.TaskService/UpdateTask", "update", "task", true},
		{"/taskflow.task.v1.TaskService/ListTasks", "list", "task", false},
		{"/taskflow.task.v1.TaskService/DeleteTask", "delete", "task", true},
		{"/taskflow.task.v1.TaskService/RestoreTask", "restore", "task", true},
		{"/taskflow.task.v1.TaskService/PermanentDeleteTask", "purge", "task", true},
	}
	for _, tc := range testCases {
		t.Run(tc.fullMethod, func(t *testing.T) {
			ar := ParseFullMethod(tc.fullMethod)
			if ar.Action != tc.wantAction || ar.Resource != tc.wantResource {
				t.Errorf("ParseFullMethod = %+v, want %s/%s", ar, tc.wantAction, tc.wantResource)
			}
			if ar.Mutating() != tc.mutating {
				t.Errorf("Mutating = %v, want %v", ar.Mutating(), tc.mutating)
			}
		})
	}
}

func TestParseFullMethod_Malformed(t *testing.T) {
	testCases := []struct {
		name, fullMethod, wantAction, wantResource string
	}{
		{"no slash", "garbage", "unknown", "unknown"},
		{"no package", "/Service/Ping", "ping", "unknown"},
		{"bare service", "/pkg.Service/Sync", "sync", "unknown"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ar := ParseFullMethod(tc.fullMethod)
			if ar.Action != tc.wantAction || ar.Resource != tc.wantResource {
				t.Errorf("ParseFullMethod(%q) = %+v, want %s/%s", tc.fullMethod, ar, tc.wantAction, tc.wantResource)
			}
		})
	}
	if (ActionResource{Action: "unknown"}).Mutating() {
		t.Error("unknown action should not count as mutating")
	}
}
