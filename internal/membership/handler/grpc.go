// Package handler exposes team membership over gRPC as taskflow.team.v1.TeamService.
package handler

import (
	"context"

	"google.golang.org/grpc"

	"taskflow/backend/internal/membership/service"
	"taskflow/backend/internal/platform/ident"
	"taskflow/backend/internal/platform/rbac"
	"taskflow/backend/internal/platform/rpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "taskflow.team.v1.TeamService"

// TeamServiceServer is the server API for TeamService.
type TeamServiceServer interface {
	CreateTeam(context.Context, *CreateTeamRequest) (*CreateTeamResponse, error)
	GetMyTeam(context.Context, *GetMyTeamRequest) (*GetMyTeamResponse, error)
	Invite(context.Context, *InviteRequest) (*InviteResponse, error)
	ListMyInvitations(context.Context, *ListMyInvitationsRequest) (*ListMyInvitationsResponse, error)
	RespondToInvite(context.Context, *RespondToInviteRequest) (*RespondToInviteResponse, error)
	RemoveMember(context.Context, *RemoveMemberRequest) (*RemoveMemberResponse, error)
	LeaveTeam(context.Context, *LeaveTeamRequest) (*LeaveTeamResponse, error)
}

// ServiceDesc describes TeamService for grpc.ServiceRegistrar.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TeamServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		rpc.Unary(ServiceName, "CreateTeam", TeamServiceServer.CreateTeam),
		rpc.Unary(ServiceName, "GetMyTeam", TeamServiceServer.GetMyTeam),
		rpc.Unary(ServiceName, "Invite", TeamServiceServer.Invite),
		rpc.Unary(ServiceName, "ListMyInvitations", TeamServiceServer.ListMyInvitations),
		rpc.Unary(ServiceName, "RespondToInvite", TeamServiceServer.RespondToInvite),
		rpc.Unary(ServiceName, "RemoveMember", TeamServiceServer.RemoveMember),
		rpc.Unary(ServiceName, "LeaveTeam", TeamServiceServer.LeaveTeam),
	},
	Metadata: "taskflow/team/v1/team.json",
}

// Register registers srv as TeamService on s.
func Register(s grpc.ServiceRegistrar, srv TeamServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Server implements TeamService over the membership service.
type Server struct {
	svc *service.Service
}

// NewServer returns a TeamService server.
func NewServer(svc *service.Service) *Server {
	return &Server{svc: svc}
}

func (s *Server) CreateTeam(ctx context.Context, req *CreateTeamRequest) (*CreateTeamResponse, error) {
	p, err := rbac.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	team, err := s.svc.CreateTeam(ctx, p.ID, service.CreateTeamInput{Name: req.Name, Description: req.Description})
	if err != nil {
		return nil, err
	}
	return &CreateTeamResponse{Team: teamToMessage(team)}, nil
}

func (s *Server) GetMyTeam(ctx context.Context, _ *GetMyTeamRequest) (*GetMyTeamResponse, error) {
	p, err := rbac.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	view, err := s.svc.GetMyTeam(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return &GetMyTeamResponse{Team: teamViewToMessage(view)}, nil
}

func (s *Server) Invite(ctx context.Context, req *InviteRequest) (*InviteResponse, error) {
	p, err := rbac.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	inv, err := s.svc.Invite(ctx, p.ID, req.Email)
	if err != nil {
		return nil, err
	}
	return &InviteResponse{Invitation: invitationToMessage(inv)}, nil
}

func (s *Server) ListMyInvitations(ctx context.Context, _ *ListMyInvitationsRequest) (*ListMyInvitationsResponse, error) {
	p, err := rbac.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	invs, err := s.svc.ListMyInvitations(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	out := make([]*Invitation, 0, len(invs))
	for _, inv := range invs {
		out = append(out, invitationToMessage(inv))
	}
	return &ListMyInvitationsResponse{Invitations: out}, nil
}

func (s *Server) RespondToInvite(ctx context.Context, req *RespondToInviteRequest) (*RespondToInviteResponse, error) {
	p, err := rbac.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	inv, err := s.svc.RespondToInvite(ctx, p.ID, ident.Parse(req.InvitationID), req.Accept)
	if err != nil {
		return nil, err
	}
	return &RespondToInviteResponse{Invitation: invitationToMessage(inv)}, nil
}

func (s *Server) RemoveMember(ctx context.Context, req *RemoveMemberRequest) (*RemoveMemberResponse, error) {
	p, err := rbac.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.svc.RemoveMember(ctx, p.ID, ident.Parse(req.MemberID)); err != nil {
		return nil, err
	}
	return &RemoveMemberResponse{}, nil
}

func (s *Server) LeaveTeam(ctx context.Context, _ *LeaveTeamRequest) (*LeaveTeamResponse, error) {
	p, err := rbac.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.svc.LeaveTeam(ctx, p.ID); err != nil {
		return nil, err
	}
	return &LeaveTeamResponse{}, nil
}
