// Package handler exposes the task lifecycle over gRPC as taskflow.task.v1.TaskService.
package handler

import (
	"context"

	"google.golang.org/grpc"

	"taskflow/backend/internal/platform/ident"
	"taskflow/backend/internal/platform/rbac"
	"taskflow/backend/internal/platform/rpc"
	"taskflow/backend/internal/task/domain"
	"taskflow/backend/internal/task/service"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "taskflow.task.v1.TaskService"

// TaskServiceServer is the server API for TaskService.
type TaskServiceServer interface {
	CreateTask(context.Context, *CreateTaskRequest) (*CreateTaskResponse, error)
	GetTask(context.Context, *GetTaskRequest) (*GetTaskResponse, error)
	UpdateTask(context.Context, *UpdateTaskRequest) (*UpdateTaskResponse, error)
	ListTasks(context.Context, *ListTasksRequest) (*ListTasksResponse, error)
	DeleteTask(context.Context, *DeleteTaskRequest) (*DeleteTaskResponse, error)
	RestoreTask(context.Context, *RestoreTaskRequest) (*RestoreTaskResponse, error)
	PermanentDeleteTask(context.Context, *PermanentDeleteTaskRequest) (*PermanentDeleteTaskResponse, error)
}

// ServiceDesc describes TaskService for grpc.ServiceRegistrar.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TaskServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		rpc.Unary(ServiceName, "CreateTask", TaskServiceServer.CreateTask),
		rpc.Unary(ServiceName, "GetTask", TaskServiceServer.GetTask),
		rpc.Unary(ServiceName, "UpdateTask", TaskServiceServer.UpdateTask),
		rpc.Unary(ServiceName, "ListTasks", TaskServiceServer.ListTasks),
		rpc.Unary(ServiceName, "DeleteTask", TaskServiceServer.DeleteTask),
		rpc.Unary(ServiceName, "RestoreTask", TaskServiceServer.RestoreTask),
		rpc.Unary(ServiceName, "PermanentDeleteTask", TaskServiceServer.PermanentDeleteTask),
	},
	Metadata: "taskflow/task/v1/task.json",
}

// Register registers srv as TaskService on s.
func Register(s grpc.ServiceRegistrar, srv TaskServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Server implements TaskService over the task service.
type Server struct {
	svc *service.Service
}

// NewServer returns a TaskService server.
func NewServer(svc *service.Service) *Server {
	return &Server{svc: svc}
}

func (s *Server) CreateTask(ctx context.Context, req *CreateTaskRequest) (*CreateTaskResponse, error) {
	p, err := rbac.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	t, err := s.svc.CreateTask(ctx, p, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssignedTo:  ident.Parse(req.AssignedTo),
		TeamID:      ident.Parse(req.TeamID),
		Visibility:  domain.Visibility(req.Visibility),
		SharedWith:  ident.FromStrings(req.SharedWith),
		DueDate:     req.DueDate,
	})
	if err != nil {
		return nil, err
	}
	return &CreateTaskResponse{Task: taskToMessage(t)}, nil
}

func (s *Server) GetTask(ctx context.Context, req *GetTaskRequest) (*GetTaskResponse, error) {
	p, err := rbac.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	t, err := s.svc.GetTask(ctx, p, ident.Parse(req.ID), req.IncludeDeleted)
	if err != nil {
		return nil, err
	}
	return &GetTaskResponse{Task: taskToMessage(t)}, nil
}

func (s *Server) UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*UpdateTaskResponse, error) {
	p, err := rbac.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	t, err := s.svc.UpdateTask(ctx, p, ident.Parse(req.ID), service.UpdateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		Priority:     req.Priority,
		AssignedTo:   optionalID(req.AssignedTo),
		Visibility:   optionalVisibility(req.Visibility),
		SharedWith:   optionalIDs(req.SharedWith),
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDueDate,
	})
	if err != nil {
		return nil, err
	}
	return &UpdateTaskResponse{Task: taskToMessage(t)}, nil
}

func (s *Server) ListTasks(ctx context.Context, req *ListTasksRequest) (*ListTasksResponse, error) {
	p, err := rbac.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	res, err := s.svc.ListTasks(ctx, p, service.ListTasksInput{
		Status:    req.Status,
		Priority:  req.Priority,
		Search:    req.Search,
		PageSize:  req.PageSize,
		PageToken: req.PageToken,
	})
	if err != nil {
		return nil, err
	}
	out := &ListTasksResponse{Tasks: make([]*Task, 0, len(res.Tasks)), NextPageToken: res.NextPageToken}
	for _, t := range res.Tasks {
		out.Tasks = append(out.Tasks, taskToMessage(t))
	}
	return out, nil
}

func (s *Server) DeleteTask(ctx context.Context, req *DeleteTaskRequest) (*DeleteTaskResponse, error) {
	p, err := rbac.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.svc.DeleteTask(ctx, p, ident.Parse(req.ID)); err != nil {
		return nil, err
	}
	return &DeleteTaskResponse{}, nil
}

func (s *Server) RestoreTask(ctx context.Context, req *RestoreTaskRequest) (*RestoreTaskResponse, error) {
	p, err := rbac.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	t, err := s.svc.RestoreTask(ctx, p, ident.Parse(req.ID))
	if err != nil {
		return nil, err
	}
	return &RestoreTaskResponse{Task: taskToMessage(t)}, nil
}

func (s *Server) PermanentDeleteTask(ctx context.Context, req *PermanentDeleteTaskRequest) (*PermanentDeleteTaskResponse, error) {
	p, err := rbac.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.svc.PermanentDelete(ctx, p, ident.Parse(req.ID)); err != nil {
		return nil, err
	}
	return &PermanentDeleteTaskResponse{}, nil
}
