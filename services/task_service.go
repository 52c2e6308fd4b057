package services

// TaskService bundles the task write operations behind one value.
type TaskService struct {
	*TaskBuilder
	*AssignmentService
	*StatusTransitionService
}

func NewTaskService(builder *TaskBuilder, assignment *AssignmentService, status *StatusTransitionService) *TaskService {
	return &TaskService{TaskBuilder: builder, AssignmentService: assignment, StatusTransitionService: status}
}
