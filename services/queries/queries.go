package queries

import "github.com/lohszeying/api-task-assignment/interfaces"

var (
	_ interfaces.Query = (*ListTasksQuery)(nil)
	_ interfaces.Query = (*GetTaskQuery)(nil)
	_ interfaces.Query = (*ListSkillsQuery)(nil)
	_ interfaces.Query = (*ListStatusesQuery)(nil)
	_ interfaces.Query = (*ListDevelopersQuery)(nil)
	_ interfaces.Query = (*ListTaskActivityQuery)(nil)
	_ interfaces.Query = (*ListNotificationsQuery)(nil)
)
