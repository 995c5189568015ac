package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"task-management-backend/internal/cache"
	"task-management-backend/internal/models"
	"task-management-backend/internal/repository"
	"task-management-backend/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	statusTodo       uint = 1
	statusInProgress uint = 2
	statusDone       uint = 3
)

func newTaskService(t *testing.T, listCache ListCache) (*TaskService, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	svc := NewTaskService(
		repository.NewTaskRepo(db),
		repository.NewStatusRepo(db),
		repository.NewTaskShareRepo(db),
		repository.NewUserRepo(db),
		repository.NewAuditRepo(db),
		listCache,
		time.Hour,
		testutil.NewLogger(),
	)
	return svc, db
}

func newRedisCache(t *testing.T) (*miniredis.Miniredis, *cache.Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, cache.NewCache(client, testutil.NewLogger(), "tasks")
}

func taskInput(title string, statusID uint) TaskInput {
	return TaskInput{
		Title:    title,
		StatusID: statusID,
		DueDate:  time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestTaskService_CreateTask(t *testing.T) {
	svc, db := newTaskService(t, nil)
	ctx := context.Background()
	owner := seedUser(t, db, "owner", models.RoleAdmin)

	task, err := svc.CreateTask(ctx, taskInput("plan", statusTodo), owner.ID)
	require.NoError(t, err)
	assert.NotZero(t, task.ID)
	assert.Equal(t, owner.ID, task.UserID)

	_, err = svc.CreateTask(ctx, taskInput("bad", 99), owner.ID)
	assertAppError(t, err, http.StatusBadRequest, MsgInvalidStatusID)
}

func TestTaskService_ListTasksUsesCache(t *testing.T) {
	mr, listCache := newRedisCache(t)
	svc, db := newTaskService(t, listCache)
	ctx := context.Background()
	owner := seedUser(t, db, "owner", models.RoleAdmin)

	_, err := svc.ListTasks(ctx)
	assertAppError(t, err, http.StatusNotFound, MsgTaskNotFound)

	_, err = svc.CreateTask(ctx, taskInput("one", statusTodo), owner.ID)
	require.NoError(t, err)

	tasks, err := svc.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.NotNil(t, tasks[0].User)
	assert.Equal(t, "owner", tasks[0].User.UserName)
	assert.True(t, mr.Exists("tasks:"+CacheKeyAllTasks))

	// rows written behind the service are hidden by the cache
	require.NoError(t, db.Create(&models.Task{Title: "hidden", StatusID: statusTodo, UserID: owner.ID, DueDate: time.Now()}).Error)
	tasks, err = svc.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	// a service write invalidates
	_, err = svc.CreateTask(ctx, taskInput("two", statusTodo), owner.ID)
	require.NoError(t, err)
	assert.False(t, mr.Exists("tasks:"+CacheKeyAllTasks))

	tasks, err = svc.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 3)
}

func TestTaskService_CacheFailureFallsBackToStore(t *testing.T) {
	mr, listCache := newRedisCache(t)
	svc, db := newTaskService(t, listCache)
	ctx := context.Background()
	owner := seedUser(t, db, "owner", models.RoleAdmin)
	mr.Close()

	_, err := svc.CreateTask(ctx, taskInput("one", statusTodo), owner.ID)
	require.NoError(t, err)

	tasks, err := svc.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestTaskService_UpdateAndDeleteOwnerOnly(t *testing.T) {
	svc, db := newTaskService(t, nil)
	ctx := context.Background()
	owner := seedUser(t, db, "owner", models.RoleAdmin)
	other := seedUser(t, db, "other", models.RoleAdmin)

	task, err := svc.CreateTask(ctx, taskInput("draft", statusTodo), owner.ID)
	require.NoError(t, err)

	_, err = svc.UpdateTask(ctx, task.ID, taskInput("hijack", statusTodo), other.ID)
	assertAppError(t, err, http.StatusForbidden, MsgForbiddenUpdate)

	_, err = svc.UpdateTask(ctx, task.ID, taskInput("final", 42), owner.ID)
	assertAppError(t, err, http.StatusBadRequest, MsgInvalidStatusID)

	updated, err := svc.UpdateTask(ctx, task.ID, taskInput("final", statusDone), owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Title)
	assert.Equal(t, statusDone, updated.StatusID)

	_, err = svc.UpdateTask(ctx, 999, taskInput("x", statusTodo), owner.ID)
	assertAppError(t, err, http.StatusNotFound, MsgTaskNotFound)

	err = svc.DeleteTask(ctx, task.ID, other.ID)
	assertAppError(t, err, http.StatusForbidden, MsgForbiddenDelete)

	require.NoError(t, svc.DeleteTask(ctx, task.ID, owner.ID))
	_, err = svc.GetTask(ctx, task.ID)
	assertAppError(t, err, http.StatusNotFound, MsgTaskNotFound)
}

func TestTaskService_ShareAndAccess(t *testing.T) {
	svc, db := newTaskService(t, nil)
	ctx := context.Background()
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	assignee := seedUser(t, db, "assignee", models.RoleUser)
	stranger := seedUser(t, db, "stranger", models.RoleUser)

	task, err := svc.CreateTask(ctx, taskInput("shared", statusTodo), admin.ID)
	require.NoError(t, err)

	_, err = svc.ShareTask(ctx, task.ID, 999, admin.ID)
	assertAppError(t, err, http.StatusNotFound, MsgUserNotFound)

	_, err = svc.ShareTask(ctx, 999, assignee.ID, admin.ID)
	assertAppError(t, err, http.StatusNotFound, MsgTaskNotFound)

	share, err := svc.ShareTask(ctx, task.ID, assignee.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, share.TaskID)

	_, err = svc.ShareTask(ctx, task.ID, assignee.ID, admin.ID)
	assertAppError(t, err, http.StatusConflict, MsgTaskAlreadyShared)

	for _, tc := range []struct {
		user *models.User
		want bool
	}{
		{admin, true},
		{assignee, true},
		{stranger, false},
	} {
		ok, err := svc.CanAccessTask(ctx, task.ID, tc.user)
		require.NoError(t, err)
		assert.Equal(t, tc.want, ok, tc.user.UserName)
	}

	_, err = svc.CanAccessTask(ctx, 999, admin)
	assertAppError(t, err, http.StatusNotFound, MsgTaskNotFound)
}

func TestTaskService_MoveTaskAndGroupByStatus(t *testing.T) {
	mr, listCache := newRedisCache(t)
	svc, db := newTaskService(t, listCache)
	ctx := context.Background()
	owner := seedUser(t, db, "owner", models.RoleAdmin)

	a, err := svc.CreateTask(ctx, taskInput("a", statusTodo), owner.ID)
	require.NoError(t, err)
	_, err = svc.CreateTask(ctx, taskInput("b", statusTodo), owner.ID)
	require.NoError(t, err)

	grouped, err := svc.GroupByStatus(ctx)
	require.NoError(t, err)
	assert.Len(t, grouped[models.StatusTodo], 2)
	assert.Empty(t, grouped[models.StatusInProgress])
	assert.Contains(t, grouped, models.StatusDone)
	assert.True(t, mr.Exists("tasks:"+CacheKeyTasksByStatus))

	moved, err := svc.MoveTask(ctx, a.ID, statusInProgress, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, statusInProgress, moved.StatusID)
	assert.False(t, mr.Exists("tasks:"+CacheKeyTasksByStatus))

	_, err = svc.MoveTask(ctx, a.ID, 77, owner.ID)
	assertAppError(t, err, http.StatusBadRequest, MsgInvalidStatusID)

	grouped, err = svc.GroupByStatus(ctx)
	require.NoError(t, err)
	assert.Len(t, grouped[models.StatusTodo], 1)
	require.Len(t, grouped[models.StatusInProgress], 1)
	assert.Equal(t, "a", grouped[models.StatusInProgress][0].Title)
}

func TestTaskService_FilterTasks(t *testing.T) {
	svc, db := newTaskService(t, nil)
	ctx := context.Background()
	owner := seedUser(t, db, "owner", models.RoleAdmin)
	assignee := seedUser(t, db, "assignee", models.RoleUser)

	var ids []uint
	for _, title := range []string{"a", "b", "c", "d", "e"} {
		task, err := svc.CreateTask(ctx, taskInput(title, statusTodo), owner.ID)
		require.NoError(t, err)
		ids = append(ids, task.ID)
	}

	page, err := svc.FilterTasks(ctx, TaskQuery{SortBy: "title", Order: "ASC"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.TotalTasks)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
	require.Len(t, page.Tasks, 4)
	assert.Equal(t, "a", page.Tasks[0].Title)

	page, err = svc.FilterTasks(ctx, TaskQuery{SortBy: "title", Order: "ASC", Page: 2})
	require.NoError(t, err)
	require.Len(t, page.Tasks, 1)
	assert.Equal(t, "e", page.Tasks[0].Title)

	_, err = svc.FilterTasks(ctx, TaskQuery{SortBy: "password"})
	assertAppError(t, err, http.StatusBadRequest, "")

	_, err = svc.FilterTasks(ctx, TaskQuery{Order: "sideways"})
	assertAppError(t, err, http.StatusBadRequest, "")

	_, err = svc.FilterTasks(ctx, TaskQuery{SharedWith: assignee.ID})
	assertAppError(t, err, http.StatusNotFound, MsgNoSharedTasksFound)

	_, err = svc.ShareTask(ctx, ids[2], assignee.ID, owner.ID)
	require.NoError(t, err)
	page, err = svc.FilterTasks(ctx, TaskQuery{SharedWith: assignee.ID})
	require.NoError(t, err)
	require.Len(t, page.Tasks, 1)
	assert.Equal(t, "c", page.Tasks[0].Title)

	page, err = svc.FilterTasks(ctx, TaskQuery{StatusID: statusDone})
	require.NoError(t, err)
	assert.Empty(t, page.Tasks)
	assert.Zero(t, page.TotalPages)
}
