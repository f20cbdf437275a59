package taskservice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gotasks/internal/domain"
	apperror "gotasks/internal/errors"
	"gotasks/internal/pkg/logger"
	"gotasks/internal/policy"
	"gotasks/internal/service/taskservice"
)

// MockTaskRepository é uma implementação mock da interface TaskRepository
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	args := m.Called(ctx, task)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id string) (domain.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *MockTaskRepository) List(ctx context.Context, query domain.TaskQuery) ([]domain.Task, int, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]domain.Task), args.Int(1), args.Error(2)
}

func (m *MockTaskRepository) UpdateByID(ctx context.Context, id string, update domain.TaskUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockTaskRepository) DeleteByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskRepository) DeleteByAssignee(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserFinder é um mock do recorte de usuários usado pelo serviço de tarefas
type MockUserFinder struct {
	mock.Mock
}

func (m *MockUserFinder) FindByID(ctx context.Context, id string) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

func newService(repo *MockTaskRepository, users *MockUserFinder) *taskservice.Service {
	return taskservice.NewService(repo, users, policy.New(), logger.NewLogger("debug"))
}

func adminPrincipal() domain.Principal {
	return domain.Principal{ID: uuid.New().String(), Role: domain.RoleAdmin}
}

func userPrincipal() domain.Principal {
	return domain.Principal{ID: uuid.New().String(), Role: domain.RoleUser}
}

// TestCreateTask_Success testa a criação com destinatário existente.
func TestCreateTask_Success(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockUsers := new(MockUserFinder)
	svc := newService(mockRepo, mockUsers)

	admin := adminPrincipal()
	assignee := domain.User{ID: uuid.New().String(), Name: "Maria", Email: "maria@example.com", Role: domain.RoleUser}

	mockUsers.On("FindByID", mock.Anything, assignee.ID).Return(assignee, nil)
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(task domain.Task) bool {
		return task.Status == domain.StatusPending &&
			task.CreatedBy == admin.ID &&
			task.AssignedTo.ID == assignee.ID &&
			task.AssignedTo.Resolved
	})).Return(domain.Task{ID: uuid.New().String(), Status: domain.StatusPending}, nil)

	created, err := svc.CreateTask(context.Background(), admin, domain.TaskCreation{
		Title:       "Relatório mensal",
		Description: "Fechar números de agosto",
		AssignedTo:  assignee.ID,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusPending, created.Status)
	mockRepo.AssertExpectations(t)
	mockUsers.AssertExpectations(t)
}

// TestCreateTask_Fail_NonAdmin testa que não-admin não cria tarefas.
func TestCreateTask_Fail_NonAdmin(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockUsers := new(MockUserFinder)
	svc := newService(mockRepo, mockUsers)

	_, err := svc.CreateTask(context.Background(), userPrincipal(), domain.TaskCreation{
		Title:       "Relatório mensal",
		Description: "Fechar números de agosto",
		AssignedTo:  uuid.New().String(),
	})

	var forbidden *apperror.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// TestCreateTask_Fail_MissingFields testa os campos obrigatórios.
func TestCreateTask_Fail_MissingFields(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockUsers := new(MockUserFinder)
	svc := newService(mockRepo, mockUsers)

	_, err := svc.CreateTask(context.Background(), adminPrincipal(), domain.TaskCreation{
		Title: "Sem descrição nem destinatário",
	})

	var validation *apperror.ValidationError
	assert.ErrorAs(t, err, &validation)
}

// TestCreateTask_Fail_AssigneeNotFound testa a checagem de existência do
// destinatário antes da gravação.
func TestCreateTask_Fail_AssigneeNotFound(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockUsers := new(MockUserFinder)
	svc := newService(mockRepo, mockUsers)

	missing := uuid.New().String()
	mockUsers.On("FindByID", mock.Anything, missing).
		Return(domain.User{}, apperror.NewNotFoundError("Usuário não encontrado."))

	_, err := svc.CreateTask(context.Background(), adminPrincipal(), domain.TaskCreation{
		Title:       "Relatório mensal",
		Description: "Fechar números de agosto",
		AssignedTo:  missing,
	})

	var notFound *apperror.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// TestCreateTask_Fail_InvalidAssigneeID testa a validação de formato do ID
// antes de qualquer acesso a dados.
func TestCreateTask_Fail_InvalidAssigneeID(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockUsers := new(MockUserFinder)
	svc := newService(mockRepo, mockUsers)

	_, err := svc.CreateTask(context.Background(), adminPrincipal(), domain.TaskCreation{
		Title:       "Relatório mensal",
		Description: "Fechar números de agosto",
		AssignedTo:  "nao-e-um-uuid",
	})

	var validation *apperror.ValidationError
	assert.ErrorAs(t, err, &validation)
	mockUsers.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

// TestListTasks_User_ScopeForcedToSelf testa que o escopo de um não-admin
// ignora o filtro assigned_to pedido.
func TestListTasks_User_ScopeForcedToSelf(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockUsers := new(MockUserFinder)
	svc := newService(mockRepo, mockUsers)

	user := userPrincipal()
	mockRepo.On("List", mock.Anything, mock.MatchedBy(func(q domain.TaskQuery) bool {
		return q.Scope.AssignedTo == user.ID && q.Page == 1 && q.Limit == 10
	})).Return([]domain.Task{}, 0, nil)

	page, err := svc.ListTasks(context.Background(), user, domain.TaskQuery{
		AssignedTo: uuid.New().String(), // deve ser ignorado
	})

	assert.NoError(t, err)
	assert.Equal(t, 0, page.Pagination.TotalTasks)
	mockRepo.AssertExpectations(t)
}

// TestListTasks_Admin_InvalidAssigneeFilter testa a rejeição de filtro de
// destinatário malformado.
func TestListTasks_Admin_InvalidAssigneeFilter(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockUsers := new(MockUserFinder)
	svc := newService(mockRepo, mockUsers)

	_, err := svc.ListTasks(context.Background(), adminPrincipal(), domain.TaskQuery{
		AssignedTo: "xyz",
	})

	var validation *apperror.ValidationError
	assert.ErrorAs(t, err, &validation)
	mockRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

// TestListTasks_PaginationAndFilterEcho testa os metadados e o eco de filtros.
func TestListTasks_PaginationAndFilterEcho(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockUsers := new(MockUserFinder)
	svc := newService(mockRepo, mockUsers)

	tasks := []domain.Task{{ID: uuid.New().String()}, {ID: uuid.New().String()}}
	mockRepo.On("List", mock.Anything, mock.Anything).Return(tasks, 25, nil)

	page, err := svc.ListTasks(context.Background(), adminPrincipal(), domain.TaskQuery{
		Status: "pending",
		Page:   2,
		Limit:  10,
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, page.Pagination.CurrentPage)
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.Equal(t, 25, page.Pagination.TotalTasks)
	assert.True(t, page.Pagination.HasNextPage)
	assert.True(t, page.Pagination.HasPrevPage)
	assert.Equal(t, "pending", page.Filters.Status)
	assert.Equal(t, "all", page.Filters.AssignedTo)
	assert.Equal(t, "created_at", page.Filters.SortBy)
	assert.Equal(t, "asc", page.Filters.Order)
}

// TestGetTaskByID_User_ForeignTask_Forbidden testa que a tarefa existe mas
// não pertence ao principal: 403, não 404.
func TestGetTaskByID_User_ForeignTask_Forbidden(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockUsers := new(MockUserFinder)
	svc := newService(mockRepo, mockUsers)

	id := uuid.New().String()
	mockRepo.On("FindByID", mock.Anything, id).Return(domain.Task{
		ID:         id,
		AssignedTo: domain.Assignee{ID: uuid.New().String(), Resolved: true},
	}, nil)

	_, err := svc.GetTaskByID(context.Background(), userPrincipal(), id)

	var forbidden *apperror.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)
}

// TestUpdateTask_User_StatusOnly testa o fluxo feliz do não-admin.
func TestUpdateTask_User_StatusOnly(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockUsers := new(MockUserFinder)
	svc := newService(mockRepo, mockUsers)

	user := userPrincipal()
	id := uuid.New().String()
	existing := domain.Task{ID: id, AssignedTo: domain.Assignee{ID: user.ID, Resolved: true}, Status: domain.StatusPending}
	updated := existing
	updated.Status = domain.StatusCompleted

	status := "completed"
	update := domain.TaskUpdate{Status: &status, Fields: []string{"status"}}

	mockRepo.On("FindByID", mock.Anything, id).Return(existing, nil).Once()
	mockRepo.On("UpdateByID", mock.Anything, id, update).Return(nil)
	mockRepo.On("FindByID", mock.Anything, id).Return(updated, nil).Once()

	result, err := svc.UpdateTask(context.Background(), user, id, update)

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, result.Status)
	mockRepo.AssertExpectations(t)
}

// TestUpdateTask_User_ExtraField_NothingWritten testa a rejeição por inteiro:
// o payload com title não grava nem mesmo o status.
func TestUpdateTask_User_ExtraField_NothingWritten(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockUsers := new(MockUserFinder)
	svc := newService(mockRepo, mockUsers)

	user := userPrincipal()
	id := uuid.New().String()
	mockRepo.On("FindByID", mock.Anything, id).Return(domain.Task{
		ID:         id,
		AssignedTo: domain.Assignee{ID: user.ID, Resolved: true},
	}, nil)

	status := "completed"
	title := "Novo título"
	_, err := svc.UpdateTask(context.Background(), user, id, domain.TaskUpdate{
		Status: &status,
		Title:  &title,
		Fields: []string{"status", "title"},
	})

	var forbidden *apperror.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)
	mockRepo.AssertNotCalled(t, "UpdateByID", mock.Anything, mock.Anything, mock.Anything)
}

// TestUpdateTask_Fail_InvalidStatus testa a validação do enum de status
// depois da autorização.
func TestUpdateTask_Fail_InvalidStatus(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockUsers := new(MockUserFinder)
	svc := newService(mockRepo, mockUsers)

	id := uuid.New().String()
	mockRepo.On("FindByID", mock.Anything, id).Return(domain.Task{ID: id}, nil)

	status := "done"
	_, err := svc.UpdateTask(context.Background(), adminPrincipal(), id, domain.TaskUpdate{
		Status: &status,
		Fields: []string{"status"},
	})

	var validation *apperror.ValidationError
	assert.ErrorAs(t, err, &validation)
	mockRepo.AssertNotCalled(t, "UpdateByID", mock.Anything, mock.Anything, mock.Anything)
}

// TestUpdateTask_Admin_ReassignToMissingUser testa a reatribuição a um
// usuário inexistente.
func TestUpdateTask_Admin_ReassignToMissingUser(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockUsers := new(MockUserFinder)
	svc := newService(mockRepo, mockUsers)

	id := uuid.New().String()
	missing := uuid.New().String()
	mockRepo.On("FindByID", mock.Anything, id).Return(domain.Task{ID: id}, nil)
	mockUsers.On("FindByID", mock.Anything, missing).
		Return(domain.User{}, apperror.NewNotFoundError("Usuário não encontrado."))

	_, err := svc.UpdateTask(context.Background(), adminPrincipal(), id, domain.TaskUpdate{
		AssignedTo: &missing,
		Fields:     []string{"assigned_to"},
	})

	var notFound *apperror.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	mockRepo.AssertNotCalled(t, "UpdateByID", mock.Anything, mock.Anything, mock.Anything)
}

// TestUpdateTask_Fail_NotFound testa o ID bem formado mas inexistente.
func TestUpdateTask_Fail_NotFound(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockUsers := new(MockUserFinder)
	svc := newService(mockRepo, mockUsers)

	id := uuid.New().String()
	mockRepo.On("FindByID", mock.Anything, id).
		Return(domain.Task{}, apperror.NewNotFoundError("Tarefa não encontrada."))

	status := "completed"
	_, err := svc.UpdateTask(context.Background(), adminPrincipal(), id, domain.TaskUpdate{
		Status: &status,
		Fields: []string{"status"},
	})

	var notFound *apperror.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

// TestDeleteTask_Fail_NonAdmin testa que não-admin não exclui tarefas.
func TestDeleteTask_Fail_NonAdmin(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockUsers := new(MockUserFinder)
	svc := newService(mockRepo, mockUsers)

	err := svc.DeleteTask(context.Background(), userPrincipal(), uuid.New().String())

	var forbidden *apperror.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)
	mockRepo.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
}

// TestDeleteTask_Success testa a exclusão pelo admin.
func TestDeleteTask_Success(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockUsers := new(MockUserFinder)
	svc := newService(mockRepo, mockUsers)

	id := uuid.New().String()
	mockRepo.On("DeleteByID", mock.Anything, id).Return(nil)

	assert.NoError(t, svc.DeleteTask(context.Background(), adminPrincipal(), id))
	mockRepo.AssertExpectations(t)
}

// TestDeleteTask_Fail_RepoError propaga erro de infraestrutura.
func TestDeleteTask_Fail_RepoError(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockUsers := new(MockUserFinder)
	svc := newService(mockRepo, mockUsers)

	id := uuid.New().String()
	dbErr := apperror.NewDBError("Falha ao excluir tarefa", errors.New("connection reset"))
	mockRepo.On("DeleteByID", mock.Anything, id).Return(dbErr)

	err := svc.DeleteTask(context.Background(), adminPrincipal(), id)

	assert.Error(t, err)
	var internal *apperror.InternalError
	assert.ErrorAs(t, err, &internal)
}
