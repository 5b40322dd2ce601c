package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/taskboard-api/internal/database"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/utils"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type ProjectRepositoryTestSuite struct {
	suite.Suite
	db    *gorm.DB
	repo  ProjectRepository
	users UserRepository
	ctx   context.Context
}

func (s *ProjectRepositoryTestSuite) SetupTest() {
	var err error
	s.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	s.Require().NoError(err)

	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	s.Require().NoError(database.Migrate(s.db, zap.NewNop()))

	s.repo = NewProjectRepository(s.db)
	s.users = NewUserRepository(s.db)
	s.ctx = context.Background()
}

func (s *ProjectRepositoryTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.Close()
}

func (s *ProjectRepositoryTestSuite) createProject(title string, members ...models.ProjectMember) *models.Project {
	project := &models.Project{Title: title, Members: members}
	s.Require().NoError(s.repo.Create(s.ctx, project))
	return project
}

func (s *ProjectRepositoryTestSuite) TestCreateAndFind() {
	created := s.createProject("Alpha",
		models.ProjectMember{UserID: "u1", Role: models.RoleOwner},
		models.ProjectMember{UserID: "u2", Role: models.RoleViewer},
	)
	s.NotEmpty(created.ID)

	found, err := s.repo.FindByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("Alpha", found.Title)
	s.Require().Len(found.Members, 2)
	s.Equal("u1", found.Members[0].UserID)
	s.Equal(models.RoleViewer, found.Members[1].Role)
	s.Empty(found.Tasks)
}

func (s *ProjectRepositoryTestSuite) TestCreate_DuplicateTitle() {
	s.createProject("Alpha")

	err := s.repo.Create(s.ctx, &models.Project{Title: "Alpha"})
	s.ErrorIs(err, ErrDuplicateTitle)
}

func (s *ProjectRepositoryTestSuite) TestFindByID_NotFound() {
	_, err := s.repo.FindByID(s.ctx, "missing")
	s.ErrorIs(err, ErrNotFound)
}

func (s *ProjectRepositoryTestSuite) TestListForUser() {
	s.createProject("One", models.ProjectMember{UserID: "u1", Role: models.RoleOwner})
	s.createProject("Two", models.ProjectMember{UserID: "u2", Role: models.RoleOwner})
	s.createProject("Three",
		models.ProjectMember{UserID: "u2", Role: models.RoleOwner},
		models.ProjectMember{UserID: "u1", Role: models.RoleMember},
	)

	projects, total, err := s.repo.ListForUser(s.ctx, "u1", utils.PaginationParams{Page: 1, Limit: 10})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Len(projects, 2)

	titles := []string{projects[0].Title, projects[1].Title}
	s.ElementsMatch([]string{"One", "Three"}, titles)

	projects, total, err = s.repo.ListForUser(s.ctx, "u1", utils.PaginationParams{Page: 2, Limit: 1, Offset: 1})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Len(projects, 1)
}

func (s *ProjectRepositoryTestSuite) TestSave_ReplacesMembers() {
	project := s.createProject("Alpha", models.ProjectMember{UserID: "u1", Role: models.RoleOwner})

	project.Title = "Alpha 2"
	project.Members = append(project.Members, models.ProjectMember{UserID: "u2", Role: models.RoleMember})
	project.Members[0].Role = models.RoleViewer
	s.Require().NoError(s.repo.Save(s.ctx, project))

	found, err := s.repo.FindByID(s.ctx, project.ID)
	s.Require().NoError(err)
	s.Equal("Alpha 2", found.Title)
	s.Require().Len(found.Members, 2)
	s.Equal(models.RoleViewer, found.Members[0].Role)
	s.Equal("u2", found.Members[1].UserID)
}

func (s *ProjectRepositoryTestSuite) TestSave_DuplicateTitle() {
	s.createProject("Alpha")
	beta := s.createProject("Beta")

	beta.Title = "Alpha"
	s.ErrorIs(s.repo.Save(s.ctx, beta), ErrDuplicateTitle)
}

func (s *ProjectRepositoryTestSuite) TestSave_Missing() {
	err := s.repo.Save(s.ctx, &models.Project{ID: "missing", Title: "Ghost"})
	s.ErrorIs(err, ErrNotFound)
}

func (s *ProjectRepositoryTestSuite) TestTaskLifecycle() {
	project := s.createProject("Alpha", models.ProjectMember{UserID: "u1", Role: models.RoleOwner})

	task := &models.Task{Title: "Write docs", Stage: models.StageRequested, Index: 1}
	s.Require().NoError(s.repo.AddTask(s.ctx, project.ID, task))
	s.NotEmpty(task.ID)

	task.Title = "Write better docs"
	s.Require().NoError(s.repo.UpdateTaskContent(s.ctx, project.ID, task))
	s.Require().NoError(s.repo.UpdateTaskPlacement(s.ctx, project.ID, task.ID, models.StageDone, 4))

	found, err := s.repo.FindByID(s.ctx, project.ID)
	s.Require().NoError(err)
	s.Equal(1, found.LastTaskIndex)
	got, ok := found.Task(task.ID)
	s.Require().True(ok)
	s.Equal("Write better docs", got.Title)
	s.Equal(models.StageDone, got.Stage)
	s.Equal(4, got.Order)
	s.Equal(1, got.Index)

	s.Require().NoError(s.repo.DeleteTask(s.ctx, project.ID, task.ID))
	s.ErrorIs(s.repo.DeleteTask(s.ctx, project.ID, task.ID), ErrNotFound)

	found, err = s.repo.FindByID(s.ctx, project.ID)
	s.Require().NoError(err)
	s.Empty(found.Tasks)

	next := &models.Task{Title: "Write more docs", Stage: models.StageRequested}
	s.Require().NoError(s.repo.AddTask(s.ctx, project.ID, next))
	s.Equal(2, next.Index, "deleted indexes are not handed out again")
}

func (s *ProjectRepositoryTestSuite) TestAddTask_IndexFromCounter() {
	project := s.createProject("Alpha")

	// A stale caller-supplied index is ignored.
	first := &models.Task{Title: "First", Index: 7}
	second := &models.Task{Title: "Second", Index: 7}
	s.Require().NoError(s.repo.AddTask(s.ctx, project.ID, first))
	s.Require().NoError(s.repo.AddTask(s.ctx, project.ID, second))
	s.Equal(1, first.Index)
	s.Equal(2, second.Index)

	found, err := s.repo.FindByID(s.ctx, project.ID)
	s.Require().NoError(err)
	s.Equal(2, found.LastTaskIndex)
}

func (s *ProjectRepositoryTestSuite) TestAddTask_ConcurrentCreates() {
	project := s.createProject("Alpha")

	const n = 8
	tasks := make([]*models.Task, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range tasks {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tasks[i] = &models.Task{Title: "Concurrent"}
			errs[i] = s.repo.AddTask(s.ctx, project.ID, tasks[i])
		}(i)
	}
	wg.Wait()

	seen := map[int]bool{}
	for i := range tasks {
		s.Require().NoError(errs[i])
		s.False(seen[tasks[i].Index], "index %d assigned twice", tasks[i].Index)
		seen[tasks[i].Index] = true
	}
	for want := 1; want <= n; want++ {
		s.True(seen[want], "index %d missing", want)
	}
}

func (s *ProjectRepositoryTestSuite) TestAddTask_CounterCatchesUpWithStoredTasks() {
	project := s.createProject("Alpha")
	s.Require().NoError(s.db.Create(&models.Task{ID: "legacy", ProjectID: project.ID, Title: "Imported", Index: 5}).Error)

	task := &models.Task{Title: "New"}
	s.Require().NoError(s.repo.AddTask(s.ctx, project.ID, task))
	s.Equal(6, task.Index)
}

func (s *ProjectRepositoryTestSuite) TestTaskWritesAreScopedToProject() {
	alpha := s.createProject("Alpha")
	beta := s.createProject("Beta")

	task := &models.Task{Title: "Only in alpha", Index: 1}
	s.Require().NoError(s.repo.AddTask(s.ctx, alpha.ID, task))

	s.ErrorIs(s.repo.UpdateTaskPlacement(s.ctx, beta.ID, task.ID, models.StageDone, 0), ErrNotFound)
	s.ErrorIs(s.repo.DeleteTask(s.ctx, beta.ID, task.ID), ErrNotFound)
	s.ErrorIs(s.repo.AddTask(s.ctx, "missing", &models.Task{Title: "x", Index: 1}), ErrNotFound)
}

func (s *ProjectRepositoryTestSuite) TestDelete() {
	project := s.createProject("Alpha", models.ProjectMember{UserID: "u1", Role: models.RoleOwner})
	s.Require().NoError(s.repo.AddTask(s.ctx, project.ID, &models.Task{Title: "t", Index: 1}))

	s.Require().NoError(s.repo.Delete(s.ctx, project.ID))
	_, err := s.repo.FindByID(s.ctx, project.ID)
	s.ErrorIs(err, ErrNotFound)

	var tasks int64
	s.Require().NoError(s.db.Model(&models.Task{}).Count(&tasks).Error)
	s.Zero(tasks)

	s.ErrorIs(s.repo.Delete(s.ctx, project.ID), ErrNotFound)
}

func (s *ProjectRepositoryTestSuite) TestUsers() {
	user := &models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	s.Require().NoError(s.users.Create(s.ctx, user))
	s.NotEmpty(user.ID)

	s.ErrorIs(s.users.Create(s.ctx, &models.User{Username: "alice2", Email: "alice@example.com"}), ErrDuplicateEmail)

	byEmail, err := s.users.FindByEmail(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(user.ID, byEmail.ID)

	_, err = s.users.FindByID(s.ctx, "missing")
	s.ErrorIs(err, ErrNotFound)

	found, err := s.users.FindByIDs(s.ctx, []string{user.ID, "missing"})
	s.Require().NoError(err)
	s.Len(found, 1)

	none, err := s.users.FindByIDs(s.ctx, nil)
	s.Require().NoError(err)
	s.Empty(none)
}

func TestProjectRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectRepositoryTestSuite))
}

func newMockRepository(t *testing.T) (ProjectRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("gorm: %v", err)
	}
	return NewProjectRepository(db), mock
}

func TestUpdateTaskPlacement_StorageFailure(t *testing.T) {
	repo, mock := newMockRepository(t)
	boom := errors.New("lost connection to MySQL server")

	mock.ExpectExec("UPDATE `tasks` SET").WillReturnError(boom)

	err := repo.UpdateTaskPlacement(context.Background(), "p1", "t1", models.StageDone, 0)
	if !errors.Is(err, boom) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatal("storage failure must not be reported as not found")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateTaskPlacement_NoRowsIsNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec("UPDATE `tasks` SET").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateTaskPlacement(context.Background(), "p1", "t1", models.StageDone, 0)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
