package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/taskboard-api/internal/database"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project and its members in a transaction
func (r *GormProjectRepository) Create(ctx context.Context, project *models.Project) error {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(project).Error; err != nil {
			return err
		}

		if len(project.Members) == 0 {
			return nil
		}
		prepareMembers(project)
		return tx.Create(&project.Members).Error
	})
	if isDuplicateKey(err) {
		return ErrDuplicateTitle
	}
	return err
}

// FindByID loads a project with members and tasks
func (r *GormProjectRepository) FindByID(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC").Order("task_index ASC")
		}).
		First(&project, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

// ListForUser lists the projects a user belongs to, newest first, without tasks
func (r *GormProjectRepository) ListForUser(ctx context.Context, userID string, params utils.PaginationParams) ([]models.Project, int64, error) {
	db := r.db.WithContext(ctx)

	memberOf := db.Model(&models.ProjectMember{}).
		Select("project_id").
		Where("user_id = ?", userID)
	query := db.Model(&models.Project{}).Where("id IN (?)", memberOf)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []models.Project
	if err := query.
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("created_at DESC").
		Scopes(database.Paginate(params)).
		Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// Save rewrites project metadata and the full member list
func (r *GormProjectRepository) Save(ctx context.Context, project *models.Project) error {
	project.UpdatedAt = time.Now()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Project{}).
			Where("id = ?", project.ID).
			Updates(map[string]interface{}{
				"title":       project.Title,
				"description": project.Description,
				"updated_at":  project.UpdatedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		if len(project.Members) == 0 {
			return nil
		}
		prepareMembers(project)
		return tx.Create(&project.Members).Error
	})
	if isDuplicateKey(err) {
		return ErrDuplicateTitle
	}
	return err
}

// Delete deletes a project and all related data in a transaction
func (r *GormProjectRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Project{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// AddTask inserts a task and assigns its index from the project's counter.
// The counter is bumped and read back inside one transaction, so concurrent
// creates never share an index. A counter lagging the stored tasks is first
// lifted to their highest index.
func (r *GormProjectRepository) AddTask(ctx context.Context, projectID string, task *models.Task) error {
	task.ProjectID = projectID
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		highest := tx.Model(&models.Task{}).
			Select("COALESCE(MAX(task_index), 0)").
			Where("project_id = ?", projectID)
		res := tx.Model(&models.Project{}).
			Where("id = ?", projectID).
			Updates(map[string]interface{}{
				"last_task_index": gorm.Expr("CASE WHEN last_task_index < (?) THEN (?) ELSE last_task_index END + 1", highest, highest),
				"updated_at":      time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		var index int
		if err := tx.Model(&models.Project{}).
			Select("last_task_index").
			Where("id = ?", projectID).
			Scan(&index).Error; err != nil {
			return err
		}
		task.Index = index

		return tx.Create(task).Error
	})
}

// UpdateTaskContent updates a task's title and description
func (r *GormProjectRepository) UpdateTaskContent(ctx context.Context, projectID string, task *models.Task) error {
	task.UpdatedAt = time.Now()
	return r.updateTask(ctx, projectID, task.ID, map[string]interface{}{
		"title":       task.Title,
		"description": task.Description,
		"updated_at":  task.UpdatedAt,
	})
}

// UpdateTaskPlacement moves a single task; each call is its own statement
func (r *GormProjectRepository) UpdateTaskPlacement(ctx context.Context, projectID, taskID string, stage models.Stage, order int) error {
	return r.updateTask(ctx, projectID, taskID, map[string]interface{}{
		"stage":      stage,
		"sort_order": order,
		"updated_at": time.Now(),
	})
}

// DeleteTask hard deletes a task
func (r *GormProjectRepository) DeleteTask(ctx context.Context, projectID, taskID string) error {
	res := r.db.WithContext(ctx).
		Where("project_id = ? AND id = ?", projectID, taskID).
		Delete(&models.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormProjectRepository) updateTask(ctx context.Context, projectID, taskID string, values map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("project_id = ? AND id = ?", projectID, taskID).
		Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// prepareMembers stamps the owning project and list position on each member row.
func prepareMembers(project *models.Project) {
	now := time.Now()
	for i := range project.Members {
		project.Members[i].ProjectID = project.ID
		project.Members[i].Position = i
		if project.Members[i].JoinedAt.IsZero() {
			project.Members[i].JoinedAt = now
		}
	}
}
