package database

import (
	"fmt"

	"github.com/yukikurage/taskboard-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AddIndexes adds the board and membership lookup indexes AutoMigrate does not
// derive from struct tags.
func AddIndexes(db *gorm.DB, log *zap.Logger) error {
	indexes := []struct {
		model   interface{}
		table   string
		name    string
		columns string
	}{
		// Board rendering reads tasks by stage and order
		{&models.Task{}, "tasks", "idx_tasks_project_stage_order", "project_id, stage, sort_order"},

		// ListForUser filters memberships by user
		{&models.ProjectMember{}, "project_members", "idx_project_members_user_id", "user_id"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			log.Debug("index already exists, skipping", zap.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("created index", zap.String("index", idx.name), zap.String("table", idx.table))
	}

	return nil
}
