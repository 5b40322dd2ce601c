package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProjectsCollection holds one document per project with members and tasks embedded.
const ProjectsCollection = "projects"

// MongoProjectRepository is a MongoDB implementation of ProjectRepository
type MongoProjectRepository struct {
	c *mongo.Collection
}

// NewMongoProjectRepository creates a ProjectRepository backed by the projects collection
func NewMongoProjectRepository(db *mongo.Database) ProjectRepository {
	return &MongoProjectRepository{c: db.Collection(ProjectsCollection)}
}

func (r *MongoProjectRepository) Create(ctx context.Context, project *models.Project) error {
	now := time.Now().UTC()
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	project.CreatedAt = now
	project.UpdatedAt = now
	if project.Members == nil {
		project.Members = []models.ProjectMember{}
	}
	if project.Tasks == nil {
		project.Tasks = []models.Task{}
	}
	for i := range project.Members {
		if project.Members[i].JoinedAt.IsZero() {
			project.Members[i].JoinedAt = now
		}
	}

	if _, err := r.c.InsertOne(ctx, project); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateTitle
		}
		return err
	}
	attachOwnership(project)
	return nil
}

func (r *MongoProjectRepository) FindByID(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&project); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	attachOwnership(&project)
	return &project, nil
}

func (r *MongoProjectRepository) ListForUser(ctx context.Context, userID string, params utils.PaginationParams) ([]models.Project, int64, error) {
	filter := bson.M{"members.user_id": userID}

	total, err := r.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetProjection(bson.M{"tasks": 0}).
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(params.Offset)).
		SetLimit(int64(params.Limit))
	cur, err := r.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var projects []models.Project
	if err := cur.All(ctx, &projects); err != nil {
		return nil, 0, err
	}
	for i := range projects {
		attachOwnership(&projects[i])
	}
	return projects, total, nil
}

// Save overwrites metadata and the member array of the stored document.
func (r *MongoProjectRepository) Save(ctx context.Context, project *models.Project) error {
	project.UpdatedAt = time.Now().UTC()
	members := project.Members
	if members == nil {
		members = []models.ProjectMember{}
	}

	res, err := r.c.UpdateByID(ctx, project.ID, bson.M{"$set": bson.M{
		"title":       project.Title,
		"description": project.Description,
		"members":     members,
		"updated_at":  project.UpdatedAt,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateTitle
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoProjectRepository) Delete(ctx context.Context, id string) error {
	res, err := r.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddTask reserves the next index with an atomic $inc and then pushes the
// task. A failed push burns the reserved index, which is never reused.
func (r *MongoProjectRepository) AddTask(ctx context.Context, projectID string, task *models.Task) error {
	now := time.Now().UTC()
	task.ProjectID = projectID
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	task.CreatedAt = now
	task.UpdatedAt = now

	var counter struct {
		LastTaskIndex int `bson:"last_task_index"`
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"last_task_index": 1})
	err := r.c.FindOneAndUpdate(ctx, bson.M{"_id": projectID},
		bson.M{"$inc": bson.M{"last_task_index": 1}}, opts).Decode(&counter)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	task.Index = counter.LastTaskIndex

	res, err := r.c.UpdateByID(ctx, projectID, bson.M{
		"$push": bson.M{"tasks": task},
		"$set":  bson.M{"updated_at": now},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoProjectRepository) UpdateTaskContent(ctx context.Context, projectID string, task *models.Task) error {
	task.UpdatedAt = time.Now().UTC()
	return r.updateTask(ctx, projectID, task.ID, bson.M{
		"tasks.$.title":       task.Title,
		"tasks.$.description": task.Description,
		"tasks.$.updated_at":  task.UpdatedAt,
	})
}

// UpdateTaskPlacement is a single-document positional update matched by task id.
func (r *MongoProjectRepository) UpdateTaskPlacement(ctx context.Context, projectID, taskID string, stage models.Stage, order int) error {
	return r.updateTask(ctx, projectID, taskID, bson.M{
		"tasks.$.stage":      stage,
		"tasks.$.order":      order,
		"tasks.$.updated_at": time.Now().UTC(),
	})
}

func (r *MongoProjectRepository) DeleteTask(ctx context.Context, projectID, taskID string) error {
	res, err := r.c.UpdateOne(ctx,
		bson.M{"_id": projectID, "tasks._id": taskID},
		bson.M{"$pull": bson.M{"tasks": bson.M{"_id": taskID}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoProjectRepository) updateTask(ctx context.Context, projectID, taskID string, set bson.M) error {
	res, err := r.c.UpdateOne(ctx,
		bson.M{"_id": projectID, "tasks._id": taskID},
		bson.M{"$set": set},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// attachOwnership fills the back-references that are implicit in the document layout.
func attachOwnership(project *models.Project) {
	for i := range project.Members {
		project.Members[i].ProjectID = project.ID
		project.Members[i].Position = i
	}
	for i := range project.Tasks {
		project.Tasks[i].ProjectID = project.ID
	}
}
