package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskboard-api/internal/board"
	"github.com/yukikurage/taskboard-api/internal/constants"
	apierrors "github.com/yukikurage/taskboard-api/internal/errors"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/services"
	"go.uber.org/zap"
)

type flakyWriter struct {
	failing string
}

func (w flakyWriter) UpdateTaskPlacement(_ context.Context, _, taskID string, _ models.Stage, _ int) error {
	if taskID == w.failing {
		return errors.New("write timeout")
	}
	return nil
}

func boardTestContext(t *testing.T, body interface{}, userID string, project *models.Project) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/project/"+project.ID+"/todo", bytes.NewReader(raw))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(constants.ContextKeyUserID, userID)
	c.Set(constants.ContextKeyProject, project)
	return c, w
}

func boardProject() *models.Project {
	return &models.Project{
		ID:    "p1",
		Title: "Board",
		Members: []models.ProjectMember{
			{UserID: "owner", Role: models.RoleOwner},
			{UserID: "viewer", Role: models.RoleViewer},
		},
	}
}

func TestBoardHandler_PartialFailure(t *testing.T) {
	log := zap.NewNop()
	handler := NewBoardHandler(services.NewBoardService(board.NewEngine(flakyWriter{failing: "b"}, log), log), log)

	c, w := boardTestContext(t, gin.H{
		"todo": gin.H{"name": "To do", "items": []gin.H{{"id": "a"}, {"id": "b"}, {"id": "c"}}},
	}, "owner", boardProject())
	handler.Reorder(c)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp struct {
		Code    string       `json:"code"`
		Details board.Result `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, apierrors.ErrCodePartialFailure, resp.Code)
	assert.Len(t, resp.Details.Applied, 2)
	require.Len(t, resp.Details.Failed, 1)
	assert.Equal(t, "b", resp.Details.Failed[0].TaskID)
	assert.Equal(t, 1, resp.Details.Failed[0].Order)
}

func TestBoardHandler_ViewerDenied(t *testing.T) {
	log := zap.NewNop()
	handler := NewBoardHandler(services.NewBoardService(board.NewEngine(flakyWriter{}, log), log), log)

	c, w := boardTestContext(t, gin.H{
		"done": gin.H{"name": "Done", "items": []gin.H{{"_id": "a"}}},
	}, "viewer", boardProject())
	handler.Reorder(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBoardHandler_MalformedBody(t *testing.T) {
	log := zap.NewNop()
	handler := NewBoardHandler(services.NewBoardService(board.NewEngine(flakyWriter{}, log), log), log)

	c, w := boardTestContext(t, []string{"not", "a", "board"}, "owner", boardProject())
	handler.Reorder(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
