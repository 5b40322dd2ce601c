package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard-api/internal/dto"
	apierrors "github.com/yukikurage/taskboard-api/internal/errors"
	"github.com/yukikurage/taskboard-api/internal/services"
	"go.uber.org/zap"
)

type BoardHandler struct {
	boardService *services.BoardService
	log          *zap.Logger
}

func NewBoardHandler(boardService *services.BoardService, log *zap.Logger) *BoardHandler {
	return &BoardHandler{
		boardService: boardService,
		log:          log,
	}
}

// Reorder applies a drag-and-drop board snapshot. When some task writes fail
// the response is a 500 PARTIAL_FAILURE whose details list what was applied;
// resubmitting the same body is safe.
func (h *BoardHandler) Reorder(c *gin.Context) {
	userID, project, ok := projectCaller(c)
	if !ok {
		return
	}

	var req dto.ReorderRequest
	if !bindJSON(c, &req, apierrors.ValidationFailed) {
		return
	}

	result, err := h.boardService.Reorder(c.Request.Context(), project, userID, req.Snapshot())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	if result.Partial() {
		apierrors.PartialFailure(c, "Some tasks could not be moved; resubmit the board to retry", result)
		return
	}

	c.JSON(http.StatusOK, result)
}
