package echo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	app "github.com/mohammadpnp/product-import/internal/application/catalog"
	domain "github.com/mohammadpnp/product-import/internal/domain/catalog"
)

type importStarter interface {
	Execute(ctx context.Context, in app.StartImportInput) (app.StartImportOutput, error)
}

type progressGetter interface {
	Execute(ctx context.Context, jobID string) (app.JobSnapshot, error)
}

type progressStreamer interface {
	Stream(ctx context.Context, jobID string, emit func(app.StreamEvent) error) error
}

type ImportHandler struct {
	startImport importStarter
	progress    progressGetter
	streamer    progressStreamer
}

func NewImportHandler(startImport importStarter, progress progressGetter, streamer progressStreamer) *ImportHandler {
	return &ImportHandler{
		startImport: startImport,
		progress:    progress,
		streamer:    streamer,
	}
}

func (h *ImportHandler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
			Code:    "no_file",
			Message: "no file provided",
		}})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, apiResponse{Error: &errorBody{
			Code:    "internal_error",
			Message: "failed to read uploaded file",
		}})
	}
	defer src.Close()

	out, err := h.startImport.Execute(c.Request().Context(), app.StartImportInput{
		Filename: fileHeader.Filename,
		Content:  src,
	})
	if err != nil {
		if errors.Is(err, app.ErrNoFile) || errors.Is(err, app.ErrInvalidFileType) {
			return c.JSON(http.StatusBadRequest, apiResponse{Error: &errorBody{
				Code:    "invalid_file",
				Message: "only CSV files are allowed",
			}})
		}
		return c.JSON(http.StatusInternalServerError, apiResponse{Error: &errorBody{
			Code:    "internal_error",
			Message: "failed to enqueue import job",
		}})
	}

	return c.JSON(http.StatusAccepted, apiResponse{Data: out})
}

func (h *ImportHandler) Progress(c echo.Context) error {
	snapshot, err := h.progress.Execute(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			return c.JSON(http.StatusNotFound, apiResponse{Error: &errorBody{
				Code:    "not_found",
				Message: "import job not found",
			}})
		}
		return c.JSON(http.StatusInternalServerError, apiResponse{Error: &errorBody{
			Code:    "internal_error",
			Message: "failed to read import job",
		}})
	}

	return c.JSON(http.StatusOK, apiResponse{Data: snapshot})
}

// StreamProgress pushes job snapshots as a server-sent event stream until
// the job reaches a terminal status or the client disconnects.
func (h *ImportHandler) StreamProgress(c echo.Context) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.Header().Set("X-Accel-Buffering", "no")
	res.WriteHeader(http.StatusOK)

	err := h.streamer.Stream(c.Request().Context(), c.Param("id"), func(event app.StreamEvent) error {
		var payload any
		if event.Snapshot != nil {
			payload = event.Snapshot
		} else {
			payload = map[string]string{"error": event.Error}
		}

		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(res, "data: %s\n\n", data); err != nil {
			return err
		}
		res.Flush()
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
