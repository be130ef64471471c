package echoapi

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/fatimaschool/website/core"
)

type (
	DispatchResponse struct {
		Success bool             `json:"success"`
		Data    *core.SendResult `json:"data"`
	}

	DispatchError struct {
		Error   string      `json:"error"`
		Details interface{} `json:"details,omitempty"`
	}
)

// dispatchResponse relays the email provider's answer to the caller.
func (api *feedbackApi) dispatchResponse(ctx echo.Context, kind string, res *core.SendResult, err error) error {
	if err == nil {
		return ctx.JSON(http.StatusOK, DispatchResponse{Success: true, Data: res})
	}

	if errors.Cause(err) == core.ErrEmailNotConfigured {
		return ctx.JSON(http.StatusInternalServerError, DispatchError{Error: core.ErrEmailNotConfigured.Error()})
	}

	api.logger.Error("sending "+kind+" email", err)
	resp := DispatchError{Error: "Failed to send " + kind + " email", Details: err.Error()}
	if res != nil && res.Body != "" {
		if json.Valid([]byte(res.Body)) {
			resp.Details = json.RawMessage(res.Body)
		} else {
			resp.Details = res.Body
		}
	}
	return ctx.JSON(http.StatusInternalServerError, resp)
}
