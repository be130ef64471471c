package echoapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/fatimaschool/website/core"
	"github.com/fatimaschool/website/core/feedback"
)

type feedbackApi struct {
	svc      feedback.Service
	validate *validator.Validate
	logger   core.Logger
}

func registerFeedbackAPI(
	g *echo.Group,
	adminG *echo.Group,
	svc feedback.Service,
	validate *validator.Validate,
	logger core.Logger,
) {
	api := feedbackApi{
		svc:      svc,
		validate: validate,
		logger:   logger,
	}

	// contact form
	g.POST("/feedback", api.submit)

	// email dispatch
	g.POST("/send-notification", api.sendNotification)
	adminG.POST("/send-reply", api.sendReply)

	// dashboard
	fg := adminG.Group("/admin/feedback")
	fg.GET("", api.query)
	fg.GET("/stats", api.stats)
	fg.DELETE("/:id", api.destroy)
	fg.POST("/:id/reply", api.reply)
}

func (api *feedbackApi) submit(ctx echo.Context) error {
	var data feedback.NewMessage
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMessage")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	form := feedback.ContactForm{
		FullName: data.FullName,
		Email:    data.Email,
		Subject:  data.Subject,
		Message:  data.Message,
	}
	msg, err := form.Submit(ctx.Request().Context(), api.svc, time.Now())
	if err != nil {
		return errors.Wrap(err, "submitting contact form")
	}
	return ctx.JSON(http.StatusCreated, msg)
}

func (api *feedbackApi) query(ctx echo.Context) error {
	var q feedback.ListQuery
	if err := ctx.Bind(&q); err != nil {
		return errors.Wrap(err, "binding to ListQuery")
	}

	page, err := api.svc.List(ctx.Request().Context(), q)
	if err != nil {
		return errors.Wrap(err, "listing feedback")
	}
	return ctx.JSON(http.StatusOK, page)
}

func (api *feedbackApi) stats(ctx echo.Context) error {
	stats, err := api.svc.Stats(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing feedback stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *feedbackApi) destroy(ctx echo.Context) error {
	msg, err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == feedback.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting feedback")
	}
	return ctx.JSON(http.StatusOK, msg)
}

func (api *feedbackApi) reply(ctx echo.Context) error {
	var data feedback.ReplyRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReplyRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	msg, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == feedback.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting feedback")
	}

	res, err := api.svc.SendReply(ctx.Request().Context(), feedback.ReplyTo(msg, data.Message))
	return api.dispatchResponse(ctx, "reply", res, err)
}

func (api *feedbackApi) sendNotification(ctx echo.Context) error {
	var data feedback.Notification
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Notification")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	res, err := api.svc.Notify(ctx.Request().Context(), data)
	return api.dispatchResponse(ctx, "notification", res, err)
}

func (api *feedbackApi) sendReply(ctx echo.Context) error {
	var data feedback.Reply
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Reply")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	res, err := api.svc.SendReply(ctx.Request().Context(), data)
	return api.dispatchResponse(ctx, "reply", res, err)
}
