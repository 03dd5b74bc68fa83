package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/devstack-id/fullstack-api/config"
	"github.com/devstack-id/fullstack-api/pkg/helpers"
	"github.com/devstack-id/fullstack-api/pkg/mailer"
	tpl "github.com/devstack-id/fullstack-api/pkg/mailer/templates"
	"github.com/devstack-id/fullstack-api/pkg/response"
	"github.com/devstack-id/fullstack-api/pkg/validation"
)

// UtilsHandler hosts operational endpoints (currently the test email).
type UtilsHandler struct {
	Pub    *helpers.RabbitPublisher
	Logger *logrus.Logger
	Cfg    *config.Config
}

func NewUtilsHandler(pub *helpers.RabbitPublisher, logger *logrus.Logger, cfg *config.Config) *UtilsHandler {
	return &UtilsHandler{Pub: pub, Logger: logger, Cfg: cfg}
}

type testEmailRequest struct {
	To string `json:"to" binding:"required,email"`
}

// TestEmail POST /api/utils/test-email (superuser) enqueues a canned message
// so operators can verify the queue and Mailgun wiring end to end.
func (h *UtilsHandler) TestEmail(c *gin.Context) {
	var req testEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, http.StatusBadRequest, validation.Detail(err))
		return
	}
	if h.Cfg != nil && !h.Cfg.MailSendEnabled {
		c.JSON(http.StatusAccepted, gin.H{"message": "email sending disabled"})
		return
	}
	// The server keeps running without RabbitMQ; the publisher is nil then.
	if h.Pub == nil {
		response.Err(c, http.StatusServiceUnavailable, "email queue unavailable")
		return
	}
	job := mailer.EmailJob{
		To:       req.To,
		Template: tpl.TestEmail,
		Data:     tpl.ToMap(tpl.EmailData{AppName: h.Cfg.AppName, Email: req.To}),
	}
	if err := h.Pub.PublishJSON(c.Request.Context(), job); err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Warn("failed to publish email job")
		}
		response.Err(c, http.StatusInternalServerError, "failed to enqueue")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "test email enqueued"})
}
