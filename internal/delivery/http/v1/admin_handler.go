package v1

import (
	"net/http"
	"strconv"

	"signup-funnel-backend/internal/delivery/http/response"
	"signup-funnel-backend/internal/domain"
	"signup-funnel-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	signupUC domain.SignupUsecase
}

// NewAdminHandler registers the operator routes. protected must already
// carry the admin auth middleware.
func NewAdminHandler(protected *gin.RouterGroup, signupUC domain.SignupUsecase) {
	handler := &AdminHandler{signupUC: signupUC}

	admin := protected.Group("/admin")
	{
		admin.GET("/signups", handler.ListSignups)
		admin.GET("/signups/export", handler.ExportSignups)
	}
}

// ListSignups godoc
// @Summary      List signups
// @Description  Most recent signups first
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Max rows (default 100, max 500)"
// @Success      200    {object}  response.Response{data=[]domain.Signup}
// @Failure      401    {object}  response.Response
// @Failure      403    {object}  response.Response
// @Router       /admin/signups [get]
func (h *AdminHandler) ListSignups(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	signups, err := h.signupUC.List(c.Request.Context(), limit)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Signups retrieved", signups)
}

// ExportSignups godoc
// @Summary      Export signups
// @Description  Downloads stored signups as an Excel workbook
// @Tags         admin
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200  {file}    file
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /admin/signups/export [get]
func (h *AdminHandler) ExportSignups(c *gin.Context) {
	export, err := h.signupUC.Export(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	security.DefaultLogger().LogDataExport(
		c.Request.Context(),
		c.GetString(string(domain.KeyAdminSubject)),
		c.ClientIP(),
		response.RequestID(c),
		export.Rows,
	)

	c.Header("Content-Disposition", "attachment; filename="+export.Filename)
	c.Data(http.StatusOK, export.ContentType, export.Data)
}
