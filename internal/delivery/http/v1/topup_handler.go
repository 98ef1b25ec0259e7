package v1

import (
	"net/http"

	"signup-funnel-backend/internal/delivery/http/response"
	"signup-funnel-backend/internal/domain"
	"signup-funnel-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type TopUpHandler struct {
	topUpUC domain.TopUpUsecase
}

func NewTopUpHandler(public *gin.RouterGroup, topUpUC domain.TopUpUsecase) {
	handler := &TopUpHandler{topUpUC: topUpUC}

	topup := public.Group("/topup")
	{
		topup.GET("/options", handler.Options)
		topup.POST("/quote", handler.Quote)
		topup.POST("", handler.TopUp)
	}
}

// Options godoc
// @Summary      Top-up options
// @Description  Preset amounts with the bonus each one earns. Money is in pence.
// @Tags         topup
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.TopUpOptions}
// @Router       /topup/options [get]
func (h *TopUpHandler) Options(c *gin.Context) {
	response.Success(c, http.StatusOK, "Top-up options retrieved", h.topUpUC.Options())
}

// Quote godoc
// @Summary      Quote a top-up
// @Tags         topup
// @Accept       json
// @Produce      json
// @Param        body  body      domain.TopUpRequest  true  "Amount in pounds"
// @Success      200   {object}  response.Response{data=domain.TopUpQuote}
// @Failure      400   {object}  response.Response
// @Router       /topup/quote [post]
func (h *TopUpHandler) Quote(c *gin.Context) {
	var req domain.TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Amount is required"))
		return
	}

	quote, err := h.topUpUC.Quote(req.Amount)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Top-up quote", quote)
}

// TopUp godoc
// @Summary      Top up
// @Description  Records a top-up request. No payment is taken.
// @Tags         topup
// @Accept       json
// @Produce      json
// @Param        body  body      domain.TopUpRequest  true  "Amount in pounds"
// @Success      200   {object}  response.Response{data=domain.TopUpQuote}
// @Failure      400   {object}  response.Response
// @Router       /topup [post]
func (h *TopUpHandler) TopUp(c *gin.Context) {
	var req domain.TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Amount is required"))
		return
	}

	quote, message, err := h.topUpUC.TopUp(c.Request.Context(), req.Amount)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, message, quote)
}
