package v1

import (
	"net/http"

	"signup-funnel-backend/internal/delivery/http/response"
	"signup-funnel-backend/internal/domain"
	"signup-funnel-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type SignupHandler struct {
	signupUC domain.SignupUsecase
}

// NewSignupHandler registers the public signup route behind its own rate limit
func NewSignupHandler(public *gin.RouterGroup, signupUC domain.SignupUsecase, limiter gin.HandlerFunc) {
	handler := &SignupHandler{
		signupUC: signupUC,
	}

	public.POST("/signup", limiter, handler.Signup)
}

// Signup godoc
// @Summary      Register a signup
// @Description  Stores a signup from the landing page form. The phone must already be in +44 form.
// @Description  Repeats of the same email inside the dedupe window are acknowledged without being stored again.
// @Tags         signup
// @Accept       json
// @Produce      json
// @Param        signup  body      domain.SignupRequest  true  "Signup details"
// @Success      200     {object}  response.Response{data=domain.SignupResult}
// @Failure      400     {object}  response.Response
// @Failure      429     {object}  response.Response
// @Failure      500     {object}  response.Response
// @Router       /signup [post]
func (h *SignupHandler) Signup(c *gin.Context) {
	var req domain.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Missing required fields"))
		return
	}

	meta := domain.SignupMeta{
		IP:        c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
		RequestID: response.RequestID(c),
	}

	result, err := h.signupUC.Register(c.Request.Context(), &req, meta)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Account created successfully", result)
}
