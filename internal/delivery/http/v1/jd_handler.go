package v1

import (
	"net/http"

	"thinqor-ats/internal/delivery/http/response"
	"thinqor-ats/internal/domain"
	"thinqor-ats/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type JDHandler struct {
	jdUC domain.JDUsecase
}

type JDRequest struct {
	JDText string `json:"jd_text" binding:"required"`
}

func NewJDHandler(v1, legacy *gin.RouterGroup, jdUC domain.JDUsecase) {
	handler := &JDHandler{jdUC: jdUC}
	v1.POST("/ai/jd-to-requirement", handler.DraftRequirement)
	if legacy != nil {
		legacy.POST("/ai/jd-to-requirement", handler.DraftRequirement)
	}
}

// DraftRequirement godoc
// @Summary      Draft a requirement from a job description
// @Description  Asks the language model for title, location, skills, experience, CTC ranges and description. Unparsable replies come back with raw_output and error.
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        body  body      JDRequest  true  "Job description"
// @Success      200   {object}  response.Response{data=domain.DraftResult}
// @Failure      400   {object}  response.Response
// @Failure      503   {object}  response.Response
// @Router       /v1/ai/jd-to-requirement [post]
func (h *JDHandler) DraftRequirement(c *gin.Context) {
	var req JDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("jd_text is required"))
		return
	}

	result, err := h.jdUC.DraftRequirement(c.Request.Context(), req.JDText)
	if err != nil {
		c.Error(err)
		return
	}

	message := "Requirement drafted"
	if result.Error != "" {
		message = result.Error
	}
	response.Success(c, http.StatusOK, message, result)
}
