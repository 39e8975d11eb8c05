package v1

import (
	"net/http"

	"profolio-backend/internal/delivery/http/response"
	"profolio-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type PortfolioHandler struct {
	portfolioUC domain.PortfolioUsecase
}

func NewPortfolioHandler(r *gin.RouterGroup, portfolioUC domain.PortfolioUsecase) {
	handler := &PortfolioHandler{portfolioUC: portfolioUC}

	r.GET("/portfolios/:username", handler.GetByUsername)
}

// GetByUsername godoc
// @Summary      Get a public portfolio
// @Description  Returns the public profile and project list for a username. No authentication required. Contact details beyond social links are withheld.
// @Tags         portfolios
// @Produce      json
// @Param        username path string true "Portfolio username"
// @Success      200  {object}  response.Response{data=domain.Portfolio}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /portfolios/{username} [get]
func (h *PortfolioHandler) GetByUsername(c *gin.Context) {
	portfolio, err := h.portfolioUC.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Portfolio", portfolio)
}
