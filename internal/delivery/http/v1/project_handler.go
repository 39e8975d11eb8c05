package v1

import (
	"net/http"
	"strings"

	"profolio-backend/internal/delivery/http/response"
	"profolio-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projectUC domain.ProjectUsecase
}

func NewProjectHandler(r *gin.RouterGroup, projectUC domain.ProjectUsecase) {
	handler := &ProjectHandler{projectUC: projectUC}

	projects := r.Group("/projects")
	{
		projects.GET("", handler.List)
		projects.POST("", handler.Create)
		projects.PUT("/:id", handler.Update)
		projects.DELETE("/:id", handler.Delete)
	}
}

type projectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Github      string `json:"github"`
	Demo        string `json:"demo"`
}

// List godoc
// @Summary      List own projects
// @Description  Lists the signed-in user's projects, newest first
// @Tags         projects
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Project}
// @Failure      401  {object}  response.Response
// @Router       /projects [get]
// @Security     BearerAuth
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projectUC.ListOwn(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Projects", projects)
}

// Create godoc
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        request body projectRequest true "Project fields"
// @Success      201  {object}  response.Response{data=domain.Project}
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /projects [post]
// @Security     BearerAuth
func (h *ProjectHandler) Create(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Github) == "" {
		response.Error(c, http.StatusBadRequest, "Title and GitHub link are required.", nil)
		return
	}

	project, err := h.projectUC.Create(c.Request.Context(), &domain.Project{
		Title:       req.Title,
		Description: req.Description,
		Github:      req.Github,
		Demo:        req.Demo,
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Project created", project)
}

// Update godoc
// @Summary      Update a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id path string true "Project ID"
// @Param        request body projectRequest true "Project fields"
// @Success      200  {object}  response.Response{data=domain.Project}
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /projects/{id} [put]
// @Security     BearerAuth
func (h *ProjectHandler) Update(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Github) == "" {
		response.Error(c, http.StatusBadRequest, "Title and GitHub link are required.", nil)
		return
	}

	project, err := h.projectUC.Update(c.Request.Context(), c.Param("id"), &domain.Project{
		Title:       req.Title,
		Description: req.Description,
		Github:      req.Github,
		Demo:        req.Demo,
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Project updated", project)
}

// Delete godoc
// @Summary      Delete a project
// @Description  Deletes one of the signed-in user's projects. Deleting an already removed project succeeds.
// @Tags         projects
// @Produce      json
// @Param        id path string true "Project ID"
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /projects/{id} [delete]
// @Security     BearerAuth
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.projectUC.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Project deleted", nil)
}
