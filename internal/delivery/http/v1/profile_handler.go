package v1

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"profolio-backend/internal/delivery/http/response"
	"profolio-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// Image uploads beyond this size are rejected before touching blob storage
const maxImageBytes = 5 << 20 // 5 MiB

type ProfileHandler struct {
	profileUC domain.ProfileUsecase
}

func NewProfileHandler(r *gin.RouterGroup, profileUC domain.ProfileUsecase) {
	handler := &ProfileHandler{profileUC: profileUC}

	profiles := r.Group("/profiles")
	{
		profiles.GET("/me", handler.GetOwn)
		profiles.PUT("/me", handler.Save)
	}
}

// GetOwn godoc
// @Summary      Get own profile
// @Description  Get the editable profile of the signed-in user
// @Tags         profiles
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.Profile}
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /profiles/me [get]
// @Security     BearerAuth
func (h *ProfileHandler) GetOwn(c *gin.Context) {
	profile, err := h.profileUC.GetOwnProfile(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile", profile)
}

// Save godoc
// @Summary      Save own profile
// @Description  One atomic save of the profile editor: a JSON patch plus optional profile_pic/banner image files. Images are uploaded before the document write; an upload failure aborts the save.
// @Tags         profiles
// @Accept       json
// @Accept       multipart/form-data
// @Produce      json
// @Param        profile formData string false "Profile patch as JSON (multipart mode)"
// @Param        profile_pic formData file false "Profile picture"
// @Param        banner formData file false "Banner image"
// @Success      200  {object}  response.Response{data=domain.Profile}
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      502  {object}  response.Response
// @Router       /profiles/me [put]
// @Security     BearerAuth
func (h *ProfileHandler) Save(c *gin.Context) {
	var patch domain.ProfilePatch
	var images []domain.ImageUpload

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if payload := c.PostForm("profile"); payload != "" {
			if err := json.Unmarshal([]byte(payload), &patch); err != nil {
				response.Error(c, http.StatusBadRequest, "Invalid profile payload", err.Error())
				return
			}
		}

		// Fixed slot order: profile picture first, banner second
		slots := []struct {
			field string
			slot  domain.ImageSlot
		}{
			{"profile_pic", domain.SlotProfilePic},
			{"banner", domain.SlotBanner},
		}
		for _, s := range slots {
			fileHeader, err := c.FormFile(s.field)
			if err != nil {
				continue // slot not submitted
			}
			if fileHeader.Size > maxImageBytes {
				response.Error(c, http.StatusBadRequest, "Image too large (max 5 MB)", nil)
				return
			}
			src, err := fileHeader.Open()
			if err != nil {
				response.Error(c, http.StatusBadRequest, "Failed to read uploaded file", err.Error())
				return
			}
			data, err := io.ReadAll(src)
			src.Close()
			if err != nil {
				response.Error(c, http.StatusBadRequest, "Failed to read uploaded file", err.Error())
				return
			}
			images = append(images, domain.ImageUpload{
				Slot:     s.slot,
				Filename: fileHeader.Filename,
				Data:     data,
			})
		}
	} else {
		if err := c.ShouldBindJSON(&patch); err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
			return
		}
	}

	profile, err := h.profileUC.Save(c.Request.Context(), patch, images)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile saved successfully", profile)
}
