package export

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ideaforge/ideaforge-backend/internal/projects"
)

type Handler struct {
	projects *projects.Repo
}

func RegisterProjectSubroutes(rg *gin.RouterGroup, projectRepo *projects.Repo) {
	h := &Handler{projects: projectRepo}

	rg.GET("/:public_id/export", h.export)
}

func (h *Handler) export(c *gin.Context) {
	p, ok := projects.AuthorizeProject(c, h.projects, false)
	if !ok {
		return
	}

	switch c.DefaultQuery("format", "markdown") {
	case "markdown":
		c.Header("Content-Disposition", `attachment; filename="`+p.PublicID+`.md"`)
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(Markdown(p)))
	case "json":
		data, err := JSON(p)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+p.PublicID+`.json"`)
		c.Data(http.StatusOK, "application/json", data)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "format must be markdown or json"})
	}
}
