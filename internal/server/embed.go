package server

import (
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vesaa/storagepulse/webui"
)

// mountTemplates loads the embedded HTML templates and serves web/static
// under /static.
func mountTemplates(r *gin.Engine) {
	tmpl := template.Must(template.ParseFS(webui.FS, "web/templates/*.html"))
	r.SetHTMLTemplate(tmpl)

	static, err := fs.Sub(webui.FS, "web/static")
	if err != nil {
		panic("embed: web/static sub-fs failed: " + err.Error())
	}
	r.StaticFS("/static", http.FS(static))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}
