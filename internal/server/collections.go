package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aiwis-cl/portal-core/internal/portal/model"
)

// crud bundles the engine operations one collection route group needs.
type crud[T any] struct {
	list   func(ctx context.Context) []T
	add    func(ctx context.Context, item T) error
	update func(ctx context.Context, item T) error
	remove func(ctx context.Context, id string) error
	id     func(item *T) *string
}

func registerCRUD[T any](rg *gin.RouterGroup, path string, c crud[T]) {
	rg.GET("/"+path, func(gc *gin.Context) {
		items := c.list(gc.Request.Context())
		if items == nil {
			items = []T{}
		}
		gc.JSON(http.StatusOK, gin.H{"data": items})
	})

	rg.POST("/"+path, func(gc *gin.Context) {
		var item T
		if err := gc.ShouldBindJSON(&item); err != nil {
			gc.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if id := c.id(&item); *id == "" {
			*id = uuid.NewString()
		}
		if err := c.add(gc.Request.Context(), item); err != nil {
			gc.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		gc.JSON(http.StatusCreated, gin.H{"data": item})
	})

	rg.PUT("/"+path+"/:id", func(gc *gin.Context) {
		var item T
		if err := gc.ShouldBindJSON(&item); err != nil {
			gc.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		*c.id(&item) = gc.Param("id")
		if err := c.update(gc.Request.Context(), item); err != nil {
			gc.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		gc.JSON(http.StatusOK, gin.H{"data": item})
	})

	rg.DELETE("/"+path+"/:id", func(gc *gin.Context) {
		if err := c.remove(gc.Request.Context(), gc.Param("id")); err != nil {
			gc.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		gc.Status(http.StatusNoContent)
	})
}

func (s *Server) registerCollections(api *gin.RouterGroup) {
	registerCRUD(api, "users", crud[model.User]{
		list:   s.engine.Users,
		add:    s.engine.AddUser,
		update: s.engine.UpdateUser,
		remove: s.engine.DeleteUser,
		id:     func(u *model.User) *string { return &u.ID },
	})
	registerCRUD(api, "projects", crud[model.Project]{
		list:   s.engine.Projects,
		add:    s.engine.AddProject,
		update: s.engine.UpdateProject,
		remove: s.engine.DeleteProject,
		id:     func(p *model.Project) *string { return &p.ID },
	})
	registerCRUD(api, "gems", crud[model.Gem]{
		list:   s.engine.Gems,
		add:    s.engine.AddGem,
		update: s.engine.UpdateGem,
		remove: s.engine.DeleteGem,
		id:     func(g *model.Gem) *string { return &g.ID },
	})
	registerCRUD(api, "tools", crud[model.Tool]{
		list:   s.engine.Tools,
		add:    s.engine.AddTool,
		update: s.engine.UpdateTool,
		remove: s.engine.DeleteTool,
		id:     func(t *model.Tool) *string { return &t.ID },
	})
	registerCRUD(api, "modules", crud[model.TrainingModule]{
		list:   s.engine.TrainingModules,
		add:    s.engine.AddTrainingModule,
		update: s.engine.UpdateTrainingModule,
		remove: s.engine.DeleteTrainingModule,
		id:     func(m *model.TrainingModule) *string { return &m.ID },
	})

	api.GET("/used-ids", func(c *gin.Context) {
		ids := s.engine.UsedIDs(c.Request.Context())
		if ids == nil {
			ids = []model.UsedID{}
		}
		c.JSON(http.StatusOK, gin.H{"data": ids})
	})

	api.POST("/used-ids", func(c *gin.Context) {
		var rec model.UsedID
		if err := c.ShouldBindJSON(&rec); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if rec.ID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
			return
		}
		if rec.DateUsed == "" {
			rec.DateUsed = time.Now().Format("2006-01-02")
		}
		if err := s.engine.RegisterUsedID(c.Request.Context(), rec); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"data": rec})
	})
}
