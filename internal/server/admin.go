package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aiwis-cl/portal-core/internal/common/cnst"
	"github.com/aiwis-cl/portal-core/internal/portal/cloud"
	"github.com/aiwis-cl/portal-core/internal/portal/model"
	"github.com/aiwis-cl/portal-core/internal/portal/sync"
)

// cloudStatus maps engine errors onto HTTP codes: a remote that refused or
// failed the call is a gateway problem, everything else is ours.
func cloudStatus(err error) int {
	var remote *cloud.RemoteError
	if errors.As(err, &remote) || errors.Is(err, cloud.ErrRemoteUnavailable) {
		return http.StatusBadGateway
	}
	if errors.Is(err, cnst.ErrCloudInactive) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *Server) handleGetCompanyConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.engine.CompanyConfig()})
}

func (s *Server) handleSaveCompanyConfig(c *gin.Context) {
	var cfg model.CompanyConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.engine.SaveCompanyConfig(c.Request.Context(), cfg); err != nil {
		// The local copy is already saved at this point; the caller
		// learns the cloud mirror did not take.
		c.JSON(cloudStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cfg})
}

func (s *Server) handleGetCloudConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.engine.CloudSyncConfig()})
}

func (s *Server) handleSaveCloudConfig(c *gin.Context) {
	var cfg model.CloudSyncConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.engine.SaveCloudSyncConfig(c.Request.Context(), cfg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cfg})
}

func (s *Server) handleTestConnection(c *gin.Context) {
	if err := s.engine.TestConnection(c.Request.Context()); err != nil {
		c.JSON(cloudStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "connected"})
}

func (s *Server) handleInitSchema(c *gin.Context) {
	if err := s.engine.InitializeCloudSchema(c.Request.Context()); err != nil {
		c.JSON(cloudStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleMigrate(c *gin.Context) {
	if err := s.engine.MigrateLocalToCloud(c.Request.Context()); err != nil {
		c.JSON(cloudStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "migrated"})
}

type executeSQLRequest struct {
	Query  string `json:"query" binding:"required"`
	Params []any  `json:"params"`
}

func (s *Server) handleExecuteSQL(c *gin.Context) {
	var req executeSQLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rows, err := s.engine.ExecuteSQL(c.Request.Context(), req.Query, req.Params)
	if err != nil {
		c.JSON(cloudStatus(err), gin.H{"error": err.Error()})
		return
	}
	if rows == nil {
		rows = []cloud.Row{}
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (s *Server) handleTableData(c *gin.Context) {
	table := c.Param("table")
	rows := s.engine.TableData(table)
	if rows == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown table: " + table})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

type alterColumnRequest struct {
	Field string `json:"field" binding:"required"`
}

func (s *Server) handleAddColumn(c *gin.Context) {
	var req alterColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.engine.AlterTable(c.Request.Context(), c.Param("table"), sync.AlterAddColumn, req.Field); err != nil {
		c.JSON(cloudStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleDropColumn(c *gin.Context) {
	if err := s.engine.AlterTable(c.Request.Context(), c.Param("table"), sync.AlterDropColumn, c.Param("field")); err != nil {
		c.JSON(cloudStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleReset(c *gin.Context) {
	if err := s.engine.ResetToDefaults(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}
