package controller

import (
	"legal_eval_backend/internal/service"
	"legal_eval_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExportController struct {
	ExportService *service.ExportService
}

func NewExportController(exportService *service.ExportService) *ExportController {
	return &ExportController{ExportService: exportService}
}

// CreateExport godoc
// @Summary 导出评测数据快照
// @Description 评分只保留每个回答对的最新一条，写入本地目录或 MinIO
// @Tags 导出
// @Produce json
// @Success 201 {object} service.ExportResult
// @Failure 401 {object} util.ErrorResponse
// @Router /api/exports [post]
func (c *ExportController) CreateExport(ctx *gin.Context) {
	result, err := c.ExportService.Export(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// DeleteExport godoc
// @Summary 删除导出文件
// @Tags 导出
// @Produce json
// @Param object query string true "导出对象名"
// @Success 200 {object} util.MessageResponse
// @Failure 400 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /api/exports [delete]
func (c *ExportController) DeleteExport(ctx *gin.Context) {
	if err := c.ExportService.DeleteExport(ctx.Request.Context(), ctx.Query("object")); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Message(ctx, "Export deleted")
}
