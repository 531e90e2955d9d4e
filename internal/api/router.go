package api

import (
	httpSwagger "github.com/swaggo/http-swagger"

	_ "health-coverage-pipeline/docs"
	"health-coverage-pipeline/internal/api/handler"
	"health-coverage-pipeline/pkg/router"
)

// RegisterRoutes wires the analysis API and the swagger UI.
func RegisterRoutes(r *router.Router) {
	r.POST("/api/v1/analyses", handler.CreateAnalysis)
	r.GET("/api/v1/analyses", handler.ListAnalyses)
	// More specific routes first
	r.GET("/api/v1/analyses/*/results", handler.GetAnalysisResults)
	r.GET("/api/v1/analyses/*/summary", handler.GetAnalysisSummary)
	r.GET("/api/v1/analyses/*/errors", handler.GetAnalysisErrors)
	r.GET("/api/v1/analyses/*/logs", handler.GetAnalysisLogs)
	r.GET("/api/v1/download/*/*", handler.DownloadOutput)
	// Generic run route last
	r.GET("/api/v1/analyses/*", handler.GetAnalysis)

	r.GET("/swagger/*", router.HandlerFunc(httpSwagger.WrapHandler))
}
