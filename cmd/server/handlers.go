package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/encoding"
	apperrors "github.com/ZanzyTHEbar/readiness-diagnosis/internal/errors"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/peers"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/questionnaire"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/types"
)

// handleCreateDiagnosis runs the pipeline over one submission and stores the
// result. A storage failure is logged and reported in X-Diagnosis-Stored; the
// diagnosis is still returned.
//
//	@Summary	Diagnose a questionnaire submission
//	@Tags		diagnoses
//	@Accept		json
//	@Produce	json
//	@Param		request	body		types.DiagnosisRequest	true	"Questionnaire submission"
//	@Success	201		{object}	diagnosis.Result
//	@Failure	400		{object}	types.ErrorResponse
//	@Failure	415		{object}	types.ErrorResponse
//	@Failure	429		{object}	types.ErrorResponse
//	@Router		/api/v1/diagnoses [post]
func (a *app) handleCreateDiagnosis(c *gin.Context) {
	var req types.DiagnosisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.metrics.RecordDiagnosisFailure(true)
		_ = c.Error(apperrors.NewValidationError("invalid request body", err.Error()))
		return
	}

	dreq := req.ToRequest()
	if err := a.security.SanitizeSubmission(&dreq.Submission); err != nil {
		a.metrics.RecordDiagnosisFailure(true)
		_ = c.Error(err)
		return
	}

	start := time.Now()
	res, err := a.diagnoser.Diagnose(c.Request.Context(), dreq)
	if err != nil {
		a.metrics.RecordDiagnosisFailure(apperrors.IsValidation(err))
		_ = c.Error(err)
		return
	}

	codes := make([]string, len(res.Warnings))
	for i, w := range res.Warnings {
		codes[i] = string(w.Code)
	}
	a.metrics.RecordDiagnosis(res.ScoreAnalysis.Grade, string(res.QualityMetrics.QualityLevel), codes)
	a.logger.DiagnosisLogger(res.DiagnosisID, string(res.CatalogVariant), res.ScoreAnalysis.Percentage,
		res.ScoreAnalysis.Grade, res.QualityMetrics.OverallScore, len(res.Warnings), time.Since(start))

	saveErr := a.store.Save(c.Request.Context(), res)
	a.health.Record("store", saveErr)
	stored := saveErr == nil
	if stored {
		a.peers.Invalidate()
	} else {
		a.logger.Error("Failed to store diagnosis", "diagnosis_id", res.DiagnosisID, "error", saveErr)
	}

	c.Header("X-Diagnosis-Stored", strconv.FormatBool(stored))
	c.Header("Location", "/api/v1/diagnoses/"+res.DiagnosisID)
	c.JSON(http.StatusCreated, res)
}

// handleGetDiagnosis returns a stored diagnosis.
//
//	@Summary	Get a stored diagnosis
//	@Tags		diagnoses
//	@Produce	json
//	@Param		id	path		string	true	"Diagnosis id"
//	@Success	200	{object}	diagnosis.Result
//	@Failure	404	{object}	types.ErrorResponse
//	@Router		/api/v1/diagnoses/{id} [get]
func (a *app) handleGetDiagnosis(c *gin.Context) {
	id := c.Param("id")
	if err := a.security.ValidateInput(id); err != nil {
		_ = c.Error(err)
		return
	}

	res, err := a.store.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// handleListDiagnoses lists the newest stored diagnoses.
//
//	@Summary	List recent diagnoses
//	@Tags		diagnoses
//	@Produce	json
//	@Param		limit	query		int	false	"Maximum items (1-100)"
//	@Success	200		{object}	types.DiagnosisList
//	@Failure	400		{object}	types.ErrorResponse
//	@Router		/api/v1/diagnoses [get]
func (a *app) handleListDiagnoses(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			_ = c.Error(apperrors.NewValidationErrorWithMap(map[string]string{"limit": "must be a positive integer"}))
			return
		}
		limit = n
	}

	items, err := a.store.Recent(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.DiagnosisList{Items: items, Count: len(items)})
}

// handleDeleteDiagnosis erases a stored diagnosis.
//
//	@Summary	Delete a stored diagnosis
//	@Tags		diagnoses
//	@Param		id	path	string	true	"Diagnosis id"
//	@Success	204
//	@Failure	404	{object}	types.ErrorResponse
//	@Router		/api/v1/diagnoses/{id} [delete]
func (a *app) handleDeleteDiagnosis(c *gin.Context) {
	id := c.Param("id")
	if err := a.security.ValidateInput(id); err != nil {
		_ = c.Error(err)
		return
	}

	if err := a.privacy.DeleteDiagnosis(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	a.peers.Invalidate()
	c.Status(http.StatusNoContent)
}

// catalogSummary is one entry of GET /api/v1/catalogs.
type catalogSummary struct {
	Variant    questionnaire.Variant `json:"variant"`
	Questions  int                   `json:"questions"`
	Categories []string              `json:"categories"`
}

// handleListCatalogs lists the built-in questionnaires.
//
//	@Summary	List questionnaire catalogs
//	@Tags		catalogs
//	@Produce	json
//	@Success	200	{array}	catalogSummary
//	@Router		/api/v1/catalogs [get]
func (a *app) handleListCatalogs(c *gin.Context) {
	catalogs := questionnaire.Catalogs()
	out := make([]catalogSummary, 0, len(catalogs))
	for _, cat := range catalogs {
		out = append(out, catalogSummary{
			Variant:    cat.Variant,
			Questions:  cat.Len(),
			Categories: cat.CategoryKeys(),
		})
	}
	c.JSON(http.StatusOK, out)
}

// handleGetCatalog returns every question of one catalog.
//
//	@Summary	Get a questionnaire catalog
//	@Tags		catalogs
//	@Produce	json
//	@Param		variant	path		string	true	"Catalog variant (20 or 45)"
//	@Success	200		{object}	questionnaire.Catalog
//	@Failure	404		{object}	types.ErrorResponse
//	@Router		/api/v1/catalogs/{variant} [get]
func (a *app) handleGetCatalog(c *gin.Context) {
	variant := c.Param("variant")
	catalog, err := questionnaire.Lookup(questionnaire.Variant(variant))
	if err != nil {
		_ = c.Error(apperrors.NewNotFoundError("catalog", variant))
		return
	}
	c.JSON(http.StatusOK, catalog)
}

// handleBenchmarks returns the industry baselines in effect.
//
//	@Summary	List industry benchmarks
//	@Tags		benchmarks
//	@Produce	json
//	@Success	200	{object}	map[string]interface{}
//	@Router		/api/v1/benchmarks [get]
func (a *app) handleBenchmarks(c *gin.Context) {
	table := a.diagnoser.Analyzer().Benchmarks()
	c.JSON(http.StatusOK, gin.H{
		"industries": table.Industries(),
		"fallback":   table.Fallback(),
		"sizeAdjustments": gin.H{
			string(questionnaire.SizeSmall):  table.SizeAdjustment(questionnaire.SizeSmall),
			string(questionnaire.SizeMedium): table.SizeAdjustment(questionnaire.SizeMedium),
			string(questionnaire.SizeLarge):  table.SizeAdjustment(questionnaire.SizeLarge),
		},
	})
}

// handleGradeStats counts stored diagnoses per grade.
//
//	@Summary	Grade distribution of stored diagnoses
//	@Tags		stats
//	@Produce	json
//	@Success	200	{object}	map[string]int
//	@Router		/api/v1/stats/grades [get]
func (a *app) handleGradeStats(c *gin.Context) {
	counts, err := a.store.GradeDistribution(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

// handleIndustryStats ranks industries by the mean score of their stored
// diagnoses. Industries below the configured sample size are suppressed.
//
//	@Summary	Industry peer ranking
//	@Tags		stats
//	@Produce	json
//	@Param		period	query		string	false	"weekly, monthly or all_time"
//	@Success	200		{object}	peers.Ranking
//	@Failure	400		{object}	types.ErrorResponse
//	@Router		/api/v1/stats/industries [get]
func (a *app) handleIndustryStats(c *gin.Context) {
	period, err := peers.ParsePeriod(c.Query("period"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	ranking, err := a.peers.GetRanking(c.Request.Context(), period)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ranking)
}

// handlePrivacyPolicy describes retention of stored diagnoses.
//
//	@Summary	Data retention policy
//	@Tags		privacy
//	@Produce	json
//	@Success	200	{object}	map[string]interface{}
//	@Router		/api/v1/privacy/policy [get]
func (a *app) handlePrivacyPolicy(c *gin.Context) {
	c.JSON(http.StatusOK, a.privacy.GetDataRetentionInfo())
}

// handleHealth reports store reachability and collaborator health. Degraded
// collaborators do not fail the check since the pipeline falls back without
// them.
//
//	@Summary	Service health
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	types.HealthResponse
//	@Failure	503	{object}	types.HealthResponse
//	@Router		/health [get]
func (a *app) handleHealth(c *gin.Context) {
	status, code := "healthy", http.StatusOK
	storage := map[string]any{"pool": a.db.GetPoolStats()}
	if err := a.db.PingContext(c.Request.Context()); err != nil {
		status, code = "unhealthy", http.StatusServiceUnavailable
		storage["error"] = err.Error()
	} else if a.health.Degraded() {
		status = "degraded"
	}

	c.JSON(code, types.HealthResponse{
		Status:        status,
		Timestamp:     time.Now().UTC(),
		UptimeSeconds: time.Since(a.startTime).Seconds(),
		Collaborators: map[string]any{
			"health":        a.health.Snapshot(),
			"breakers":      a.breakers.Stats(),
			"redis_enabled": a.redis.IsEnabled(),
		},
		Storage: storage,
	})
}

// handleMetrics returns request, pipeline and pool counters.
//
//	@Summary	Service metrics
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	map[string]interface{}
//	@Router		/metrics [get]
func (a *app) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"requests":    a.metrics.GetStats(),
		"cache":       a.cache.Stats(),
		"peers":       a.peers.GetCacheStats(),
		"compression": a.compression.GetStats(),
		"encoding":    encoding.Default().GetStats(),
		"database":    a.db.GetPoolStats(),
		"redis":       a.redis.GetPoolStats(),
		"limiter":     a.limiter.GetStats(),
	})
}
