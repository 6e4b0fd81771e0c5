package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mosammunjapara-afk/newsguard/app/database"
	"github.com/mosammunjapara-afk/newsguard/app/impact"
)

const defaultRecordsLimit = 50

func NewHandler(coll CollectorInterface, verifier ClaimVerifierInterface,
	articles ArticleReader, runs RunReader, claims ClaimStore) *Handler {
	return &Handler{
		collector: coll,
		verifier:  verifier,
		articles:  articles,
		runs:      runs,
		claims:    claims,
	}
}

// Collect triggers an immediate collection cycle. The collector serializes
// internally, so a trigger during a scheduled run blocks until it finishes.
func (h *Handler) Collect(c *gin.Context) {
	if !h.collector.HasConfiguredSources() {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "No news sources configured, set at least one source API key",
		})
		return
	}

	stored, fake, err := h.collector.CollectOnce(c.Request.Context())
	if err != nil {
		slog.Error("Manual collection failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"stored":        stored,
		"fake_detected": fake,
	})
}

func (h *Handler) Status(c *gin.Context) {
	status := gin.H{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if count, err := h.articles.Count(); err == nil {
		status["articles"] = count
	}

	if newest, err := h.articles.NewestCollectedAt(); err == nil && newest != nil {
		status["last_collected_at"] = newest.Format(time.RFC3339)
	}

	run, err := h.runs.Latest()
	if err != nil {
		slog.Error("Database error", "operation", "latest_run", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if run != nil {
		status["last_run"] = gin.H{
			"run_at":             run.RunAt.Format(time.RFC3339),
			"articles_fetched":   run.ArticlesFetched,
			"articles_stored":    run.ArticlesStored,
			"duplicates_skipped": run.DuplicatesSkipped,
			"fake_detected":      run.FakeDetected,
		}
	}

	c.JSON(http.StatusOK, status)
}

func (h *Handler) Records(c *gin.Context) {
	limit := defaultRecordsLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	articles, err := h.articles.GetRecent(limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_recent", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	records := make([]gin.H, 0, len(articles))
	for _, a := range articles {
		records = append(records, articleResponse(a))
	}

	c.JSON(http.StatusOK, gin.H{
		"records": records,
		"total":   len(records),
	})
}

func (h *Handler) Stats(c *gin.Context) {
	runs, err := h.runs.Recent(20)
	if err != nil {
		slog.Error("Database error", "operation", "recent_runs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var fetched, stored, duplicates, fake int
	history := make([]gin.H, 0, len(runs))
	for _, run := range runs {
		fetched += run.ArticlesFetched
		stored += run.ArticlesStored
		duplicates += run.DuplicatesSkipped
		fake += run.FakeDetected
		history = append(history, gin.H{
			"run_at":             run.RunAt.Format(time.RFC3339),
			"articles_fetched":   run.ArticlesFetched,
			"articles_stored":    run.ArticlesStored,
			"duplicates_skipped": run.DuplicatesSkipped,
			"fake_detected":      run.FakeDetected,
		})
	}

	response := gin.H{
		"runs": history,
		"totals": gin.H{
			"articles_fetched":   fetched,
			"articles_stored":    stored,
			"duplicates_skipped": duplicates,
			"fake_detected":      fake,
		},
	}

	if checks, err := h.claims.Recent(20); err == nil {
		recent := make([]gin.H, 0, len(checks))
		for _, check := range checks {
			recent = append(recent, gin.H{
				"claim":      check.Claim,
				"verdict":    check.Verdict,
				"confidence": check.Confidence,
				"claim_type": check.ClaimType,
				"is_fake":    check.IsFake,
				"checked_at": check.CheckedAt.Format(time.RFC3339),
			})
		}
		response["recent_claims"] = recent
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) Prune(c *gin.Context) {
	var req struct {
		Days int `json:"days"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Days < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
		return
	}

	deleted, err := h.articles.DeleteOlderThan(req.Days)
	if err != nil {
		slog.Error("Database error", "operation", "prune", "days", req.Days, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	slog.Info("Pruned old articles", "days", req.Days, "deleted", deleted)

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"deleted": deleted,
	})
}

func (h *Handler) CheckClaim(c *gin.Context) {
	var req struct {
		Claim string `json:"claim"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Claim == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "claim is required"})
		return
	}

	result, err := h.verifier.VerifyClaim(c.Request.Context(), req.Claim)
	if err != nil {
		slog.Error("Claim verification failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Verification failed",
		})
		return
	}

	check := database.ClaimCheck{
		Claim:       req.Claim,
		Verdict:     string(result.Verdict),
		Confidence:  result.Confidence,
		Explanation: result.Explanation,
		ClaimType:   string(result.ClaimType),
		ClientIP:    c.ClientIP(),
		IsFake:      result.IsFake(),
		CheckedAt:   time.Now().UTC(),
	}
	if err := h.claims.Insert(check); err != nil {
		slog.Error("Database error", "operation", "insert_claim_check", "error", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"verdict":     string(result.Verdict),
		"confidence":  result.Confidence,
		"explanation": result.Explanation,
		"claim_type":  string(result.ClaimType),
		"is_fake":     result.IsFake(),
	})
}

func (h *Handler) Health(c *gin.Context) {
	health := gin.H{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if count, err := h.articles.Count(); err == nil {
		health["articles"] = count
	}

	health["sources_configured"] = h.collector.HasConfiguredSources()

	c.JSON(http.StatusOK, health)
}

func articleResponse(a database.CollectedArticle) gin.H {
	record := gin.H{
		"headline":     a.Headline,
		"description":  a.Description,
		"source":       a.Source,
		"url":          a.URL,
		"published_at": a.PublishedAt,
		"verdict":      a.Verdict,
		"confidence":   a.Confidence,
		"explanation":  a.Explanation,
		"collected_at": a.CollectedAt.Format(time.RFC3339),
	}

	if a.Impacts != "" {
		var impacts []impact.Impact
		if err := json.Unmarshal([]byte(a.Impacts), &impacts); err == nil {
			record["impacts"] = impacts
		}
	}

	return record
}
