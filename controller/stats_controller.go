// api/controller/stats_controller.go
package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	api_errors "github.com/trashmob-eco/trashmob-api/errors"
	"github.com/trashmob-eco/trashmob-api/policy"
	"github.com/trashmob-eco/trashmob-api/service"
	"github.com/trashmob-eco/trashmob-api/util"
)

type StatsController struct {
	statsService   service.IStatsService
	partnerService service.IPartnerService
	authorizer     policy.Authorizer
}

func NewStatsController(statsService service.IStatsService, partnerService service.IPartnerService, authorizer policy.Authorizer) *StatsController {
	return &StatsController{
		statsService:   statsService,
		partnerService: partnerService,
		authorizer:     authorizer,
	}
}

// RegisterRoutes registers the API routes
func (sc *StatsController) RegisterRoutes(r *gin.RouterGroup) {
	stats := r.Group("/stats")
	{
		stats.GET("/summary", sc.GetSummary)
		stats.GET("/leaderboard/teams", sc.TeamLeaderboard)
	}

	r.GET("/partners/:partnerId/exports/adoption.csv", sc.ExportAdoption)
	r.GET("/partners/:partnerId/exports/cleanup.csv", sc.ExportSponsorCleanup)
}

// GetSummary endpoint. Public platform metrics.
func (sc *StatsController) GetSummary(c *gin.Context) {
	summary, err := sc.statsService.GetSummary(c)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to compute summary", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// TeamLeaderboard endpoint. Public.
func (sc *StatsController) TeamLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	entries, err := sc.statsService.TeamLeaderboard(c, limit)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to compute leaderboard", err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (sc *StatsController) exportForPartner(c *gin.Context, filename string, export func() (string, error)) {
	partnerID := c.Param("partnerId")

	partner, err := sc.partnerService.GetPartner(c, partnerID)
	if err != nil {
		if err == api_errors.ErrPartnerNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Partner not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve partner", err)
		}
		return
	}

	target := policy.Target{Kind: "partner", ID: partner.ID, PartnerID: partner.ID}
	if !authorize(c, sc.authorizer, policy.UserIsPartnerUserOrIsAdmin, target) {
		return
	}

	csv, err := export()
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to build export", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", []byte(csv))
}

// ExportAdoption endpoint streams the community adoption report as CSV.
func (sc *StatsController) ExportAdoption(c *gin.Context) {
	sc.exportForPartner(c, "adoption.csv", func() (string, error) {
		return sc.statsService.ExportAdoptionCSV(c, c.Param("partnerId"))
	})
}

// ExportSponsorCleanup endpoint streams the sponsor cleanup log as CSV.
func (sc *StatsController) ExportSponsorCleanup(c *gin.Context) {
	sc.exportForPartner(c, "cleanup.csv", func() (string, error) {
		return sc.statsService.ExportSponsorCleanupCSV(c, c.Param("partnerId"))
	})
}
