package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ciefp/subgrab/internal/apperrors"
	"github.com/ciefp/subgrab/internal/models"
)

// SearchResponse is the body of GET /api/v1/search.
type SearchResponse struct {
	Results []models.SubtitleResult `json:"results"`
}

// DownloadRequest is the body of POST /api/v1/download: the record a
// previous search returned, handed back verbatim.
type DownloadRequest struct {
	Result models.SubtitleResult `json:"result" binding:"required"`
	Save   bool                  `json:"save"`
}

// DownloadSavedResponse is the body returned when Save was requested.
type DownloadSavedResponse struct {
	Path string `json:"path"`
}

func (s *Server) search(c *gin.Context) {
	query := models.SearchQuery{
		Title:      c.Query("query"),
		Identifier: c.Query("identifier"),
		Filename:   c.Query("filename"),
	}

	if raw := c.Query("languages"); raw != "" {
		query.Languages = strings.Split(raw, ",")
	} else {
		query.Languages = s.cfg().Languages
	}

	var err error
	if query.Season, err = intQuery(c, "season"); err != nil {
		errorResponse(c, http.StatusBadRequest, "season must be a number")
		return
	}
	if query.Episode, err = intQuery(c, "episode"); err != nil {
		errorResponse(c, http.StatusBadRequest, "episode must be a number")
		return
	}
	if query.Year, err = intQuery(c, "year"); err != nil {
		errorResponse(c, http.StatusBadRequest, "year must be a number")
		return
	}

	if !query.HasSubject() {
		errorResponse(c, http.StatusBadRequest, "one of query, identifier or filename is required")
		return
	}

	ctx := c.Request.Context()
	var results []models.SubtitleResult
	switch mode := c.DefaultQuery("mode", "standard"); mode {
	case "standard":
		results = s.aggregator.SearchAll(ctx, query)
	case "smart":
		results = s.aggregator.SearchAllSmart(ctx, query)
	case "identifier":
		results = s.aggregator.SearchDirect(ctx, query, models.MethodIdentifier)
	case "filename":
		results = s.aggregator.SearchDirect(ctx, query, models.MethodFilename)
	case "freetext":
		results = s.aggregator.SearchDirect(ctx, query, models.MethodFreeText)
	default:
		errorResponse(c, http.StatusBadRequest, fmt.Sprintf("unknown mode %q", mode))
		return
	}

	if results == nil {
		results = []models.SubtitleResult{}
	}
	c.JSON(http.StatusOK, SearchResponse{Results: results})
}

func (s *Server) download(c *gin.Context) {
	var req DownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid download request: "+err.Error())
		return
	}

	resolved, err := s.downloader.Fetch(c.Request.Context(), req.Result)
	if err != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, &apperrors.ContentError{}):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, &apperrors.ConfigurationError{}):
			status = http.StatusServiceUnavailable
		case errors.Is(err, &apperrors.ErrNotFound{}):
			status = http.StatusNotFound
		}
		errorResponse(c, status, err.Error())
		return
	}

	if req.Save {
		path, err := s.downloader.Save(resolved, "")
		if err != nil {
			errorResponse(c, http.StatusInternalServerError, err.Error())
			return
		}
		c.JSON(http.StatusOK, DownloadSavedResponse{Path: path})
		return
	}

	filename := downloadFilename(resolved)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/x-subrip", resolved.Content)
}

func downloadFilename(resolved *models.ResolvedSubtitle) string {
	base := strings.ReplaceAll(resolved.Result.Title, " ", ".")
	if base == "" {
		base = "subtitle"
	}
	return base + resolved.Extension
}

func intQuery(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
