package ui

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"mincerdash/app"
	"mincerdash/domain/artifacts"
	domainstats "mincerdash/domain/stats"
	"mincerdash/domain/wage"
	"mincerdash/internal/errors"

	"github.com/gin-gonic/gin"
)

// parseRequest reads the widget values from the query string. Missing values
// fall back to the defaults; malformed numbers are rejected.
//
//	gender   repeatable: female, male (none with filtered=1 selects nobody)
//	edu_min  integer
//	edu_max  integer
//	robust   bool, default true
//	seed     integer, default from configuration
func parseRequest(c *gin.Context) (app.DashboardRequest, error) {
	req := app.DashboardRequest{Criteria: wage.DefaultCriteria(), Robust: true}

	genders, present := c.GetQueryArray("gender")
	if present || c.Query("filtered") != "" {
		req.Criteria.Genders = []wage.Gender{}
		for _, raw := range genders {
			for _, part := range strings.Split(raw, ",") {
				if part == "" {
					continue
				}
				g, err := wage.ParseGender(part)
				if err != nil {
					return req, errors.InvalidInput(err.Error())
				}
				if !req.Criteria.Includes(g) {
					req.Criteria.Genders = append(req.Criteria.Genders, g)
				}
			}
		}
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"edu_min", &req.Criteria.EducationMin},
		{"edu_max", &req.Criteria.EducationMax},
	}
	for _, p := range ints {
		raw := c.Query(p.key)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return req, errors.InvalidInput(fmt.Sprintf("%s must be an integer, got %q", p.key, raw))
		}
		*p.dst = v
	}

	if raw := c.Query("robust"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return req, errors.InvalidInput(fmt.Sprintf("robust must be a boolean, got %q", raw))
		}
		req.Robust = v
	}

	if raw := c.Query("seed"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return req, errors.InvalidInput(fmt.Sprintf("seed must be an integer, got %q", raw))
		}
		req.Seed = v
	}
	return req, nil
}

type indexPage struct {
	*app.Snapshot
	Request   app.DashboardRequest
	Genders   []wage.Gender
	EduFloor  int
	EduCeil   int
	ReportURL template.URL
	DataURL   template.URL
	APIURL    template.URL

	DescribeVars []wage.Variable
	DescribeRows []domainstats.DescribeRow
}

func (s *Server) handleIndex(c *gin.Context) {
	req, err := parseRequest(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	snap, err := s.service.Render(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}

	query := c.Request.URL.Query().Encode()
	vars, rows := snap.Summary.DescribeTable()
	s.renderTemplate(c, http.StatusOK, "dashboard.html", indexPage{
		Snapshot:     snap,
		Request:      req,
		Genders:      wage.Genders,
		EduFloor:     wage.EducationFloor,
		EduCeil:      wage.EducationCeil,
		ReportURL:    template.URL("/export/report?" + query),
		DataURL:      template.URL("/export/data?" + query),
		APIURL:       template.URL("/api/dashboard?" + query),
		DescribeVars: vars,
		DescribeRows: rows,
	})
}

func (s *Server) handleDashboard(c *gin.Context) {
	req, err := parseRequest(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	snap, err := s.service.Render(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleExportReport(c *gin.Context) {
	req, err := parseRequest(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	a, err := s.service.ExportReport(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	sendArtifact(c, a)
}

func (s *Server) handleExportData(c *gin.Context) {
	req, err := parseRequest(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	a, err := s.service.ExportWorkbook(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	sendArtifact(c, a)
}

func (s *Server) handleExports(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			s.respondError(c, errors.InvalidInput(fmt.Sprintf("limit must be a positive integer, got %q", raw)))
			return
		}
		limit = v
	}
	records, err := s.service.RecentExports(c.Request.Context(), limit)
	if err != nil {
		s.respondError(c, errors.DatabaseError("failed to list exports", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"exports": records})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "seed": s.service.DefaultSeed()})
}

func sendArtifact(c *gin.Context, a *artifacts.Artifact) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, a.Filename))
	c.Header("X-Export-ID", a.ID.String())
	c.Data(http.StatusOK, a.MIMEType, a.Data)
}

// respondError answers with the status derived from the error code
func (s *Server) respondError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	} else {
		s.logger.Debug("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}
