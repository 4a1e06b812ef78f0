package http

import (
	"mime"
	"net/http"

	"github.com/aussiebroadwan/jdmatchr/internal/gateway/backend"
	"github.com/aussiebroadwan/jdmatchr/internal/gateway/domain"
	"github.com/aussiebroadwan/jdmatchr/internal/gateway/service"
	"github.com/aussiebroadwan/jdmatchr/pkg/httpx"
	"github.com/google/uuid"
)

// MaxUploadBody caps a resume/job-description upload.
const MaxUploadBody = 20 << 20

// InsightsHandler forwards the analysis routes to the Analysis Backend with
// the caller's session token.
type InsightsHandler struct {
	Proxy *service.AuthenticatedProxy
	Dev   bool
}

// HandleProcess godoc
//
//	@Summary		Run Analysis
//	@Description	Forwards the multipart upload (resume and job description) to the Analysis Backend unchanged.
//	@Tags			Insights
//	@Accept			multipart/form-data
//	@Produce		json
//	@Success		200	{object}	map[string]any	"insightId and analysis summary"
//	@Failure		400	{object}	ErrorResponse	"not a multipart body"
//	@Failure		401	{object}	ErrorResponse	"no session"
//	@Failure		413	{object}	ErrorResponse	"upload over 20 MiB"
//	@Failure		502	{object}	ErrorResponse	"backend unreachable"
//	@Security		SessionCookie
//	@Router			/api/analyze/process [post].
func (h *InsightsHandler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	// Session first, so an anonymous caller learns nothing about the body rules.
	if h.Proxy.Reader.Token(r) == "" {
		writeError(w, domain.Unauthorized("Unauthorized: Session token missing."), h.Dev)
		return
	}

	ct := r.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(ct); err != nil || mt != "multipart/form-data" {
		writeError(w, domain.Validation("Invalid request body: Expected FormData."), h.Dev)
		return
	}
	if r.ContentLength > MaxUploadBody {
		writeError(w, &domain.ProxiedError{
			StatusCode: http.StatusRequestEntityTooLarge,
			Message:    "Analysis processing failed. Upload too large.",
		}, h.Dev)
		return
	}

	h.forward(w, r, service.Call{
		Endpoint:    "process",
		Failure:     "Analysis processing failed",
		Method:      http.MethodPost,
		Path:        backend.PathInsightsProcess,
		Body:        http.MaxBytesReader(w, r.Body, MaxUploadBody),
		ContentType: ct,
		Shape:       service.ShapeObject,
	})
}

// HandleHistory godoc
//
//	@Summary		Insight History
//	@Description	Lists the caller's past analyses, newest first as ordered by the backend.
//	@Tags			Insights
//	@Produce		json
//	@Success		200	{array}		map[string]any
//	@Failure		401	{object}	ErrorResponse	"no session"
//	@Failure		502	{object}	ErrorResponse	"backend unreachable"
//	@Security		SessionCookie
//	@Router			/api/insights/history [get].
func (h *InsightsHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, service.Call{
		Endpoint: "history",
		Failure:  "Failed to fetch insights history",
		Method:   http.MethodGet,
		Path:     backend.PathInsightsHistory,
		Shape:    service.ShapeArray,
	})
}

// HandleLatest godoc
//
//	@Summary		Latest Insight
//	@Description	Returns the id of the caller's most recent analysis, or null when there is none.
//	@Tags			Insights
//	@Produce		json
//	@Success		200	{object}	LatestInsightResponse
//	@Failure		401	{object}	ErrorResponse	"no session"
//	@Failure		502	{object}	ErrorResponse	"backend unreachable"
//	@Security		SessionCookie
//	@Router			/api/insights/get-latest-id [get].
func (h *InsightsHandler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, service.Call{
		Endpoint: "latest",
		Failure:  "Failed to fetch latest insight ID",
		Method:   http.MethodGet,
		Path:     backend.PathInsightsLatest,
		Shape:    service.ShapeLatest,
	})
}

// HandleDetail godoc
//
//	@Summary		Insight Detail
//	@Description	Returns one analysis. The id must be a UUID.
//	@Tags			Insights
//	@Produce		json
//	@Param			id	path		string	true	"Insight id"	Format(uuid)
//	@Success		200	{object}	map[string]any
//	@Failure		400	{object}	ErrorResponse	"id is not a UUID"
//	@Failure		401	{object}	ErrorResponse	"no session"
//	@Failure		404	{object}	ErrorResponse	"not found upstream"
//	@Failure		502	{object}	ErrorResponse	"backend unreachable"
//	@Security		SessionCookie
//	@Router			/api/insights/detail/{id} [get].
func (h *InsightsHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, domain.Validation("Invalid insight ID."), h.Dev)
		return
	}

	h.forward(w, r, service.Call{
		Endpoint: "detail",
		Failure:  "Failed to fetch insight details",
		Method:   http.MethodGet,
		Path:     backend.PathInsight(id.String()),
		Shape:    service.ShapeObject,
	})
}

func (h *InsightsHandler) forward(w http.ResponseWriter, r *http.Request, call service.Call) {
	res, err := h.Proxy.Forward(r.Context(), r, call)
	if err != nil {
		writeError(w, err, h.Dev)
		return
	}
	httpx.WriteRawJSON(w, res.StatusCode, res.Body)
}
