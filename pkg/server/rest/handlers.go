package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/lintang-b-s/routeplanner/pkg/datastructure"
	"github.com/lintang-b-s/routeplanner/pkg/server"
	"github.com/lintang-b-s/routeplanner/pkg/server/rest/service"
	"github.com/lintang-b-s/routeplanner/pkg/util"
)

type NavigationService interface {
	ShortestPath(ctx context.Context, startX, startY, endX, endY float64) (service.ShortestPathResult, error)
	ShortestPathLatLon(ctx context.Context, srcLat, srcLon, dstLat, dstLon float64) (service.ShortestPathResult, error)
}

type NavigationHandler struct {
	svc          NavigationService
	promeMetrics *metrics
}

func NavigatorRouter(r *chi.Mux, svc NavigationService, m *metrics) {
	handler := &NavigationHandler{svc, m}

	r.Group(func(r chi.Router) {
		r.Route("/api/navigations", func(r chi.Router) {
			r.Post("/shortest-path", handler.shortestPath)
			r.Post("/shortest-path-latlon", handler.shortestPathLatLon)
		})
	})
}

// ShortestPathRequest model info
//
//	@Description	request body for a* shortest path query, start & end in percent (0-100) of the map extent
type ShortestPathRequest struct {
	StartX float64 `json:"start_x" validate:"gte=0,lte=100"`
	StartY float64 `json:"start_y" validate:"gte=0,lte=100"`
	EndX   float64 `json:"end_x" validate:"gte=0,lte=100"`
	EndY   float64 `json:"end_y" validate:"gte=0,lte=100"`
}

func (s *ShortestPathRequest) Bind(r *http.Request) error {
	return nil
}

// ShortestPathLatLonRequest model info
//
//	@Description	request body for a* shortest path query between 2 locations on the openstreetmap map
type ShortestPathLatLonRequest struct {
	SrcLat *float64 `json:"src_lat" validate:"required,gte=-90,lte=90"`
	SrcLon *float64 `json:"src_lon" validate:"required,gte=-180,lte=180"`
	DstLat *float64 `json:"dst_lat" validate:"required,gte=-90,lte=90"`
	DstLon *float64 `json:"dst_lon" validate:"required,gte=-180,lte=180"`
}

func (s *ShortestPathLatLonRequest) Bind(r *http.Request) error {
	return nil
}

// ShortestPathResponse	model info
//
//	@Description	response body for a* shortest path query
type ShortestPathResponse struct {
	Path          string                     `json:"path"`
	Dist          float64                    `json:"distance"`
	Found         bool                       `json:"found"`
	ExpandedNodes int                        `json:"expanded_nodes"`
	Route         []datastructure.Coordinate `json:"route"`
	Alg           string                     `json:"algorithm"`
}

func NewShortestPathResponse(res service.ShortestPathResult) *ShortestPathResponse {
	route := res.Route
	if route == nil {
		route = []datastructure.Coordinate{}
	}
	return &ShortestPathResponse{
		Path:          res.Path,
		Dist:          util.RoundFloat(res.Distance, 2),
		Found:         res.Found,
		ExpandedNodes: res.ExpandedNodes,
		Route:         route,
		Alg:           "A* Algorithm",
	}
}

// shortestPath
//
//	@Summary		a* shortest path query between 2 points given in percent of the map extent.
//	@Description	a* shortest path query between 2 points given in percent (0-100) of the map extent. each point is snapped to the nearest road node
//	@Tags			navigations
//	@Param			body	body	ShortestPathRequest	true	"request body a* shortest path query"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/shortest-path [post]
//	@Success		200	{object}	ShortestPathResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *NavigationHandler) shortestPath(w http.ResponseWriter, r *http.Request) {
	data := &ShortestPathRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if !h.validate(w, r, data) {
		return
	}

	res, err := h.svc.ShortestPath(r.Context(), data.StartX, data.StartY, data.EndX, data.EndY)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	h.observeQuery(res)

	render.Status(r, http.StatusOK)
	render.JSON(w, r, NewShortestPathResponse(res))
}

// shortestPathLatLon
//
//	@Summary		a* shortest path query between 2 locations on the openstreetmap map.
//	@Description	a* shortest path query between 2 locations on the openstreetmap map. each location is snapped to the nearest road node with the h3 index
//	@Tags			navigations
//	@Param			body	body	ShortestPathLatLonRequest	true	"request body a* shortest path query"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/shortest-path-latlon [post]
//	@Success		200	{object}	ShortestPathResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *NavigationHandler) shortestPathLatLon(w http.ResponseWriter, r *http.Request) {
	data := &ShortestPathLatLonRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if !h.validate(w, r, data) {
		return
	}

	res, err := h.svc.ShortestPathLatLon(r.Context(), *data.SrcLat, *data.SrcLon, *data.DstLat, *data.DstLon)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	h.observeQuery(res)

	render.Status(r, http.StatusOK)
	render.JSON(w, r, NewShortestPathResponse(res))
}

func (h *NavigationHandler) observeQuery(res service.ShortestPathResult) {
	h.promeMetrics.SPQueryCount.WithLabelValues(strconv.FormatBool(res.Found)).Inc()
	if res.Found {
		h.promeMetrics.ExpandedNodes.Observe(float64(res.ExpandedNodes))
	}
}

func (h *NavigationHandler) validate(w http.ResponseWriter, r *http.Request, data interface{}) bool {
	validate := validator.New()
	if err := validate.Struct(data); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		render.Render(w, r, ErrValidation(err, vv))
		return false
	}
	return true
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

// ErrResponse model info
//
//	@Description	model for error response
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText    string   `json:"status"`          // user-level status message
	AppCode       int64    `json:"code,omitempty"`  // application-specific error code
	ErrorText     string   `json:"error,omitempty"` // application-level error message, for debugging
	ErrValidation []string `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return []error{err}
	}
	for _, e := range validatorErrs {
		translatedErr := fmt.Errorf("%s", e.Translate(trans))
		errs = append(errs, translatedErr)
	}
	return errs
}

func ErrValidation(err error, errV []error) render.Renderer {
	vv := []string{}
	for _, v := range errV {
		vv = append(vv, v.Error())
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
		ErrValidation:  vv,
	}
}

func ErrChi(err error) render.Renderer {
	statusText := ""
	switch getStatusCode(err) {
	case http.StatusNotFound:
		statusText = "Resource not found."
	case http.StatusInternalServerError:
		statusText = "Internal server error."
	case http.StatusBadRequest:
		statusText = "Bad request."
	default:
		statusText = "Error."
	}

	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: getStatusCode(err),
		StatusText:     statusText,
		ErrorText:      err.Error(),
	}
}

func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var ierr *server.Error
	if !errors.As(err, &ierr) {
		return http.StatusInternalServerError
	}
	switch ierr.Code() {
	case server.ErrInternalServerError:
		return http.StatusInternalServerError
	case server.ErrNotFound:
		return http.StatusNotFound
	case server.ErrBadParamInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
