package reconfigure

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-navparams/pkg/model"
	"github.com/goliatone/go-navparams/pkg/openapi"
	"github.com/goliatone/go-navparams/pkg/render"
	"github.com/goliatone/go-navparams/pkg/values"
)

// Routes served by Handler.
const (
	PathParameters = "/parameters"
	PathSchema     = "/parameters/schema"
	PathForm       = "/parameters/form"
)

// HandlerOption configures the HTTP handler.
type HandlerOption func(*handler)

// WithFormRenderer enables GET /parameters/form using renderer (normally the
// HTML renderer).
func WithFormRenderer(renderer render.Renderer) HandlerOption {
	return func(h *handler) {
		h.renderer = renderer
	}
}

// WithFormOptions forwards options to the form model builder.
func WithFormOptions(options ...model.BuilderOption) HandlerOption {
	return func(h *handler) {
		h.formOptions = append(h.formOptions, options...)
	}
}

// WithDocumentOptions forwards options to the OpenAPI exporter.
func WithDocumentOptions(options ...openapi.Option) HandlerOption {
	return func(h *handler) {
		h.docOptions = append(h.docOptions, options...)
	}
}

// WithHandlerLogger sets the request logger.
func WithHandlerLogger(logger logrus.FieldLogger) HandlerOption {
	return func(h *handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

type handler struct {
	server      *Server
	renderer    render.Renderer
	formOptions []model.BuilderOption
	docOptions  []openapi.Option
	logger      logrus.FieldLogger
}

type errorResponse struct {
	Error  string         `json:"error"`
	Issues []values.Issue `json:"issues,omitempty"`
}

// NewHandler exposes server over HTTP:
//
//	GET  /parameters         current values (JSON)
//	PUT  /parameters         partial JSON update
//	POST /parameters         HTML form submission, redirects back to the form
//	GET  /parameters/schema  OpenAPI document (?format=yaml for YAML)
//	GET  /parameters/form    HTML form, when a renderer is configured
func NewHandler(server *Server, options ...HandlerOption) (http.Handler, error) {
	if server == nil {
		return nil, errors.New("reconfigure: server is nil")
	}
	h := &handler{server: server, logger: discardLogger()}
	for _, opt := range options {
		if opt != nil {
			opt(h)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+PathParameters, h.getParameters)
	mux.HandleFunc("PUT "+PathParameters, h.putParameters)
	mux.HandleFunc("GET "+PathSchema, h.getSchema)
	if h.renderer != nil {
		mux.HandleFunc("GET "+PathForm, h.getForm)
		mux.HandleFunc("POST "+PathParameters, h.postForm)
	}
	return mux, nil
}

func (h *handler) getParameters(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.server.Current())
}

func (h *handler) putParameters(w http.ResponseWriter, r *http.Request) {
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	var update map[string]any
	if err := decoder.Decode(&update); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("decode body: %v", err)})
		return
	}

	current, err := h.server.Update(r.Context(), update)
	if err != nil {
		h.writeUpdateError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, current)
}

func (h *handler) getSchema(w http.ResponseWriter, r *http.Request) {
	doc, err := openapi.Document(h.server.Schema(), h.docOptions...)
	if err != nil {
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	var (
		payload     []byte
		contentType = "application/json"
	)
	if strings.EqualFold(r.URL.Query().Get("format"), "yaml") {
		payload, err = openapi.MarshalYAML(doc)
		contentType = "application/yaml"
	} else {
		payload, err = openapi.MarshalJSON(doc)
	}
	if err != nil {
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(payload)
}

func (h *handler) getForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, render.RenderOptions{Values: h.server.Current()}, nil)
}

func (h *handler) postForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("parse form: %v", err)})
		return
	}
	update, issues := decodeForm(h.server.Schema(), r.PostForm)
	if len(issues) == 0 {
		_, err := h.server.Update(r.Context(), update)
		if err == nil {
			http.Redirect(w, r, PathForm, http.StatusSeeOther)
			return
		}
		if !errors.Is(err, ErrRejected) {
			h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		issues = issuePayload(err)
	}

	// Echo what the user typed so the form can be corrected in place.
	shown := map[string]any(h.server.Current())
	for name, raw := range r.PostForm {
		if typed, ok := update[name]; ok {
			shown[name] = typed
		} else if len(raw) > 0 {
			shown[name] = raw[len(raw)-1]
		}
	}
	h.renderForm(w, r, http.StatusUnprocessableEntity, render.RenderOptions{Values: shown}, issues)
}

func (h *handler) renderForm(w http.ResponseWriter, r *http.Request, status int, opts render.RenderOptions, issues map[string][]string) {
	formOptions := append([]model.BuilderOption{model.WithEndpoint(http.MethodPost, PathParameters)}, h.formOptions...)
	form, err := model.Build(h.server.Schema(), formOptions...)
	if err != nil {
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if len(issues) > 0 {
		mapping := render.MapErrorPayload(form, issues)
		opts.Errors = mapping.Fields
		opts.FormErrors = render.MergeFormErrors(opts.FormErrors, mapping.Form...)
	}
	out, err := h.renderer.Render(r.Context(), form, opts)
	if err != nil {
		h.logger.WithError(err).Error("reconfigure: render form")
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	w.Header().Set("Content-Type", h.renderer.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

func (h *handler) writeUpdateError(w http.ResponseWriter, err error) {
	var verr *values.ValidationError
	if errors.As(err, &verr) {
		h.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Issues: verr.Issues})
		return
	}
	h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(payload); err != nil {
		h.logger.WithError(err).Error("reconfigure: encode response")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func issuePayload(err error) map[string][]string {
	payload := make(map[string][]string)
	var verr *values.ValidationError
	if !errors.As(err, &verr) {
		payload[""] = []string{err.Error()}
		return payload
	}
	for _, issue := range verr.Issues {
		message := issue.Message
		if message == "unknown parameter" {
			message = "unknown parameter " + issue.Field
		}
		payload[issue.Field] = append(payload[issue.Field], message)
	}
	return payload
}
