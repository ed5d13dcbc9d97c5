package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/awesome-arjun11/youtube-image-embed/internal/batch"
	"github.com/awesome-arjun11/youtube-image-embed/internal/capture"
	"github.com/awesome-arjun11/youtube-image-embed/internal/input"
	"github.com/awesome-arjun11/youtube-image-embed/internal/resolver"
	"github.com/awesome-arjun11/youtube-image-embed/internal/target"
	"github.com/awesome-arjun11/youtube-image-embed/internal/videoid"
)

const (
	FramePath  = "GET /frame/{ref}"
	StreamPath = "GET /stream/{ref}"
)

// HTTPError is an error with a status code to respond with.
type HTTPError struct {
	Code int
	Err  error
}

func (e *HTTPError) Error() string {
	return e.Err.Error()
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func badRequest(err error) error {
	return &HTTPError{Code: http.StatusBadRequest, Err: err}
}

// WithError turns a handler returning an error into an http.HandlerFunc.
func WithError(h func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}
		code := statusCode(err)
		slog.Error("handling request", "path", r.URL.Path, "code", code, "err", err)
		http.Error(w, fmt.Sprintf("%d %s", code, err), code)
	}
}

func statusCode(err error) int {
	var (
		httpErr   *HTTPError
		lookupErr *resolver.LookupError
		seekErr   *capture.SeekOutOfRangeError
	)
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.Is(err, videoid.ErrInvalidReference),
		errors.Is(err, batch.ErrMissingSource),
		errors.As(err, &seekErr):
		return http.StatusBadRequest
	case errors.Is(err, resolver.ErrNoFormats):
		return http.StatusNotFound
	case errors.As(err, &lookupErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (a *App) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(FramePath, WithError(a.FrameHandler))
	mux.HandleFunc(StreamPath, WithError(a.StreamHandler))
	return mux
}

// FrameHandler responds with the frame of a video at the time given by the
// t query parameter, or redirects to the video thumbnail if it is absent.
func (a *App) FrameHandler(w http.ResponseWriter, r *http.Request) error {
	query := r.URL.Query()
	buf := &target.Buffer{}

	outcome, err := a.Load(r.Context(), batch.Element{
		Source: r.PathValue("ref"),
		Time:   query.Get("t"),
		Width:  input.ParseDimension(query.Get("w")),
		Height: input.ParseDimension(query.Get("h")),
		Target: buf,
	})
	if err != nil {
		return fmt.Errorf("waiting for frame: %w", err)
	}
	if outcome.Err != nil {
		if outcome.Status == batch.StatusSkipped {
			return badRequest(outcome.Err)
		}
		return outcome.Err
	}

	if url := buf.LinkedURL(); url != "" {
		http.Redirect(w, r, url, http.StatusFound)
		return nil
	}

	img, ok := buf.Image()
	if !ok {
		return errors.New("no image was rendered")
	}
	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	if _, err := w.Write(img.Data); err != nil {
		return fmt.Errorf("writing image: %w", err)
	}

	return nil
}

// StreamHandler responds with the stream selected for a video and the
// width given by the w query parameter.
func (a *App) StreamHandler(w http.ResponseWriter, r *http.Request) error {
	id, err := videoid.Resolve(r.PathValue("ref"))
	if err != nil {
		return badRequest(err)
	}

	width := input.ParseDimension(r.URL.Query().Get("w"))
	if width == 0 {
		width = a.Config.DefaultWidth
	}
	if width == 0 {
		width = batch.DefaultWidth
	}

	stream, err := a.Resolver.Resolve(r.Context(), id, width)
	if err != nil {
		return fmt.Errorf("resolving stream: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stream); err != nil {
		return fmt.Errorf("writing json response: %w", err)
	}

	return nil
}
