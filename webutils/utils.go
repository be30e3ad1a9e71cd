package webutils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mogaika/scene_encoder/logger"
)

func WriteFileHeaders(w http.ResponseWriter, name string) {
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+name+"\"")
}

func WriteFile(w http.ResponseWriter, in io.Reader, name string) {
	WriteFileHeaders(w, name)
	if _, err := io.Copy(w, in); err != nil {
		logger.Warn("Error when writing file response", zap.String("file", name), zap.Error(err))
	}
}

// WriteRendered renders into buffer first so a failed render still produces
// an error response instead of a truncated file
func WriteRendered(w http.ResponseWriter, name string, render func(w io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		WriteError(w, http.StatusInternalServerError, errors.Wrapf(err, "Failed to render %q", name))
		return
	}
	WriteFile(w, &buf, name)
}

func WriteJson(w http.ResponseWriter, data interface{}) {
	res, err := json.Marshal(data)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err)
	} else {
		w.Header().Set("Content-Type", "application/json")
		WriteResult(w, res)
	}
}

func WriteResult(w http.ResponseWriter, data []byte) {
	_, err := w.Write(data)
	if err != nil {
		logger.Warn("Error when writing response", zap.Error(err))
	}
}

func WriteError(w http.ResponseWriter, status int, err error) {
	type jError struct {
		Error string `json:"error"`
	}
	data, merr := json.Marshal(&jError{Error: err.Error()})
	if merr != nil {
		logger.Error("Error marshaling error", zap.Error(err), zap.NamedError("marshal", merr))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	logger.Debug("HERR", zap.Int("status", status), zap.ByteString("body", data))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	WriteResult(w, data)
}
