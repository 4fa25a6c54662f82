package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/RyanBlaney/sonido-sketch/algorithms/common"
	"github.com/RyanBlaney/sonido-sketch/analysis"
	"github.com/RyanBlaney/sonido-sketch/export"
	"github.com/RyanBlaney/sonido-sketch/logging"
	"github.com/RyanBlaney/sonido-sketch/transcode"
)

const (
	uploadField     = "file"
	multipartMemory = 32 << 20
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAnalyze accepts a multipart upload and returns the result.
// ?format=yaml or ?format=text selects another rendering.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	result, status, err := s.analyzeUpload(w, r)
	if err != nil {
		s.writeError(w, status, err)
		return
	}

	switch format {
	case export.FormatJSON:
		w.Header().Set("Content-Type", "application/json")
	case export.FormatYAML:
		w.Header().Set("Content-Type", "application/yaml")
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	w.WriteHeader(http.StatusOK)
	if err := export.Write(w, format, result); err != nil {
		s.logger.Error(err, "Failed to write response")
	}
}

// handleAnalyzeMIDI returns the melody sketch as a standard MIDI file
func (s *Server) handleAnalyzeMIDI(w http.ResponseWriter, r *http.Request) {
	result, status, err := s.analyzeUpload(w, r)
	if err != nil {
		s.writeError(w, status, err)
		return
	}

	midiFile, err := export.BuildMIDI(result)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "audio/midi")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "melody.mid"))
	w.WriteHeader(http.StatusOK)
	if _, err := midiFile.WriteTo(w); err != nil {
		s.logger.Error(err, "Failed to write midi response")
	}
}

func (s *Server) analyzeUpload(w http.ResponseWriter, r *http.Request) (*analysis.Result, int, error) {
	logger := s.logger.WithContext(r.Context()).WithFields(logging.Fields{
		"function": "analyzeUpload",
	})

	if s.config.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds %d bytes", tooLarge.Limit)
		}
		return nil, http.StatusBadRequest, fmt.Errorf("invalid multipart form: %w", err)
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("missing %q upload: %w", uploadField, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("failed to read upload: %w", err)
	}

	audioData, err := s.decoder.DecodeBytes(r.Context(), data)
	if err != nil {
		if errors.Is(err, transcode.ErrUnsupportedFormat) {
			return nil, http.StatusUnsupportedMediaType, err
		}
		return nil, http.StatusUnprocessableEntity, err
	}

	result, err := s.analyzer.Analyze(r.Context(), analysis.Input{
		FileName: header.Filename,
		Signal:   audioData.Signal(),
		Duration: audioData.Seconds(),
	})
	if err != nil {
		if errors.Is(err, common.ErrEmptySignal) || errors.Is(err, common.ErrInvalidSampleRate) {
			return nil, http.StatusUnprocessableEntity, err
		}
		return nil, http.StatusInternalServerError, err
	}

	logger.Info("Upload analyzed", logging.Fields{
		"file_name": header.Filename,
		"bpm":       result.BPM,
		"key":       result.Key,
	})

	return result, http.StatusOK, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(err, "Failed to write response", logging.Fields{"status": status})
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}
