package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	herrors "github.com/hardfox-dev/hardfox/internal/errors"
	"github.com/hardfox-dev/hardfox/pkg/treefile"
	"github.com/hardfox-dev/hardfox/pkg/view"
)

type treeResponse struct {
	Seq   uint64          `json:"seq"`
	Nodes []treefile.Node `json:"nodes"`
}

type errorResponse struct {
	Error *herrors.Error `json:"error"`
}

// handleTree serves the last rendered tree.
func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	seq := s.sess.Seq()
	nodes := treefile.FromNodes(s.sess.Tree())
	writeJSON(w, http.StatusOK, treeResponse{Seq: seq, Nodes: nodes})
}

// handleEvent applies one JSON event and answers with the patches of the
// resulting render.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxEventBytes)

	var ev view.Event
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&ev); err != nil {
		s.writeError(w, herrors.New("E060").WithDetail("invalid event body").Wrap(err))
		return
	}
	ev.Value = normalizeNumber(ev.Value)

	report, err := s.sess.Dispatch(r.Context(), ev)
	if err != nil {
		s.writeError(w, err)
		return
	}

	res := treefile.FromResult(report.Result)
	res.Seq = report.Seq
	res.Full = report.Full
	writeJSON(w, http.StatusOK, res)
}

// normalizeNumber turns JSON numbers into int when they are integral, the
// way catalog values are typed.
func normalizeNumber(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return int(i)
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	he := herrors.FromError(err, "E020")
	status := statusFor(err, he)
	if status >= 500 {
		s.logger.Error("api error", "code", he.Code, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: he})
}

func statusFor(err error, he *herrors.Error) int {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	case he.Category == herrors.CategorySetting, he.Category == herrors.CategoryProtocol:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
