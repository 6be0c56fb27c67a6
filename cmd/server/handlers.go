package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/xtding233/gacha-odds/internal/gacha"
	"github.com/xtding233/gacha-odds/internal/game"
	"github.com/xtding233/gacha-odds/internal/odds"
)

type errResp struct {
	Err string `json:"err"`
}

type handlers struct {
	svc     *odds.Service
	log     *slog.Logger
	timeout time.Duration
}

func newMux(svc *odds.Service, log *slog.Logger, timeout time.Duration) *http.ServeMux {
	h := &handlers{svc: svc, log: log, timeout: timeout}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /odds", h.handleOdds)
	mux.HandleFunc("GET /dice", h.handleDice)
	return mux
}

func parseFloat(r *http.Request, key string) (float64, bool, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, false, ""
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, "invalid " + key
	}
	return v, true, ""
}

func parseInt(r *http.Request, key string) (int, bool, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, false, ""
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, "invalid " + key
	}
	return v, true, ""
}

// parseFloats reads a comma-separated list such as off_probs=0.5,0.25.
func parseFloats(r *http.Request, key string) ([]float64, bool, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return nil, false, ""
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, false, "invalid " + key
		}
		out = append(out, v)
	}
	return out, true, ""
}

// overrides collects the optional per-request model params.
func overrides(r *http.Request) (game.Overrides, string) {
	var o game.Overrides
	for _, key := range []string{"p_base", "start_pct", "target", "increment"} {
		v, ok, msg := parseFloat(r, key)
		if msg != "" {
			return o, msg
		}
		if !ok {
			continue
		}
		switch key {
		case "p_base":
			o.PBase = &v
		case "start_pct":
			o.StartPct = &v
		case "target":
			o.Target = &v
		case "increment":
			o.Increment = &v
		}
	}
	for _, key := range []string{"start", "cushion", "max_off"} {
		v, ok, msg := parseInt(r, key)
		if msg != "" {
			return o, msg
		}
		if !ok {
			continue
		}
		switch key {
		case "start":
			o.StartAt = &v
		case "cushion":
			o.Cushion = &v
		case "max_off":
			o.MaxOff = &v
		}
	}
	offProbs, ok, msg := parseFloats(r, "off_probs")
	if msg != "" {
		return o, msg
	}
	if ok {
		o.OffProbs = &offProbs
	}
	if easing := r.URL.Query().Get("easing"); easing != "" {
		o.Easing = &easing
	}
	return o, ""
}

// GET /odds?game=g&pool=p&goal=first_up&draws=90&cushion=10
func (h *handlers) handleOdds(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := odds.PullRequest{
		Game: q.Get("game"),
		Pool: q.Get("pool"),
		Goal: gacha.TrialGoal(q.Get("goal")),
	}
	if req.Game == "" {
		writeJSON(w, http.StatusBadRequest, errResp{Err: "missing param game"})
		return
	}
	draws, _, msg := parseInt(r, "draws")
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, errResp{Err: msg})
		return
	}
	req.Draws = draws
	if req.BudgetCents, _, msg = parseInt(r, "budget_cents"); msg != "" {
		writeJSON(w, http.StatusBadRequest, errResp{Err: msg})
		return
	}
	if ft := q.Get("first_time"); ft != "" {
		req.FirstTime = strings.Split(ft, ",")
	}
	if req.Overrides, msg = overrides(r); msg != "" {
		writeJSON(w, http.StatusBadRequest, errResp{Err: msg})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	rep, err := h.svc.Pull(ctx, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// GET /dice?roll=2d6&given=x>=8
func (h *handlers) handleDice(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("roll") == "" {
		writeJSON(w, http.StatusBadRequest, errResp{Err: "missing param roll"})
		return
	}
	rep, err := h.svc.Dice(q.Get("roll"), q.Get("given"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	if odds.IsClientError(err) {
		writeJSON(w, http.StatusBadRequest, errResp{Err: err.Error()})
		return
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		h.log.Warn("request gave up", "path", r.URL.Path, "query", r.URL.RawQuery, "err", err)
		writeJSON(w, http.StatusServiceUnavailable, errResp{Err: "request timed out"})
		return
	}
	h.log.Error("request failed", "path", r.URL.Path, "query", r.URL.RawQuery, "err", err)
	writeJSON(w, http.StatusInternalServerError, errResp{Err: "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
