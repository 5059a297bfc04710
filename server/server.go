package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"geowell/config"
	"geowell/fluid"
	"geowell/formation"
	"geowell/model"
	"geowell/well"
)

var errUnknownType = errors.New("unknown message type")

type Server struct {
	cfg      *config.Config
	upgrader websocket.Upgrader
	store    formation.Store
	oracle   fluid.Oracle
	validate *validator.Validate
	registry *prometheus.Registry
	metrics  *Metrics
}

func NewServer(cfg *config.Config, upgrader websocket.Upgrader, store formation.Store, oracle fluid.Oracle) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if cache, ok := oracle.(*fluid.Cache); ok {
		registerCache(registry, cache)
	}
	return &Server{
		cfg:      cfg,
		upgrader: upgrader,
		store:    store,
		oracle:   oracle,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		registry: registry,
		metrics:  NewMetrics(registry),
	}
}

// serveWs handles websocket requests from the peer.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	s.metrics.Connections.Inc()
	defer s.metrics.Connections.Dec()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	hub := NewHub(s, conn)
	go hub.handleRequest(ctx)
	go hub.handleResponse(ctx)
	for {
		var msg model.Msg
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				hub.log.WithError(err).Warn("connection closed")
			}
			return
		}
		select {
		case hub.msg <- msg:
		case <-ctx.Done():
			return
		}
	}
}

// Handler returns the routes of the service
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWs)
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry}))
	return mux
}

func (s *Server) Serve() error {
	log.WithFields(log.Fields{
		"addr": s.cfg.Server.Addr,
	}).Info("geowell listening")
	return http.ListenAndServe(s.cfg.Server.Addr, s.Handler())
}

// Handle answers one request message
func (s *Server) Handle(ctx context.Context, msg model.Msg) model.Msg {
	start := time.Now()
	id := msg.ID
	if id == "" {
		id = uuid.NewString()
	}

	var (
		kind  = msg.Type
		reply string
		value interface{}
		err   error
	)
	switch msg.Type {
	case model.MsgSolve:
		var req model.SolveRequest
		if err = json.Unmarshal([]byte(msg.Content), &req); err == nil {
			value, err = s.Solve(id, req)
		}
		reply = model.MsgSolved
	case model.MsgSweep:
		var req model.SweepRequest
		if err = json.Unmarshal([]byte(msg.Content), &req); err == nil {
			value, err = s.Sweep(ctx, id, req)
		}
		reply = model.MsgSwept
	default:
		kind = "unknown"
		err = fmt.Errorf("%w: %q", errUnknownType, msg.Type)
	}

	var content []byte
	if err == nil {
		content, err = json.Marshal(value)
	}
	s.metrics.RecordRequest(kind, start, err)
	if err != nil {
		log.WithFields(log.Fields{
			"id":   id,
			"type": msg.Type,
		}).Warn("request failed: ", err)
		return model.Msg{Type: model.MsgError, ID: id, Content: err.Error()}
	}
	log.WithFields(log.Fields{
		"id":   id,
		"type": msg.Type,
		"cost": time.Since(start),
	}).Info("request handled")
	return model.Msg{Type: reply, ID: id, Content: string(content)}
}

// Solve computes the exit state of one well
func (s *Server) Solve(id string, req model.SolveRequest) (model.SolveReply, error) {
	if err := s.validate.Struct(req); err != nil {
		return model.SolveReply{}, err
	}
	job, err := s.job(id, req)
	if err != nil {
		return model.SolveReply{}, err
	}
	solver, err := well.NewSolver(s.store, s.oracle, job.Geometry, job.State, job.Params, s.options(req.Segments)...)
	if err != nil {
		return model.SolveReply{}, err
	}
	sol, err := solver.ComputeSolution()
	s.metrics.RecordSolve(sol, err)
	if err != nil {
		return model.SolveReply{}, err
	}
	return toReply(id, req.Operating.ElapsedYears, sol, req.Trace), nil
}

// Sweep solves the base request once per elapsed time on a bounded worker pool
func (s *Server) Sweep(ctx context.Context, id string, req model.SweepRequest) (model.SweepReply, error) {
	// the elapsed time of the base request is replaced by the swept values
	if err := s.validate.StructExcept(req, "Base.Operating.ElapsedYears"); err != nil {
		return model.SweepReply{}, err
	}
	jobs := make([]well.Job, len(req.ElapsedYears))
	for i, years := range req.ElapsedYears {
		base := req.Base
		base.Operating.ElapsedYears = years
		job, err := s.job(fmt.Sprintf("%s/%d", id, i), base)
		if err != nil {
			return model.SweepReply{}, err
		}
		jobs[i] = job
	}

	workers := req.Workers
	if workers < 1 || workers > s.cfg.Server.MaxWorkers {
		workers = s.cfg.Server.MaxWorkers
	}
	results, err := well.SolveAll(ctx, s.store, s.oracle, jobs, workers, s.options(req.Base.Segments)...)
	if err != nil {
		return model.SweepReply{}, err
	}

	reply := model.SweepReply{ID: id, Results: make([]model.SolveReply, len(results))}
	for i, r := range results {
		s.metrics.RecordSolve(r.Solution, r.Err)
		if r.Err != nil {
			reply.Results[i] = model.SolveReply{
				ID:           r.ID,
				Fluid:        req.Base.State.Fluid,
				ElapsedYears: req.ElapsedYears[i],
				Error:        r.Err.Error(),
			}
			continue
		}
		reply.Results[i] = toReply(r.ID, req.ElapsedYears[i], r.Solution, req.Base.Trace)
	}
	return reply, nil
}

// job converts a request into validated solver inputs
func (s *Server) job(id string, req model.SolveRequest) (well.Job, error) {
	g, err := well.NewGeometry(req.Geometry.VerticalLength, req.Geometry.HorizontalLength, req.Geometry.Radius)
	if err != nil {
		return well.Job{}, err
	}
	te := g.EntryFormationTemperature(s.store.Properties().SurfaceTemperature, req.Operating.GeothermalGradient)
	if req.State.FormationTemperature != nil {
		te = *req.State.FormationTemperature
	}
	st, err := well.NewInitialState(s.oracle, req.State.Fluid, req.State.Pressure, req.State.Temperature, te)
	if err != nil {
		return well.Job{}, err
	}
	op := req.Operating
	p, err := well.NewParameters(op.Roughness, op.ElapsedYears*model.SecondsPerYear, op.MassFlowRate, op.GeothermalGradient)
	if err != nil {
		return well.Job{}, err
	}
	return well.Job{ID: id, Geometry: g, State: st, Params: p}, nil
}

func (s *Server) options(segments int) []well.Option {
	opts := s.cfg.Options()
	if segments > 0 {
		opts = append(opts, well.WithSegments(segments))
	}
	return opts
}

func toReply(id string, years float64, sol *well.Solution, trace bool) model.SolveReply {
	reply := model.SolveReply{
		ID:             id,
		Fluid:          sol.Fluid,
		ElapsedYears:   years,
		EndPressure:    sol.EndPressure,
		EndTemperature: sol.EndTemperature,
		EndEnthalpy:    sol.EndEnthalpy,
	}
	if !trace {
		return reply
	}
	reply.Trace = make([]model.SegmentTrace, len(sol.Segments))
	for i, seg := range sol.Segments {
		reply.Trace[i] = model.SegmentTrace{
			Leg:                  seg.Leg.String(),
			Distance:             seg.Distance,
			Elevation:            seg.Elevation,
			Pressure:             seg.Pressure,
			Temperature:          seg.Temperature,
			Enthalpy:             seg.Enthalpy,
			Density:              seg.Density,
			FormationTemperature: seg.FormationTemperature,
			HeatFlow:             seg.HeatFlow,
			FrictionLoss:         seg.FrictionLoss,
			Iterations:           seg.Iterations,
		}
	}
	return reply
}
