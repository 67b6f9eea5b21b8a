package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/loopblock/loopblock/internal/busywork"
	"github.com/loopblock/loopblock/internal/eventloop"
	"github.com/loopblock/loopblock/internal/logging"
	"github.com/pkg/errors"
)

// Dispatcher routes requests to handlers. Every handler runs on the same
// event loop, so only one handler body executes at a time regardless of how
// many connections net/http is serving.
type Dispatcher struct {
	loop     *eventloop.Loop
	log      *logging.Logger
	routes   map[string]HandlerFunc
	notFound HandlerFunc
}

// NewDispatcher creates a Dispatcher that runs handlers on loop and uses sim
// for the slow route.
func NewDispatcher(loop *eventloop.Loop, sim *busywork.Simulator, log *logging.Logger) *Dispatcher {
	h := &handlers{sim: sim}
	return &Dispatcher{
		loop: loop,
		log:  log,
		routes: map[string]HandlerFunc{
			RouteRoot: h.root,
			RouteSlow: h.slow,
		},
		notFound: notFound,
	}
}

// ServeHTTP implements http.Handler. It returns once the request has been
// handled on the event loop.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	w.Header().Set(HeaderRequestID, id)
	log := d.log.WithField("request_id", id)

	if err := d.loop.Do(func() { d.dispatch(w, r, log) }); err != nil {
		uri := r.URL.RequestURI()
		log.Infof("Incoming request: %s %s", r.Method, uri)
		log.Errorf("Could not dispatch %s %s: %v", r.Method, uri, err)
		if err := writeInternalError(w); err != nil {
			log.Errorf("%v", err)
		}
	}
}

// dispatch runs on the event loop. It never panics.
func (d *Dispatcher) dispatch(w http.ResponseWriter, r *http.Request, log *logging.Logger) {
	uri := r.URL.RequestURI()
	log.Infof("Incoming request: %s %s", r.Method, uri)

	h, ok := d.routes[uri]
	if !ok {
		h = d.notFound
	}

	err := call(h, w, r)
	if err == nil {
		return
	}
	if isWriteFailure(err) {
		// Nothing more can reach the client.
		log.Errorf("%v", err)
		return
	}
	log.Errorf("Error processing request: %v", err)
	if err := writeInternalError(w); err != nil {
		log.Errorf("%v", err)
	}
}

func call(h HandlerFunc, w http.ResponseWriter, r *http.Request) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if e, ok := rec.(error); ok {
				err = errors.Wrap(e, "handler panicked")
				return
			}
			err = errors.Errorf("handler panicked: %v", rec)
		}
	}()
	return h(w, r)
}
