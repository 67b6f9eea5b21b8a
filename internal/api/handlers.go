package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/loopblock/loopblock/internal/busywork"
	"github.com/loopblock/loopblock/internal/logging"
)

// Route paths. Requests are matched against these exactly, query included.
const (
	RouteRoot = "/"
	RouteSlow = "/slow"
)

const (
	greetingMessage = "Hello from the Go server!"
	notFoundMessage = "Page not found"
)

// HandlerFunc produces the response for one request. A returned error (or a
// panic) is turned into a 500 by the Dispatcher.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Route describes a known route for banners and listings.
type Route struct {
	Method      string
	Path        string
	Description string
	// Category tags the route in the startup banner.
	Category logging.Category
}

// Routes returns the routes served for a slow duration of d.
func Routes(d time.Duration) []Route {
	return []Route{
		{Method: http.MethodGet, Path: RouteRoot, Description: "fast response", Category: logging.Fast},
		{Method: http.MethodGet, Path: RouteSlow, Description: fmt.Sprintf("slow response (%s)", DescribeDuration(d)), Category: logging.Slow},
	}
}

// DescribeDuration renders d for humans, e.g. "10 seconds". Durations that
// are not a whole number of seconds, minutes or hours are printed exactly,
// e.g. "1.5s", since humanize would round them down.
func DescribeDuration(d time.Duration) string {
	if !wholeUnits(d) {
		return d.String()
	}
	var zero time.Time
	return strings.TrimSpace(humanize.RelTime(zero, zero.Add(d), "", ""))
}

// wholeUnits reports whether humanize prints d without losing precision.
func wholeUnits(d time.Duration) bool {
	switch {
	case d < time.Second:
		return false
	case d < time.Minute:
		return d%time.Second == 0
	case d < time.Hour:
		return d%time.Minute == 0
	case d < 24*time.Hour:
		return d%time.Hour == 0
	default:
		return false
	}
}

type handlers struct {
	sim *busywork.Simulator
}

// root answers immediately.
func (h *handlers) root(w http.ResponseWriter, r *http.Request) error {
	return writeJSON(w, http.StatusOK, Payload{
		Message:   greetingMessage,
		Timestamp: logging.Now(),
	})
}

// slow runs the blocking work on the caller's execution context before answering.
func (h *handlers) slow(w http.ResponseWriter, r *http.Request) error {
	result := h.sim.Run()

	return writeJSON(w, http.StatusOK, Payload{
		Message:   result,
		Timestamp: logging.Now(),
		Note:      fmt.Sprintf("This request blocked the dispatch loop for %s!", DescribeDuration(h.sim.Duration())),
	})
}

func notFound(w http.ResponseWriter, r *http.Request) error {
	return writeJSON(w, http.StatusNotFound, Payload{
		Message:   notFoundMessage,
		Timestamp: logging.Now(),
	})
}
