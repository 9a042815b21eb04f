//    InferRolesGo
//    Copyright: S Crane 2025-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/sbcrane/InferRolesGo/internal/lnch"
	"github.com/sbcrane/InferRolesGo/internal/mm"
	"github.com/sbcrane/InferRolesGo/internal/str"
	"github.com/sbcrane/InferRolesGo/internal/vv"
)

// The run monitor serves whatever the sampler last pushed: an iteration counter over
// the websocket, the latest topic table, and the latest graph page. The sampler owns
// the model; the monitor only ever sees rendered copies, so there is nothing to lock
// but a few strings.

var (
	Upgrader = websocket.Upgrader{}
	monitor  = &runmonitor{}
)

type runmonitor struct {
	mtx      sync.RWMutex
	progress str.ProgressUpdate
	topics   string
	graph    []byte
	done     bool
}

// PushProgress - called by the sampler after every iteration
func PushProgress(pu str.ProgressUpdate) {
	monitor.mtx.Lock()
	defer monitor.mtx.Unlock()
	monitor.progress = pu
}

// PushTopics - called by the sampler on the topic report cadence
func PushTopics(tableau string) {
	monitor.mtx.Lock()
	defer monitor.mtx.Unlock()
	monitor.topics = tableau
}

// PushGraph - called by the sampler when a fresh graph page exists
func PushGraph(html []byte) {
	monitor.mtx.Lock()
	defer monitor.mtx.Unlock()
	monitor.graph = html
}

// MarkDone - the run is over; websocket loops drain and close
func MarkDone() {
	monitor.mtx.Lock()
	defer monitor.mtx.Unlock()
	monitor.done = true
}

// StartMonitor - serve the run monitor; this does not block; the caller shuts the server down
func StartMonitor(port int) *echo.Echo {
	const (
		MSG1 = "run monitor at http://%s:%d/"
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	e.GET("/", RtStatus)
	e.GET("/topics", RtTopics)
	e.GET("/graph", RtGraph)
	e.GET("/ws", RtWebsocket)

	go func() {
		err := e.Start(fmt.Sprintf("%s:%d", vv.MONITORHOST, port))
		if err != nil && err != http.ErrServerClosed {
			lnch.Msg.Emit(err.Error(), mm.MSGWARN)
		}
	}()

	lnch.Msg.Emit(fmt.Sprintf(MSG1, vv.MONITORHOST, port), mm.MSGNOTE)

	return e
}

// RtStatus - the latest progress as JSON
func RtStatus(c echo.Context) error {
	monitor.mtx.RLock()
	defer monitor.mtx.RUnlock()
	return c.JSONPretty(http.StatusOK, monitor.progress, vv.JSONINDENT)
}

// RtTopics - the latest topic tableau as plain text
func RtTopics(c echo.Context) error {
	monitor.mtx.RLock()
	defer monitor.mtx.RUnlock()
	return c.String(http.StatusOK, monitor.topics)
}

// RtGraph - the latest echarts page
func RtGraph(c echo.Context) error {
	const (
		NOTYET = "no graph yet: graphs render on the topic report cadence"
	)
	monitor.mtx.RLock()
	defer monitor.mtx.RUnlock()
	if len(monitor.graph) == 0 {
		return c.String(http.StatusOK, NOTYET)
	}
	return c.HTMLBlob(http.StatusOK, monitor.graph)
}

// RtWebsocket - progress info for the run (multiple clients at a time)
func RtWebsocket(c echo.Context) error {
	const (
		FAILCON = "RtWebsocket(): ws connection failed"
	)

	ws, err := Upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		lnch.Msg.Emit(FAILCON, mm.MSGNOTE)
		return nil
	}
	defer func() {
		_ = ws.Close()
	}()

	sent := -1
	for {
		monitor.mtx.RLock()
		pu := monitor.progress
		fin := monitor.done
		monitor.mtx.RUnlock()

		if pu.Iteration != sent {
			if err = ws.WriteJSON(pu); err != nil {
				return nil
			}
			sent = pu.Iteration
		}

		if fin {
			return nil
		}

		time.Sleep(vv.WSPOLLINGPAUSE)
	}
}
