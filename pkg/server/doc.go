// Package server exposes a panel session over HTTP and websocket.
//
// Routes:
//
//	GET  /api/tree    the last rendered tree as JSON
//	POST /api/events  apply one JSON view.Event, answer with its patches
//	GET  /ws          binary patch stream (see package protocol)
//	GET  /metrics     Prometheus metrics
//
// A websocket client receives a ServerHello, then the whole panel as
// Create patches in a FlagFull frame, then one patches frame per render.
// Clients send FrameEvent frames; rejected events are answered with a
// FrameError carrying the error code.
//
//	srv := server.New(sess, server.DefaultServerConfig().WithAddress(":9000"))
//	err := srv.Run(ctx)
package server
