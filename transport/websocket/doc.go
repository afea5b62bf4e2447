// Package websocket pushes live game updates to connected watchers.
//
// A central Hub tracks connections grouped by game id. Each connection
// runs a read pump and a write pump goroutine; the read pump only keeps
// the connection alive, commands travel over the REST API or MCP, and
// every resulting view change is broadcast here as JSON.
//
// Clients subscribe by game id via query parameter (?gameId=...) when
// establishing the connection. Messages carry the post-command view and
// any user-facing messages:
//
//	{"game_id": "...", "event": "view_update", "view": {...}, "messages": [...]}
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("gameId"))
//	})
package websocket
