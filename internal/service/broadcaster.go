package service

// Broadcaster pushes round lifecycle events to connected clients. The
// websocket hub implements it; the indirection avoids an import cycle
// between service and transport.
type Broadcaster interface {
	Broadcast(event string, payload interface{})
}
