package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/karenhsieh75/med-it-easy/internal/analysis"
	"github.com/karenhsieh75/med-it-easy/internal/imaging"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// AnalyzeStreamHandler runs analyses over a WebSocket connection. Each
// binary message is one encoded photo; the reply is the analysis result
// (or an error document) as JSON.
type AnalyzeStreamHandler struct {
	engine *analysis.Engine
}

// NewAnalyzeStreamHandler creates a new AnalyzeStreamHandler with the
// given engine.
func NewAnalyzeStreamHandler(engine *analysis.Engine) *AnalyzeStreamHandler {
	return &AnalyzeStreamHandler{engine: engine}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *AnalyzeStreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if msgType != websocket.BinaryMessage {
			continue
		}

		if err := conn.WriteJSON(h.analyze(data)); err != nil {
			break
		}
	}
}

// analyze decodes one frame and runs the pipeline, shaping terminal
// failures into the error result document.
func (h *AnalyzeStreamHandler) analyze(data []byte) *analysis.Result {
	img, err := imaging.Decode(data)
	if err != nil {
		return analysis.ErrorResult(errors.New("unable to decode the frame"))
	}

	result, err := h.engine.Analyze(img)
	if err != nil {
		return analysis.ErrorResult(err)
	}
	return result
}
