package deepgram

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// TranscriptionClient is a live transcription session against the Deepgram
// streaming API. Construct with [NewTranscriptionClient], then call
// Transcribe to open the socket and start receiving hypotheses.
type TranscriptionClient struct {
	connMu sync.Mutex
	conn   *websocket.Conn

	lastMsgTs time.Time
	closed    bool
}

func NewTranscriptionClient() *TranscriptionClient {
	return &TranscriptionClient{}
}
