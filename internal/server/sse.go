package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/candidate-ranker/internal/types"
)

// Extraction stream event payloads. Clients key off the SSE event name; the
// data line carries one of these as JSON.
type extractionStarted struct {
	CandidateID string `json:"candidate_id"`
}

type extractionFailed struct {
	Error string `json:"error"`
}

type extractionComplete struct {
	CandidateID string `json:"candidate_id"`
	Status      string `json:"status"`
}

// extractionStream writes the Server-Sent Events for one extraction run.
type extractionStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
	id      uuid.UUID
}

// newExtractionStream prepares SSE headers for streaming extraction progress
// of the given candidate. Fails if the ResponseWriter cannot flush.
func newExtractionStream(w http.ResponseWriter, id uuid.UUID) (*extractionStream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	return &extractionStream{w: w, flusher: flusher, id: id}, nil
}

// Started announces that extraction has begun for the candidate.
func (s *extractionStream) Started() {
	s.writeEvent("started", extractionStarted{CandidateID: s.id.String()})
}

// Fields streams the extracted field set.
func (s *extractionStream) Fields(fields *types.ExtractedFields) {
	s.writeEvent("fields", fields)
}

// Failed reports an extraction or persistence error and is the stream's last
// event when it fires.
func (s *extractionStream) Failed(message string) {
	s.writeEvent("error", extractionFailed{Error: message})
}

// Done closes the stream with a completion event.
func (s *extractionStream) Done() {
	s.writeEvent("complete", extractionComplete{CandidateID: s.id.String(), Status: "done"})
}

func (s *extractionStream) writeEvent(event string, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return
	}
	// The client disconnecting mid-stream is not recoverable; drop the event.
	_, _ = fmt.Fprintf(s.w, "event: %s\n", event)
	_, _ = fmt.Fprintf(s.w, "data: %s\n\n", jsonData)
	s.flusher.Flush()
}
